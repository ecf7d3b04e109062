//go:build unit || integration

package httptest

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertSuccessResponse checks the status code and optionally decodes the body.
func AssertSuccessResponse(t *testing.T, rec *httptest.ResponseRecorder, expectCode int, target any) {
	t.Helper()
	require.Equal(t, expectCode, rec.Code, "unexpected status, body: %s", rec.Body.String())
	if target != nil {
		DecodeResponseBody(t, rec.Body, target)
	}
}

// AssertErrorResponse checks the status code and, when given, that the error
// message matches.
func AssertErrorResponse(t *testing.T, rec *httptest.ResponseRecorder, expectCode int, expectMessage string) {
	t.Helper()
	require.Equal(t, expectCode, rec.Code, "unexpected status, body: %s", rec.Body.String())

	if expectMessage == "" {
		return
	}
	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, expectMessage, body.Error.Message)
}
