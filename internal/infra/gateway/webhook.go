package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"staybook/internal/pkg/errs"
)

var (
	ErrInvalidSignature = errs.New("webhook signature verification failed")
	ErrMalformedEvent   = errs.New("malformed webhook event")
)

// Event types delivered by the processor.
const (
	EventPaymentSucceeded = "payment.succeeded"
	EventPaymentFailed    = "payment.failed"
)

type WebhookEvent struct {
	Type      string `json:"type"`
	Reference string `json:"reference"`
	Reason    string `json:"reason,omitempty"`
}

// WebhookVerifier checks the HMAC-SHA256 signature the processor computes
// over the raw request body with the shared secret.
type WebhookVerifier struct {
	secret []byte
}

func NewWebhookVerifier(secret string) *WebhookVerifier {
	return &WebhookVerifier{secret: []byte(secret)}
}

// ParseEvent verifies the signature header ("v1=<hex>") and decodes the
// payload. Delivery is at-least-once; the caller must treat events as
// possibly repeated.
func (v *WebhookVerifier) ParseEvent(body []byte, signatureHeader string) (WebhookEvent, error) {
	provided, ok := strings.CutPrefix(signatureHeader, "v1=")
	if !ok {
		return WebhookEvent{}, ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, v.secret)
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(provided)) {
		return WebhookEvent{}, ErrInvalidSignature
	}

	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return WebhookEvent{}, errs.Mark(err, ErrMalformedEvent)
	}
	if event.Type == "" || event.Reference == "" {
		return WebhookEvent{}, ErrMalformedEvent
	}
	return event, nil
}

// Sign computes the signature header value for a payload. Tests and the local
// gateway stub use it to produce authentic deliveries.
func (v *WebhookVerifier) Sign(body []byte) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(body)
	return "v1=" + hex.EncodeToString(mac.Sum(nil))
}
