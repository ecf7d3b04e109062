package errs

import (
	"fmt"
	"strings"

	cr "github.com/cockroachdb/errors"
)

func New(msg string) error {
	return cr.New(msg)
}

func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return cr.Wrap(err, msg)
}

// Mark attaches markErr as an equivalence marker while the original cause is
// preserved for logging. Marks live outside the Unwrap chain, so matching has
// to go through Is below; the stdlib errors.Is cannot see them.
func Mark(err error, markErr error) error {
	if err == nil {
		return markErr
	}
	return cr.Mark(err, markErr)
}

// Is reports whether reference appears in err's chain, including markers
// attached with Mark.
func Is(err error, reference error) bool {
	return cr.Is(err, reference)
}

// Combine folds a new error into an accumulator, keeping the first error as
// the primary one. Either side may be nil.
func Combine(err error, other error) error {
	return cr.CombineErrors(err, other)
}

func ExtractStackLines(err error, maxLines int) []string {
	if err == nil {
		return nil
	}
	s := fmt.Sprintf("%+v", err)
	lines := strings.Split(s, "\n")
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return lines
}
