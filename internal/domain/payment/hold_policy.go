package payment

import "time"

// HoldAnchor names the instant the hold window counts from. The source
// material was ambiguous between capture time and checkin, so the anchor is
// explicit configuration rather than an inferred constant.
type HoldAnchor string

const (
	AnchorCapture HoldAnchor = "capture"
	AnchorCheckin HoldAnchor = "checkin"
)

// HoldPolicy computes when held funds become eligible for release.
type HoldPolicy struct {
	Window time.Duration
	Anchor HoldAnchor
}

// HoldUntil resolves the release eligibility instant for a capture happening
// at capturedAt for a stay starting at checkin.
func (p HoldPolicy) HoldUntil(capturedAt, checkin time.Time) time.Time {
	switch p.Anchor {
	case AnchorCapture:
		return capturedAt.Add(p.Window)
	default:
		return checkin.Add(p.Window)
	}
}
