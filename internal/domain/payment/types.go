package payment

type Status string

const (
	StatusPending  Status = "pending"
	StatusCaptured Status = "captured"
	StatusHeld     Status = "held"
	StatusReleased Status = "released"
	StatusRefunded Status = "refunded"
	StatusFailed   Status = "failed"
	StatusDisputed Status = "disputed"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusCaptured, StatusHeld, StatusReleased,
		StatusRefunded, StatusFailed, StatusDisputed:
		return true
	default:
		return false
	}
}

// IsCapturable reports whether the record holds (or will hold) real funds.
// At most one such record may exist per reservation.
func (s Status) IsCapturable() bool {
	switch s {
	case StatusCaptured, StatusHeld, StatusReleased, StatusDisputed:
		return true
	default:
		return false
	}
}

// IsRefundable reports whether captured funds can still go back to the guest.
func (s Status) IsRefundable() bool {
	switch s {
	case StatusCaptured, StatusHeld, StatusDisputed:
		return true
	default:
		return false
	}
}

func (s Status) IsTerminal() bool {
	switch s {
	case StatusFailed, StatusReleased, StatusRefunded:
		return true
	default:
		return false
	}
}
