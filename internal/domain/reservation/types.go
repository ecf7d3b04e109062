package reservation

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusPaid       Status = "paid"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusRejected   Status = "rejected"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPaid, StatusInProgress,
		StatusCompleted, StatusCancelled, StatusRejected:
		return true
	default:
		return false
	}
}

// IsActive reports whether the reservation blocks its dates for other guests.
func (s Status) IsActive() bool {
	switch s {
	case StatusConfirmed, StatusPaid, StatusInProgress:
		return true
	default:
		return false
	}
}

func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusRejected:
		return true
	default:
		return false
	}
}

// ActiveStatuses is the set availability queries filter on.
func ActiveStatuses() []Status {
	return []Status{StatusConfirmed, StatusPaid, StatusInProgress}
}
