package commands

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Notification topics emitted by the core. The outbox relay owns transport.
const (
	TopicReservationCreated   = "reservation_created"
	TopicReservationConfirmed = "reservation_confirmed"
	TopicReservationRejected  = "reservation_rejected"
	TopicReservationCancelled = "reservation_cancelled"
	TopicPaymentCaptured      = "payment_captured"
	TopicPaymentFailed        = "payment_failed"
	TopicPaymentReleased      = "payment_released"
	TopicPaymentRefunded      = "payment_refunded"
)

type notifier struct {
	jobs NotificationRepository
}

// emit enqueues one outbox row; it must be called inside the transaction that
// produced the state change so notification and transition commit together.
func (n *notifier) emit(ctx context.Context, recipientID uuid.UUID, topic string, fields map[string]any, now time.Time) error {
	payload, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	return n.jobs.CreateJob(ctx, recipientID, topic, payload, now)
}
