package repository

import (
	"context"
	"time"

	"staybook/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NotificationRepository writes outbox rows in the same transaction as the
// state change that caused them. A separate relay owns delivery.
type NotificationRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

func (r *NotificationRepository) CreateJob(ctx context.Context, recipientID uuid.UUID, topic string, payload []byte, runAt time.Time) error {
	const stmt = `
INSERT INTO notification_jobs (id, recipient_id, topic, payload, run_at, created_at)
VALUES ($1, $2, $3, $4, $5, $5)`

	_, err := db(ctx, r.pool).Exec(ctx, stmt, uuid.New(), recipientID, topic, payload, runAt)
	if err != nil {
		return infra.WrapRepoErr("failed to enqueue notification job", err)
	}
	return nil
}
