package commands

import (
	"context"
	"time"

	"staybook/internal/domain/payment"
	"staybook/internal/domain/property"
	"staybook/internal/domain/reservation"
	"staybook/internal/domain/user"
	"staybook/internal/infra/gateway"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TxManager scopes a function to one database transaction. Repository calls
// made inside fn share it through the context.
type TxManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type ReservationRepository interface {
	Create(ctx context.Context, res *reservation.Reservation) error
	FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	Update(ctx context.Context, res *reservation.Reservation) error
	LockProperty(ctx context.Context, propertyID uuid.UUID) error
	HasOverlap(ctx context.Context, propertyID uuid.UUID, period reservation.StayPeriod, excludeID *uuid.UUID) (bool, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, p *payment.Payment) error
	FindByID(ctx context.Context, id uuid.UUID) (*payment.Payment, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*payment.Payment, error)
	FindByGatewayReference(ctx context.Context, reference string) (*payment.Payment, error)
	FindCapturableByReservation(ctx context.Context, reservationID uuid.UUID) (*payment.Payment, error)
	HasOpenIntent(ctx context.Context, reservationID uuid.UUID) (bool, error)
	Update(ctx context.Context, p *payment.Payment) error
	ReleaseHeld(ctx context.Context, id uuid.UUID, payout decimal.Decimal, releasedAt time.Time) (bool, error)
	FindDueHeld(ctx context.Context, now time.Time, limit int) ([]*payment.Payment, error)
}

type PropertyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*property.Property, error)
}

type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, recipientID uuid.UUID, topic string, payload []byte, runAt time.Time) error
}

// PaymentGateway is the outbound escrow processor adapter.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, amount decimal.Decimal, currency string, metadata map[string]string) (gateway.Intent, error)
	Refund(ctx context.Context, reference string) (refundReference string, err error)
}
