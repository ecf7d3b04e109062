package queries

import (
	"context"

	"staybook/internal/domain/user"
	"staybook/internal/infra"
	"staybook/internal/pkg/errs"

	"github.com/google/uuid"
)

type PaymentQueries interface {
	GetByID(ctx context.Context, actor Actor, id uuid.UUID) (*PaymentView, error)
	ListByReservation(ctx context.Context, actor Actor, reservationID uuid.UUID) ([]*PaymentView, error)
}

type PaymentViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PaymentView, error)
	FindByReservation(ctx context.Context, reservationID uuid.UUID) ([]*PaymentView, error)
	// FindParties resolves the guest and host ids behind a reservation for
	// authorization.
	FindParties(ctx context.Context, reservationID uuid.UUID) (guestID, hostID uuid.UUID, err error)
}

type paymentQueriesImpl struct {
	repo PaymentViewRepo
}

func NewPaymentQueries(repo PaymentViewRepo) PaymentQueries {
	return &paymentQueriesImpl{repo: repo}
}

func (q *paymentQueriesImpl) GetByID(ctx context.Context, actor Actor, id uuid.UUID) (*PaymentView, error) {
	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrPaymentNotFound)
		}
		return nil, errs.Mark(err, ErrQueryFailed)
	}
	if err := q.authorize(ctx, actor, view.ReservationID); err != nil {
		return nil, err
	}
	return view, nil
}

// ListByReservation returns the full ledger trail for a reservation, refund
// records included, newest first.
func (q *paymentQueriesImpl) ListByReservation(ctx context.Context, actor Actor, reservationID uuid.UUID) ([]*PaymentView, error) {
	if err := q.authorize(ctx, actor, reservationID); err != nil {
		return nil, err
	}
	views, err := q.repo.FindByReservation(ctx, reservationID)
	if err != nil {
		return nil, errs.Mark(err, ErrQueryFailed)
	}
	return views, nil
}

func (q *paymentQueriesImpl) authorize(ctx context.Context, actor Actor, reservationID uuid.UUID) error {
	if actor.Role == user.RoleAdmin {
		return nil
	}
	guestID, hostID, err := q.repo.FindParties(ctx, reservationID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return errs.Mark(err, ErrReservationNotFound)
		}
		return errs.Mark(err, ErrQueryFailed)
	}
	if actor.ID != guestID && actor.ID != hostID {
		return ErrNotAuthorized
	}
	return nil
}
