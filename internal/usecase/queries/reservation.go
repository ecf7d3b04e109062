package queries

import (
	"context"
	"time"

	"staybook/internal/domain/user"
	"staybook/internal/infra"
	"staybook/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrReservationNotFound = errs.New("reservation not found")
	ErrPaymentNotFound     = errs.New("payment not found")
	ErrNotAuthorized       = errs.New("actor is not allowed to view this record")
	ErrQueryFailed         = errs.New("query failed")
)

type ReservationQueries interface {
	GetByID(ctx context.Context, actor Actor, id uuid.UUID) (*ReservationView, error)
	ListByGuest(ctx context.Context, actor Actor, after *Cursor, limit int) ([]*ReservationListItem, *Cursor, error)
	ListByHost(ctx context.Context, actor Actor, after *Cursor, limit int) ([]*ReservationListItem, *Cursor, error)
}

type ReservationViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	FindByGuest(ctx context.Context, guestID uuid.UUID, afterCreatedAt *time.Time, afterID *uuid.UUID, limit int32) ([]*ReservationListItem, error)
	FindByHost(ctx context.Context, hostID uuid.UUID, afterCreatedAt *time.Time, afterID *uuid.UUID, limit int32) ([]*ReservationListItem, error)
}

type reservationQueriesImpl struct {
	repo ReservationViewRepo
}

func NewReservationQueries(repo ReservationViewRepo) ReservationQueries {
	return &reservationQueriesImpl{repo: repo}
}

// GetByID is visible to the guest who booked, the host of the property, and
// admins.
func (q *reservationQueriesImpl) GetByID(ctx context.Context, actor Actor, id uuid.UUID) (*ReservationView, error) {
	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrReservationNotFound)
		}
		return nil, errs.Mark(err, ErrQueryFailed)
	}
	if actor.Role != user.RoleAdmin && actor.ID != view.GuestID && actor.ID != view.HostID {
		return nil, ErrNotAuthorized
	}
	return view, nil
}

func (q *reservationQueriesImpl) ListByGuest(ctx context.Context, actor Actor, after *Cursor, limit int) ([]*ReservationListItem, *Cursor, error) {
	return q.list(ctx, after, limit, func(ctx context.Context, t *time.Time, id *uuid.UUID, limit int32) ([]*ReservationListItem, error) {
		return q.repo.FindByGuest(ctx, actor.ID, t, id, limit)
	})
}

func (q *reservationQueriesImpl) ListByHost(ctx context.Context, actor Actor, after *Cursor, limit int) ([]*ReservationListItem, *Cursor, error) {
	return q.list(ctx, after, limit, func(ctx context.Context, t *time.Time, id *uuid.UUID, limit int32) ([]*ReservationListItem, error) {
		return q.repo.FindByHost(ctx, actor.ID, t, id, limit)
	})
}

func (q *reservationQueriesImpl) list(
	ctx context.Context,
	after *Cursor,
	limit int,
	fetch func(ctx context.Context, afterCreatedAt *time.Time, afterID *uuid.UUID, limit int32) ([]*ReservationListItem, error),
) ([]*ReservationListItem, *Cursor, error) {
	limit = ValidateLimit(limit)

	var (
		afterCreatedAt *time.Time
		afterID        *uuid.UUID
	)
	if after != nil && after.After != "" {
		t, id, err := DecodeAfterCursor(after.After)
		if err != nil {
			return nil, nil, errs.Mark(err, ErrQueryFailed)
		}
		afterCreatedAt, afterID = &t, &id
	}

	// Fetch one extra row to learn whether a next page exists.
	rows, err := fetch(ctx, afterCreatedAt, afterID, int32(limit+1))
	if err != nil {
		return nil, nil, errs.Mark(err, ErrQueryFailed)
	}

	var next *Cursor
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = &Cursor{After: EncodeAfterCursor(last.CreatedAt, last.ID)}
	}
	return rows, next, nil
}
