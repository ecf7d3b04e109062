//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"staybook/internal/domain/payment"
	"staybook/internal/domain/property"
	"staybook/internal/domain/reservation"
	"staybook/internal/domain/user"
	"staybook/internal/infra"
	"staybook/internal/infra/gateway"
	"staybook/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// In-memory fakes for the command ports. Find methods hand out copies the way
// a row scan would, so in-flight mutations are only visible after Update.

type fakeTx struct{}

func (fakeTx) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeReservationRepo struct {
	store      map[uuid.UUID]*reservation.Reservation
	overlap    bool
	overlapErr error
	createErr  error
	updateErr  error
	locked     []uuid.UUID
	updates    int
}

func newFakeReservationRepo() *fakeReservationRepo {
	return &fakeReservationRepo{store: make(map[uuid.UUID]*reservation.Reservation)}
}

func (r *fakeReservationRepo) add(res *reservation.Reservation) {
	r.store[res.ID()] = res
}

func (r *fakeReservationRepo) Create(_ context.Context, res *reservation.Reservation) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.store[res.ID()] = res
	return nil
}

func (r *fakeReservationRepo) FindByID(_ context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	res, ok := r.store[id]
	if !ok {
		return nil, infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	cp := *res
	return &cp, nil
}

func (r *fakeReservationRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeReservationRepo) Update(_ context.Context, res *reservation.Reservation) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.store[res.ID()] = res
	r.updates++
	return nil
}

func (r *fakeReservationRepo) LockProperty(_ context.Context, propertyID uuid.UUID) error {
	r.locked = append(r.locked, propertyID)
	return nil
}

func (r *fakeReservationRepo) HasOverlap(_ context.Context, _ uuid.UUID, _ reservation.StayPeriod, _ *uuid.UUID) (bool, error) {
	if r.overlapErr != nil {
		return false, r.overlapErr
	}
	return r.overlap, nil
}

type fakePaymentRepo struct {
	store       map[uuid.UUID]*payment.Payment
	byRef       map[string]*payment.Payment
	capturable  *payment.Payment
	openIntent  bool
	releaseWins bool
	releaseErr  error
	due         []*payment.Payment
	dueErr      error
	createErr   error
	created     []*payment.Payment
	updates     int
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{
		store:       make(map[uuid.UUID]*payment.Payment),
		byRef:       make(map[string]*payment.Payment),
		releaseWins: true,
	}
}

func (r *fakePaymentRepo) add(p *payment.Payment) {
	r.store[p.ID()] = p
	r.byRef[p.GatewayReference()] = p
}

func (r *fakePaymentRepo) Create(_ context.Context, p *payment.Payment) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.add(p)
	r.created = append(r.created, p)
	return nil
}

func (r *fakePaymentRepo) FindByID(_ context.Context, id uuid.UUID) (*payment.Payment, error) {
	p, ok := r.store[id]
	if !ok {
		return nil, infra.WrapRepoErr("payment not found", nil, infra.KindNotFound)
	}
	cp := *p
	return &cp, nil
}

func (r *fakePaymentRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*payment.Payment, error) {
	return r.FindByID(ctx, id)
}

func (r *fakePaymentRepo) FindByGatewayReference(_ context.Context, reference string) (*payment.Payment, error) {
	p, ok := r.byRef[reference]
	if !ok {
		return nil, infra.WrapRepoErr("payment not found", nil, infra.KindNotFound)
	}
	cp := *p
	return &cp, nil
}

func (r *fakePaymentRepo) FindCapturableByReservation(_ context.Context, _ uuid.UUID) (*payment.Payment, error) {
	return r.capturable, nil
}

func (r *fakePaymentRepo) HasOpenIntent(_ context.Context, _ uuid.UUID) (bool, error) {
	return r.openIntent, nil
}

func (r *fakePaymentRepo) Update(_ context.Context, p *payment.Payment) error {
	r.store[p.ID()] = p
	r.byRef[p.GatewayReference()] = p
	r.updates++
	return nil
}

func (r *fakePaymentRepo) ReleaseHeld(_ context.Context, _ uuid.UUID, _ decimal.Decimal, _ time.Time) (bool, error) {
	if r.releaseErr != nil {
		return false, r.releaseErr
	}
	return r.releaseWins, nil
}

func (r *fakePaymentRepo) FindDueHeld(_ context.Context, _ time.Time, _ int) ([]*payment.Payment, error) {
	if r.dueErr != nil {
		return nil, r.dueErr
	}
	return r.due, nil
}

type fakeUserRepo struct {
	store map[uuid.UUID]*user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{store: make(map[uuid.UUID]*user.User)}
}

func (r *fakeUserRepo) add(u *user.User) {
	r.store[u.ID()] = u
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	u, ok := r.store[id]
	if !ok {
		return nil, infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
	}
	return u, nil
}

type fakePropertyRepo struct {
	store map[uuid.UUID]*property.Property
}

func newFakePropertyRepo() *fakePropertyRepo {
	return &fakePropertyRepo{store: make(map[uuid.UUID]*property.Property)}
}

func (r *fakePropertyRepo) add(prop *property.Property) {
	r.store[prop.ID()] = prop
}

func (r *fakePropertyRepo) FindByID(_ context.Context, id uuid.UUID) (*property.Property, error) {
	prop, ok := r.store[id]
	if !ok {
		return nil, infra.WrapRepoErr("property not found", nil, infra.KindNotFound)
	}
	return prop, nil
}

type fakeGateway struct {
	intent      gateway.Intent
	intentErr   error
	refundRef   string
	refundErr   error
	intentCalls []decimal.Decimal
	refundCalls []string
}

func (g *fakeGateway) CreateIntent(_ context.Context, amount decimal.Decimal, _ string, _ map[string]string) (gateway.Intent, error) {
	if g.intentErr != nil {
		return gateway.Intent{}, g.intentErr
	}
	g.intentCalls = append(g.intentCalls, amount)
	return g.intent, nil
}

func (g *fakeGateway) Refund(_ context.Context, reference string) (string, error) {
	if g.refundErr != nil {
		return "", g.refundErr
	}
	g.refundCalls = append(g.refundCalls, reference)
	return g.refundRef, nil
}

type notifiedJob struct {
	recipientID uuid.UUID
	topic       string
}

type fakeNotificationRepo struct {
	jobs []notifiedJob
}

func (r *fakeNotificationRepo) CreateJob(_ context.Context, recipientID uuid.UUID, topic string, _ []byte, _ time.Time) error {
	r.jobs = append(r.jobs, notifiedJob{recipientID: recipientID, topic: topic})
	return nil
}

func (r *fakeNotificationRepo) topics() []string {
	var out []string
	for _, j := range r.jobs {
		out = append(out, j.topic)
	}
	return out
}

// requireErrIs asserts through errs.Is because the error groups commands
// attach are markers, which the stdlib errors.Is cannot see.
func requireErrIs(t *testing.T, err, target error) {
	t.Helper()
	require.Error(t, err)
	require.Truef(t, errs.Is(err, target), "expected %q in error chain, got %q", target, err)
}
