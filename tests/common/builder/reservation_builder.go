//go:build unit || integration

package builder

import (
	"time"

	"staybook/internal/domain/property"
	"staybook/internal/domain/reservation"
	reqdto "staybook/internal/handler/dto/request"
	"staybook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReservationBuilder assembles a bookable property and a stay request against
// it. Defaults give the canonical quote: 3 nights at 100.00 plus a 20.00
// cleaning fee, 10% commission on the subtotal.
type ReservationBuilder struct {
	PropertyID      uuid.UUID
	HostID          uuid.UUID
	GuestID         uuid.UUID
	PropertyStatus  property.Status
	PricePerNight   decimal.Decimal
	CleaningFee     decimal.Decimal
	SecurityDeposit decimal.Decimal
	Capacity        int
	MinStay         int
	MaxStay         *int
	Now             time.Time
	Checkin         time.Time
	Checkout        time.Time
	GuestCount      int
	Note            string
}

func NewReservationBuilder() *ReservationBuilder {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	return &ReservationBuilder{
		PropertyID:      uuid.New(),
		HostID:          uuid.New(),
		GuestID:         uuid.New(),
		PropertyStatus:  property.StatusActive,
		PricePerNight:   decimal.NewFromInt(100),
		CleaningFee:     decimal.NewFromInt(20),
		SecurityDeposit: decimal.NewFromInt(50),
		Capacity:        4,
		MinStay:         1,
		Now:             now,
		Checkin:         now.AddDate(0, 0, 30),
		Checkout:        now.AddDate(0, 0, 33),
		GuestCount:      2,
	}
}

func (b *ReservationBuilder) With(mutate func(*ReservationBuilder)) *ReservationBuilder {
	mutate(b)
	return b
}

func (b *ReservationBuilder) BuildProperty() (*property.Property, error) {
	return property.NewProperty(
		b.PropertyID, b.HostID, b.PropertyStatus,
		b.PricePerNight, b.CleaningFee, b.SecurityDeposit,
		b.Capacity, b.MinStay, b.MaxStay,
	)
}

func (b *ReservationBuilder) BuildDomain() (*reservation.Reservation, error) {
	prop, err := b.BuildProperty()
	if err != nil {
		return nil, err
	}
	return reservation.NewReservation(
		prop, b.GuestID, b.Checkin, b.Checkout, b.GuestCount,
		reservation.NewNote(b.Note), b.Now,
	)
}

// BuildConfirmed fast-forwards a fresh reservation to CONFIRMED.
func (b *ReservationBuilder) BuildConfirmed() (*reservation.Reservation, error) {
	res, err := b.BuildDomain()
	if err != nil {
		return nil, err
	}
	if err := res.Confirm(b.Now); err != nil {
		return nil, err
	}
	return res, nil
}

// BuildPaid fast-forwards a fresh reservation to PAID.
func (b *ReservationBuilder) BuildPaid() (*reservation.Reservation, error) {
	res, err := b.BuildConfirmed()
	if err != nil {
		return nil, err
	}
	if err := res.MarkPaid(); err != nil {
		return nil, err
	}
	return res, nil
}

// BuildCompleted fast-forwards a fresh reservation through the whole stay.
func (b *ReservationBuilder) BuildCompleted() (*reservation.Reservation, error) {
	res, err := b.BuildPaid()
	if err != nil {
		return nil, err
	}
	if err := res.CheckIn(b.Checkin); err != nil {
		return nil, err
	}
	if err := res.CheckOut(b.Checkout); err != nil {
		return nil, err
	}
	return res, nil
}

func (b *ReservationBuilder) BuildCreateRequestDTO() reqdto.CreateReservationRequest {
	var note *string
	if b.Note != "" {
		note = &b.Note
	}
	return reqdto.CreateReservationRequest{
		PropertyID: b.PropertyID.String(),
		Checkin:    b.Checkin.Format("2006-01-02"),
		Checkout:   b.Checkout.Format("2006-01-02"),
		GuestCount: b.GuestCount,
		Note:       note,
	}
}

func (b *ReservationBuilder) BuildView() *queries.ReservationView {
	nights := int(b.Checkout.Sub(b.Checkin).Hours() / 24)
	subtotal := b.PricePerNight.Mul(decimal.NewFromInt(int64(nights)))
	commission := subtotal.Mul(reservation.CommissionRate).Round(2)
	return &queries.ReservationView{
		ID:            uuid.New(),
		PropertyID:    b.PropertyID,
		PropertyTitle: "Seaside Loft",
		HostID:        b.HostID,
		GuestID:       b.GuestID,
		Checkin:       b.Checkin,
		Checkout:      b.Checkout,
		Nights:        nights,
		GuestCount:    b.GuestCount,
		Status:        reservation.StatusPending.String(),
		PricePerNight: b.PricePerNight,
		Subtotal:      subtotal,
		CleaningFee:   b.CleaningFee,
		Commission:    commission,
		Total:         subtotal.Add(b.CleaningFee).Add(commission),

		SecurityDeposit: b.SecurityDeposit,
		CreatedAt:       b.Now,
	}
}

// Fluent setters

func (b *ReservationBuilder) WithHostID(id uuid.UUID) *ReservationBuilder {
	b.HostID = id
	return b
}

func (b *ReservationBuilder) WithGuestID(id uuid.UUID) *ReservationBuilder {
	b.GuestID = id
	return b
}

func (b *ReservationBuilder) WithGuestCount(n int) *ReservationBuilder {
	b.GuestCount = n
	return b
}

func (b *ReservationBuilder) WithStay(checkin, checkout time.Time) *ReservationBuilder {
	b.Checkin = checkin
	b.Checkout = checkout
	return b
}

// WithCheckinIn places the stay lead days after Now, keeping nights nights.
func (b *ReservationBuilder) WithCheckinIn(lead time.Duration, nights int) *ReservationBuilder {
	b.Checkin = b.Now.Add(lead)
	b.Checkout = b.Checkin.AddDate(0, 0, nights)
	return b
}

func (b *ReservationBuilder) WithPricePerNight(price decimal.Decimal) *ReservationBuilder {
	b.PricePerNight = price
	return b
}

func (b *ReservationBuilder) WithMinStay(n int) *ReservationBuilder {
	b.MinStay = n
	return b
}

func (b *ReservationBuilder) WithMaxStay(n int) *ReservationBuilder {
	b.MaxStay = &n
	return b
}

func (b *ReservationBuilder) WithPropertyStatus(s property.Status) *ReservationBuilder {
	b.PropertyStatus = s
	return b
}

func (b *ReservationBuilder) WithNote(note string) *ReservationBuilder {
	b.Note = note
	return b
}
