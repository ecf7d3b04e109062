package property

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidPrice    = errors.New("nightly price must be positive")
	ErrInvalidCapacity = errors.New("capacity must be positive")
	ErrInvalidStaySpan = errors.New("max stay cannot be below min stay")
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusBlocked  Status = "blocked"
)

func (s Status) String() string {
	return string(s)
}

// Property is a read-only snapshot from the listing catalog. The core never
// mutates it; it only reads the fields pricing and availability depend on.
type Property struct {
	id              uuid.UUID
	hostID          uuid.UUID
	status          Status
	pricePerNight   decimal.Decimal
	cleaningFee     decimal.Decimal
	securityDeposit decimal.Decimal
	capacity        int
	minStay         int
	maxStay         *int
}

func NewProperty(
	id, hostID uuid.UUID,
	status Status,
	pricePerNight, cleaningFee, securityDeposit decimal.Decimal,
	capacity, minStay int,
	maxStay *int,
) (*Property, error) {
	if pricePerNight.Sign() <= 0 {
		return nil, ErrInvalidPrice
	}
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	if minStay < 1 {
		minStay = 1
	}
	if maxStay != nil && *maxStay < minStay {
		return nil, ErrInvalidStaySpan
	}
	return &Property{
		id:              id,
		hostID:          hostID,
		status:          status,
		pricePerNight:   pricePerNight,
		cleaningFee:     cleaningFee,
		securityDeposit: securityDeposit,
		capacity:        capacity,
		minStay:         minStay,
		maxStay:         maxStay,
	}, nil
}

func (p *Property) ID() uuid.UUID                    { return p.id }
func (p *Property) HostID() uuid.UUID                { return p.hostID }
func (p *Property) Status() Status                   { return p.status }
func (p *Property) PricePerNight() decimal.Decimal   { return p.pricePerNight }
func (p *Property) CleaningFee() decimal.Decimal     { return p.cleaningFee }
func (p *Property) SecurityDeposit() decimal.Decimal { return p.securityDeposit }
func (p *Property) Capacity() int                    { return p.capacity }
func (p *Property) MinStay() int                     { return p.minStay }
func (p *Property) MaxStay() *int                    { return p.maxStay }

func (p *Property) IsBookable() bool {
	return p.status == StatusActive
}
