package reservation

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrCheckoutNotAfterCheckin = errors.New("checkout must be after checkin")
	ErrCheckinInPast           = errors.New("checkin cannot be in the past")
	ErrCheckinTooFarAhead      = errors.New("checkin cannot be more than a year ahead")
)

// MaxAdvanceDays bounds how far ahead a stay may be requested.
const MaxAdvanceDays = 365

// StayPeriod is a half-open date range [checkin, checkout). Both dates are
// normalized to UTC midnight; checkout day itself is not occupied.
type StayPeriod struct {
	checkin  time.Time
	checkout time.Time
}

func NewStayPeriod(checkin, checkout time.Time) (StayPeriod, error) {
	ci := truncateToDate(checkin)
	co := truncateToDate(checkout)
	if !co.After(ci) {
		return StayPeriod{}, ErrCheckoutNotAfterCheckin
	}
	return StayPeriod{checkin: ci, checkout: co}, nil
}

// NewFutureStayPeriod additionally enforces the booking horizon relative to now.
func NewFutureStayPeriod(checkin, checkout, now time.Time) (StayPeriod, error) {
	period, err := NewStayPeriod(checkin, checkout)
	if err != nil {
		return StayPeriod{}, err
	}
	today := truncateToDate(now)
	if !period.checkin.After(today) {
		return StayPeriod{}, ErrCheckinInPast
	}
	if period.checkin.Sub(today) > MaxAdvanceDays*24*time.Hour {
		return StayPeriod{}, ErrCheckinTooFarAhead
	}
	return period, nil
}

func (p StayPeriod) Checkin() time.Time  { return p.checkin }
func (p StayPeriod) Checkout() time.Time { return p.checkout }

func (p StayPeriod) Nights() int {
	return int(p.checkout.Sub(p.checkin) / (24 * time.Hour))
}

// Overlaps applies the half-open conflict rule: back-to-back stays where one
// checkout equals the other checkin do not collide.
func (p StayPeriod) Overlaps(other StayPeriod) bool {
	return p.checkin.Before(other.checkout) && p.checkout.After(other.checkin)
}

func (p StayPeriod) String() string {
	return fmt.Sprintf("[%s,%s)", p.checkin.Format(time.DateOnly), p.checkout.Format(time.DateOnly))
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type Note struct {
	value string
}

func NewNote(value string) Note {
	return Note{value: strings.TrimSpace(value)}
}

func (n Note) String() string {
	return n.value
}

func (n Note) IsEmpty() bool {
	return n.value == ""
}

// Append adds a labeled line to the notes trail, used for rejection and
// cancellation reasons.
func (n Note) Append(label, text string) Note {
	entry := label + ": " + strings.TrimSpace(text)
	if n.value == "" {
		return Note{value: entry}
	}
	return Note{value: n.value + "\n\n" + entry}
}
