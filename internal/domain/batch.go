package domain

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateLayout is the layout used to read and print expiry dates.
const DateLayout = "2006-01-02"

// Batch is one addition of a named grocery: its own quantity, unit, expiry
// date and unit price. Name, unit and unit price are fixed at creation.
type Batch struct {
	id        string
	name      string
	quantity  float64
	unit      Unit
	expiry    time.Time
	unitPrice decimal.Decimal
}

// NewBatch validates and creates a batch. The expiry date is not checked
// against the current date, so already-expired batches can be created.
func NewBatch(name string, quantity float64, unit Unit, expiry time.Time, unitPrice decimal.Decimal) (*Batch, error) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return nil, fmt.Errorf("%w: batch name is empty", ErrInvalidArgument)
	case !positive(quantity):
		return nil, fmt.Errorf("%w: batch quantity must be greater than 0, got %g", ErrInvalidArgument, quantity)
	case !unit.Valid():
		return nil, fmt.Errorf("%w: invalid unit %d", ErrInvalidArgument, unit)
	case expiry.IsZero():
		return nil, fmt.Errorf("%w: expiry date is required", ErrInvalidArgument)
	}

	return &Batch{
		id:        uuid.NewString(),
		name:      name,
		quantity:  quantity,
		unit:      unit,
		expiry:    Day(expiry),
		unitPrice: unitPrice,
	}, nil
}

func (b *Batch) ID() string                 { return b.id }
func (b *Batch) Name() string               { return b.name }
func (b *Batch) Quantity() float64          { return b.quantity }
func (b *Batch) Unit() Unit                 { return b.unit }
func (b *Batch) Expiry() time.Time          { return b.expiry }
func (b *Batch) UnitPrice() decimal.Decimal { return b.unitPrice }

// TotalPrice is quantity times unit price. Negative unit prices are
// promotions and yield a negative total.
func (b *Batch) TotalPrice() decimal.Decimal {
	return b.unitPrice.Mul(decimal.NewFromFloat(b.quantity))
}

// SetQuantity replaces the quantity. Zero is allowed; the ledger drops
// empty batches itself.
func (b *Batch) SetQuantity(q float64) error {
	if q < 0 || math.IsNaN(q) || math.IsInf(q, 0) {
		return fmt.Errorf("%w: quantity must be a non-negative number, got %g", ErrInvalidArgument, q)
	}
	b.quantity = q
	return nil
}

// SetExpiry moves the expiry date. The new date may be today but not
// earlier than now's calendar day.
func (b *Batch) SetExpiry(date, now time.Time) error {
	if date.IsZero() {
		return fmt.Errorf("%w: expiry date is required", ErrInvalidArgument)
	}
	if Day(date).Before(Day(now)) {
		return fmt.Errorf("%w: expiry date %s is in the past", ErrInvalidArgument, date.Format(DateLayout))
	}
	b.expiry = Day(date)
	return nil
}

// ExpiredBefore reports whether the batch expires on a day strictly before
// date's day.
func (b *Batch) ExpiredBefore(date time.Time) bool {
	return b.expiry.Before(Day(date))
}

// String renders the batch for display.
func (b *Batch) String() string {
	return fmt.Sprintf("%s: %g %s, expires %s", b.name, b.quantity, b.unit, b.expiry.Format(DateLayout))
}

// positive reports whether x is a finite number above zero.
func positive(x float64) bool {
	return x > 0 && !math.IsInf(x, 1)
}

// Day truncates t to midnight of its calendar day in its own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
