// Package ledger holds the arithmetic rules for a tracked product amount.
//
// A product's amount is split three ways: what is still on hand (Current),
// what was thrown away (Wasted) and what was consumed (Initial - Current -
// Wasted). Every operation here preserves
//
//	0 <= Current, 0 <= Wasted, Current + Wasted <= Initial
//
// and leaves the receiver unchanged when it returns an error.
package ledger

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount        = errors.New("initial amount must be greater than zero")
	ErrInvalidPrice         = errors.New("price must be greater than zero")
	ErrNonPositiveAmount    = errors.New("amount must be greater than zero")
	ErrInsufficientQuantity = errors.New("amount exceeds the quantity on hand")
	ErrInvalidAdjustment    = errors.New("current amount can only grow together with the initial amount")
	ErrInvariantViolated    = errors.New("current and wasted amounts exceed the initial amount")
	ErrAmountPrecision      = errors.New("amount has more than three decimal places")
)

const (
	// MoneyPlaces is the precision monetary deltas are rounded to.
	MoneyPlaces = 2
	// AmountPlaces is the precision amounts are stored with.
	AmountPlaces = 3
)

// Quantities is the amount state of one product.
type Quantities struct {
	Initial decimal.Decimal
	Current decimal.Decimal
	Wasted  decimal.Decimal
}

// New returns the quantities of a freshly created product.
func New(initial, price decimal.Decimal) (Quantities, error) {
	if !initial.IsPositive() {
		return Quantities{}, ErrInvalidAmount
	}
	if !price.IsPositive() {
		return Quantities{}, ErrInvalidPrice
	}
	if err := checkPrecision(initial); err != nil {
		return Quantities{}, err
	}
	return Quantities{Initial: initial, Current: initial, Wasted: decimal.Zero}, nil
}

// Validate checks the conservation invariant.
func (q Quantities) Validate() error {
	if !q.Initial.IsPositive() {
		return ErrInvalidAmount
	}
	if q.Current.IsNegative() || q.Wasted.IsNegative() {
		return ErrInvariantViolated
	}
	if q.Current.Add(q.Wasted).GreaterThan(q.Initial) {
		return ErrInvariantViolated
	}
	return nil
}

// Used is the amount consumed before spoiling.
func (q Quantities) Used() decimal.Decimal {
	return q.Initial.Sub(q.Current).Sub(q.Wasted)
}

// IsDepleted reports whether nothing is left on hand.
func (q Quantities) IsDepleted() bool {
	return !q.Current.IsPositive()
}

// ApplyUse marks amount as consumed.
func (q *Quantities) ApplyUse(amount decimal.Decimal) error {
	if err := q.checkWithdrawal(amount); err != nil {
		return err
	}
	q.Current = q.Current.Sub(amount)
	return nil
}

// ApplyWaste marks amount as thrown away.
func (q *Quantities) ApplyWaste(amount decimal.Decimal) error {
	if err := q.checkWithdrawal(amount); err != nil {
		return err
	}
	q.Current = q.Current.Sub(amount)
	q.Wasted = q.Wasted.Add(amount)
	return nil
}

func (q *Quantities) checkWithdrawal(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	if err := checkPrecision(amount); err != nil {
		return err
	}
	if amount.GreaterThan(q.Current) {
		return ErrInsufficientQuantity
	}
	return nil
}

// Adjust applies an edit of the initial and/or current amount. Nil leaves
// the field as is. Changing Initial moves Current by the same delta, so the
// consumed amount never changes here; consumption goes through ApplyUse and
// ApplyWaste. An explicit newCurrent must match that moved value.
func (q *Quantities) Adjust(newInitial, newCurrent *decimal.Decimal) error {
	next := *q
	if newInitial != nil {
		if !newInitial.IsPositive() {
			return ErrInvalidAmount
		}
		if err := checkPrecision(*newInitial); err != nil {
			return err
		}
		next.Initial = *newInitial
		next.Current = q.Current.Add(newInitial.Sub(q.Initial))
	}

	if newCurrent != nil && !newCurrent.Equal(next.Current) {
		return ErrInvalidAdjustment
	}

	if err := next.Validate(); err != nil {
		return ErrInvalidAdjustment
	}
	*q = next
	return nil
}

// checkPrecision rejects amounts the storage column would round.
func checkPrecision(amount decimal.Decimal) error {
	if !amount.Equal(amount.Round(AmountPlaces)) {
		return ErrAmountPrecision
	}
	return nil
}

// UnitValue is the price of one unit of amount. It is zero when initial is
// not positive.
func UnitValue(price, initial decimal.Decimal) decimal.Decimal {
	if !initial.IsPositive() {
		return decimal.Zero
	}
	return price.Div(initial)
}

// Delta is the money moved by an action on amount, rounded to cents.
func Delta(price, initial, amount decimal.Decimal) decimal.Decimal {
	return UnitValue(price, initial).Mul(amount).Round(MoneyPlaces)
}
