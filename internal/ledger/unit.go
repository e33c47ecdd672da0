package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Unit is the measure a product amount is expressed in.
type Unit string

const (
	UnitPiece      Unit = "szt."
	UnitGram       Unit = "g"
	UnitKilogram   Unit = "kg"
	UnitMilliliter Unit = "ml"
	UnitLiter      Unit = "l"
)

// Class groups units whose amounts can be summed together.
type Class string

const (
	ClassPiece  Class = "piece"
	ClassMass   Class = "mass"
	ClassVolume Class = "volume"
)

var thousand = decimal.NewFromInt(1000)

// Units lists every supported unit.
func Units() []Unit {
	return []Unit{UnitPiece, UnitGram, UnitKilogram, UnitMilliliter, UnitLiter}
}

// ParseUnit validates s as a unit.
func ParseUnit(s string) (Unit, error) {
	u := Unit(s)
	if !u.Valid() {
		return "", fmt.Errorf("unsupported unit %q", s)
	}
	return u, nil
}

// Valid reports whether u is one of the supported units.
func (u Unit) Valid() bool {
	switch u {
	case UnitPiece, UnitGram, UnitKilogram, UnitMilliliter, UnitLiter:
		return true
	}
	return false
}

// IsPiece reports whether amounts in u are discrete counts.
func (u Unit) IsPiece() bool {
	return u == UnitPiece
}

// Class returns the commensurability class of u.
func (u Unit) Class() Class {
	switch u {
	case UnitGram, UnitKilogram:
		return ClassMass
	case UnitMilliliter, UnitLiter:
		return ClassVolume
	default:
		return ClassPiece
	}
}

// Normalize converts amount to the base unit of its class: pieces stay
// pieces, mass becomes grams and volume becomes millilitres.
func (u Unit) Normalize(amount decimal.Decimal) decimal.Decimal {
	switch u {
	case UnitKilogram, UnitLiter:
		return amount.Mul(thousand)
	default:
		return amount
	}
}
