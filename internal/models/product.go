package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"foodtracker/internal/ledger"
)

// Product is a tracked food item owned by a pantry.
type Product struct {
	Base
	PantryID       string          `gorm:"type:uuid;not null;index" json:"pantry_id"`
	CategoryID     *string         `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Name           string          `gorm:"not null" json:"name"`
	ExternalID     string          `json:"external_id,omitempty"`
	ExpirationDate datatypes.Date  `gorm:"not null;index" json:"expiration_date"`
	Price          decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Unit           ledger.Unit     `gorm:"size:8;not null" json:"unit"`
	InitialAmount  decimal.Decimal `gorm:"type:numeric(12,3);not null" json:"initial_amount"`
	CurrentAmount  decimal.Decimal `gorm:"type:numeric(12,3);not null" json:"current_amount"`
	WastedAmount   decimal.Decimal `gorm:"type:numeric(12,3);not null;default:0" json:"wasted_amount"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// Quantities returns the ledger view of the product's amounts.
func (p *Product) Quantities() ledger.Quantities {
	return ledger.Quantities{
		Initial: p.InitialAmount,
		Current: p.CurrentAmount,
		Wasted:  p.WastedAmount,
	}
}

// SetQuantities copies ledger amounts back onto the product.
func (p *Product) SetQuantities(q ledger.Quantities) {
	p.InitialAmount = q.Initial
	p.CurrentAmount = q.Current
	p.WastedAmount = q.Wasted
}

// Expiration returns the expiration date as a time.Time at UTC midnight.
func (p *Product) Expiration() time.Time {
	return time.Time(p.ExpirationDate)
}

// NewDate truncates t to its calendar date, normalised to UTC midnight so
// stored dates compare consistently across drivers.
func NewDate(t time.Time) datatypes.Date {
	y, m, d := t.Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}
