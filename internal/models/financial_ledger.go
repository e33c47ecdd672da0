package models

import "github.com/shopspring/decimal"

// FinancialLedger keeps the running money totals of a pantry. Both values
// only ever grow.
type FinancialLedger struct {
	Base
	PantryID    string          `gorm:"type:uuid;uniqueIndex;not null" json:"pantry_id"`
	SavedValue  decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"saved_value"`
	WastedValue decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"wasted_value"`
}
