package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "foodtracker/internal/errors"
	"foodtracker/internal/models"
)

// financialService keeps the running saved and wasted money totals of each
// pantry.
type financialService struct {
	db *gorm.DB
}

// NewFinancialService creates a new FinancialServicer.
func NewFinancialService(db *gorm.DB) FinancialServicer {
	return &financialService{db: db}
}

// GetOrCreate returns the pantry's ledger row, creating it with zero totals
// on first access. Within a transaction the row is locked for update.
func (s *financialService) GetOrCreate(tx *gorm.DB, pantryID string) (*models.FinancialLedger, error) {
	var row models.FinancialLedger
	err := tx.Clauses(lockForUpdate()).Where("pantry_id = ?", pantryID).First(&row).Error
	if err == nil {
		return &row, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	row = models.FinancialLedger{PantryID: pantryID, SavedValue: decimal.Zero, WastedValue: decimal.Zero}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	// A concurrent creator may have won the insert.
	row = models.FinancialLedger{}
	if err := tx.Clauses(lockForUpdate()).Where("pantry_id = ?", pantryID).First(&row).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &row, nil
}

// Record adds a non-negative delta to the saved or wasted total.
func (s *financialService) Record(tx *gorm.DB, pantryID string, kind ActionKind, delta decimal.Decimal) (*models.FinancialLedger, error) {
	if delta.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "financial delta cannot be negative")
	}

	row, err := s.GetOrCreate(tx, pantryID)
	if err != nil {
		return nil, err
	}

	switch kind {
	case ActionWaste:
		row.WastedValue = row.WastedValue.Add(delta)
		err = tx.Model(row).Update("wasted_value", row.WastedValue).Error
	default:
		row.SavedValue = row.SavedValue.Add(delta)
		err = tx.Model(row).Update("saved_value", row.SavedValue).Error
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return row, nil
}

// GetSummary returns the pantry's money totals.
func (s *financialService) GetSummary(userID, pantryID string) (*FinancialSummary, error) {
	if _, err := requireMember(s.db, userID, pantryID); err != nil {
		return nil, err
	}

	var row *models.FinancialLedger
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		row, err = s.GetOrCreate(tx, pantryID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &FinancialSummary{Saved: row.SavedValue, Wasted: row.WastedValue}, nil
}
