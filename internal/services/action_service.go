package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"foodtracker/internal/achievements"
	apperrors "foodtracker/internal/errors"
	"foodtracker/internal/ledger"
	"foodtracker/internal/logger"
	"foodtracker/internal/metrics"
	"foodtracker/internal/models"
)

// actionService applies use and waste actions. Each action runs in one
// database transaction that locks the pantry's financial ledger and the
// product row, updates the amounts and books the money delta. Achievements
// are scored before and after the change inside that transaction; scoring
// failures never fail the action.
type actionService struct {
	db        *gorm.DB
	financial FinancialServicer
	progress  ProgressServicer
	metrics   *metrics.Collector
}

// NewActionService creates a new ActionServicer. m may be nil.
func NewActionService(db *gorm.DB, financial FinancialServicer, progress ProgressServicer, m *metrics.Collector) ActionServicer {
	return &actionService{db: db, financial: financial, progress: progress, metrics: m}
}

// Use records that amount of the product was consumed.
func (s *actionService) Use(userID, pantryID, productID string, amount decimal.Decimal) (*ActionResult, error) {
	return s.apply(ActionUse, userID, pantryID, productID, amount)
}

// Waste records that amount of the product was thrown away.
func (s *actionService) Waste(userID, pantryID, productID string, amount decimal.Decimal) (*ActionResult, error) {
	return s.apply(ActionWaste, userID, pantryID, productID, amount)
}

func (s *actionService) apply(kind ActionKind, userID, pantryID, productID string, amount decimal.Decimal) (*ActionResult, error) {
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if _, err := requireMember(s.db, userID, pantryID); err != nil {
		return nil, err
	}

	var (
		product  models.Product
		unlocked []achievements.Status
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		// The ledger row lock serializes actions on one pantry, so the
		// achievement diff below sees no other action's writes.
		if _, err := s.financial.GetOrCreate(tx, pantryID); err != nil {
			return err
		}
		before := s.achieved(tx, userID, pantryID)

		err := tx.Clauses(lockForUpdate()).
			Where("id = ? AND pantry_id = ?", productID, pantryID).
			First(&product).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrProductNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		q := product.Quantities()
		delta := ledger.Delta(product.Price, q.Initial, amount)

		var applyErr error
		if kind == ActionWaste {
			applyErr = q.ApplyWaste(amount)
		} else {
			applyErr = q.ApplyUse(amount)
		}
		switch {
		case errors.Is(applyErr, ledger.ErrAmountPrecision), errors.Is(applyErr, ledger.ErrNonPositiveAmount):
			return apperrors.WithMessage(apperrors.ErrInvalidInput, applyErr.Error())
		case applyErr != nil:
			return apperrors.WithMessage(apperrors.ErrInsufficientQuantity, applyErr.Error())
		}

		if _, err := s.financial.Record(tx, pantryID, kind, delta); err != nil {
			return err
		}

		product.SetQuantities(q)
		if err := tx.Model(&product).Updates(map[string]interface{}{
			"current_amount": q.Current,
			"wasted_amount":  q.Wasted,
		}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		unlocked = s.newlyUnlocked(tx, before, userID, pantryID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ProductAction(string(kind))
	for _, a := range unlocked {
		s.metrics.AchievementsUnlocked(a.ID)
	}

	if err := s.db.Preload("Category").First(&product, "id = ?", product.ID).Error; err != nil {
		logger.Get().Warnw("failed to reload product after action", "product_id", product.ID, "error", err)
	}

	return &ActionResult{Product: &product, UnlockedAchievements: unlocked}, nil
}

// achieved returns the IDs achieved before the action. Failures are logged
// and treated as nothing achieved.
func (s *actionService) achieved(tx *gorm.DB, userID, pantryID string) map[string]bool {
	statuses, err := s.progress.AchievementsWithin(tx, userID, pantryID)
	if err != nil {
		logger.Get().Errorw("failed to score achievements before action",
			"user_id", userID, "pantry_id", pantryID, "error", err)
		return map[string]bool{}
	}
	return achievements.AchievedIDs(statuses)
}

// newlyUnlocked re-scores with the action applied. Failures are logged and
// reported as no new achievements.
func (s *actionService) newlyUnlocked(tx *gorm.DB, before map[string]bool, userID, pantryID string) []achievements.Status {
	statuses, err := s.progress.AchievementsWithin(tx, userID, pantryID)
	if err != nil {
		logger.Get().Errorw("failed to score achievements after action",
			"user_id", userID, "pantry_id", pantryID, "error", err)
		return []achievements.Status{}
	}
	return achievements.NewlyUnlocked(before, statuses)
}
