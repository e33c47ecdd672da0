package services

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "foodtracker/internal/errors"
	"foodtracker/internal/models"
)

// requireMember returns the caller's membership of a pantry. Non-members get
// ErrPantryNotFound so that other users' pantries cannot be discovered.
func requireMember(db *gorm.DB, userID, pantryID string) (*models.PantryMember, error) {
	var member models.PantryMember
	err := db.Joins("JOIN pantries ON pantries.id = pantry_members.pantry_id").
		Where("pantry_members.pantry_id = ? AND pantry_members.user_id = ?", pantryID, userID).
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPantryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &member, nil
}

// requireOwner loads a pantry the caller owns.
func requireOwner(db *gorm.DB, userID, pantryID string) (*models.Pantry, error) {
	member, err := requireMember(db, userID, pantryID)
	if err != nil {
		return nil, err
	}
	if member.Role != models.PantryRoleOwner {
		return nil, apperrors.ErrPantryOwnerRequired
	}

	var pantry models.Pantry
	if err := db.First(&pantry, "id = ?", pantryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPantryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &pantry, nil
}

// deletePantryTx removes a pantry and everything that belongs to it. It must
// run inside a transaction.
func deletePantryTx(tx *gorm.DB, pantryID string) error {
	for _, model := range []interface{}{
		&models.Product{},
		&models.PantryInvitation{},
		&models.PantryMember{},
		&models.FinancialLedger{},
	} {
		if err := tx.Where("pantry_id = ?", pantryID).Delete(model).Error; err != nil {
			return err
		}
	}
	return tx.Delete(&models.Pantry{}, "id = ?", pantryID).Error
}

func lockForUpdate() clause.Locking {
	return clause.Locking{Strength: "UPDATE"}
}
