package services

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "foodtracker/internal/errors"
	"foodtracker/internal/models"
)

// InvitationTTL is how long an invitation link stays valid.
const InvitationTTL = 15 * time.Minute

// pantryService handles pantries, their members and invitations.
type pantryService struct {
	db          *gorm.DB
	frontendURL string
	now         func() time.Time
}

// NewPantryService creates a new PantryServicer. Invitation links point at
// frontendURL.
func NewPantryService(db *gorm.DB, frontendURL string) PantryServicer {
	return &pantryService{
		db:          db,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		now:         time.Now,
	}
}

// CreatePantry creates a pantry owned by the caller together with its
// financial ledger.
func (s *pantryService) CreatePantry(userID, name string) (*models.Pantry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "pantry name is required")
	}

	pantry := &models.Pantry{Name: name, OwnerID: userID}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(pantry).Error; err != nil {
			return err
		}
		owner := &models.PantryMember{PantryID: pantry.ID, UserID: userID, Role: models.PantryRoleOwner}
		if err := tx.Create(owner).Error; err != nil {
			return err
		}
		return tx.Create(&models.FinancialLedger{
			PantryID:    pantry.ID,
			SavedValue:  decimal.Zero,
			WastedValue: decimal.Zero,
		}).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.loadPantry(pantry.ID)
}

// GetUserPantries lists every pantry the caller belongs to, oldest first.
func (s *pantryService) GetUserPantries(userID string) ([]models.Pantry, error) {
	var pantries []models.Pantry
	err := s.db.Preload("Members.User").
		Joins("JOIN pantry_members ON pantry_members.pantry_id = pantries.id").
		Where("pantry_members.user_id = ?", userID).
		Order("pantries.created_at ASC").
		Find(&pantries).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return pantries, nil
}

// GetPantry returns one pantry with its members.
func (s *pantryService) GetPantry(userID, pantryID string) (*models.Pantry, error) {
	if _, err := requireMember(s.db, userID, pantryID); err != nil {
		return nil, err
	}
	return s.loadPantry(pantryID)
}

// RenamePantry changes the name of a pantry the caller owns.
func (s *pantryService) RenamePantry(userID, pantryID, name string) (*models.Pantry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "pantry name is required")
	}

	pantry, err := requireOwner(s.db, userID, pantryID)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(pantry).Update("name", name).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.loadPantry(pantryID)
}

// DeletePantry removes a pantry the caller owns along with its products,
// members, invitations and financial ledger.
func (s *pantryService) DeletePantry(userID, pantryID string) error {
	if _, err := requireOwner(s.db, userID, pantryID); err != nil {
		return err
	}
	if err := s.db.Transaction(func(tx *gorm.DB) error {
		return deletePantryTx(tx, pantryID)
	}); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// RemoveMember lets the owner remove another member.
func (s *pantryService) RemoveMember(userID, pantryID, memberID string) error {
	pantry, err := requireOwner(s.db, userID, pantryID)
	if err != nil {
		return err
	}
	if memberID == pantry.OwnerID {
		return apperrors.ErrOwnerCannotLeave
	}

	result := s.db.Where("pantry_id = ? AND user_id = ?", pantryID, memberID).Delete(&models.PantryMember{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrMemberNotFound
	}
	return nil
}

// LeavePantry removes the caller from a pantry. Owners must delete the
// pantry instead.
func (s *pantryService) LeavePantry(userID, pantryID string) error {
	member, err := requireMember(s.db, userID, pantryID)
	if err != nil {
		return err
	}
	if member.Role == models.PantryRoleOwner {
		return apperrors.ErrOwnerCannotLeave
	}

	if err := s.db.Where("pantry_id = ? AND user_id = ?", pantryID, userID).Delete(&models.PantryMember{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// CreateInvitation issues an invitation link valid for InvitationTTL. Any
// number of users may join through it before it expires.
func (s *pantryService) CreateInvitation(userID, pantryID string) (*Invitation, error) {
	if _, err := requireOwner(s.db, userID, pantryID); err != nil {
		return nil, err
	}

	invitation := &models.PantryInvitation{
		PantryID:  pantryID,
		Token:     uuid.NewString(),
		ExpiresAt: s.now().Add(InvitationTTL),
	}
	if err := s.db.Create(invitation).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &Invitation{
		Token:     invitation.Token,
		Link:      s.frontendURL + "/join-pantry/" + invitation.Token,
		ExpiresAt: invitation.ExpiresAt,
	}, nil
}

// AcceptInvitation adds the caller to the pantry behind token.
func (s *pantryService) AcceptInvitation(userID, token string) (*models.Pantry, error) {
	var invitation models.PantryInvitation
	if err := s.db.Where("token = ?", token).First(&invitation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvitationInvalid
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if invitation.IsExpired(s.now()) {
		return nil, apperrors.ErrInvitationInvalid
	}

	if _, err := requireMember(s.db, userID, invitation.PantryID); err == nil {
		return nil, apperrors.ErrAlreadyMember
	} else if !errors.Is(err, apperrors.ErrPantryNotFound) {
		return nil, err
	}

	member := &models.PantryMember{PantryID: invitation.PantryID, UserID: userID, Role: models.PantryRoleMember}
	if err := s.db.Create(member).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.loadPantry(invitation.PantryID)
}

func (s *pantryService) loadPantry(pantryID string) (*models.Pantry, error) {
	var pantry models.Pantry
	if err := s.db.Preload("Members.User").First(&pantry, "id = ?", pantryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPantryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &pantry, nil
}
