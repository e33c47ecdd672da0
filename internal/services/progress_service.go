package services

import (
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"foodtracker/internal/achievements"
	apperrors "foodtracker/internal/errors"
	"foodtracker/internal/models"
)

// progressService derives achievement progress from the stored state of a
// pantry. It keeps no state of its own.
type progressService struct {
	db  *gorm.DB
	loc *time.Location
	now func() time.Time
}

// NewProgressService creates a new ProgressServicer. Calendar based signals
// are evaluated in loc.
func NewProgressService(db *gorm.DB, loc *time.Location) ProgressServicer {
	return &progressService{db: db, loc: loc, now: time.Now}
}

// Progress returns every signal for the pantry as seen by userID.
func (s *progressService) Progress(userID, pantryID string) (achievements.Progress, error) {
	if _, err := requireMember(s.db, userID, pantryID); err != nil {
		return nil, err
	}
	snap, err := loadSnapshot(s.db, userID, pantryID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return achievements.Aggregate(snap, s.now(), s.loc), nil
}

// Achievements evaluates the catalog against the pantry's current progress.
func (s *progressService) Achievements(userID, pantryID string) ([]achievements.Status, error) {
	progress, err := s.Progress(userID, pantryID)
	if err != nil {
		return nil, err
	}
	return achievements.Evaluate(progress), nil
}

// AchievementsWithin evaluates the catalog on the caller's transaction, so
// the result includes its uncommitted writes. Membership is not checked.
// The reads run under a savepoint; a failure leaves tx usable.
func (s *progressService) AchievementsWithin(tx *gorm.DB, userID, pantryID string) ([]achievements.Status, error) {
	snap, err := loadSnapshot(tx, userID, pantryID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return achievements.Evaluate(achievements.Aggregate(snap, s.now(), s.loc)), nil
}

// loadSnapshot reads the pantry's products, its saved money total and the
// user's registration time from one read point. Called on an open
// transaction it nests as a savepoint.
func loadSnapshot(db *gorm.DB, userID, pantryID string) (achievements.Snapshot, error) {
	var snap achievements.Snapshot
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("pantry_id = ?", pantryID).Find(&snap.Products).Error; err != nil {
			return err
		}

		var row models.FinancialLedger
		switch err := tx.Where("pantry_id = ?", pantryID).First(&row).Error; {
		case err == nil:
			snap.SavedValue = row.SavedValue
		case errors.Is(err, gorm.ErrRecordNotFound):
			snap.SavedValue = decimal.Zero
		default:
			return err
		}

		var user models.User
		if err := tx.Select("id", "created_at").First(&user, "id = ?", userID).Error; err != nil {
			return err
		}
		snap.UserCreatedAt = user.CreatedAt
		return nil
	}, snapshotTxOptions(db.Dialector.Name()))
	return snap, err
}

// snapshotTxOptions pins every statement of a snapshot read to the first
// statement's view on postgres, where the default READ COMMITTED gives each
// statement its own. SQLite transactions are already serializable.
func snapshotTxOptions(dialect string) *sql.TxOptions {
	if dialect != "postgres" {
		return nil
	}
	return &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
}
