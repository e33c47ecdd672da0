package services

import (
	"time"

	"gorm.io/gorm"

	"foodtracker/internal/achievements"
	apperrors "foodtracker/internal/errors"
	"foodtracker/internal/models"
	"foodtracker/internal/statistics"
)

// statisticsService serves read-only statistics of a pantry.
type statisticsService struct {
	db  *gorm.DB
	loc *time.Location
	now func() time.Time
}

// NewStatisticsService creates a new StatisticsServicer. Calendar days are
// evaluated in loc.
func NewStatisticsService(db *gorm.DB, loc *time.Location) StatisticsServicer {
	return &statisticsService{db: db, loc: loc, now: time.Now}
}

// GetProductCounts returns total, used, wasted and active product counts.
// The numbers come from the same aggregation as achievement progress.
func (s *statisticsService) GetProductCounts(userID, pantryID string) (*statistics.ProductCounts, error) {
	if _, err := requireMember(s.db, userID, pantryID); err != nil {
		return nil, err
	}
	snap, err := loadSnapshot(s.db, userID, pantryID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	counts := statistics.Counts(achievements.Aggregate(snap, s.now(), s.loc))
	return &counts, nil
}

// GetCategoryBreakdown returns consumed and wasted amounts per category.
func (s *statisticsService) GetCategoryBreakdown(userID, pantryID string) ([]statistics.CategoryWaste, error) {
	products, err := s.products(userID, pantryID, true)
	if err != nil {
		return nil, err
	}
	return statistics.CategoryBreakdown(products), nil
}

// GetMostWasted returns the products with the highest wasted value.
func (s *statisticsService) GetMostWasted(userID, pantryID string, limit int) ([]statistics.WastedProduct, error) {
	products, err := s.products(userID, pantryID, false)
	if err != nil {
		return nil, err
	}
	return statistics.MostWasted(products, limit), nil
}

// GetAdditionTrend returns the daily number of added products over the last
// days days.
func (s *statisticsService) GetAdditionTrend(userID, pantryID string, days int) ([]statistics.TrendPoint, error) {
	products, err := s.products(userID, pantryID, false)
	if err != nil {
		return nil, err
	}
	return statistics.AdditionTrend(products, days, s.now(), s.loc), nil
}

func (s *statisticsService) products(userID, pantryID string, withCategory bool) ([]models.Product, error) {
	if _, err := requireMember(s.db, userID, pantryID); err != nil {
		return nil, err
	}

	query := s.db.Where("pantry_id = ?", pantryID)
	if withCategory {
		query = query.Preload("Category")
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return products, nil
}
