package services

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"foodtracker/internal/catalog"
	apperrors "foodtracker/internal/errors"
	"foodtracker/internal/models"
)

// categoryService serves the shared, seeded category taxonomy.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// SeedCategories inserts missing catalog categories and refreshes the icon of
// existing ones. It is safe to run on every start.
func (s *categoryService) SeedCategories(entries []catalog.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	rows := make([]models.Category, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, models.Category{Name: e.Name, IconName: e.Icon})
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"icon_name", "updated_at"}),
	}).Create(&rows).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetCategories lists all categories sorted by name.
func (s *categoryService) GetCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// GetCategoryByID retrieves a category by ID
func (s *categoryService) GetCategoryByID(id string) (*models.Category, error) {
	var category models.Category
	if err := s.db.First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// GetCategoryByName retrieves a category by its unique name
func (s *categoryService) GetCategoryByName(name string) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("name = ?", name).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}
