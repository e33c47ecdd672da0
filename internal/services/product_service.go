package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "foodtracker/internal/errors"
	"foodtracker/internal/ledger"
	"foodtracker/internal/logger"
	"foodtracker/internal/models"
	"foodtracker/internal/pagination"
)

const (
	// DefaultShelfLifeDays applies to fresh products without an explicit
	// shelf life.
	DefaultShelfLifeDays = 5
	// DefaultExpiringDays is the look-ahead of GetExpiringSoon.
	DefaultExpiringDays = 7
)

// productService handles product bookkeeping within pantries.
type productService struct {
	db         *gorm.DB
	categories CategoryServicer
	resolver   CategoryResolver
	loc        *time.Location
	now        func() time.Time
}

// NewProductService creates a new ProductServicer. resolver may be nil, in
// which case products without an explicit category go to the catch-all one.
func NewProductService(db *gorm.DB, categories CategoryServicer, resolver CategoryResolver, loc *time.Location) ProductServicer {
	return &productService{
		db:         db,
		categories: categories,
		resolver:   resolver,
		loc:        loc,
		now:        time.Now,
	}
}

// today is the current calendar date in the reference timezone, as UTC
// midnight to match stored dates.
func (s *productService) today() time.Time {
	now := s.now().In(s.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// CreateProduct adds a product to a pantry. Fresh products get their
// expiration date from the purchase date and shelf life. The category is
// taken from the input, else resolved from the external id, else the
// catch-all category is used.
func (s *productService) CreateProduct(ctx context.Context, userID, pantryID string, in ProductInput) (*models.Product, error) {
	if _, err := requireMember(s.db, userID, pantryID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "product name is required")
	}
	unit, err := ledger.ParseUnit(in.Unit)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}
	q, err := ledger.New(in.InitialAmount, in.Price)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}

	expiration, err := s.expirationFor(in)
	if err != nil {
		return nil, err
	}

	categoryID, err := s.categoryFor(ctx, in)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		PantryID:       pantryID,
		CategoryID:     categoryID,
		Name:           name,
		ExternalID:     strings.TrimSpace(in.ExternalID),
		ExpirationDate: models.NewDate(expiration),
		Price:          in.Price,
		Unit:           unit,
	}
	product.SetQuantities(q)

	if err := s.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.GetProduct(userID, pantryID, product.ID)
}

func (s *productService) expirationFor(in ProductInput) (time.Time, error) {
	var expiration time.Time
	switch {
	case in.IsFreshProduct:
		if in.PurchaseDate == nil {
			return time.Time{}, apperrors.WithMessage(apperrors.ErrInvalidExpiration, "purchase date is required for fresh products")
		}
		days := DefaultShelfLifeDays
		if in.ShelfLifeDays != nil {
			days = *in.ShelfLifeDays
		}
		if days <= 0 {
			return time.Time{}, apperrors.WithMessage(apperrors.ErrInvalidExpiration, "shelf life must be at least one day")
		}
		expiration = time.Time(models.NewDate(*in.PurchaseDate)).AddDate(0, 0, days)
	case in.ExpirationDate != nil:
		expiration = time.Time(models.NewDate(*in.ExpirationDate))
	default:
		return time.Time{}, apperrors.ErrInvalidExpiration
	}

	if expiration.Before(s.today()) {
		return time.Time{}, apperrors.WithMessage(apperrors.ErrInvalidExpiration, "expiration date cannot be in the past")
	}
	return expiration, nil
}

func (s *productService) categoryFor(ctx context.Context, in ProductInput) (*string, error) {
	if in.CategoryID != nil && *in.CategoryID != "" {
		category, err := s.categories.GetCategoryByID(*in.CategoryID)
		if err != nil {
			return nil, err
		}
		return &category.ID, nil
	}

	if in.ExternalID != "" && s.resolver != nil {
		if name, ok := s.resolver.ResolveCategory(ctx, in.ExternalID); ok {
			category, err := s.categories.GetCategoryByName(name)
			if err == nil {
				return &category.ID, nil
			}
			logger.Get().Warnw("resolved category is not seeded", "category", name, "error", err)
		}
	}

	other, err := s.categories.GetCategoryByName(models.OtherCategoryName)
	if err != nil {
		if errors.Is(err, apperrors.ErrCategoryNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &other.ID, nil
}

// GetPantryProducts lists a pantry's products ordered by expiration date.
func (s *productService) GetPantryProducts(userID, pantryID string, filter ProductFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Product], error) {
	if _, err := requireMember(s.db, userID, pantryID); err != nil {
		return nil, err
	}
	page.Defaults()

	base := s.db.Model(&models.Product{}).Where("pantry_id = ?", pantryID)
	if filter.ActiveOnly {
		base = base.Where("current_amount > 0")
	}
	if filter.CategoryID != nil {
		base = base.Where("category_id = ?", *filter.CategoryID)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var products []models.Product
	if err := base.Preload("Category").
		Order("expiration_date ASC, created_at ASC").
		Scopes(pagination.Paginate(page)).
		Find(&products).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(products, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetProduct retrieves one product of a pantry.
func (s *productService) GetProduct(userID, pantryID, productID string) (*models.Product, error) {
	if _, err := requireMember(s.db, userID, pantryID); err != nil {
		return nil, err
	}
	return s.findProduct(s.db, pantryID, productID)
}

func (s *productService) findProduct(db *gorm.DB, pantryID, productID string) (*models.Product, error) {
	var product models.Product
	if err := db.Preload("Category").Where("id = ? AND pantry_id = ?", productID, pantryID).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &product, nil
}

// UpdateProduct edits a product. Amount changes go through the ledger
// adjustment rule: the current amount can only grow together with the
// initial amount and never be lowered directly.
func (s *productService) UpdateProduct(userID, pantryID, productID string, in ProductUpdate) (*models.Product, error) {
	if _, err := requireMember(s.db, userID, pantryID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "product name cannot be empty")
		}
		updates["name"] = name
	}
	if in.ExpirationDate != nil {
		updates["expiration_date"] = models.NewDate(*in.ExpirationDate)
	}
	if in.Price != nil {
		if !in.Price.IsPositive() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, ledger.ErrInvalidPrice.Error())
		}
		updates["price"] = *in.Price
	}
	if in.Unit != nil {
		unit, err := ledger.ParseUnit(*in.Unit)
		if err != nil {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
		}
		updates["unit"] = unit
	}
	if in.CategoryID != nil {
		category, err := s.categories.GetCategoryByID(*in.CategoryID)
		if err != nil {
			return nil, err
		}
		updates["category_id"] = category.ID
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		product, err := s.findProductForUpdate(tx, pantryID, productID)
		if err != nil {
			return err
		}

		if in.InitialAmount != nil || in.CurrentAmount != nil {
			q := product.Quantities()
			if err := q.Adjust(in.InitialAmount, in.CurrentAmount); err != nil {
				if errors.Is(err, ledger.ErrInvalidAmount) || errors.Is(err, ledger.ErrAmountPrecision) {
					return apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
				}
				return apperrors.ErrInvalidAmountAdjustment
			}
			updates["initial_amount"] = q.Initial
			updates["current_amount"] = q.Current
		}

		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(product).Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.findProduct(s.db, pantryID, productID)
}

func (s *productService) findProductForUpdate(tx *gorm.DB, pantryID, productID string) (*models.Product, error) {
	var product models.Product
	err := tx.Clauses(lockForUpdate()).Where("id = ? AND pantry_id = ?", productID, pantryID).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &product, nil
}

// DeleteProduct removes a product. Money already booked on the pantry's
// financial ledger stays.
func (s *productService) DeleteProduct(userID, pantryID, productID string) error {
	if _, err := requireMember(s.db, userID, pantryID); err != nil {
		return err
	}

	result := s.db.Where("id = ? AND pantry_id = ?", productID, pantryID).Delete(&models.Product{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrProductNotFound
	}
	return nil
}

// GetExpiringSoon lists products still on hand that expire between today and
// days from now, soonest first.
func (s *productService) GetExpiringSoon(userID, pantryID string, days int) ([]ExpiringProduct, error) {
	if _, err := requireMember(s.db, userID, pantryID); err != nil {
		return nil, err
	}
	if days <= 0 {
		days = DefaultExpiringDays
	}

	today := s.today()
	products, err := findExpiring(s.db, []string{pantryID}, today, today.AddDate(0, 0, days))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := make([]ExpiringProduct, 0, len(products))
	for i := range products {
		p := &products[i]
		result = append(result, ExpiringProduct{
			ID:             p.ID,
			Name:           p.Name,
			ExpirationDate: p.Expiration().Format(time.DateOnly),
			ExternalID:     p.ExternalID,
			DaysLeft:       int(p.Expiration().Sub(today).Hours() / 24),
			CurrentAmount:  p.CurrentAmount,
			Unit:           string(p.Unit),
		})
	}
	return result, nil
}

// GetByExpirationDate lists the products expiring on date, or every product
// ordered by expiration date when date is nil.
func (s *productService) GetByExpirationDate(userID, pantryID string, date *time.Time) ([]models.Product, error) {
	if _, err := requireMember(s.db, userID, pantryID); err != nil {
		return nil, err
	}

	query := s.db.Preload("Category").Where("pantry_id = ?", pantryID)
	if date != nil {
		query = query.Where("expiration_date = ?", models.NewDate(*date))
	}

	var products []models.Product
	if err := query.Order("expiration_date ASC, name ASC").Find(&products).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return products, nil
}

// findExpiring loads products with something left that expire within
// [from, to] across the given pantries.
func findExpiring(db *gorm.DB, pantryIDs []string, from, to time.Time) ([]models.Product, error) {
	var products []models.Product
	err := db.Where("pantry_id IN ? AND current_amount > 0 AND expiration_date >= ? AND expiration_date <= ?",
		pantryIDs, models.NewDate(from), models.NewDate(to)).
		Order("expiration_date ASC, name ASC").
		Find(&products).Error
	return products, err
}
