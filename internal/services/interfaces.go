package services

import (
	"context"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"foodtracker/internal/achievements"
	"foodtracker/internal/catalog"
	"foodtracker/internal/models"
	"foodtracker/internal/openfoodfacts"
	"foodtracker/internal/pagination"
	"foodtracker/internal/statistics"
)

// UserSettings holds the profile fields a user may change. Nil fields are
// left untouched.
type UserSettings struct {
	FirstName                   *string
	LastName                    *string
	SendExpirationNotifications *bool
}

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID string, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
	UpdateSettings(userID string, settings UserSettings) (*models.User, error)
	ChangePassword(userID, currentPassword, newPassword string) error
	DeleteUser(userID string) error
	UploadAvatar(ctx context.Context, userID, filename, contentType string, body io.Reader) (*models.User, error)
}

// Invitation is a freshly issued pantry invitation link.
type Invitation struct {
	Token     string    `json:"token"`
	Link      string    `json:"invitation_link"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PantryServicer defines the contract for pantry and membership logic.
type PantryServicer interface {
	CreatePantry(userID, name string) (*models.Pantry, error)
	GetUserPantries(userID string) ([]models.Pantry, error)
	GetPantry(userID, pantryID string) (*models.Pantry, error)
	RenamePantry(userID, pantryID, name string) (*models.Pantry, error)
	DeletePantry(userID, pantryID string) error
	RemoveMember(userID, pantryID, memberID string) error
	LeavePantry(userID, pantryID string) error
	CreateInvitation(userID, pantryID string) (*Invitation, error)
	AcceptInvitation(userID, token string) (*models.Pantry, error)
}

// ProductInput carries the fields of a new product.
type ProductInput struct {
	Name           string
	ExternalID     string
	CategoryID     *string
	ExpirationDate *time.Time
	IsFreshProduct bool
	PurchaseDate   *time.Time
	ShelfLifeDays  *int
	Price          decimal.Decimal
	Unit           string
	InitialAmount  decimal.Decimal
}

// ProductUpdate carries an edit of a product. Nil fields are left untouched.
type ProductUpdate struct {
	Name           *string
	ExpirationDate *time.Time
	Price          *decimal.Decimal
	Unit           *string
	CategoryID     *string
	InitialAmount  *decimal.Decimal
	CurrentAmount  *decimal.Decimal
}

// ProductFilter narrows a product listing.
type ProductFilter struct {
	ActiveOnly bool
	CategoryID *string
}

// ExpiringProduct is a product nearing its expiration date.
type ExpiringProduct struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	ExpirationDate string          `json:"expiration_date"`
	ExternalID     string          `json:"external_id,omitempty"`
	DaysLeft       int             `json:"days_left"`
	CurrentAmount  decimal.Decimal `json:"current_amount"`
	Unit           string          `json:"unit"`
}

// CategoryResolver maps an external product id to a category name.
type CategoryResolver interface {
	ResolveCategory(ctx context.Context, externalID string) (string, bool)
}

// ProductServicer defines the contract for product bookkeeping.
type ProductServicer interface {
	CreateProduct(ctx context.Context, userID, pantryID string, in ProductInput) (*models.Product, error)
	GetPantryProducts(userID, pantryID string, filter ProductFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Product], error)
	GetProduct(userID, pantryID, productID string) (*models.Product, error)
	UpdateProduct(userID, pantryID, productID string, in ProductUpdate) (*models.Product, error)
	DeleteProduct(userID, pantryID, productID string) error
	GetExpiringSoon(userID, pantryID string, days int) ([]ExpiringProduct, error)
	GetByExpirationDate(userID, pantryID string, date *time.Time) ([]models.Product, error)
}

// ActionKind is the type of amount withdrawal applied to a product.
type ActionKind string

const (
	ActionUse   ActionKind = "use"
	ActionWaste ActionKind = "waste"
)

// ActionResult is the outcome of a use or waste action.
type ActionResult struct {
	Product              *models.Product       `json:"product"`
	UnlockedAchievements []achievements.Status `json:"unlocked_achievements"`
}

// ActionServicer applies use and waste actions to products.
type ActionServicer interface {
	Use(userID, pantryID, productID string, amount decimal.Decimal) (*ActionResult, error)
	Waste(userID, pantryID, productID string, amount decimal.Decimal) (*ActionResult, error)
}

// FinancialSummary is the money total of a pantry.
type FinancialSummary struct {
	Saved  decimal.Decimal `json:"saved"`
	Wasted decimal.Decimal `json:"wasted"`
}

// FinancialServicer defines the contract for the per-pantry money ledger.
type FinancialServicer interface {
	GetOrCreate(tx *gorm.DB, pantryID string) (*models.FinancialLedger, error)
	Record(tx *gorm.DB, pantryID string, kind ActionKind, delta decimal.Decimal) (*models.FinancialLedger, error)
	GetSummary(userID, pantryID string) (*FinancialSummary, error)
}

// ProgressServicer computes achievement progress for a pantry.
type ProgressServicer interface {
	Progress(userID, pantryID string) (achievements.Progress, error)
	Achievements(userID, pantryID string) ([]achievements.Status, error)
	AchievementsWithin(tx *gorm.DB, userID, pantryID string) ([]achievements.Status, error)
}

// StatisticsServicer defines the contract for pantry statistics.
type StatisticsServicer interface {
	GetProductCounts(userID, pantryID string) (*statistics.ProductCounts, error)
	GetCategoryBreakdown(userID, pantryID string) ([]statistics.CategoryWaste, error)
	GetMostWasted(userID, pantryID string, limit int) ([]statistics.WastedProduct, error)
	GetAdditionTrend(userID, pantryID string, days int) ([]statistics.TrendPoint, error)
}

// CategoryServicer defines the contract for the seeded category taxonomy.
type CategoryServicer interface {
	SeedCategories(entries []catalog.Entry) error
	GetCategories() ([]models.Category, error)
	GetCategoryByID(id string) (*models.Category, error)
	GetCategoryByName(name string) (*models.Category, error)
}

// ProductSearcher looks products up in an external database.
type ProductSearcher interface {
	SearchProducts(ctx context.Context, query string) ([]openfoodfacts.SearchResult, error)
}

// NotificationTrigger starts an expiration reminder run.
type NotificationTrigger interface {
	Trigger()
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID string, action, resourceType string, resourceID string, ipAddress string, changes map[string]interface{})
}
