package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"foodtracker/internal/ledger"
	"foodtracker/internal/models"
)

// TestPassword is the plain-text password of every fixture user.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:                       email,
		Password:                    string(hash),
		FirstName:                   "Test",
		IsActive:                    true,
		SendExpirationNotifications: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestPantry creates a pantry owned by ownerID together with the
// owner's membership and an empty financial ledger.
func CreateTestPantry(t *testing.T, db *gorm.DB, ownerID string) *models.Pantry {
	t.Helper()

	pantry := &models.Pantry{
		Name:    fmt.Sprintf("Test Pantry %d", nextID()),
		OwnerID: ownerID,
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(pantry).Error; err != nil {
			return err
		}
		member := &models.PantryMember{PantryID: pantry.ID, UserID: ownerID, Role: models.PantryRoleOwner}
		if err := tx.Create(member).Error; err != nil {
			return err
		}
		return tx.Create(&models.FinancialLedger{
			PantryID:    pantry.ID,
			SavedValue:  decimal.Zero,
			WastedValue: decimal.Zero,
		}).Error
	})
	if err != nil {
		t.Fatalf("failed to create test pantry: %v", err)
	}
	return pantry
}

// AddTestMember adds userID to the pantry as a regular member.
func AddTestMember(t *testing.T, db *gorm.DB, pantryID, userID string) {
	t.Helper()

	member := &models.PantryMember{PantryID: pantryID, UserID: userID, Role: models.PantryRoleMember}
	if err := db.Create(member).Error; err != nil {
		t.Fatalf("failed to add test member: %v", err)
	}
}

// CreateTestCategory creates a category with the given name.
func CreateTestCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()

	category := &models.Category{Name: name, IconName: fmt.Sprintf("icon_%d", nextID())}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// ProductFixture describes a product to insert. Zero fields take defaults:
// one piece costing 10.00 that expires in a week.
type ProductFixture struct {
	Name       string
	Unit       ledger.Unit
	Initial    string
	Current    string
	Wasted     string
	Price      string
	CategoryID *string
	Expiration time.Time
	CreatedAt  time.Time
}

// CreateTestProduct inserts a product into the pantry.
func CreateTestProduct(t *testing.T, db *gorm.DB, pantryID string, f ProductFixture) *models.Product {
	t.Helper()

	if f.Name == "" {
		f.Name = fmt.Sprintf("Test Product %d", nextID())
	}
	if f.Unit == "" {
		f.Unit = ledger.UnitPiece
	}
	if f.Initial == "" {
		f.Initial = "1"
	}
	if f.Current == "" {
		f.Current = f.Initial
	}
	if f.Wasted == "" {
		f.Wasted = "0"
	}
	if f.Price == "" {
		f.Price = "10.00"
	}
	if f.Expiration.IsZero() {
		f.Expiration = time.Now().AddDate(0, 0, 7)
	}

	product := &models.Product{
		PantryID:       pantryID,
		CategoryID:     f.CategoryID,
		Name:           f.Name,
		ExpirationDate: models.NewDate(f.Expiration),
		Price:          decimal.RequireFromString(f.Price),
		Unit:           f.Unit,
		InitialAmount:  decimal.RequireFromString(f.Initial),
		CurrentAmount:  decimal.RequireFromString(f.Current),
		WastedAmount:   decimal.RequireFromString(f.Wasted),
	}
	if !f.CreatedAt.IsZero() {
		product.CreatedAt = f.CreatedAt
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("failed to create test product: %v", err)
	}
	return product
}
