package services

import (
	"testing"

	"foodtracker/internal/catalog"
	"foodtracker/internal/models"
	"foodtracker/internal/testutil"
)

func seedCatalog(t *testing.T, svc CategoryServicer) []catalog.Entry {
	t.Helper()
	entries, err := catalog.Categories()
	testutil.AssertNoError(t, err)
	testutil.AssertNoError(t, svc.SeedCategories(entries))
	return entries
}

func TestSeedCategories(t *testing.T) {
	t.Run("inserts_catalog", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		entries := seedCatalog(t, svc)

		categories, err := svc.GetCategories()
		testutil.AssertNoError(t, err)
		if len(categories) != len(entries) {
			t.Fatalf("expected %d categories, got %d", len(entries), len(categories))
		}
		for i := 1; i < len(categories); i++ {
			if categories[i-1].Name > categories[i].Name {
				t.Errorf("categories not sorted: %q before %q", categories[i-1].Name, categories[i].Name)
			}
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		entries := seedCatalog(t, svc)
		testutil.AssertNoError(t, svc.SeedCategories(entries))

		var count int64
		db.Model(&models.Category{}).Count(&count)
		if count != int64(len(entries)) {
			t.Errorf("expected %d categories after reseeding, got %d", len(entries), count)
		}
	})
}

func TestGetCategory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewCategoryService(db)
	seedCatalog(t, svc)

	other, err := svc.GetCategoryByName(models.OtherCategoryName)
	testutil.AssertNoError(t, err)
	if other.IconName != models.OtherCategoryIcon {
		t.Errorf("expected icon %q, got %q", models.OtherCategoryIcon, other.IconName)
	}

	byID, err := svc.GetCategoryByID(other.ID)
	testutil.AssertNoError(t, err)
	if byID.Name != other.Name {
		t.Errorf("expected %q, got %q", other.Name, byID.Name)
	}

	_, err = svc.GetCategoryByName("Nieistniejąca")
	testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")

	_, err = svc.GetCategoryByID("0190c1a2-0000-7000-8000-00000000ffff")
	testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
}
