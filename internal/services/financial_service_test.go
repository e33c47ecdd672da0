package services

import (
	"testing"

	"gorm.io/gorm"

	"foodtracker/internal/models"
	"foodtracker/internal/testutil"
)

func TestFinancialGetOrCreate(t *testing.T) {
	t.Run("creates_missing_row_once", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFinancialService(db)
		owner := testutil.CreateTestUser(t, db)
		pantry := testutil.CreateTestPantry(t, db, owner.ID)
		db.Where("pantry_id = ?", pantry.ID).Delete(&models.FinancialLedger{})

		for i := 0; i < 2; i++ {
			err := db.Transaction(func(tx *gorm.DB) error {
				row, err := svc.GetOrCreate(tx, pantry.ID)
				if err != nil {
					return err
				}
				testutil.AssertDecimal(t, "saved", "0", row.SavedValue)
				testutil.AssertDecimal(t, "wasted", "0", row.WastedValue)
				return nil
			})
			testutil.AssertNoError(t, err)
		}

		var count int64
		db.Model(&models.FinancialLedger{}).Where("pantry_id = ?", pantry.ID).Count(&count)
		if count != 1 {
			t.Errorf("expected exactly 1 ledger row, got %d", count)
		}
	})
}

func TestFinancialRecord(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewFinancialService(db)
	owner := testutil.CreateTestUser(t, db)
	pantry := testutil.CreateTestPantry(t, db, owner.ID)

	t.Run("accumulates_by_kind", func(t *testing.T) {
		err := db.Transaction(func(tx *gorm.DB) error {
			if _, err := svc.Record(tx, pantry.ID, ActionUse, dec("4.00")); err != nil {
				return err
			}
			if _, err := svc.Record(tx, pantry.ID, ActionUse, dec("1.50")); err != nil {
				return err
			}
			_, err := svc.Record(tx, pantry.ID, ActionWaste, dec("6.00"))
			return err
		})
		testutil.AssertNoError(t, err)

		summary, err := svc.GetSummary(owner.ID, pantry.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, "saved", "5.50", summary.Saved)
		testutil.AssertDecimal(t, "wasted", "6.00", summary.Wasted)
	})

	t.Run("rejects_negative_delta", func(t *testing.T) {
		err := db.Transaction(func(tx *gorm.DB) error {
			_, err := svc.Record(tx, pantry.ID, ActionUse, dec("-1"))
			return err
		})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("rolled_back_with_transaction", func(t *testing.T) {
		before, err := svc.GetSummary(owner.ID, pantry.ID)
		testutil.AssertNoError(t, err)

		_ = db.Transaction(func(tx *gorm.DB) error {
			if _, err := svc.Record(tx, pantry.ID, ActionWaste, dec("100")); err != nil {
				return err
			}
			return gorm.ErrInvalidTransaction
		})

		after, err := svc.GetSummary(owner.ID, pantry.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, "wasted", before.Wasted.String(), after.Wasted)
	})
}

func TestFinancialSummaryAccess(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewFinancialService(db)
	owner := testutil.CreateTestUser(t, db)
	stranger := testutil.CreateTestUser(t, db)
	pantry := testutil.CreateTestPantry(t, db, owner.ID)

	_, err := svc.GetSummary(stranger.ID, pantry.ID)
	testutil.AssertAppError(t, err, "PANTRY_NOT_FOUND")
}
