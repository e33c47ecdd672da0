package services

import (
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"foodtracker/internal/achievements"
	"foodtracker/internal/models"
	"foodtracker/internal/testutil"
)

func TestProgress(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewProgressService(db, time.UTC)
	owner := testutil.CreateTestUser(t, db)
	stranger := testutil.CreateTestUser(t, db)
	pantry := testutil.CreateTestPantry(t, db, owner.ID)

	testutil.CreateTestProduct(t, db, pantry.ID, testutil.ProductFixture{Name: "Ser gouda", Initial: "3", Current: "1", Wasted: "1", Price: "9"})
	testutil.CreateTestProduct(t, db, pantry.ID, testutil.ProductFixture{Name: "Mąka", Unit: "kg", Initial: "1", Current: "0", Wasted: "0", Price: "4"})
	testutil.CreateTestProduct(t, db, pantry.ID, testutil.ProductFixture{Name: "Mleko", Unit: "l", Initial: "2", Current: "0", Wasted: "1", Price: "6"})
	db.Model(&models.FinancialLedger{}).Where("pantry_id = ?", pantry.ID).Update("saved_value", decimal.RequireFromString("12.50"))

	t.Run("signals", func(t *testing.T) {
		progress, err := svc.Progress(owner.ID, pantry.ID)
		testutil.AssertNoError(t, err)

		want := map[achievements.Signal]float64{
			achievements.SignalSavedProducts:       2,
			achievements.SignalWastedProducts:      2,
			achievements.SignalTotalProducts:       5,
			achievements.SignalMoneySaved:          12.5,
			achievements.SignalCheeseProducts:      1,
			achievements.SignalActiveProductsCount: 1,
			achievements.SignalActiveValue:         3,
			achievements.SignalEfficiencyRate:      50,
		}
		for signal, v := range want {
			if got := progress.Get(signal); got != v {
				t.Errorf("expected %s = %v, got %v", signal, v, got)
			}
		}
	})

	t.Run("achievements_follow_progress", func(t *testing.T) {
		statuses, err := svc.Achievements(owner.ID, pantry.ID)
		testutil.AssertNoError(t, err)

		achieved := achievements.AchievedIDs(statuses)
		for _, id := range []string{"saved_1", "pioneer_1", "money_saver_10"} {
			if !achieved[id] {
				t.Errorf("expected %s to be achieved", id)
			}
		}
		if achieved["money_saver_100"] {
			t.Error("money_saver_100 must not be achieved")
		}
	})

	t.Run("non_member", func(t *testing.T) {
		_, err := svc.Progress(stranger.ID, pantry.ID)
		testutil.AssertAppError(t, err, "PANTRY_NOT_FOUND")
	})
}

func TestProgressWithoutLedger(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewProgressService(db, time.UTC)
	owner := testutil.CreateTestUser(t, db)
	pantry := testutil.CreateTestPantry(t, db, owner.ID)
	db.Where("pantry_id = ?", pantry.ID).Delete(&models.FinancialLedger{})

	progress, err := svc.Progress(owner.ID, pantry.ID)
	testutil.AssertNoError(t, err)
	if progress.Get(achievements.SignalMoneySaved) != 0 {
		t.Errorf("expected no money saved, got %v", progress.Get(achievements.SignalMoneySaved))
	}
}

func TestSnapshotTxOptions(t *testing.T) {
	if opts := snapshotTxOptions("sqlite"); opts != nil {
		t.Errorf("sqlite snapshot should use default options, got %+v", opts)
	}
	opts := snapshotTxOptions("postgres")
	if opts == nil {
		t.Fatal("postgres snapshot needs explicit options")
	}
	if opts.Isolation != sql.LevelRepeatableRead || !opts.ReadOnly {
		t.Errorf("expected read-only repeatable read, got %+v", opts)
	}
}
