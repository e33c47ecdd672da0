package statistics

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodtracker/internal/achievements"
	"foodtracker/internal/ledger"
	"foodtracker/internal/models"
)

func product(id, name string, unit ledger.Unit, price, initial, current, wasted string, cat *models.Category) models.Product {
	p := models.Product{
		Name:          name,
		Unit:          unit,
		Price:         decimal.RequireFromString(price),
		InitialAmount: decimal.RequireFromString(initial),
		CurrentAmount: decimal.RequireFromString(current),
		WastedAmount:  decimal.RequireFromString(wasted),
		Category:      cat,
	}
	p.ID = id
	return p
}

func TestCategoryBreakdown(t *testing.T) {
	dairy := &models.Category{Name: "Nabiał", IconName: "dairy"}
	drinks := &models.Category{Name: "Napoje", IconName: "beverages"}
	other := &models.Category{Name: "Inne", IconName: "ignored"}

	t.Run("piece_split", func(t *testing.T) {
		rows := CategoryBreakdown([]models.Product{
			product("1", "Jogurt", ledger.UnitPiece, "5", "2", "0", "1", dairy),
		})
		require.Len(t, rows, 1)
		assert.Equal(t, "Nabiał", rows[0].CategoryName)
		assert.Equal(t, "dairy", rows[0].IconName)
		assert.Equal(t, 1.0, rows[0].SavedSzt)
		assert.Equal(t, 1.0, rows[0].WastedSzt)
	})

	t.Run("unit_classes_normalised", func(t *testing.T) {
		rows := CategoryBreakdown([]models.Product{
			product("1", "Ser", ledger.UnitKilogram, "30", "1", "0", "0.25", dairy),
			product("2", "Masło", ledger.UnitGram, "8", "200", "50", "0", dairy),
			product("3", "Sok", ledger.UnitLiter, "6", "1", "0", "0.5", drinks),
			product("4", "Woda", ledger.UnitMilliliter, "2", "500", "0", "0", drinks),
		})
		require.Len(t, rows, 2)

		assert.Equal(t, "Nabiał", rows[0].CategoryName)
		assert.Equal(t, 900.0, rows[0].SavedGrams)
		assert.Equal(t, 250.0, rows[0].WastedGrams)

		assert.Equal(t, "Napoje", rows[1].CategoryName)
		assert.Equal(t, 1000.0, rows[1].SavedML)
		assert.Equal(t, 500.0, rows[1].WastedML)
	})

	t.Run("missing_category_falls_back_to_other", func(t *testing.T) {
		rows := CategoryBreakdown([]models.Product{
			product("1", "X", ledger.UnitPiece, "1", "3", "1", "1", nil),
			product("2", "Y", ledger.UnitPiece, "1", "1", "0", "1", other),
		})
		require.Len(t, rows, 1)
		assert.Equal(t, models.OtherCategoryName, rows[0].CategoryName)
		assert.Equal(t, models.OtherCategoryIcon, rows[0].IconName)
		assert.Equal(t, 1.0, rows[0].SavedSzt)
		assert.Equal(t, 2.0, rows[0].WastedSzt)
	})

	t.Run("untouched_categories_dropped", func(t *testing.T) {
		rows := CategoryBreakdown([]models.Product{
			product("1", "Mleko", ledger.UnitPiece, "4", "2", "2", "0", dairy),
		})
		assert.Empty(t, rows)
	})
}

func TestMostWasted(t *testing.T) {
	products := []models.Product{
		product("a", "Cheap", ledger.UnitPiece, "2", "2", "0", "2", nil),
		product("b", "Pricey", ledger.UnitPiece, "30", "3", "0", "1", nil),
		product("c", "Clean", ledger.UnitPiece, "100", "1", "0", "0", nil),
		product("d", "Middle", ledger.UnitGram, "10", "1000", "0", "500", nil),
		product("e", "Tiny", ledger.UnitPiece, "1", "10", "9", "1", nil),
	}

	got := MostWasted(products, 0)
	require.Len(t, got, DefaultMostWastedLimit)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, 10.0, got[0].WastedValue)
	assert.Equal(t, "d", got[1].ID)
	assert.Equal(t, 5.0, got[1].WastedValue)
	assert.Equal(t, "a", got[2].ID)

	assert.Len(t, MostWasted(products, 10), 4)
}

func TestAdditionTrend(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Warsaw")
	require.NoError(t, err)
	now := time.Date(2025, 6, 4, 10, 0, 0, 0, loc)

	at := func(p models.Product, ts time.Time) models.Product {
		p.CreatedAt = ts
		return p
	}
	products := []models.Product{
		at(product("1", "Jajka", ledger.UnitPiece, "10", "6", "6", "0", nil), time.Date(2025, 6, 4, 8, 0, 0, 0, loc)),
		at(product("2", "Mąka", ledger.UnitGram, "5", "1000", "1000", "0", nil), time.Date(2025, 6, 4, 9, 0, 0, 0, loc)),
		// 22:30 UTC on 1 June is already 2 June in Warsaw.
		at(product("3", "Mleko", ledger.UnitLiter, "4", "1", "1", "0", nil), time.Date(2025, 6, 1, 22, 30, 0, 0, time.UTC)),
		at(product("4", "Stare", ledger.UnitPiece, "1", "1", "1", "0", nil), time.Date(2025, 5, 1, 9, 0, 0, 0, loc)),
	}

	points := AdditionTrend(products, 7, now, loc)
	require.Len(t, points, 7)
	assert.Equal(t, "2025-05-29", points[0].Date)
	assert.Equal(t, "29.05", points[0].Period)
	assert.Equal(t, "2025-06-04", points[6].Date)
	assert.Equal(t, 7.0, points[6].Added)
	assert.Equal(t, 1.0, points[4].Added, "2 June")
	assert.Equal(t, 0.0, points[3].Added, "1 June")

	total := 0.0
	for _, p := range points {
		total += p.Added
	}
	assert.Equal(t, 8.0, total)

	assert.Len(t, AdditionTrend(nil, 0, now, loc), DefaultTrendDays)
}

func TestCounts(t *testing.T) {
	counts := Counts(achievements.Progress{
		achievements.SignalTotalProducts:       7,
		achievements.SignalSavedProducts:       2,
		achievements.SignalWastedProducts:      3,
		achievements.SignalActiveProductsCount: 1,
	})
	assert.Equal(t, ProductCounts{Total: 7, Used: 2, Wasted: 3, Active: 1}, counts)
}
