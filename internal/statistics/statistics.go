// Package statistics derives read-only views over a pantry's products.
package statistics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"foodtracker/internal/achievements"
	"foodtracker/internal/ledger"
	"foodtracker/internal/models"
)

// DefaultMostWastedLimit is the number of products MostWasted returns when
// no limit is given.
const DefaultMostWastedLimit = 3

// DefaultTrendDays is the trailing window AdditionTrend covers by default.
const DefaultTrendDays = 30

// CategoryWaste sums consumed and wasted amounts of one category. Pieces,
// grams and millilitres are kept apart since they cannot be added up.
type CategoryWaste struct {
	CategoryName string  `json:"category_name"`
	IconName     string  `json:"icon_name"`
	SavedSzt     float64 `json:"saved_szt"`
	WastedSzt    float64 `json:"wasted_szt"`
	SavedGrams   float64 `json:"saved_grams"`
	WastedGrams  float64 `json:"wasted_grams"`
	SavedML      float64 `json:"saved_ml"`
	WastedML     float64 `json:"wasted_ml"`
}

// WastedProduct is a product ranked by the value of its wasted part.
type WastedProduct struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	WastedValue float64 `json:"wasted_value"`
}

// TrendPoint is the number of products added on one calendar day.
type TrendPoint struct {
	Date   string  `json:"date"`
	Period string  `json:"period"`
	Added  float64 `json:"added"`
}

// ProductCounts summarises a pantry's product history.
type ProductCounts struct {
	Total  int `json:"total"`
	Used   int `json:"used"`
	Wasted int `json:"wasted"`
	Active int `json:"active"`
}

type categorySums struct {
	icon                    string
	savedSzt, wastedSzt     decimal.Decimal
	savedGrams, wastedGrams decimal.Decimal
	savedML, wastedML       decimal.Decimal
}

func (s *categorySums) empty() bool {
	for _, v := range []decimal.Decimal{s.savedSzt, s.wastedSzt, s.savedGrams, s.wastedGrams, s.savedML, s.wastedML} {
		if !v.IsZero() {
			return false
		}
	}
	return true
}

// CategoryBreakdown groups products by category name. Products without a
// loaded category fall into the catch-all category. Categories whose sums
// are all zero are left out; rows are sorted by name.
func CategoryBreakdown(products []models.Product) []CategoryWaste {
	groups := map[string]*categorySums{}
	for i := range products {
		p := &products[i]
		name, icon := models.OtherCategoryName, models.OtherCategoryIcon
		if p.Category != nil && p.Category.Name != models.OtherCategoryName {
			name, icon = p.Category.Name, p.Category.IconName
		}

		g, ok := groups[name]
		if !ok {
			g = &categorySums{icon: icon}
			groups[name] = g
		}

		q := p.Quantities()
		used := p.Unit.Normalize(q.Used())
		wasted := p.Unit.Normalize(q.Wasted)
		switch p.Unit.Class() {
		case ledger.ClassPiece:
			g.savedSzt = g.savedSzt.Add(used)
			g.wastedSzt = g.wastedSzt.Add(wasted)
		case ledger.ClassMass:
			g.savedGrams = g.savedGrams.Add(used)
			g.wastedGrams = g.wastedGrams.Add(wasted)
		case ledger.ClassVolume:
			g.savedML = g.savedML.Add(used)
			g.wastedML = g.wastedML.Add(wasted)
		}
	}

	rows := make([]CategoryWaste, 0, len(groups))
	for name, g := range groups {
		if g.empty() {
			continue
		}
		rows = append(rows, CategoryWaste{
			CategoryName: name,
			IconName:     g.icon,
			SavedSzt:     g.savedSzt.InexactFloat64(),
			WastedSzt:    g.wastedSzt.InexactFloat64(),
			SavedGrams:   g.savedGrams.InexactFloat64(),
			WastedGrams:  g.wastedGrams.InexactFloat64(),
			SavedML:      g.savedML.InexactFloat64(),
			WastedML:     g.wastedML.InexactFloat64(),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CategoryName < rows[j].CategoryName })
	return rows
}

// MostWasted returns up to limit products ranked by the value of what was
// thrown away, highest first.
func MostWasted(products []models.Product, limit int) []WastedProduct {
	if limit <= 0 {
		limit = DefaultMostWastedLimit
	}

	type ranked struct {
		product *models.Product
		value   decimal.Decimal
	}
	candidates := make([]ranked, 0, len(products))
	for i := range products {
		p := &products[i]
		if !p.WastedAmount.IsPositive() || !p.InitialAmount.IsPositive() {
			continue
		}
		candidates = append(candidates, ranked{
			product: p,
			value:   ledger.UnitValue(p.Price, p.InitialAmount).Mul(p.WastedAmount),
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].value.GreaterThan(candidates[j].value)
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	result := make([]WastedProduct, 0, len(candidates))
	for _, c := range candidates {
		result = append(result, WastedProduct{
			ID:          c.product.ID,
			Name:        c.product.Name,
			WastedValue: c.value.Round(ledger.MoneyPlaces).InexactFloat64(),
		})
	}
	return result
}

// AdditionTrend counts products added on each of the last days calendar
// days up to and including today in loc. Piece products weigh their initial
// amount, every other product counts once. Days without additions are
// reported with zero.
func AdditionTrend(products []models.Product, days int, now time.Time, loc *time.Location) []TrendPoint {
	if days <= 0 {
		days = DefaultTrendDays
	}
	now = now.In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	start := today.AddDate(0, 0, -(days - 1))

	buckets := make(map[string]decimal.Decimal, days)
	for i := range products {
		p := &products[i]
		created := p.CreatedAt.In(loc)
		key := created.Format(time.DateOnly)
		if created.Before(start) {
			continue
		}
		weight := decimal.NewFromInt(1)
		if p.Unit.IsPiece() {
			weight = p.InitialAmount
		}
		buckets[key] = buckets[key].Add(weight)
	}

	points := make([]TrendPoint, 0, days)
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i)
		key := day.Format(time.DateOnly)
		points = append(points, TrendPoint{
			Date:   key,
			Period: day.Format("02.01"),
			Added:  buckets[key].InexactFloat64(),
		})
	}
	return points
}

// Counts reads the product totals out of an aggregated progress snapshot.
func Counts(progress achievements.Progress) ProductCounts {
	return ProductCounts{
		Total:  int(progress.Get(achievements.SignalTotalProducts)),
		Used:   int(progress.Get(achievements.SignalSavedProducts)),
		Wasted: int(progress.Get(achievements.SignalWastedProducts)),
		Active: int(progress.Get(achievements.SignalActiveProductsCount)),
	}
}
