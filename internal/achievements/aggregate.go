package achievements

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"foodtracker/internal/ledger"
	"foodtracker/internal/models"
)

var (
	cheeseKeywords   = []string{"ser"}
	healthyKeywords  = []string{"sałata", "owoc", "warzywo"}
	caffeineKeywords = []string{"kawa", "herbata"}
)

const (
	nightEndHour   = 4
	morningEndHour = 9
)

// Snapshot is everything Aggregate reads. Callers load it inside a single
// read transaction so every signal sees the same state.
type Snapshot struct {
	Products      []models.Product
	SavedValue    decimal.Decimal
	UserCreatedAt time.Time
}

// Aggregate computes every signal from snap as of now. Calendar days,
// weekdays and hours are evaluated in loc.
func Aggregate(snap Snapshot, now time.Time, loc *time.Location) Progress {
	now = now.In(loc)
	today := dateOf(now)
	weekday := isoWeekday(now)
	saturday := today.AddDate(0, 0, 6-weekday)
	sunday := saturday.AddDate(0, 0, 1)

	var (
		savedPieces, wastedPieces, totalPieces decimal.Decimal
		savedEvents, wastedEvents, rows        int
		spent, activeValue                     decimal.Decimal
		cheese, night, active, addedToday      int
		sundayAdds, weekendAdds                int
		caffeine, healthy                      int
	)
	two := decimal.NewFromInt(2)

	for i := range snap.Products {
		p := &snap.Products[i]
		q := p.Quantities()

		if p.Unit == ledger.UnitPiece {
			totalPieces = totalPieces.Add(q.Initial)
			savedPieces = savedPieces.Add(q.Used())
			wastedPieces = wastedPieces.Add(q.Wasted)
		} else {
			rows++
			if q.IsDepleted() {
				if q.Wasted.Mul(two).LessThan(q.Initial) {
					savedEvents++
				} else {
					wastedEvents++
				}
			}
		}

		spent = spent.Add(p.Price.Mul(q.Initial))
		if q.Current.IsPositive() {
			active++
			activeValue = activeValue.Add(ledger.UnitValue(p.Price, q.Initial).Mul(q.Current))
		}

		name := strings.ToLower(p.Name)
		if containsAny(name, cheeseKeywords) {
			cheese++
		}

		created := p.CreatedAt.In(loc)
		createdDay := dateOf(created)
		if created.Hour() <= nightEndHour {
			night++
		}
		if createdDay.Equal(saturday) || createdDay.Equal(sunday) {
			weekendAdds++
		}
		if !createdDay.Equal(today) {
			continue
		}
		addedToday++
		if weekday == 7 {
			sundayAdds++
		}
		if weekday == 1 && containsAny(name, healthyKeywords) {
			healthy++
		}
		if created.Hour() < morningEndHour && containsAny(name, caffeineKeywords) {
			caffeine++
		}
	}

	saved := int(savedPieces.IntPart()) + savedEvents
	wasted := int(wastedPieces.IntPart()) + wastedEvents
	total := int(totalPieces.IntPart()) + rows

	efficiency := 0.0
	if saved+wasted > 0 {
		efficiency = math.Round(100 * float64(saved) / float64(saved+wasted))
	}

	daysAsUser := 0.0
	if !snap.UserCreatedAt.IsZero() {
		daysAsUser = math.Max(0, today.Sub(dateOf(snap.UserCreatedAt.In(loc))).Hours()/24)
	}

	return Progress{
		SignalSavedProducts:       float64(saved),
		SignalWastedProducts:      float64(wasted),
		SignalTotalProducts:       float64(total),
		SignalMoneySaved:          snap.SavedValue.InexactFloat64(),
		SignalTotalSpentValue:     spent.InexactFloat64(),
		SignalActiveValue:         activeValue.Round(ledger.MoneyPlaces).InexactFloat64(),
		SignalCheeseProducts:      float64(cheese),
		SignalNightActions:        float64(night),
		SignalActiveProductsCount: float64(active),
		SignalDayAddStreak:        float64(addedToday),
		SignalSundayAdds:          float64(sundayAdds),
		SignalWeekendAdds:         float64(weekendAdds),
		SignalMorningCaffeineAdd:  float64(caffeine),
		SignalHealthyMondayAdd:    float64(healthy),
		SignalEfficiencyRate:      efficiency,
		SignalDaysAsUser:          math.Floor(daysAsUser),
	}
}

// dateOf returns the calendar date of t as UTC midnight, so dates taken in
// any zone can be compared and subtracted without DST effects.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// isoWeekday numbers Monday as 1 and Sunday as 7.
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
