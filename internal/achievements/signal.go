package achievements

// Signal names one progress value computed by Aggregate.
type Signal string

const (
	SignalSavedProducts       Signal = "saved_products"
	SignalWastedProducts      Signal = "wasted_products"
	SignalTotalProducts       Signal = "total_products"
	SignalMoneySaved          Signal = "money_saved"
	SignalTotalSpentValue     Signal = "total_spent_value"
	SignalActiveValue         Signal = "active_value"
	SignalCheeseProducts      Signal = "cheese_products"
	SignalNightActions        Signal = "night_actions"
	SignalActiveProductsCount Signal = "active_products_count"
	SignalDayAddStreak        Signal = "day_add_streak"
	SignalSundayAdds          Signal = "sunday_adds"
	SignalWeekendAdds         Signal = "weekend_adds"
	SignalMorningCaffeineAdd  Signal = "morning_caffeine_add"
	SignalHealthyMondayAdd    Signal = "healthy_monday_add"
	SignalEfficiencyRate      Signal = "efficiency_rate"
	SignalDaysAsUser          Signal = "days_as_user"
)

// Signals returns every signal Aggregate produces.
func Signals() []Signal {
	return []Signal{
		SignalSavedProducts,
		SignalWastedProducts,
		SignalTotalProducts,
		SignalMoneySaved,
		SignalTotalSpentValue,
		SignalActiveValue,
		SignalCheeseProducts,
		SignalNightActions,
		SignalActiveProductsCount,
		SignalDayAddStreak,
		SignalSundayAdds,
		SignalWeekendAdds,
		SignalMorningCaffeineAdd,
		SignalHealthyMondayAdd,
		SignalEfficiencyRate,
		SignalDaysAsUser,
	}
}

// Progress maps each signal to its current value.
type Progress map[Signal]float64

// Get returns the value of s, or zero when it is absent.
func (p Progress) Get(s Signal) float64 {
	return p[s]
}
