package achievements

// ThresholdKind says how a progress value is compared to a threshold.
type ThresholdKind int

const (
	// ThresholdCount compares whole numbers; progress is truncated first.
	ThresholdCount ThresholdKind = iota
	// ThresholdAmount compares fractional values such as money.
	ThresholdAmount
)

// Threshold is the progress value at which an achievement is reached.
type Threshold struct {
	Kind  ThresholdKind
	Value float64
}

// Count is a whole-number threshold.
func Count(n int) Threshold {
	return Threshold{Kind: ThresholdCount, Value: float64(n)}
}

// Amount is a fractional threshold.
func Amount(v float64) Threshold {
	return Threshold{Kind: ThresholdAmount, Value: v}
}

// Definition is one entry of the achievement catalog.
type Definition struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Signal      Signal
	Threshold   Threshold
}

var catalog = [...]Definition{
	{ID: "saved_1", Name: "Pierwszy Krok", Description: "Uratuj 1 produkt.", Icon: "🥇", Signal: SignalSavedProducts, Threshold: Count(1)},
	{ID: "saved_10", Name: "Strażnik Żywności", Description: "Uratuj 10 produktów.", Icon: "🥉", Signal: SignalSavedProducts, Threshold: Count(10)},
	{ID: "saved_50", Name: "Superbohater", Description: "Uratuj 50 produktów.", Icon: "🌟", Signal: SignalSavedProducts, Threshold: Count(50)},
	{ID: "saved_100", Name: "Legenda", Description: "Uratuj 100 produktów.", Icon: "👑", Signal: SignalSavedProducts, Threshold: Count(100)},
	{ID: "saved_250", Name: "Arcymistrz Oszczędzania", Description: "Uratuj 250 produktów.", Icon: "🏆", Signal: SignalSavedProducts, Threshold: Count(250)},
	{ID: "efficiency_90", Name: "Pogromca Marnotrawstwa", Description: "Osiągnij 90% wskaźnika efektywności.", Icon: "🎯", Signal: SignalEfficiencyRate, Threshold: Count(90)},
	{ID: "pioneer_1", Name: "Pionier", Description: "Dodaj swój pierwszy produkt.", Icon: "🚀", Signal: SignalTotalProducts, Threshold: Count(1)},
	{ID: "collector_25", Name: "Kolekcjoner", Description: "Dodaj do aplikacji 25 produktów.", Icon: "📚", Signal: SignalTotalProducts, Threshold: Count(25)},
	{ID: "collector_100", Name: "Władca Spiżarni", Description: "Dodaj do aplikacji 100 produktów.", Icon: "🏰", Signal: SignalTotalProducts, Threshold: Count(100)},
	{ID: "work_titan_10", Name: "Tytan Pracy", Description: "Dodaj 10 produktów w ciągu jednego dnia.", Icon: "💪", Signal: SignalDayAddStreak, Threshold: Count(10)},
	{ID: "full_house_20", Name: "Pełna Chata", Description: "Miej jednocześnie 20 aktywnych produktów.", Icon: "🏠", Signal: SignalActiveProductsCount, Threshold: Count(20)},
	{ID: "money_saver_10", Name: "Oszczędny Start", Description: "Zaoszczędź 10 zł.", Icon: "💰", Signal: SignalMoneySaved, Threshold: Amount(10)},
	{ID: "money_saver_100", Name: "Mistrz Budżetu", Description: "Zaoszczędź 100 zł.", Icon: "💸", Signal: SignalMoneySaved, Threshold: Amount(100)},
	{ID: "money_saver_500", Name: "Finansowy Czarodziej", Description: "Zaoszczędź 500 zł.", Icon: "🎩", Signal: SignalMoneySaved, Threshold: Amount(500)},
	{ID: "money_saver_1000", Name: "Finansowy Magnat", Description: "Zaoszczędź 1000 zł.", Icon: "💎", Signal: SignalMoneySaved, Threshold: Amount(1000)},
	{ID: "investor_200", Name: "Inwestor", Description: "Osiągnij łączną wartość aktywnych produktów na poziomie 200 zł.", Icon: "📈", Signal: SignalActiveValue, Threshold: Amount(200)},
	{ID: "veteran_30", Name: "Weteran", Description: "Korzystaj z aplikacji przez 30 dni.", Icon: "🗓️", Signal: SignalDaysAsUser, Threshold: Count(30)},
	{ID: "veteran_90", Name: "Stary Wyjadacz", Description: "Korzystaj z aplikacji przez 90 dni.", Icon: "📜", Signal: SignalDaysAsUser, Threshold: Count(90)},
	{ID: "sunday_planner_5", Name: "Niedzielny Planista", Description: "Dodaj co najmniej 5 produktów w niedzielę.", Icon: "📅", Signal: SignalSundayAdds, Threshold: Count(5)},
	{ID: "weekend_chef_5", Name: "Weekendowy Szef Kuchni", Description: "Dodaj 5 produktów w trakcie jednego weekendu.", Icon: "🍳", Signal: SignalWeekendAdds, Threshold: Count(5)},
	{ID: "night_owl", Name: "Nocny Marek", Description: "Dodaj produkt między północą a 4 rano.", Icon: "🦉", Signal: SignalNightActions, Threshold: Count(1)},
	{ID: "cheese_connoisseur", Name: "Koneser Serów", Description: "Dodaj 5 różnych produktów z 'Ser' w nazwie.", Icon: "🧀", Signal: SignalCheeseProducts, Threshold: Count(5)},
	{ID: "healthy_monday", Name: "Zdrowy Start Tygodnia", Description: "Dodaj zdrowy produkt w poniedziałek.", Icon: "🥗", Signal: SignalHealthyMondayAdd, Threshold: Count(1)},
	{ID: "morning_caffeine", Name: "Kofeina o Poranku", Description: "Dodaj kawę lub herbatę przed 9:00 rano.", Icon: "☕", Signal: SignalMorningCaffeineAdd, Threshold: Count(1)},
}

// Catalog returns the achievement definitions in display order.
func Catalog() []Definition {
	defs := make([]Definition, len(catalog))
	copy(defs, catalog[:])
	return defs
}
