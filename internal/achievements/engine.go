// Package achievements scores the fixed achievement catalog against a
// progress snapshot. Achievement state is never stored: it is recomputed
// from the products and financial ledger on every request.
package achievements

import "math"

// Status is the evaluated state of one achievement.
type Status struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	Icon            string  `json:"icon"`
	Achieved        bool    `json:"achieved"`
	Type            Signal  `json:"type"`
	CurrentProgress float64 `json:"current_progress"`
	TotalProgress   float64 `json:"total_progress"`
}

// Evaluate scores every catalog entry against progress, in catalog order.
// Signals missing from progress count as zero.
func Evaluate(progress Progress) []Status {
	statuses := make([]Status, 0, len(catalog))
	for _, def := range catalog {
		current := progress.Get(def.Signal)
		if def.Threshold.Kind == ThresholdCount {
			current = math.Trunc(current)
		}
		statuses = append(statuses, Status{
			ID:              def.ID,
			Name:            def.Name,
			Description:     def.Description,
			Icon:            def.Icon,
			Achieved:        current >= def.Threshold.Value,
			Type:            def.Signal,
			CurrentProgress: current,
			TotalProgress:   def.Threshold.Value,
		})
	}
	return statuses
}

// AchievedIDs returns the set of achieved ids in statuses.
func AchievedIDs(statuses []Status) map[string]bool {
	ids := make(map[string]bool, len(statuses))
	for _, s := range statuses {
		if s.Achieved {
			ids[s.ID] = true
		}
	}
	return ids
}

// NewlyUnlocked returns the achievements achieved in after but not in
// before, in catalog order.
func NewlyUnlocked(before map[string]bool, after []Status) []Status {
	unlocked := []Status{}
	for _, s := range after {
		if s.Achieved && !before[s.ID] {
			unlocked = append(unlocked, s)
		}
	}
	return unlocked
}
