package scheduler

import (
	"time"

	"github.com/arnavshah/roster-api-go/pkg/models"
)

// HelperShortfall records a helper that could not be placed in a cycle
type HelperShortfall struct {
	Cycle    int    `json:"cycle"`
	Position string `json:"position"`
	Helper   string `json:"helper"`
}

// placeHelpers attaches helpers to the cycle's solved assignments, best effort and without
// backtracking. A position/date takes at most one helper and a helper skips their exception dates.
// Each helper tries the cycle's dates in a fresh shuffled order.
func (s *Scheduler) placeHelpers(cycle int, dates []time.Time, assigned map[time.Time]map[string]models.Assignment,
	helpers map[string][]*models.Worker) []HelperShortfall {
	var shortfalls []HelperShortfall

	for _, position := range s.Config.Positions {
		for _, helper := range helpers[position] {
			if !s.placeHelper(position, helper, dates, assigned) {
				shortfalls = append(shortfalls, HelperShortfall{
					Cycle:    cycle,
					Position: position,
					Helper:   helper.Name,
				})
			}
		}
	}
	return shortfalls
}

func (s *Scheduler) placeHelper(position string, helper *models.Worker, dates []time.Time,
	assigned map[time.Time]map[string]models.Assignment) bool {
	order := append([]time.Time(nil), dates...)
	s.rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	for _, date := range order {
		slot := assigned[date]
		current, ok := slot[position]
		if !ok || current.HasHelper() || !helper.AvailableOn(date) {
			continue
		}
		current.Helper = helper.Name
		slot[position] = current
		return true
	}
	return false
}
