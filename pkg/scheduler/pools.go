package scheduler

import (
	"fmt"
	"time"

	"github.com/arnavshah/roster-api-go/pkg/models"
)

// dayPool holds the candidate names for one date, indexed like Configuration.Positions
type dayPool struct {
	date       time.Time
	candidates [][]string
}

func (d dayPool) clone() dayPool {
	cp := dayPool{date: d.date, candidates: make([][]string, len(d.candidates))}
	for i, names := range d.candidates {
		cp.candidates[i] = append([]string(nil), names...)
	}
	return cp
}

func clonePools(pools []dayPool) []dayPool {
	cp := make([]dayPool, len(pools))
	for i, p := range pools {
		cp[i] = p.clone()
	}
	return cp
}

// buildCandidatePools lays out the dates of the next cycle and shuffles the available trainers
// for every position on each date. The cycle is as long as the scarcest position's pool.
// It advances the configuration's starting date past the last date used.
func (s *Scheduler) buildCandidatePools(trainers map[string][]*models.Worker) ([]dayPool, error) {
	cfg := s.Config

	slots := -1
	for _, position := range cfg.Positions {
		n := len(trainers[position])
		if n == 0 {
			return nil, fmt.Errorf("%w: position %q has no eligible workers", ErrInfeasible, position)
		}
		if slots < 0 || n < slots {
			slots = n
		}
	}
	if slots < 0 {
		return nil, fmt.Errorf("%w: no positions configured", ErrInfeasible)
	}
	cfg.SlotsInCycle = slots

	pools := make([]dayPool, 0, slots)
	date := cfg.StartingSlotDate
	for i := 0; i < slots; i++ {
		pool := dayPool{date: date, candidates: make([][]string, len(cfg.Positions))}
		for pi, position := range cfg.Positions {
			names := make([]string, 0, len(trainers[position]))
			for _, w := range trainers[position] {
				if w.AvailableOn(date) {
					names = append(names, w.Name)
				}
			}
			if len(names) == 0 {
				return nil, fmt.Errorf("%w: every worker for position %q is unavailable on %s",
					ErrInfeasible, position, date.Format(models.DateLayout))
			}
			s.rng.Shuffle(len(names), func(a, b int) {
				names[a], names[b] = names[b], names[a]
			})
			pool.candidates[pi] = names
		}
		pools = append(pools, pool)
		date = date.AddDate(0, 0, cfg.Interval)
	}

	cfg.StartingSlotDate = date
	return pools, nil
}
