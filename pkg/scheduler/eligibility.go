package scheduler

import "github.com/arnavshah/roster-api-go/pkg/models"

// workerFilter decides whether a present worker qualifies for a position
type workerFilter func(w *models.Worker, position string) bool

func filterTrainers(w *models.Worker, position string) bool {
	return w.CanHold(position)
}

func filterHelpers(w *models.Worker, position string) bool {
	return w.CanHelp(position)
}

// FilterWorkers returns, for every position, the workers present on the cycle that pass filter.
// Workers are visited in name order.
func FilterWorkers(cfg *models.Configuration, cycle int, filter workerFilter) map[string][]*models.Worker {
	names := cfg.WorkerNames()
	byPosition := make(map[string][]*models.Worker, len(cfg.Positions))

	for i, position := range cfg.Positions {
		byPosition[position] = []*models.Worker{}
		for _, name := range names {
			w := cfg.Workers[name]
			if !w.AppearsOn(cycle, i) {
				continue
			}
			if filter(w, position) {
				byPosition[position] = append(byPosition[position], w)
			}
		}
	}
	return byPosition
}

// Trainers returns the primary candidates per position for a cycle
func Trainers(cfg *models.Configuration, cycle int) map[string][]*models.Worker {
	return FilterWorkers(cfg, cycle, filterTrainers)
}

// Helpers returns the helper candidates per position for a cycle
func Helpers(cfg *models.Configuration, cycle int) map[string][]*models.Worker {
	return FilterWorkers(cfg, cycle, filterHelpers)
}
