package scheduler

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/arnavshah/roster-api-go/pkg/metrics"
	"github.com/arnavshah/roster-api-go/pkg/models"
)

// Options configures a Scheduler
type Options struct {
	// Seed drives every random choice. Zero picks a seed from the clock.
	Seed    int64
	Logger  *zap.Logger
	Metrics metrics.Recorder
}

// Stats describes the work done by one solve
type Stats struct {
	CyclesSolved      int `json:"cycles_solved"`
	CombinationsTried int `json:"combinations_tried"`
	DeadEnds          int `json:"dead_ends"`
}

// Result is a fully solved timetable
type Result struct {
	Timetable  *models.Timetable `json:"timetable"`
	Seed       int64             `json:"seed"`
	Cycles     int               `json:"cycles"`
	Shortfalls []HelperShortfall `json:"shortfalls"`
	Stats      Stats             `json:"stats"`
}

// Scheduler handles the logic of assigning workers to slots, one rotation cycle at a time
type Scheduler struct {
	Config *models.Configuration
	Seed   int64

	rng     *rand.Rand
	logger  *zap.Logger
	metrics metrics.Recorder
	stats   Stats
}

// NewScheduler creates a new scheduler instance working on a copy of cfg
func NewScheduler(cfg *models.Configuration, opts Options) *Scheduler {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	recorder := opts.Metrics
	if recorder == nil {
		recorder = metrics.NewNop()
	}

	return &Scheduler{
		Config:  cfg.Clone(),
		Seed:    seed,
		rng:     rand.New(rand.NewSource(seed)),
		logger:  logger,
		metrics: recorder,
	}
}

// MakeTimetable solves every cycle of the configuration. It returns either a complete
// timetable or an error wrapping ErrInfeasible; there is no partial result.
func (s *Scheduler) MakeTimetable() (*Result, error) {
	start := time.Now()
	defer func() { s.metrics.SolveDuration(time.Since(start)) }()

	if s.Config.SlotsInCycle <= 0 {
		s.metrics.Infeasible()
		return nil, fmt.Errorf("%w: some position has no eligible workers", ErrInfeasible)
	}

	table := models.NewTimetable(s.Config.Positions)
	var shortfalls []HelperShortfall

	for cycle := 0; cycle < s.Config.Cycles; cycle++ {
		slots, missed, err := s.solveCycle(cycle)
		if err != nil {
			s.metrics.Infeasible()
			s.logger.Warn("cycle is infeasible", zap.Int("cycle", cycle), zap.Error(err))
			return nil, fmt.Errorf("cycle %d: %w", cycle, err)
		}
		for _, slot := range slots {
			table.AddSlot(slot)
		}
		shortfalls = append(shortfalls, missed...)
	}

	s.metrics.CombinationsTried(s.stats.CombinationsTried)
	s.metrics.DeadEnds(s.stats.DeadEnds)

	if shortfalls == nil {
		shortfalls = []HelperShortfall{}
	}
	return &Result{
		Timetable:  table,
		Seed:       s.Seed,
		Cycles:     s.Config.Cycles,
		Shortfalls: shortfalls,
		Stats:      s.stats,
	}, nil
}

func (s *Scheduler) solveCycle(cycle int) ([]models.Slot, []HelperShortfall, error) {
	pools, err := s.buildCandidatePools(Trainers(s.Config, cycle))
	if err != nil {
		return nil, nil, err
	}

	committed := make([][]string, len(s.Config.Positions))
	sv := &solver{}
	chosen, ok := sv.solve(pools, committed)
	s.stats.CombinationsTried += sv.tried
	s.stats.DeadEnds += sv.deadEnds
	if !ok {
		return nil, nil, fmt.Errorf("%w: no combination satisfies positions and date exceptions", ErrInfeasible)
	}

	dates := make([]time.Time, 0, len(chosen))
	assigned := make(map[time.Time]map[string]models.Assignment, len(chosen))
	for date, combo := range chosen {
		dates = append(dates, date)
		slot := make(map[string]models.Assignment, len(combo))
		for i, name := range combo {
			slot[s.Config.Positions[i]] = models.Assignment{Worker: name}
		}
		assigned[date] = slot
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	shortfalls := s.placeHelpers(cycle, dates, assigned, Helpers(s.Config, cycle))
	if len(shortfalls) > 0 {
		s.metrics.HelpersUnplaced(len(shortfalls))
		for _, sf := range shortfalls {
			s.logger.Warn("helper left unplaced",
				zap.Int("cycle", cycle),
				zap.String("position", sf.Position),
				zap.String("helper", sf.Helper),
			)
		}
	}

	slots := make([]models.Slot, 0, len(dates))
	for _, date := range dates {
		slots = append(slots, models.NewSlot(date, assigned[date]))
	}

	s.stats.CyclesSolved++
	s.metrics.CycleSolved(len(slots))
	s.logger.Debug("cycle solved",
		zap.Int("cycle", cycle),
		zap.Int("slots", len(slots)),
		zap.Int("combinations_tried", sv.tried),
	)
	return slots, shortfalls, nil
}
