package scheduler

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arnavshah/roster-api-go/pkg/models"
)

func TestMakeTimetable_TwoExclusiveWorkers(t *testing.T) {
	cfg := newConfig(t, []string{"A", "B"}, "2024-01-01", "2024-01-08", 7, map[string]workerSpec{
		"alice": {positions: []string{"A"}},
		"bob":   {positions: []string{"B"}},
	})

	result, err := NewScheduler(cfg, Options{Seed: 1}).MakeTimetable()

	require.NoError(t, err)
	require.Equal(t, 1, result.Cycles)
	require.Equal(t, 1, result.Timetable.Len())

	slot, ok := result.Timetable.Slot(day(t, "2024-01-01"))
	require.True(t, ok)
	require.Equal(t, "alice", slot.Assignments["A"].Worker)
	require.Equal(t, "bob", slot.Assignments["B"].Worker)
	require.Empty(t, result.Shortfalls)
}

func TestMakeTimetable_Infeasible(t *testing.T) {
	t.Run("position without any worker", func(t *testing.T) {
		cfg := newConfig(t, []string{"A", "B"}, "2024-01-01", "2024-02-01", 7, map[string]workerSpec{
			"alice": {positions: []string{"A"}},
		})

		result, err := NewScheduler(cfg, Options{Seed: 1}).MakeTimetable()

		require.ErrorIs(t, err, ErrInfeasible)
		require.Nil(t, result)
	})

	t.Run("position loses its only worker on a later cycle", func(t *testing.T) {
		cfg := newConfig(t, []string{"A", "B"}, "2024-01-01", "2024-01-15", 7, map[string]workerSpec{
			"alice": {positions: []string{"A"}},
			"bob":   {positions: []string{"B"}, skips: 1},
		})
		require.Equal(t, 2, cfg.Cycles)

		result, err := NewScheduler(cfg, Options{Seed: 1}).MakeTimetable()

		require.ErrorIs(t, err, ErrInfeasible)
		require.Contains(t, err.Error(), "cycle 1")
		require.Nil(t, result)
	})

	t.Run("only one worker for two positions", func(t *testing.T) {
		cfg := newConfig(t, []string{"A", "B"}, "2024-01-01", "2024-01-08", 7, map[string]workerSpec{
			"alice": {inAll: true},
		})

		_, err := NewScheduler(cfg, Options{Seed: 1}).MakeTimetable()

		require.ErrorIs(t, err, ErrInfeasible)
	})
}

func TestMakeTimetable_Properties(t *testing.T) {
	for _, seed := range []int64{1, 2, 3, 17, 99, 2024} {
		cfg := festivalConfig(t)
		result, err := NewScheduler(cfg, Options{Seed: seed}).MakeTimetable()
		require.NoError(t, err, "seed %d", seed)

		slots := result.Timetable.Slots()
		require.Len(t, slots, 12)

		// Cycle boundaries follow the scarcest pool of every cycle.
		offset := 0
		for cycle := 0; cycle < result.Cycles; cycle++ {
			length := -1
			for _, workers := range Trainers(cfg, cycle) {
				if length < 0 || len(workers) < length {
					length = len(workers)
				}
			}
			cycleSlots := slots[offset : offset+length]
			offset += length

			for _, position := range cfg.Positions {
				used := map[string]bool{}
				for _, slot := range cycleSlots {
					name := slot.Assignments[position].Worker
					require.False(t, used[name], "seed %d cycle %d: %s holds %s twice", seed, cycle, name, position)
					used[name] = true
				}
			}
		}
		require.Equal(t, len(slots), offset)

		for _, slot := range slots {
			seen := map[string]bool{}
			for _, a := range slot.Assignments {
				require.False(t, seen[a.Worker], "seed %d: %s holds two positions on %s", seed, a.Worker, slot.Date)
				seen[a.Worker] = true
			}
			for _, name := range slot.Names() {
				require.True(t, cfg.Workers[name].AvailableOn(slot.Date), "seed %d: %s is excepted on %s", seed, name, slot.Date)
			}
			require.Len(t, slot.Assignments, len(cfg.Positions))
		}
	}
}

func TestMakeTimetable_Helpers(t *testing.T) {
	cfg := festivalConfig(t)

	result, err := NewScheduler(cfg, Options{Seed: 5}).MakeTimetable()
	require.NoError(t, err)

	require.Equal(t, []HelperShortfall{{Cycle: 0, Position: "Stage", Helper: "hana"}}, result.Shortfalls)

	placed := map[string]int{}
	for _, slot := range result.Timetable.Slots() {
		for position, a := range slot.Assignments {
			if a.HasHelper() {
				placed[a.Helper+"@"+position]++
			}
		}
	}
	require.Equal(t, map[string]int{"gus@Door": 3, "hana@Stage": 2}, placed)
}

func TestPlaceHelpers_NeverOverwrites(t *testing.T) {
	cfg := newConfig(t, []string{"A"}, "2024-01-01", "2024-01-08", 7, map[string]workerSpec{
		"alice": {positions: []string{"A"}},
		"h1":    {withHelp: []string{"A"}},
		"h2":    {withHelp: []string{"A"}},
	})
	s := NewScheduler(cfg, Options{Seed: 11})
	date := day(t, "2024-01-01")
	assigned := map[time.Time]map[string]models.Assignment{
		date: {"A": {Worker: "alice"}},
	}

	shortfalls := s.placeHelpers(0, []time.Time{date}, assigned, Helpers(s.Config, 0))

	require.Equal(t, models.Assignment{Worker: "alice", Helper: "h1"}, assigned[date]["A"])
	require.Equal(t, []HelperShortfall{{Cycle: 0, Position: "A", Helper: "h2"}}, shortfalls)
}

func TestPlaceHelpers_HolderOfAnotherPosition(t *testing.T) {
	cfg := newConfig(t, []string{"A", "B"}, "2024-01-01", "2024-01-08", 7, map[string]workerSpec{
		"alice": {positions: []string{"A"}},
		"hal":   {positions: []string{"B"}, withHelp: []string{"A"}},
	})
	s := NewScheduler(cfg, Options{Seed: 4})
	date := day(t, "2024-01-01")
	assigned := map[time.Time]map[string]models.Assignment{
		date: {"A": {Worker: "alice"}, "B": {Worker: "hal"}},
	}

	shortfalls := s.placeHelpers(0, []time.Time{date}, assigned, Helpers(s.Config, 0))

	require.Empty(t, shortfalls)
	require.Equal(t, models.Assignment{Worker: "alice", Helper: "hal"}, assigned[date]["A"])
	require.Equal(t, models.Assignment{Worker: "hal"}, assigned[date]["B"])
}

func TestMakeTimetable_Deterministic(t *testing.T) {
	first, err := NewScheduler(festivalConfig(t), Options{Seed: 31337}).MakeTimetable()
	require.NoError(t, err)
	second, err := NewScheduler(festivalConfig(t), Options{Seed: 31337}).MakeTimetable()
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	require.JSONEq(t, string(a), string(b))
	require.Equal(t, int64(31337), first.Seed)
}

func TestMakeTimetable_LeavesConfigurationUntouched(t *testing.T) {
	cfg := festivalConfig(t)
	start := cfg.StartingSlotDate

	_, err := NewScheduler(cfg, Options{Seed: 8}).MakeTimetable()

	require.NoError(t, err)
	require.Equal(t, start, cfg.StartingSlotDate)
}
