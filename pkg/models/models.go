package models

import (
	"math"
	"sort"
	"time"
)

// DateLayout is the ISO-8601 calendar date format used by roster files and API payloads
const DateLayout = "2006-01-02"

// DateOf truncates t to a UTC calendar date so dates can be compared and used as map keys
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Worker represents a person who can hold or help on duty positions
type Worker struct {
	Name              string
	IsInAllPositions  bool
	Positions         map[string]bool
	PositionsWithHelp map[string]bool
	// AppearsOnCycle is a repeating mask over rotation cycles. Only the last entry is true.
	AppearsOnCycle []bool
	DateExceptions map[time.Time]bool
}

// NewWorker builds a worker from already validated input.
// A worker qualified for all positions drops its explicit position lists.
func NewWorker(name string, inAll bool, positions, withHelp []string, skips int, exceptions []time.Time) *Worker {
	w := &Worker{
		Name:              name,
		IsInAllPositions:  inAll,
		Positions:         make(map[string]bool),
		PositionsWithHelp: make(map[string]bool),
		DateExceptions:    make(map[time.Time]bool, len(exceptions)),
	}

	if !inAll {
		for _, p := range positions {
			w.Positions[p] = true
		}
		for _, p := range withHelp {
			w.PositionsWithHelp[p] = true
		}
	}

	if skips < 0 {
		skips = 0
	}
	w.AppearsOnCycle = make([]bool, skips+1)
	w.AppearsOnCycle[skips] = true

	for _, d := range exceptions {
		w.DateExceptions[DateOf(d)] = true
	}
	return w
}

// AppearsOn reports whether the rotation mask admits the worker on the given cycle
// for the position at positionIndex. The index offset staggers skipped cycles per position.
func (w *Worker) AppearsOn(cycle, positionIndex int) bool {
	return w.AppearsOnCycle[(cycle+positionIndex)%len(w.AppearsOnCycle)]
}

// CanHold reports whether the worker is a primary candidate for the position
func (w *Worker) CanHold(position string) bool {
	return w.IsInAllPositions || w.Positions[position]
}

// CanHelp reports whether the worker is a helper candidate for the position
func (w *Worker) CanHelp(position string) bool {
	return w.PositionsWithHelp[position]
}

// AvailableOn reports whether the date is not one of the worker's exceptions
func (w *Worker) AvailableOn(date time.Time) bool {
	return !w.DateExceptions[DateOf(date)]
}

// Configuration describes a roster to be scheduled
type Configuration struct {
	Positions        []string
	Workers          map[string]*Worker
	StartingSlotDate time.Time
	LastSlotDate     time.Time
	Interval         int // days between consecutive slots
	SlotsInCycle     int
	Cycles           int
}

// NewConfiguration builds a configuration and derives the initial cycle estimate.
func NewConfiguration(positions []string, workers map[string]*Worker, start, end time.Time, interval int) *Configuration {
	c := &Configuration{
		Positions:        positions,
		Workers:          workers,
		StartingSlotDate: DateOf(start),
		LastSlotDate:     DateOf(end),
		Interval:         interval,
	}
	c.SlotsInCycle = c.estimateSlotsInCycle()
	c.Cycles = c.estimateCycles()
	return c
}

// estimateSlotsInCycle counts all-position workers present on the first cycle plus the
// scarcest position's listed workers. The solver recomputes the real value per cycle.
func (c *Configuration) estimateSlotsInCycle() int {
	if len(c.Positions) == 0 {
		return 0
	}

	inAll := 0
	perPosition := make(map[string]int, len(c.Positions))
	for _, w := range c.Workers {
		if w.IsInAllPositions && w.AppearsOnCycle[0] {
			inAll++
			continue
		}
		for p := range w.Positions {
			perPosition[p]++
		}
	}

	scarcest := math.MaxInt
	for _, p := range c.Positions {
		if perPosition[p] < scarcest {
			scarcest = perPosition[p]
		}
	}
	return inAll + scarcest
}

func (c *Configuration) estimateCycles() int {
	if c.SlotsInCycle <= 0 || c.Interval <= 0 {
		return 0
	}
	days := c.LastSlotDate.Sub(c.StartingSlotDate).Hours() / 24
	slots := days / float64(c.Interval)
	return int(math.Ceil(slots / float64(c.SlotsInCycle)))
}

// TotalSlots is the number of slot intervals between the first and last slot date
func (c *Configuration) TotalSlots() int {
	if c.Interval <= 0 {
		return 0
	}
	return int(c.LastSlotDate.Sub(c.StartingSlotDate).Hours()/24) / c.Interval
}

// WorkerNames returns worker names in ascending order
func (c *Configuration) WorkerNames() []string {
	names := make([]string, 0, len(c.Workers))
	for name := range c.Workers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a copy whose mutable scheduling state can advance independently.
// Workers are shared because the pipeline never mutates them.
func (c *Configuration) Clone() *Configuration {
	cp := *c
	cp.Positions = append([]string(nil), c.Positions...)
	return &cp
}

// WorkerInput is one worker entry of a roster configuration file
type WorkerInput struct {
	IsInAllPositions  bool     `json:"is_in_all_positions" yaml:"is_in_all_positions"`
	Positions         []string `json:"positions,omitempty" yaml:"positions,omitempty"`
	PositionsWithHelp []string `json:"positions_with_help,omitempty" yaml:"positions_with_help,omitempty"`
	AppearanceSkips   float64  `json:"appearance_skips" yaml:"appearance_skips"`
	DateExceptions    []string `json:"date_exceptions,omitempty" yaml:"date_exceptions,omitempty"`
}

// RosterInput is the data structure for roster configuration files and the timetable endpoints
type RosterInput struct {
	Interval     int                    `json:"interval" yaml:"interval"`
	StartingDate string                 `json:"starting_date" yaml:"starting_date"`
	EndingDate   string                 `json:"ending_date" yaml:"ending_date"`
	Positions    []string               `json:"positions" yaml:"positions"`
	Workers      map[string]WorkerInput `json:"workers" yaml:"workers"`
}
