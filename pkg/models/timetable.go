package models

import (
	"encoding/json"
	"sort"
	"time"
)

// Assignment is the holder of one position on one date, with an optional helper
type Assignment struct {
	Worker string `json:"worker"`
	Helper string `json:"helper,omitempty"`
}

// HasHelper reports whether the assignment already carries a helper
func (a Assignment) HasHelper() bool {
	return a.Helper != ""
}

// Text renders the assignment as "worker<sep>helper", or just the worker
func (a Assignment) Text(helperSeparator string) string {
	if !a.HasHelper() {
		return a.Worker
	}
	return a.Worker + helperSeparator + a.Helper
}

// Slot is one calendar date's position to worker assignment
type Slot struct {
	Date        time.Time
	Assignments map[string]Assignment
}

// NewSlot copies the assignments so the slot cannot be changed through the caller's map
func NewSlot(date time.Time, assignments map[string]Assignment) Slot {
	cp := make(map[string]Assignment, len(assignments))
	for p, a := range assignments {
		cp[p] = a
	}
	return Slot{Date: DateOf(date), Assignments: cp}
}

// Texts returns the rendered assignments in the given position order
func (s Slot) Texts(positions []string, helperSeparator string) []string {
	out := make([]string, 0, len(positions))
	for _, p := range positions {
		if a, ok := s.Assignments[p]; ok {
			out = append(out, a.Text(helperSeparator))
		}
	}
	return out
}

// Names returns every worker and helper name in the slot
func (s Slot) Names() []string {
	var out []string
	for _, a := range s.Assignments {
		out = append(out, a.Worker)
		if a.HasHelper() {
			out = append(out, a.Helper)
		}
	}
	return out
}

// Timetable is the solved roster ordered by date
type Timetable struct {
	Positions []string
	slots     map[time.Time]Slot
	dates     []time.Time
}

// NewTimetable creates an empty timetable with the column ordering of positions
func NewTimetable(positions []string) *Timetable {
	return &Timetable{
		Positions: append([]string(nil), positions...),
		slots:     make(map[time.Time]Slot),
	}
}

// AddSlot commits a slot. A date is committed at most once; later slots for the same date are ignored.
func (t *Timetable) AddSlot(s Slot) {
	if _, ok := t.slots[s.Date]; ok {
		return
	}
	t.slots[s.Date] = s
	i := sort.Search(len(t.dates), func(i int) bool { return !t.dates[i].Before(s.Date) })
	t.dates = append(t.dates, time.Time{})
	copy(t.dates[i+1:], t.dates[i:])
	t.dates[i] = s.Date
}

// Slot returns the slot for a date
func (t *Timetable) Slot(date time.Time) (Slot, bool) {
	s, ok := t.slots[DateOf(date)]
	return s, ok
}

// Slots returns all slots in date order
func (t *Timetable) Slots() []Slot {
	out := make([]Slot, 0, len(t.dates))
	for _, d := range t.dates {
		out = append(out, t.slots[d])
	}
	return out
}

// Dates returns the slot dates in order
func (t *Timetable) Dates() []time.Time {
	return append([]time.Time(nil), t.dates...)
}

// Len returns the number of slots
func (t *Timetable) Len() int {
	return len(t.dates)
}

// SlotView is the JSON shape of one slot
type SlotView struct {
	Date    string                `json:"date"`
	Workers map[string]Assignment `json:"workers"`
}

// MarshalJSON renders the timetable as an ordered list of slots
func (t *Timetable) MarshalJSON() ([]byte, error) {
	views := make([]SlotView, 0, len(t.dates))
	for _, s := range t.Slots() {
		views = append(views, SlotView{Date: s.Date.Format(DateLayout), Workers: s.Assignments})
	}
	return json.Marshal(struct {
		Positions []string   `json:"positions"`
		Slots     []SlotView `json:"slots"`
	}{t.Positions, views})
}

// UnmarshalJSON restores a timetable stored with MarshalJSON
func (t *Timetable) UnmarshalJSON(data []byte) error {
	var raw struct {
		Positions []string   `json:"positions"`
		Slots     []SlotView `json:"slots"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = *NewTimetable(raw.Positions)
	for _, v := range raw.Slots {
		d, err := time.Parse(DateLayout, v.Date)
		if err != nil {
			return err
		}
		t.AddSlot(NewSlot(d, v.Workers))
	}
	return nil
}
