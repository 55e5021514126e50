package metrics

import "time"

// Recorder receives scheduling events. Implementations must be safe for concurrent use
// because the HTTP server runs solves in parallel.
type Recorder interface {
	CycleSolved(slots int)
	CombinationsTried(n int)
	DeadEnds(n int)
	Infeasible()
	HelpersUnplaced(n int)
	SolveDuration(d time.Duration)
}

// Nop discards every event
type Nop struct{}

var _ Recorder = Nop{}

// NewNop returns a Recorder that records nothing
func NewNop() Nop { return Nop{} }

func (Nop) CycleSolved(int)             {}
func (Nop) CombinationsTried(int)       {}
func (Nop) DeadEnds(int)                {}
func (Nop) Infeasible()                 {}
func (Nop) HelpersUnplaced(int)         {}
func (Nop) SolveDuration(time.Duration) {}
