package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus implements Recorder with Prometheus collectors.
type Prometheus struct {
	cycles        prometheus.Counter
	slots         prometheus.Counter
	combinations  prometheus.Counter
	deadEnds      prometheus.Counter
	infeasible    prometheus.Counter
	unplaced      prometheus.Counter
	solveDuration prometheus.Histogram
}

var _ Recorder = (*Prometheus)(nil)

// NewPrometheus creates the collectors and registers them with reg.
//
// Parameters:
//   - reg: registerer (prometheus.DefaultRegisterer if nil)
//   - namespace: metrics namespace ("roster" if empty)
func NewPrometheus(reg prometheus.Registerer, namespace string) (*Prometheus, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "roster"
	}

	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      name,
			Help:      help,
		})
	}

	p := &Prometheus{
		cycles:       counter("cycles_solved_total", "Rotation cycles solved."),
		slots:        counter("slots_committed_total", "Slots committed to timetables."),
		combinations: counter("combinations_tried_total", "Per-date combinations enumerated by the solver."),
		deadEnds:     counter("dead_ends_total", "Search branches abandoned by the solver."),
		infeasible:   counter("infeasible_total", "Solves that ended with an infeasible cycle."),
		unplaced:     counter("helpers_unplaced_total", "Helpers that found no free slot in their cycle."),
		solveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "solve_duration_seconds",
			Help:      "Wall time of complete timetable solves.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
	}

	for _, c := range []prometheus.Collector{
		p.cycles, p.slots, p.combinations, p.deadEnds, p.infeasible, p.unplaced, p.solveDuration,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Prometheus) CycleSolved(slots int) {
	p.cycles.Inc()
	p.slots.Add(float64(slots))
}

func (p *Prometheus) CombinationsTried(n int) { p.combinations.Add(float64(n)) }

func (p *Prometheus) DeadEnds(n int) { p.deadEnds.Add(float64(n)) }

func (p *Prometheus) Infeasible() { p.infeasible.Inc() }

func (p *Prometheus) HelpersUnplaced(n int) { p.unplaced.Add(float64(n)) }

func (p *Prometheus) SolveDuration(d time.Duration) { p.solveDuration.Observe(d.Seconds()) }
