package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arnavshah/roster-api-go/pkg/models"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(models.DateLayout, s)
	require.NoError(t, err)
	return d
}

type workerSpec struct {
	inAll      bool
	positions  []string
	withHelp   []string
	skips      int
	exceptions []string
}

func newConfig(t *testing.T, positions []string, start, end string, interval int, specs map[string]workerSpec) *models.Configuration {
	t.Helper()
	workers := make(map[string]*models.Worker, len(specs))
	for name, sp := range specs {
		var exceptions []time.Time
		for _, e := range sp.exceptions {
			exceptions = append(exceptions, day(t, e))
		}
		workers[name] = models.NewWorker(name, sp.inAll, sp.positions, sp.withHelp, sp.skips, exceptions)
	}
	return models.NewConfiguration(positions, workers, day(t, start), day(t, end), interval)
}

// festivalConfig has three positions, four all-round workers and rotating specialists.
// It spans three cycles of four weekly slots.
func festivalConfig(t *testing.T) *models.Configuration {
	return newConfig(t, []string{"Door", "Sound", "Stage"}, "2024-01-07", "2024-03-31", 7, map[string]workerSpec{
		"anna":  {inAll: true, exceptions: []string{"2024-01-07"}},
		"ben":   {inAll: true},
		"carla": {inAll: true},
		"dan":   {inAll: true},
		"eve":   {positions: []string{"Door"}},
		"finn":  {positions: []string{"Sound"}, skips: 1},
		"gus":   {withHelp: []string{"Door"}},
		"hana": {withHelp: []string{"Stage"}, exceptions: []string{
			"2024-01-07", "2024-01-14", "2024-01-21", "2024-01-28",
		}},
	})
}
