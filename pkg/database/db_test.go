package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/arnavshah/roster-api-go/pkg/config"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := InitDB(config.DatabaseSettings{Path: ":memory:"}, zap.NewNop())
	require.NoError(t, err)
	return db
}

func TestRecordUsageUpserts(t *testing.T) {
	db := openTestDB(t)
	today := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, RecordUsage(db, 7, today, 4, 3))
	require.NoError(t, RecordUsage(db, 7, today, 6, 2))
	require.NoError(t, RecordUsage(db, 7, today.AddDate(0, 0, 1), 1, 1))

	usage, err := UsageForKey(db, 7, 30)
	require.NoError(t, err)
	require.Len(t, usage, 2)
	require.Equal(t, "2024-05-02", usage[0].Date)
	require.Equal(t, 2, usage[1].RequestCount)
	require.Equal(t, 10, usage[1].TotalSlots)
	require.Equal(t, 5, usage[1].TotalWorkers)

	n, err := RequestsOn(db, 7, today)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	n, err = RequestsOn(db, 8, today)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestRuns(t *testing.T) {
	db := openTestDB(t)

	run := &TimetableRun{ID: "run-1", KeyID: 3, Fingerprint: "00000000000000ff", Seed: 9, Slots: 4, Payload: `{}`}
	require.NoError(t, SaveRun(db, run))

	got, err := FindRun(db, "run-1", 3)
	require.NoError(t, err)
	require.Equal(t, int64(9), got.Seed)
	require.Equal(t, `{}`, got.Payload)

	_, err = FindRun(db, "run-1", 4)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	runs, err := RecentRuns(db, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
}
