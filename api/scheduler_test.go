package api

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/warp/period-engine/period"
	"github.com/warp/period-engine/store/sqlite"
)

func TestRunScheduler_RecordReady(t *testing.T) {
	// GIVEN: two jobs and a clock in mid May 2024
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	defer store.Close()

	rs := NewRunScheduler(store, zap.NewNop(), []RunJob{
		{Dataset: "births", Type: period.Month, Wait: period.DefaultWaitPeriod},
		{Dataset: "deaths", Type: period.Quarter, Wait: period.WaitPeriod{Months: 1}},
	})
	now := time.Date(2024, time.May, 15, 3, 0, 0, 0, time.UTC)
	rs.Clock = func() time.Time { return now }
	ctx := context.Background()

	// WHEN: checking
	saved, err := rs.RecordReady(ctx)
	require.NoError(t, err)

	// THEN: the latest closed period of each job is recorded
	require.Len(t, saved, 2)
	assert.Equal(t, "p2024-03", saved[0].Params.TaggedLabel())
	assert.Equal(t, "p2024-Q1", saved[1].Params.TaggedLabel())

	// WHEN: checking again the same day
	saved, err = rs.RecordReady(ctx)
	require.NoError(t, err)

	// THEN: nothing new is recorded
	assert.Empty(t, saved)

	// WHEN: April's follow-up window has closed
	now = time.Date(2024, time.June, 1, 3, 0, 0, 0, time.UTC)
	saved, err = rs.RecordReady(ctx)
	require.NoError(t, err)

	// THEN: only the monthly job advances
	require.Len(t, saved, 1)
	assert.Equal(t, "births", saved[0].Dataset)
	assert.Equal(t, "p2024-04", saved[0].Params.TaggedLabel())
}

func TestRunScheduler_StartRejectsBadSchedule(t *testing.T) {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	defer store.Close()

	rs := NewRunScheduler(store, nil, nil)
	assert.Error(t, rs.Start("every tuesday"))

	require.NoError(t, rs.Start("@every 1h"))
	assert.Error(t, rs.Start("@every 1h"), "second start")
	rs.Stop()
}
