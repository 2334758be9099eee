package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"HLTVSync/internal/config"
	"HLTVSync/internal/testutil"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	calls  []string
	events error
}

func (f *fakeRunner) SyncAllEventMatches(context.Context) error {
	f.calls = append(f.calls, JobSyncMatches)
	return nil
}

func (f *fakeRunner) SyncEvents(context.Context) error {
	f.calls = append(f.calls, JobSyncEvents)
	return f.events
}

func (f *fakeRunner) SyncRecentHighlights(context.Context) error {
	f.calls = append(f.calls, JobSyncHighlights)
	return nil
}

func syncConfig() config.SyncConfig {
	return config.SyncConfig{
		Enabled:         true,
		MatchesInterval: 10 * time.Minute,
		EventsCron:      "0 0 * * *",
		HighlightsCron:  "0 4 * * *",
	}
}

func TestSyncJobsTable(t *testing.T) {
	jobs := SyncJobs(&fakeRunner{}, syncConfig())
	require.Len(t, jobs, 3)
	assert.Equal(t, JobSyncMatches, jobs[0].ID)
	assert.Equal(t, "Sync event matches", jobs[0].Name)
	assert.Equal(t, "@every 10m0s", jobs[0].Schedule)
	assert.Equal(t, "0 0 * * *", jobs[1].Schedule)
	assert.Equal(t, "0 4 * * *", jobs[2].Schedule)
}

func TestRunNowRecordsStatus(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 12, 14, 12, 0, 0, 0, time.UTC))
	runner := &fakeRunner{events: errors.New("hltv unavailable")}
	s := New(clock, testutil.QuietLogger(), time.Minute)
	require.NoError(t, s.Register(SyncJobs(runner, syncConfig())))

	require.NoError(t, s.RunNow(context.Background(), JobSyncMatches))
	err := s.RunNow(context.Background(), JobSyncEvents)
	assert.EqualError(t, err, "hltv unavailable")
	assert.Equal(t, []string{JobSyncMatches, JobSyncEvents}, runner.calls)

	jobs := s.Jobs()
	require.Len(t, jobs, 3)
	assert.WithinDuration(t, clock.Now(), *jobs[0].LastRun, 0)
	assert.Empty(t, jobs[0].LastError)
	assert.NotEmpty(t, jobs[0].LastRunID)
	assert.Equal(t, "hltv unavailable", jobs[1].LastError)
	assert.False(t, jobs[1].Running)
	assert.Nil(t, jobs[2].LastRun)

	// 一次失败不影响之后的执行
	runner.events = nil
	require.NoError(t, s.RunNow(context.Background(), JobSyncEvents))
	assert.Empty(t, s.Jobs()[1].LastError)
}

func TestRunNowRecoversPanic(t *testing.T) {
	s := New(clockwork.NewFakeClock(), testutil.QuietLogger(), 0)
	require.NoError(t, s.Add(Job{
		ID:       "boom",
		Schedule: "@every 1h",
		Run:      func(context.Context) error { panic("nil map") },
	}))

	err := s.RunNow(context.Background(), "boom")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nil map")
	assert.Contains(t, s.Jobs()[0].LastError, "nil map")
}

func TestAddRejectsInvalidJobs(t *testing.T) {
	s := New(clockwork.NewFakeClock(), testutil.QuietLogger(), 0)
	noop := func(context.Context) error { return nil }

	assert.Error(t, s.Add(Job{ID: "bad", Schedule: "every day", Run: noop}))
	require.NoError(t, s.Add(Job{ID: "ok", Schedule: "0 0 * * *", Run: noop}))
	assert.Error(t, s.Add(Job{ID: "ok", Schedule: "0 1 * * *", Run: noop}))
	assert.Error(t, s.RunNow(context.Background(), "missing"))
	assert.Len(t, s.Jobs(), 1)
}

func TestJobsReportNextRunOnceStarted(t *testing.T) {
	s := New(clockwork.NewFakeClock(), testutil.QuietLogger(), 0)
	require.NoError(t, s.Register(SyncJobs(&fakeRunner{}, syncConfig())))
	assert.Nil(t, s.Jobs()[0].NextRun)

	s.Start()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.Stop(ctx)
	})

	for _, j := range s.Jobs() {
		require.NotNil(t, j.NextRun, j.ID)
		assert.Equal(t, time.UTC, j.NextRun.Location())
	}
	daily := s.Jobs()[1].NextRun
	assert.Zero(t, daily.Hour())
	assert.Zero(t, daily.Minute())
}
