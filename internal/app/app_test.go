package app

import (
	"context"
	"testing"
	"time"

	"HLTVSync/internal/config"
	"HLTVSync/internal/scheduler"
	"HLTVSync/internal/testutil"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		API: config.APIConfig{Title: "Multistream HLTV API", Version: "2.0.0"},
		Scraper: config.ScraperConfig{
			BaseURL:      "https://www.hltv.org",
			Timeout:      30,
			RetryCount:   3,
			RetryDelay:   2 * time.Second,
			ProxyTimeout: 10,
		},
		Sync: config.SyncConfig{
			MatchesInterval:      10 * time.Minute,
			EventsCron:           "0 0 * * *",
			HighlightsCron:       "0 4 * * *",
			HighlightsWindowDays: 7,
		},
	}
}

func TestNewWiresComponents(t *testing.T) {
	a, err := New(testConfig(), testutil.NewDB(t), testutil.QuietLogger(), clockwork.NewFakeClock())
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, a.ScrapeClient.Timeout)
	assert.Equal(t, 10*time.Second, a.ProxyClient.Timeout)
	assert.Equal(t, "https://www.hltv.org/events", a.Scraper.EventsURL())

	jobs := a.Scheduler.Jobs()
	require.Len(t, jobs, 3)
	assert.Equal(t, []string{scheduler.JobSyncMatches, scheduler.JobSyncEvents, scheduler.JobSyncHighlights},
		[]string{jobs[0].ID, jobs[1].ID, jobs[2].ID})

	// 未开启定时同步时 Start 不启动调度器
	a.Start()
	assert.Nil(t, a.Scheduler.Jobs()[0].NextRun)
	require.NoError(t, a.Close(context.Background()))
}

func TestNewRejectsBadCron(t *testing.T) {
	cfg := testConfig()
	cfg.Sync.EventsCron = "daily"
	_, err := New(cfg, testutil.NewDB(t), testutil.QuietLogger(), nil)
	assert.Error(t, err)
}
