package scheduler

import (
	"context"

	"HLTVSync/internal/config"
)

const (
	JobSyncMatches    = "sync_matches"
	JobSyncEvents     = "sync_events"
	JobSyncHighlights = "sync_highlights"
)

// SyncRunner 定时任务调用的同步入口
type SyncRunner interface {
	SyncAllEventMatches(ctx context.Context) error
	SyncEvents(ctx context.Context) error
	SyncRecentHighlights(ctx context.Context) error
}

// SyncJobs 比赛按固定间隔；赛事列表与集锦按 UTC cron 表达式
func SyncJobs(runner SyncRunner, cfg config.SyncConfig) []Job {
	return []Job{
		{
			ID:       JobSyncMatches,
			Name:     "Sync event matches",
			Schedule: "@every " + cfg.MatchesInterval.String(),
			Run:      runner.SyncAllEventMatches,
		},
		{
			ID:       JobSyncEvents,
			Name:     "Sync events list",
			Schedule: cfg.EventsCron,
			Run:      runner.SyncEvents,
		},
		{
			ID:       JobSyncHighlights,
			Name:     "Sync recent highlights",
			Schedule: cfg.HighlightsCron,
			Run:      runner.SyncRecentHighlights,
		},
	}
}

// Register 把任务逐个加入调度器
func (s *Scheduler) Register(jobs []Job) error {
	for _, j := range jobs {
		if err := s.Add(j); err != nil {
			return err
		}
	}
	return nil
}
