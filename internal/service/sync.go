package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"HLTVSync/internal/interfaces"
	"HLTVSync/internal/model"
	"HLTVSync/internal/repository"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Repositories 服务层共用的仓储集合
type Repositories struct {
	Events     repository.EventRepository
	Matches    repository.MatchRepository
	Stats      repository.StatsRepository
	Highlights repository.HighlightRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Events:     repository.NewEventRepository(db),
		Matches:    repository.NewMatchRepository(db),
		Stats:      repository.NewStatsRepository(db),
		Highlights: repository.NewHighlightRepository(db),
	}
}

// SyncService 抓取 → 对齐入库的同步流程
type SyncService struct {
	repos           Repositories
	scraper         interfaces.SiteScraper
	clock           clockwork.Clock
	logger          *logrus.Logger
	highlightWindow time.Duration
}

func NewSyncService(repos Repositories, scraper interfaces.SiteScraper, clock clockwork.Clock, logger *logrus.Logger, highlightWindow time.Duration) *SyncService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &SyncService{
		repos:           repos,
		scraper:         scraper,
		clock:           clock,
		logger:          logger,
		highlightWindow: highlightWindow,
	}
}

// EventsSyncReport 赛事列表同步结果
type EventsSyncReport struct {
	model.ReconcileResult
	Scraped       int `json:"scraped"`
	Skipped       int `json:"skipped"`
	StatusChanged int `json:"status_changed"`
}

// BatchReport 多赛事批量同步结果，单个赛事失败不影响其他赛事
type BatchReport struct {
	Events    int      `json:"events"`
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	Created   int      `json:"created"`
	Updated   int      `json:"updated"`
	Errors    []string `json:"errors,omitempty"`
}

func (b *BatchReport) fail(ev *model.Event, err error) {
	b.Failed++
	b.Errors = append(b.Errors, fmt.Sprintf("%s(%s): %v", ev.Slug, ev.ExternalID, err))
}

type StatsSyncReport struct {
	Players model.ReconcileResult `json:"players"`
	Teams   model.ReconcileResult `json:"teams"`
}

type FullSyncReport struct {
	Events  *EventsSyncReport `json:"events"`
	Matches *BatchReport      `json:"matches"`
}

// SyncEvents 抓取赛事列表并入库，随后按日期刷新状态
func (s *SyncService) SyncEvents(ctx context.Context) (*EventsSyncReport, error) {
	res, err := s.scraper.ScrapeEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("抓取赛事列表失败: %w", err)
	}
	records := res.Records()
	report := &EventsSyncReport{Scraped: len(records), Skipped: len(res.SkipReasons())}
	if len(records) == 0 {
		s.logger.Warn("未抓取到任何赛事")
	} else {
		rr, err := s.repos.Events.UpsertEvents(ctx, records)
		if err != nil {
			return nil, fmt.Errorf("赛事入库失败: %w", err)
		}
		report.ReconcileResult = rr
	}

	changed, err := s.UpdateEventStatuses(ctx)
	if err != nil {
		return report, err
	}
	report.StatusChanged = changed
	s.logger.WithFields(logrus.Fields{
		"created":        report.Created,
		"updated":        report.Updated,
		"skipped":        report.Skipped,
		"status_changed": changed,
	}).Info("赛事同步完成")
	return report, nil
}

// UpdateEventStatuses 对所有有结束时间的赛事按日期推导状态，只写入发生变化的记录
func (s *SyncService) UpdateEventStatuses(ctx context.Context) (int, error) {
	events, err := s.repos.Events.ListWithEndDate(ctx)
	if err != nil {
		return 0, fmt.Errorf("查询赛事失败: %w", err)
	}
	now := s.clock.Now().UTC()
	changed := 0
	var errs []error
	for _, ev := range events {
		next, ok := DeriveEventStatus(ev.StartDate, ev.EndDate, now)
		if !ok || next == ev.Status {
			continue
		}
		if err := s.repos.Events.UpdateStatus(ctx, ev.ID, next); err != nil {
			s.logger.WithError(err).WithField("event_id", ev.ID).Error("更新赛事状态失败")
			errs = append(errs, err)
			continue
		}
		s.logger.WithFields(logrus.Fields{
			"event_id": ev.ID,
			"slug":     ev.Slug,
			"from":     ev.Status,
			"to":       next,
		}).Info("赛事状态已更新")
		changed++
	}
	return changed, errors.Join(errs...)
}

// SyncEventMatches 同步单个赛事的比赛；页面无数据时不做修改
func (s *SyncService) SyncEventMatches(ctx context.Context, ev *model.Event) (model.ReconcileResult, error) {
	res, err := s.scraper.ScrapeMatches(ctx, ev.ExternalID)
	if err != nil {
		return model.ReconcileResult{}, fmt.Errorf("抓取比赛失败: %w", err)
	}
	records := res.Records()
	if len(records) == 0 {
		s.logger.WithField("external_id", ev.ExternalID).Info("赛事暂无比赛数据")
		return model.ReconcileResult{}, nil
	}
	rr, err := s.repos.Matches.UpsertMatches(ctx, ev.ID, records)
	if err != nil {
		return model.ReconcileResult{}, fmt.Errorf("比赛入库失败: %w", err)
	}
	return rr, nil
}

// SyncAllEventMatches 先刷新赛事状态，再同步所有 upcoming/ongoing 赛事的比赛
func (s *SyncService) SyncAllEventMatches(ctx context.Context) (*BatchReport, error) {
	if _, err := s.UpdateEventStatuses(ctx); err != nil {
		s.logger.WithError(err).Warn("刷新赛事状态部分失败，继续同步比赛")
	}
	events, err := s.repos.Events.ListByStatuses(ctx, []string{model.EventStatusUpcoming, model.EventStatusOngoing})
	if err != nil {
		return nil, fmt.Errorf("查询待同步赛事失败: %w", err)
	}

	report := &BatchReport{Events: len(events)}
	for _, ev := range events {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		rr, err := s.SyncEventMatches(ctx, ev)
		if err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{"event_id": ev.ID, "external_id": ev.ExternalID}).Error("SyncEventMatches failed")
			report.fail(ev, err)
			continue
		}
		report.Succeeded++
		report.Created += rr.Created
		report.Updated += rr.Updated
	}
	s.logger.WithFields(logrus.Fields{
		"events":    report.Events,
		"succeeded": report.Succeeded,
		"failed":    report.Failed,
		"created":   report.Created,
		"updated":   report.Updated,
	}).Info("比赛同步完成")
	return report, nil
}

// SyncEventHighlights 抓取并整体替换赛事集锦；抓到 0 条时保留已有数据
func (s *SyncService) SyncEventHighlights(ctx context.Context, ev *model.Event) (int, error) {
	res, err := s.scraper.ScrapeHighlights(ctx, ev.ExternalID, ev.Slug)
	if err != nil {
		return 0, fmt.Errorf("抓取集锦失败: %w", err)
	}
	records := res.Records()
	entry := s.logger.WithFields(logrus.Fields{"event_id": ev.ID, "external_id": ev.ExternalID})
	if len(records) == 0 {
		entry.Info("未抓取到集锦，保留已有数据")
		return 0, nil
	}
	deleted, err := s.repos.Highlights.ReplaceForEvent(ctx, ev.ID, records)
	if err != nil {
		return 0, fmt.Errorf("集锦入库失败: %w", err)
	}
	entry.WithFields(logrus.Fields{"deleted": deleted, "inserted": len(records)}).Info("集锦同步完成")
	return len(records), nil
}

// SyncHighlightsByKey 按 external_id 或 slug 手动同步集锦
func (s *SyncService) SyncHighlightsByKey(ctx context.Context, key string) (int, error) {
	ev, err := s.findEvent(ctx, key)
	if err != nil {
		return 0, err
	}
	return s.SyncEventHighlights(ctx, ev)
}

// SyncRecentHighlights 同步 ongoing/finished 且结束时间在回溯窗口内的赛事集锦
func (s *SyncService) SyncRecentHighlights(ctx context.Context) (*BatchReport, error) {
	events, err := s.repos.Events.ListByStatuses(ctx, []string{model.EventStatusOngoing, model.EventStatusFinished})
	if err != nil {
		return nil, fmt.Errorf("查询待同步赛事失败: %w", err)
	}
	since := s.clock.Now().UTC().Add(-s.highlightWindow)

	report := &BatchReport{}
	for _, ev := range events {
		if ev.EndDate == nil || ev.EndDate.UTC().Before(since) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Events++
		n, err := s.SyncEventHighlights(ctx, ev)
		if err != nil {
			s.logger.WithError(err).WithField("event_id", ev.ID).Error("SyncEventHighlights failed")
			report.fail(ev, err)
			continue
		}
		report.Succeeded++
		report.Created += n
	}
	s.logger.WithFields(logrus.Fields{"events": report.Events, "failed": report.Failed}).Info("集锦批量同步完成")
	return report, nil
}

// SyncEventStats 同步单个赛事的选手与战队数据
func (s *SyncService) SyncEventStats(ctx context.Context, key string) (*StatsSyncReport, error) {
	ev, err := s.findEvent(ctx, key)
	if err != nil {
		return nil, err
	}
	report := &StatsSyncReport{}

	players, err := s.scraper.ScrapePlayerStats(ctx, ev.ExternalID)
	if err != nil {
		return nil, fmt.Errorf("抓取选手数据失败: %w", err)
	}
	if records := players.Records(); len(records) > 0 {
		if report.Players, err = s.repos.Stats.UpsertPlayerStats(ctx, ev.ID, records); err != nil {
			return nil, fmt.Errorf("选手数据入库失败: %w", err)
		}
	}

	teams, err := s.scraper.ScrapeTeamStats(ctx, ev.ExternalID)
	if err != nil {
		return report, fmt.Errorf("抓取战队数据失败: %w", err)
	}
	if records := teams.Records(); len(records) > 0 {
		if report.Teams, err = s.repos.Stats.UpsertTeamStats(ctx, ev.ID, records); err != nil {
			return report, fmt.Errorf("战队数据入库失败: %w", err)
		}
	}

	s.logger.WithFields(logrus.Fields{
		"event_id": ev.ID,
		"players":  report.Players.Total(),
		"teams":    report.Teams.Total(),
	}).Info("赛事数据同步完成")
	return report, nil
}

// eventExtra 详情页中没有独立列的信息，存入 events.extra
type eventExtra struct {
	DateText   *string `json:"date_text,omitempty"`
	TeamsCount *int    `json:"teams_count,omitempty"`
}

// SyncEventDetails 抓取赛事详情页，只覆盖页面上实际给出的字段
func (s *SyncService) SyncEventDetails(ctx context.Context, key string) (*model.Event, error) {
	ev, err := s.findEvent(ctx, key)
	if err != nil {
		return nil, err
	}
	details, err := s.scraper.ScrapeEventDetails(ctx, ev.ExternalID, ev.Slug)
	if err != nil {
		return nil, fmt.Errorf("抓取赛事详情失败: %w", err)
	}
	if details == nil {
		s.logger.WithField("external_id", ev.ExternalID).Warn("赛事详情页不可用")
		return ev, nil
	}

	fields := map[string]interface{}{}
	if details.Name != nil {
		fields["name"] = *details.Name
	}
	if details.PrizePool != nil {
		fields["prize_pool"] = *details.PrizePool
	}
	if details.Location != nil {
		fields["location"] = *details.Location
	}
	if details.Type != nil {
		fields["type"] = *details.Type
	}
	if details.StartDate != nil {
		fields["start_date"] = details.StartDate.UTC()
	}
	if details.EndDate != nil {
		fields["end_date"] = details.EndDate.UTC()
	}
	if details.DateText != nil || details.TeamsCount != nil {
		raw, err := json.Marshal(eventExtra{DateText: details.DateText, TeamsCount: details.TeamsCount})
		if err != nil {
			return nil, fmt.Errorf("序列化详情失败: %w", err)
		}
		fields["extra"] = datatypes.JSON(raw)
	}
	if err := s.repos.Events.UpdateFields(ctx, ev.ID, fields); err != nil {
		return nil, fmt.Errorf("更新赛事详情失败: %w", err)
	}
	return s.repos.Events.GetByExternalID(ctx, ev.ExternalID)
}

// SyncAll 手动全量同步：赛事列表（含状态刷新）→ 所有进行中/未开始赛事的比赛
func (s *SyncService) SyncAll(ctx context.Context) (*FullSyncReport, error) {
	events, err := s.SyncEvents(ctx)
	if err != nil {
		return &FullSyncReport{Events: events}, err
	}
	matches, err := s.SyncAllEventMatches(ctx)
	return &FullSyncReport{Events: events, Matches: matches}, err
}

func (s *SyncService) findEvent(ctx context.Context, key string) (*model.Event, error) {
	ev, err := s.repos.Events.GetByKey(ctx, key)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("查询赛事失败: %w", err)
	}
	return ev, nil
}
