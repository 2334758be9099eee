package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"HLTVSync/internal/model"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// EventService 赛事查询与人工修正
type EventService struct {
	repos  Repositories
	logger *logrus.Logger
}

func NewEventService(repos Repositories, logger *logrus.Logger) *EventService {
	return &EventService{repos: repos, logger: logger}
}

// OverlayLimits overlay 接口三个独立的条数参数
type OverlayLimits struct {
	Matches int
	Players int
	Teams   int
}

// DetailsUpdate 人工修正赛事详情，nil 字段保持不变
type DetailsUpdate struct {
	PrizePool *string `json:"prize_pool"`
	Location  *string `json:"location"`
	Type      *string `json:"type"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
}

func getEventBySlug(ctx context.Context, repos Repositories, slug string) (*model.Event, error) {
	ev, err := repos.Events.GetBySlug(ctx, slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("查询赛事失败: %w", err)
	}
	return ev, nil
}

// ListEvents 按开始时间倒序列出赛事，status 为空时不过滤
func (s *EventService) ListEvents(ctx context.Context, status string, limit int) ([]EventView, error) {
	if status != "" && !model.IsValidEventStatus(status) {
		return nil, ErrInvalidStatus
	}
	events, err := s.repos.Events.List(ctx, status, eventsLimit.clamp(limit))
	if err != nil {
		return nil, fmt.Errorf("查询赛事列表失败: %w", err)
	}
	out := make([]EventView, 0, len(events))
	for _, ev := range events {
		out = append(out, NewEventView(ev))
	}
	return out, nil
}

func (s *EventService) GetEvent(ctx context.Context, slug string) (*EventView, error) {
	ev, err := getEventBySlug(ctx, s.repos, slug)
	if err != nil {
		return nil, err
	}
	v := NewEventView(ev)
	return &v, nil
}

// GetOverlay 组装直播叠加层数据，各列表独立截断
func (s *EventService) GetOverlay(ctx context.Context, slug string, limits OverlayLimits) (*OverlayView, error) {
	ev, err := getEventBySlug(ctx, s.repos, slug)
	if err != nil {
		return nil, err
	}
	matches, err := s.repos.Matches.ListByEvent(ctx, ev.ID, matchesLimit.clamp(limits.Matches))
	if err != nil {
		return nil, fmt.Errorf("查询比赛失败: %w", err)
	}
	players, err := s.repos.Stats.TopPlayers(ctx, ev.ID, playersLimit.clamp(limits.Players))
	if err != nil {
		return nil, fmt.Errorf("查询选手数据失败: %w", err)
	}
	teams, err := s.repos.Stats.TopTeams(ctx, ev.ID, teamsLimit.clamp(limits.Teams))
	if err != nil {
		return nil, fmt.Errorf("查询战队数据失败: %w", err)
	}
	highlights, err := s.repos.Highlights.TopByViews(ctx, ev.ID, overlayHighlights)
	if err != nil {
		return nil, fmt.Errorf("查询集锦失败: %w", err)
	}
	return &OverlayView{
		Event:      NewEventView(ev),
		Matches:    toMatchViews(matches),
		TopPlayers: toPlayerViews(players),
		TopTeams:   toTeamViews(teams),
		Highlights: toHighlightViews(highlights),
	}, nil
}

func (s *EventService) ListMatches(ctx context.Context, slug string, limit int) ([]MatchView, error) {
	ev, err := getEventBySlug(ctx, s.repos, slug)
	if err != nil {
		return nil, err
	}
	matches, err := s.repos.Matches.ListByEvent(ctx, ev.ID, matchesLimit.clamp(limit))
	if err != nil {
		return nil, fmt.Errorf("查询比赛失败: %w", err)
	}
	return toMatchViews(matches), nil
}

func (s *EventService) TopPlayers(ctx context.Context, slug string, limit int) ([]PlayerView, error) {
	ev, err := getEventBySlug(ctx, s.repos, slug)
	if err != nil {
		return nil, err
	}
	players, err := s.repos.Stats.TopPlayers(ctx, ev.ID, playersLimit.clamp(limit))
	if err != nil {
		return nil, fmt.Errorf("查询选手数据失败: %w", err)
	}
	return toPlayerViews(players), nil
}

func (s *EventService) TopTeams(ctx context.Context, slug string, limit int) ([]TeamView, error) {
	ev, err := getEventBySlug(ctx, s.repos, slug)
	if err != nil {
		return nil, err
	}
	teams, err := s.repos.Stats.TopTeams(ctx, ev.ID, teamsLimit.clamp(limit))
	if err != nil {
		return nil, fmt.Errorf("查询战队数据失败: %w", err)
	}
	return toTeamViews(teams), nil
}

func (s *EventService) Highlights(ctx context.Context, slug string, limit int) ([]HighlightView, error) {
	ev, err := getEventBySlug(ctx, s.repos, slug)
	if err != nil {
		return nil, err
	}
	list, err := s.repos.Highlights.TopByViews(ctx, ev.ID, highlightsLimit.clamp(limit))
	if err != nil {
		return nil, fmt.Errorf("查询集锦失败: %w", err)
	}
	return toHighlightViews(list), nil
}

// UpdateStatus 人工覆盖赛事状态；下一次按日期推导时可能被改回
func (s *EventService) UpdateStatus(ctx context.Context, slug, status string) (*EventView, error) {
	if !model.IsValidEventStatus(status) {
		return nil, ErrInvalidStatus
	}
	ev, err := getEventBySlug(ctx, s.repos, slug)
	if err != nil {
		return nil, err
	}
	if err := s.repos.Events.UpdateStatus(ctx, ev.ID, status); err != nil {
		return nil, fmt.Errorf("更新赛事状态失败: %w", err)
	}
	s.logger.WithFields(logrus.Fields{"event_id": ev.ID, "from": ev.Status, "to": status}).Info("赛事状态已人工修改")
	return s.GetEvent(ctx, slug)
}

// UpdateDetails 部分更新赛事详情；日期支持 RFC3339 与 YYYY-MM-DD
func (s *EventService) UpdateDetails(ctx context.Context, slug string, req DetailsUpdate) (*EventView, error) {
	fields := map[string]interface{}{}
	if req.PrizePool != nil {
		fields["prize_pool"] = *req.PrizePool
	}
	if req.Location != nil {
		fields["location"] = *req.Location
	}
	if req.Type != nil {
		fields["type"] = *req.Type
	}
	if req.StartDate != nil {
		t, err := parseInputDate(*req.StartDate)
		if err != nil {
			return nil, err
		}
		fields["start_date"] = t
	}
	if req.EndDate != nil {
		t, err := parseInputDate(*req.EndDate)
		if err != nil {
			return nil, err
		}
		fields["end_date"] = t
	}

	ev, err := getEventBySlug(ctx, s.repos, slug)
	if err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		if err := s.repos.Events.UpdateFields(ctx, ev.ID, fields); err != nil {
			return nil, fmt.Errorf("更新赛事详情失败: %w", err)
		}
		s.logger.WithFields(logrus.Fields{"event_id": ev.ID, "fields": len(fields)}).Info("赛事详情已人工修改")
	}
	return s.GetEvent(ctx, slug)
}

func parseInputDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}
