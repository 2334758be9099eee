package service

import (
	"context"
	"fmt"

	"HLTVSync/internal/model"
	"HLTVSync/internal/scraper"

	"github.com/sirupsen/logrus"
)

// StatsService 派生数据维护：战队汇总重算、队标高清化
type StatsService struct {
	repos  Repositories
	logger *logrus.Logger
}

func NewStatsService(repos Repositories, logger *logrus.Logger) *StatsService {
	return &StatsService{repos: repos, logger: logger}
}

type TeamStatsReport struct {
	Teams []TeamView `json:"teams"`
}

type LogoUpgradeReport struct {
	Matches int `json:"matches_updated"`
	Teams   int `json:"teams_updated"`
}

// RecomputeTeamStats 由已完赛比赛重算并覆盖战队汇总，可重复执行
func (s *StatsService) RecomputeTeamStats(ctx context.Context, slug string) (*TeamStatsReport, error) {
	ev, err := getEventBySlug(ctx, s.repos, slug)
	if err != nil {
		return nil, err
	}
	matches, err := s.repos.Matches.ListFinishedByEvent(ctx, ev.ID)
	if err != nil {
		return nil, fmt.Errorf("查询已完赛比赛失败: %w", err)
	}
	aggs := CalculateTeamStats(matches)
	if err := s.repos.Stats.SaveTeamAggregates(ctx, ev.ID, aggs); err != nil {
		return nil, err
	}

	report := &TeamStatsReport{Teams: make([]TeamView, 0, len(aggs))}
	for _, a := range aggs {
		report.Teams = append(report.Teams, aggregateView(a))
	}
	s.logger.WithFields(logrus.Fields{
		"event_id": ev.ID,
		"matches":  len(matches),
		"teams":    len(aggs),
	}).Info("战队数据重算完成")
	return report, nil
}

// UpgradeEventLogos 把比赛与战队数据里的小图队标改写为高清地址
func (s *StatsService) UpgradeEventLogos(ctx context.Context, slug string) (*LogoUpgradeReport, error) {
	ev, err := getEventBySlug(ctx, s.repos, slug)
	if err != nil {
		return nil, err
	}
	report := &LogoUpgradeReport{}

	matches, err := s.repos.Matches.ListAllByEvent(ctx, ev.ID)
	if err != nil {
		return nil, fmt.Errorf("查询比赛失败: %w", err)
	}
	for _, m := range matches {
		l1, c1 := upgradeLogo(m.Team1Logo)
		l2, c2 := upgradeLogo(m.Team2Logo)
		if !c1 && !c2 {
			continue
		}
		if err := s.repos.Matches.UpdateLogos(ctx, m.ID, l1, l2); err != nil {
			return report, fmt.Errorf("更新比赛队标失败: %w, match_id: %d", err, m.ID)
		}
		report.Matches++
	}

	teams, err := s.repos.Stats.ListTeamStats(ctx, ev.ID)
	if err != nil {
		return report, fmt.Errorf("查询战队数据失败: %w", err)
	}
	for _, t := range teams {
		logo, changed := upgradeLogo(t.TeamLogo)
		if !changed {
			continue
		}
		if err := s.repos.Stats.UpdateTeamLogo(ctx, t.ID, *logo); err != nil {
			return report, fmt.Errorf("更新战队队标失败: %w, team_stat_id: %d", err, t.ID)
		}
		report.Teams++
	}

	s.logger.WithFields(logrus.Fields{
		"event_id": ev.ID,
		"matches":  report.Matches,
		"teams":    report.Teams,
	}).Info("队标高清化完成")
	return report, nil
}

func upgradeLogo(logo *string) (*string, bool) {
	if logo == nil || !scraper.LogoNeedsUpgrade(*logo) {
		return logo, false
	}
	v := scraper.UpgradeLogoQuality(*logo)
	return &v, true
}

func aggregateView(a model.TeamAggregate) TeamView {
	wins, losses, maps := a.Wins, a.Losses, a.MapsPlayed
	return TeamView{
		TeamName:   a.TeamName,
		TeamLogo:   a.TeamLogo,
		Wins:       &wins,
		Losses:     &losses,
		WinRate:    a.WinRate,
		MapsPlayed: &maps,
	}
}
