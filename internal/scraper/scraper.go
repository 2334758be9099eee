// Package scraper 负责 HLTV 页面抓取与字段提取。
// 每种页面一个 Parse 函数（纯函数，输入 HTML 文档），Scraper 负责拼 URL、抓取并调用对应的 Parse。
package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"HLTVSync/internal/model"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
)

// PageFetcher 抓取页面；(nil, nil) 表示页面不可用
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (*goquery.Document, error)
}

// Scraper HLTV 各页面抓取入口
type Scraper struct {
	fetcher PageFetcher
	baseURL string
	logger  *logrus.Logger
}

func New(fetcher PageFetcher, baseURL string, logger *logrus.Logger) *Scraper {
	return &Scraper{
		fetcher: fetcher,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

func (s *Scraper) EventsURL() string {
	return s.baseURL + "/events"
}

func (s *Scraper) ResultsURL(eventID string) string {
	return fmt.Sprintf("%s/results?event=%s", s.baseURL, url.QueryEscape(eventID))
}

func (s *Scraper) PlayerStatsURL(eventID string) string {
	return fmt.Sprintf("%s/stats/players?event=%s", s.baseURL, url.QueryEscape(eventID))
}

func (s *Scraper) TeamStatsURL(eventID string) string {
	return fmt.Sprintf("%s/stats/teams?event=%s", s.baseURL, url.QueryEscape(eventID))
}

func (s *Scraper) EventPageURL(eventID, slug string) string {
	return fmt.Sprintf("%s/events/%s/%s", s.baseURL, url.PathEscape(eventID), url.PathEscape(slug))
}

// ScrapeEvents 赛事列表页
func (s *Scraper) ScrapeEvents(ctx context.Context) (*model.ScrapeResult[model.ScrapedEvent], error) {
	doc, err := s.fetch(ctx, s.EventsURL())
	if err != nil || doc == nil {
		return &model.ScrapeResult[model.ScrapedEvent]{}, err
	}
	return report(s.logger, "events", "", ParseEvents(doc)), nil
}

// ScrapeMatches 赛事比赛结果页
func (s *Scraper) ScrapeMatches(ctx context.Context, eventID string) (*model.ScrapeResult[model.ScrapedMatch], error) {
	doc, err := s.fetch(ctx, s.ResultsURL(eventID))
	if err != nil || doc == nil {
		return &model.ScrapeResult[model.ScrapedMatch]{}, err
	}
	return report(s.logger, "matches", eventID, ParseMatches(doc)), nil
}

func (s *Scraper) ScrapePlayerStats(ctx context.Context, eventID string) (*model.ScrapeResult[model.ScrapedPlayerStat], error) {
	doc, err := s.fetch(ctx, s.PlayerStatsURL(eventID))
	if err != nil || doc == nil {
		return &model.ScrapeResult[model.ScrapedPlayerStat]{}, err
	}
	return report(s.logger, "player_stats", eventID, ParsePlayerStats(doc)), nil
}

func (s *Scraper) ScrapeTeamStats(ctx context.Context, eventID string) (*model.ScrapeResult[model.ScrapedTeamStat], error) {
	doc, err := s.fetch(ctx, s.TeamStatsURL(eventID))
	if err != nil || doc == nil {
		return &model.ScrapeResult[model.ScrapedTeamStat]{}, err
	}
	return report(s.logger, "team_stats", eventID, ParseTeamStats(doc)), nil
}

// ScrapeHighlights 赛事主页上的精彩集锦
func (s *Scraper) ScrapeHighlights(ctx context.Context, eventID, slug string) (*model.ScrapeResult[model.ScrapedHighlight], error) {
	doc, err := s.fetch(ctx, s.EventPageURL(eventID, slug))
	if err != nil || doc == nil {
		return &model.ScrapeResult[model.ScrapedHighlight]{}, err
	}
	return report(s.logger, "highlights", eventID, ParseHighlights(doc)), nil
}

// ScrapeEventDetails 赛事主页信息表；页面不可用时返回 (nil, nil)
func (s *Scraper) ScrapeEventDetails(ctx context.Context, eventID, slug string) (*model.ScrapedEventDetails, error) {
	doc, err := s.fetch(ctx, s.EventPageURL(eventID, slug))
	if err != nil || doc == nil {
		return nil, err
	}
	details := ParseEventDetails(doc)
	s.logger.WithField("external_id", eventID).Info("赛事详情解析完成")
	return details, nil
}

func (s *Scraper) fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	doc, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		s.logger.WithField("url", pageURL).Warn("页面不可用，按无数据处理")
	}
	return doc, nil
}

func report[T any](logger *logrus.Logger, page, eventID string, res *model.ScrapeResult[T]) *model.ScrapeResult[T] {
	entry := logger.WithFields(logrus.Fields{"page": page, "records": len(res.Records())})
	if eventID != "" {
		entry = entry.WithField("external_id", eventID)
	}
	if skipped := res.SkipReasons(); len(skipped) > 0 {
		entry = entry.WithField("skipped", len(skipped))
		for _, reason := range skipped {
			logger.WithField("page", page).Debug("跳过行: " + reason)
		}
	}
	entry.Info("页面解析完成")
	return res
}
