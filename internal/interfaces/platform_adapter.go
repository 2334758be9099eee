package interfaces

import (
	"context"

	"HLTVSync/internal/model"
)

// SiteScraper 数据源站点必须实现的抓取接口；页面不可用时返回空结果而不是错误
type SiteScraper interface {
	ScrapeEvents(ctx context.Context) (*model.ScrapeResult[model.ScrapedEvent], error)                         // 赛事列表
	ScrapeMatches(ctx context.Context, eventID string) (*model.ScrapeResult[model.ScrapedMatch], error)        // 比赛结果
	ScrapePlayerStats(ctx context.Context, eventID string) (*model.ScrapeResult[model.ScrapedPlayerStat], error) // 选手数据
	ScrapeTeamStats(ctx context.Context, eventID string) (*model.ScrapeResult[model.ScrapedTeamStat], error)     // 战队数据
	ScrapeHighlights(ctx context.Context, eventID, slug string) (*model.ScrapeResult[model.ScrapedHighlight], error)
	ScrapeEventDetails(ctx context.Context, eventID, slug string) (*model.ScrapedEventDetails, error)
}
