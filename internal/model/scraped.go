package model

import (
	"math"
	"time"
)

// ScrapedEvent 赛事列表页单行解析结果；指针字段为空表示页面未提供
type ScrapedEvent struct {
	ExternalID string
	Slug       string
	Name       *string
	StartDate  *time.Time
	EndDate    *time.Time
	Type       *string
	PrizePool  *string
	Location   *string
}

// ScrapedMatch 结果页单场比赛
type ScrapedMatch struct {
	ExternalID string
	Team1Name  *string
	Team1Logo  *string
	Team2Name  *string
	Team2Logo  *string
	Team1Score *int
	Team2Score *int
	Date       *time.Time
	Map        *string
}

// Status 两队比分都存在即为 finished
func (m ScrapedMatch) Status() string {
	if m.Team1Score != nil && m.Team2Score != nil {
		return MatchStatusFinished
	}
	return MatchStatusUpcoming
}

type ScrapedPlayerStat struct {
	PlayerName string
	TeamName   *string
	Kills      *int
	Deaths     *int
	Rating     *float64
	HSPercent  *float64
	KDRatio    *float64
	MapsPlayed *int
}

type ScrapedTeamStat struct {
	TeamName   string
	TeamLogo   *string
	Wins       *int
	Losses     *int
	WinRate    *float64
	MapsPlayed *int
}

// ScrapedHighlight 赛事页精彩集锦，URL 为规范化后的 clips.twitch.tv 地址
type ScrapedHighlight struct {
	Title       *string
	URL         string
	EmbedURL    *string
	Thumbnail   *string
	VideoID     *string
	Duration    *string
	Platform    string
	ViewCount   *int
	HighlightID *string
}

// ScrapedEventDetails 赛事详情页信息
type ScrapedEventDetails struct {
	Name       *string
	PrizePool  *string
	Location   *string
	Type       *string
	DateText   *string
	StartDate  *time.Time
	EndDate    *time.Time
	TeamsCount *int
}

// RowResult 单行解析结果：要么有值，要么带跳过原因
type RowResult[T any] struct {
	Value      T
	SkipReason string
}

func (r RowResult[T]) Skipped() bool { return r.SkipReason != "" }

func KeepRow[T any](v T) RowResult[T] {
	return RowResult[T]{Value: v}
}

func SkipRow[T any](reason string) RowResult[T] {
	return RowResult[T]{SkipReason: reason}
}

// ScrapeResult 一个页面的全部行结果
type ScrapeResult[T any] struct {
	Rows []RowResult[T]
}

func (r *ScrapeResult[T]) Add(row RowResult[T]) {
	r.Rows = append(r.Rows, row)
}

// Records 成功解析的记录，保持页面顺序
func (r *ScrapeResult[T]) Records() []T {
	if r == nil {
		return nil
	}
	out := make([]T, 0, len(r.Rows))
	for _, row := range r.Rows {
		if !row.Skipped() {
			out = append(out, row.Value)
		}
	}
	return out
}

// SkipReasons 被跳过行的原因列表
func (r *ScrapeResult[T]) SkipReasons() []string {
	if r == nil {
		return nil
	}
	var out []string
	for _, row := range r.Rows {
		if row.Skipped() {
			out = append(out, row.SkipReason)
		}
	}
	return out
}

// ReconcileResult 一次批量写入的新增/更新计数
type ReconcileResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

func (r ReconcileResult) Total() int { return r.Created + r.Updated }

func (r *ReconcileResult) Add(o ReconcileResult) {
	r.Created += o.Created
	r.Updated += o.Updated
}

// TeamAggregate 由已完赛比赛重新计算出的战队汇总
type TeamAggregate struct {
	TeamName   string
	TeamLogo   *string
	Wins       int
	Losses     int
	MapsPlayed int
	WinRate    *float64
}

// WinRate wins/(wins+losses)*100 保留两位小数；没有分出胜负的场次时返回 nil
func WinRate(wins, losses int) *float64 {
	if wins+losses <= 0 {
		return nil
	}
	r := math.Round(float64(wins)/float64(wins+losses)*100*100) / 100
	return &r
}
