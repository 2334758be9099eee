package service

import (
	"encoding/json"
	"time"

	"HLTVSync/internal/model"
)

// EventView 赛事对外返回结构
type EventView struct {
	ID         uint64          `json:"id"`
	ExternalID string          `json:"external_id"`
	Slug       string          `json:"slug"`
	Name       string          `json:"name"`
	StartDate  *time.Time      `json:"start_date"`
	EndDate    *time.Time      `json:"end_date"`
	Type       *string         `json:"type"`
	PrizePool  *string         `json:"prize_pool"`
	Location   *string         `json:"location"`
	Status     string          `json:"status"`
	Extra      json.RawMessage `json:"extra,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

type MatchView struct {
	ID         uint64     `json:"id"`
	ExternalID string     `json:"external_id"`
	Team1Name  *string    `json:"team1_name"`
	Team1Logo  *string    `json:"team1_logo"`
	Team1Score *int       `json:"team1_score"`
	Team2Name  *string    `json:"team2_name"`
	Team2Logo  *string    `json:"team2_logo"`
	Team2Score *int       `json:"team2_score"`
	Date       *time.Time `json:"date"`
	Map        *string    `json:"map"`
	Status     string     `json:"status"`
}

type PlayerView struct {
	PlayerName string   `json:"player_name"`
	TeamName   *string  `json:"team_name"`
	Kills      *int     `json:"kills"`
	Deaths     *int     `json:"deaths"`
	Rating     *float64 `json:"rating"`
	HSPercent  *float64 `json:"hs_percent"`
	KDRatio    *float64 `json:"kd_ratio"`
	MapsPlayed *int     `json:"maps_played"`
}

type TeamView struct {
	TeamName   string   `json:"team_name"`
	TeamLogo   *string  `json:"team_logo"`
	Wins       *int     `json:"wins"`
	Losses     *int     `json:"losses"`
	WinRate    *float64 `json:"win_rate"`
	MapsPlayed *int     `json:"maps_played"`
}

type HighlightView struct {
	ID          uint64    `json:"id"`
	Title       *string   `json:"title"`
	URL         string    `json:"url"`
	EmbedURL    *string   `json:"embed_url"`
	Thumbnail   *string   `json:"thumbnail"`
	VideoID     *string   `json:"video_id"`
	Duration    *string   `json:"duration"`
	Platform    string    `json:"platform"`
	ViewCount   *int      `json:"view_count"`
	HighlightID *string   `json:"highlight_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// OverlayView 直播叠加层一次性拉取的数据包
type OverlayView struct {
	Event      EventView       `json:"event"`
	Matches    []MatchView     `json:"matches"`
	TopPlayers []PlayerView    `json:"top_players"`
	TopTeams   []TeamView      `json:"top_teams"`
	Highlights []HighlightView `json:"highlights"`
}

// NewEventView 实体转对外结构，extra 原样透传
func NewEventView(e *model.Event) EventView {
	v := EventView{
		ID:         e.ID,
		ExternalID: e.ExternalID,
		Slug:       e.Slug,
		Name:       e.Name,
		StartDate:  e.StartDate,
		EndDate:    e.EndDate,
		Type:       e.Type,
		PrizePool:  e.PrizePool,
		Location:   e.Location,
		Status:     e.Status,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
	if len(e.Extra) > 0 {
		v.Extra = json.RawMessage(e.Extra)
	}
	return v
}

func toMatchViews(list []*model.Match) []MatchView {
	out := make([]MatchView, 0, len(list))
	for _, m := range list {
		out = append(out, MatchView{
			ID:         m.ID,
			ExternalID: m.ExternalID,
			Team1Name:  m.Team1Name,
			Team1Logo:  m.Team1Logo,
			Team1Score: m.Team1Score,
			Team2Name:  m.Team2Name,
			Team2Logo:  m.Team2Logo,
			Team2Score: m.Team2Score,
			Date:       m.Date,
			Map:        m.Map,
			Status:     m.Status,
		})
	}
	return out
}

func toPlayerViews(list []*model.EventPlayerStat) []PlayerView {
	out := make([]PlayerView, 0, len(list))
	for _, p := range list {
		out = append(out, PlayerView{
			PlayerName: p.PlayerName,
			TeamName:   p.TeamName,
			Kills:      p.Kills,
			Deaths:     p.Deaths,
			Rating:     p.Rating,
			HSPercent:  p.HSPercent,
			KDRatio:    p.KDRatio,
			MapsPlayed: p.MapsPlayed,
		})
	}
	return out
}

func toTeamViews(list []*model.EventTeamStat) []TeamView {
	out := make([]TeamView, 0, len(list))
	for _, t := range list {
		out = append(out, TeamView{
			TeamName:   t.TeamName,
			TeamLogo:   t.TeamLogo,
			Wins:       t.Wins,
			Losses:     t.Losses,
			WinRate:    t.WinRate,
			MapsPlayed: t.MapsPlayed,
		})
	}
	return out
}

func toHighlightViews(list []*model.EventHighlight) []HighlightView {
	out := make([]HighlightView, 0, len(list))
	for _, h := range list {
		out = append(out, HighlightView{
			ID:          h.ID,
			Title:       h.Title,
			URL:         h.URL,
			EmbedURL:    h.EmbedURL,
			Thumbnail:   h.Thumbnail,
			VideoID:     h.VideoID,
			Duration:    h.Duration,
			Platform:    h.Platform,
			ViewCount:   h.ViewCount,
			HighlightID: h.HighlightID,
			CreatedAt:   h.CreatedAt,
		})
	}
	return out
}
