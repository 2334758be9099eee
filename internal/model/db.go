package model

import (
	"time"

	"gorm.io/datatypes"
)

// 赛事状态
const (
	EventStatusUpcoming = "upcoming"
	EventStatusOngoing  = "ongoing"
	EventStatusFinished = "finished"
)

// 比赛状态
const (
	MatchStatusUpcoming = "upcoming"
	MatchStatusFinished = "finished"
)

const DefaultHighlightPlatform = "twitch"

// IsValidEventStatus 状态是否属于 upcoming/ongoing/finished
func IsValidEventStatus(s string) bool {
	switch s {
	case EventStatusUpcoming, EventStatusOngoing, EventStatusFinished:
		return true
	}
	return false
}

type Event struct {
	ID         uint64         `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	ExternalID string         `gorm:"column:external_id;type:varchar(32);uniqueIndex;not null;comment:HLTV赛事ID"`
	Slug       string         `gorm:"column:slug;type:varchar(256);uniqueIndex;not null;comment:URL短名"`
	Name       string         `gorm:"column:name;type:varchar(256);not null;comment:赛事名称"`
	StartDate  *time.Time     `gorm:"column:start_date;type:timestamp;comment:开始日期"`
	EndDate    *time.Time     `gorm:"column:end_date;type:timestamp;comment:结束日期"`
	Type       *string        `gorm:"column:type;type:varchar(64);comment:赛事类型（Online/LAN 等）"`
	PrizePool  *string        `gorm:"column:prize_pool;type:varchar(128);comment:奖金池原文"`
	Location   *string        `gorm:"column:location;type:varchar(128);comment:举办地"`
	Status     string         `gorm:"column:status;type:varchar(16);default:upcoming;index;comment:状态：upcoming/ongoing/finished"`
	Extra      datatypes.JSON `gorm:"column:extra;type:jsonb;comment:详情页补充信息"`
	CreatedAt  time.Time      `gorm:"column:created_at;type:timestamp;autoCreateTime;comment:创建时间"`
	UpdatedAt  time.Time      `gorm:"column:updated_at;type:timestamp;autoUpdateTime;comment:更新时间"`
}

type Match struct {
	ID         uint64     `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	ExternalID string     `gorm:"column:external_id;type:varchar(32);uniqueIndex;not null;comment:HLTV比赛ID"`
	EventID    uint64     `gorm:"column:event_id;type:bigint;index;not null;comment:关联赛事ID"`
	Team1Name  *string    `gorm:"column:team1_name;type:varchar(128)"`
	Team1Logo  *string    `gorm:"column:team1_logo;type:varchar(512)"`
	Team2Name  *string    `gorm:"column:team2_name;type:varchar(128)"`
	Team2Logo  *string    `gorm:"column:team2_logo;type:varchar(512)"`
	Team1Score *int       `gorm:"column:team1_score;type:int"`
	Team2Score *int       `gorm:"column:team2_score;type:int"`
	Date       *time.Time `gorm:"column:date;type:timestamp;index;comment:比赛时间"`
	Map        *string    `gorm:"column:map;type:varchar(64);comment:地图名"`
	Status     string     `gorm:"column:status;type:varchar(16);default:upcoming;index;comment:状态：upcoming/finished"`
	CreatedAt  time.Time  `gorm:"column:created_at;type:timestamp;autoCreateTime"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;type:timestamp;autoUpdateTime"`

	Event *Event `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
}

// EventPlayerStat 赛事维度选手数据，(event_id, player_name) 唯一
type EventPlayerStat struct {
	ID         uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	EventID    uint64    `gorm:"column:event_id;type:bigint;not null;uniqueIndex:uk_event_player,priority:1"`
	PlayerName string    `gorm:"column:player_name;type:varchar(128);not null;uniqueIndex:uk_event_player,priority:2"`
	TeamName   *string   `gorm:"column:team_name;type:varchar(128)"`
	Kills      *int      `gorm:"column:kills;type:int"`
	Deaths     *int      `gorm:"column:deaths;type:int"`
	Rating     *float64  `gorm:"column:rating;type:numeric(4,2)"`
	HSPercent  *float64  `gorm:"column:hs_percent;type:numeric(5,2)"`
	KDRatio    *float64  `gorm:"column:kd_ratio;type:numeric(4,2)"`
	MapsPlayed *int      `gorm:"column:maps_played;type:int"`
	CreatedAt  time.Time `gorm:"column:created_at;type:timestamp;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;type:timestamp;autoUpdateTime"`

	Event *Event `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
}

// EventTeamStat 赛事维度战队数据，(event_id, team_name) 唯一
type EventTeamStat struct {
	ID         uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	EventID    uint64    `gorm:"column:event_id;type:bigint;not null;uniqueIndex:uk_event_team,priority:1"`
	TeamName   string    `gorm:"column:team_name;type:varchar(128);not null;uniqueIndex:uk_event_team,priority:2"`
	TeamLogo   *string   `gorm:"column:team_logo;type:varchar(512)"`
	Wins       *int      `gorm:"column:wins;type:int"`
	Losses     *int      `gorm:"column:losses;type:int"`
	WinRate    *float64  `gorm:"column:win_rate;type:numeric(5,2);comment:胜率百分比"`
	MapsPlayed *int      `gorm:"column:maps_played;type:int"`
	CreatedAt  time.Time `gorm:"column:created_at;type:timestamp;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;type:timestamp;autoUpdateTime"`

	Event *Event `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
}

type EventHighlight struct {
	ID          uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	EventID     uint64    `gorm:"column:event_id;type:bigint;index;not null"`
	Title       *string   `gorm:"column:title;type:varchar(512)"`
	URL         string    `gorm:"column:url;type:varchar(512);not null;comment:规范化剪辑链接"`
	EmbedURL    *string   `gorm:"column:embed_url;type:varchar(1024)"`
	Thumbnail   *string   `gorm:"column:thumbnail;type:varchar(1024)"`
	VideoID     *string   `gorm:"column:video_id;type:varchar(256)"`
	Duration    *string   `gorm:"column:duration;type:varchar(32)"`
	Platform    string    `gorm:"column:platform;type:varchar(32);default:twitch"`
	ViewCount   *int      `gorm:"column:view_count;type:int"`
	HighlightID *string   `gorm:"column:highlight_id;type:varchar(64)"`
	CreatedAt   time.Time `gorm:"column:created_at;type:timestamp;autoCreateTime"`

	Event *Event `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
}

func (Event) TableName() string           { return "events" }
func (Match) TableName() string           { return "matches" }
func (EventPlayerStat) TableName() string { return "event_player_stats" }
func (EventTeamStat) TableName() string   { return "event_team_stats" }
func (EventHighlight) TableName() string  { return "event_highlights" }

// AllModels AutoMigrate 使用的模型列表，Event 须在前（子表外键依赖）
func AllModels() []interface{} {
	return []interface{}{
		&Event{},
		&Match{},
		&EventPlayerStat{},
		&EventTeamStat{},
		&EventHighlight{},
	}
}
