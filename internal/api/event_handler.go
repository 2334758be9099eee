package api

import (
	"net/http"

	"HLTVSync/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// EventHandler 赛事查询与人工修正接口（给直播叠加层和后台用）
type EventHandler struct {
	events *service.EventService
	stats  *service.StatsService
	logger *logrus.Logger
}

func NewEventHandler(events *service.EventService, stats *service.StatsService, logger *logrus.Logger) *EventHandler {
	return &EventHandler{events: events, stats: stats, logger: logger}
}

// ListEvents 赛事列表
// GET /api/events?status=ongoing&limit=50
func (h *EventHandler) ListEvents(c *gin.Context) {
	list, err := h.events.ListEvents(c.Request.Context(), c.Query("status"), queryInt(c, "limit"))
	if err != nil {
		respondError(c, h.logger, "ListEvents", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /api/events/:slug
func (h *EventHandler) GetEvent(c *gin.Context) {
	ev, err := h.events.GetEvent(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, h.logger, "GetEvent", err)
		return
	}
	c.JSON(http.StatusOK, ev)
}

// GetOverlay 叠加层一次拉取：赛事 + 比赛 + 选手 + 战队 + 集锦
// GET /api/events/:slug/overlay?matches_limit=100&players_limit=20&teams_limit=20
func (h *EventHandler) GetOverlay(c *gin.Context) {
	limits := service.OverlayLimits{
		Matches: queryInt(c, "matches_limit"),
		Players: queryInt(c, "players_limit"),
		Teams:   queryInt(c, "teams_limit"),
	}
	overlay, err := h.events.GetOverlay(c.Request.Context(), c.Param("slug"), limits)
	if err != nil {
		respondError(c, h.logger, "GetOverlay", err)
		return
	}
	c.JSON(http.StatusOK, overlay)
}

// GET /api/events/:slug/matches?limit=100
func (h *EventHandler) ListMatches(c *gin.Context) {
	list, err := h.events.ListMatches(c.Request.Context(), c.Param("slug"), queryInt(c, "limit"))
	if err != nil {
		respondError(c, h.logger, "ListMatches", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /api/events/:slug/players?limit=20
func (h *EventHandler) TopPlayers(c *gin.Context) {
	list, err := h.events.TopPlayers(c.Request.Context(), c.Param("slug"), queryInt(c, "limit"))
	if err != nil {
		respondError(c, h.logger, "TopPlayers", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /api/events/:slug/teams?limit=20
func (h *EventHandler) TopTeams(c *gin.Context) {
	list, err := h.events.TopTeams(c.Request.Context(), c.Param("slug"), queryInt(c, "limit"))
	if err != nil {
		respondError(c, h.logger, "TopTeams", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /api/events/:slug/highlights?limit=12
func (h *EventHandler) Highlights(c *gin.Context) {
	list, err := h.events.Highlights(c.Request.Context(), c.Param("slug"), queryInt(c, "limit"))
	if err != nil {
		respondError(c, h.logger, "Highlights", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus 人工修改赛事状态
// PATCH /api/events/:slug/status {"status": "finished"}
func (h *EventHandler) UpdateStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ev, err := h.events.UpdateStatus(c.Request.Context(), c.Param("slug"), req.Status)
	if err != nil {
		respondError(c, h.logger, "UpdateStatus", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "赛事状态已更新", "event": ev})
}

// UpdateDetails 部分更新赛事详情，未传字段不变
// PATCH /api/events/:slug/details {"prize_pool": "$1,250,000", "end_date": "2024-12-16"}
func (h *EventHandler) UpdateDetails(c *gin.Context) {
	var req service.DetailsUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ev, err := h.events.UpdateDetails(c.Request.Context(), c.Param("slug"), req)
	if err != nil {
		respondError(c, h.logger, "UpdateDetails", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "赛事详情已更新", "event": ev})
}

// RecalculateTeamStats 由已完赛比赛重算战队数据
// POST /api/events/:slug/team-stats/recalculate
func (h *EventHandler) RecalculateTeamStats(c *gin.Context) {
	report, err := h.stats.RecomputeTeamStats(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, h.logger, "RecalculateTeamStats", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "战队数据已重算", "teams": report.Teams})
}

// UpgradeLogos 队标高清化
// POST /api/events/:slug/logos/upgrade
func (h *EventHandler) UpgradeLogos(c *gin.Context) {
	report, err := h.stats.UpgradeEventLogos(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, h.logger, "UpgradeLogos", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":         "队标已更新",
		"matches_updated": report.Matches,
		"teams_updated":   report.Teams,
	})
}
