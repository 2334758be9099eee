package api

import (
	"net/http"

	"HLTVSync/internal/app"
	"HLTVSync/internal/config"

	"github.com/gin-gonic/gin"
)

// Handlers 路由用到的全部处理器
type Handlers struct {
	API    config.APIConfig
	Events *EventHandler
	Sync   *SyncHandler
	Proxy  *ProxyHandler
}

// NewHandlers 由 App 装配处理器
func NewHandlers(a *app.App) *Handlers {
	return &Handlers{
		API:    a.Config.API,
		Events: NewEventHandler(a.Events, a.Stats, a.Logger),
		Sync:   NewSyncHandler(a.Sync, a.Scheduler, a.Logger),
		Proxy:  NewProxyHandler(a.ProxyClient, a.Logger),
	}
}

func RegisterRoutes(r gin.IRouter, h *Handlers) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": h.API.Title,
			"version": h.API.Version,
		})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// 赛事查询接口（给叠加层页面用）
	events := r.Group("/api/events")
	events.GET("", h.Events.ListEvents)
	events.GET("/:slug", h.Events.GetEvent)
	events.GET("/:slug/overlay", h.Events.GetOverlay)
	events.GET("/:slug/matches", h.Events.ListMatches)
	events.GET("/:slug/players", h.Events.TopPlayers)
	events.GET("/:slug/teams", h.Events.TopTeams)
	events.GET("/:slug/highlights", h.Events.Highlights)
	events.PATCH("/:slug/status", h.Events.UpdateStatus)
	events.PATCH("/:slug/details", h.Events.UpdateDetails)
	events.POST("/:slug/team-stats/recalculate", h.Events.RecalculateTeamStats)
	events.POST("/:slug/logos/upgrade", h.Events.UpgradeLogos)

	r.GET("/proxy/team-logo", h.Proxy.TeamLogo)

	// 手动同步
	sync := r.Group("/sync")
	sync.POST("/events", h.Sync.SyncEvents)
	sync.POST("/matches", h.Sync.SyncMatches)
	sync.POST("/all", h.Sync.SyncAll)
	sync.POST("/events/:id/highlights", h.Sync.SyncHighlights)
	sync.POST("/events/:id/stats", h.Sync.SyncStats)
	sync.POST("/events/:id/details", h.Sync.SyncDetails)
	sync.GET("/jobs", h.Sync.ListJobs)
}
