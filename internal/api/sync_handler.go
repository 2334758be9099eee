package api

import (
	"context"
	"net/http"

	"HLTVSync/internal/scheduler"
	"HLTVSync/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// JobLister 定时任务状态来源
type JobLister interface {
	Jobs() []scheduler.JobStatus
}

// SyncHandler 手动触发同步与任务状态查询
type SyncHandler struct {
	syncService *service.SyncService
	jobs        JobLister
	logger      *logrus.Logger
}

func NewSyncHandler(syncService *service.SyncService, jobs JobLister, logger *logrus.Logger) *SyncHandler {
	return &SyncHandler{
		syncService: syncService,
		jobs:        jobs,
		logger:      logger,
	}
}

// run 为一次手动同步分配 run_id 并统一输出结果
func (h *SyncHandler) run(c *gin.Context, op string, fn func(ctx context.Context) (interface{}, error)) {
	runID := uuid.NewString()
	entry := h.logger.WithFields(logrus.Fields{"job": op, "run_id": runID})
	entry.Info("手动同步开始")

	result, err := fn(c.Request.Context())
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			entry.WithError(err).Error(op + " failed")
		}
		c.JSON(status, gin.H{"error": err.Error(), "run_id": runID})
		return
	}
	entry.Info("手动同步完成")
	c.JSON(http.StatusOK, gin.H{
		"message": op + " 同步成功",
		"run_id":  runID,
		"result":  result,
	})
}

// SyncEvents 同步赛事列表并刷新状态
// @Summary 同步赛事列表
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]string
// @Router /sync/events [post]
func (h *SyncHandler) SyncEvents(c *gin.Context) {
	h.run(c, "sync_events", func(ctx context.Context) (interface{}, error) {
		return h.syncService.SyncEvents(ctx)
	})
}

// SyncMatches 同步所有未开始/进行中赛事的比赛
// @Router /sync/matches [post]
func (h *SyncHandler) SyncMatches(c *gin.Context) {
	h.run(c, "sync_matches", func(ctx context.Context) (interface{}, error) {
		return h.syncService.SyncAllEventMatches(ctx)
	})
}

// SyncAll 赛事列表 → 状态刷新 → 比赛
// @Router /sync/all [post]
func (h *SyncHandler) SyncAll(c *gin.Context) {
	h.run(c, "sync_all", func(ctx context.Context) (interface{}, error) {
		return h.syncService.SyncAll(ctx)
	})
}

// SyncHighlights 同步单个赛事的集锦
// @Param id path string true "HLTV 赛事 ID 或 slug"
// @Router /sync/events/{id}/highlights [post]
func (h *SyncHandler) SyncHighlights(c *gin.Context) {
	key := c.Param("id")
	h.run(c, "sync_highlights", func(ctx context.Context) (interface{}, error) {
		n, err := h.syncService.SyncHighlightsByKey(ctx, key)
		if err != nil {
			return nil, err
		}
		return gin.H{"highlights": n}, nil
	})
}

// SyncStats 同步单个赛事的选手与战队数据
// @Param id path string true "HLTV 赛事 ID 或 slug"
// @Router /sync/events/{id}/stats [post]
func (h *SyncHandler) SyncStats(c *gin.Context) {
	key := c.Param("id")
	h.run(c, "sync_stats", func(ctx context.Context) (interface{}, error) {
		return h.syncService.SyncEventStats(ctx, key)
	})
}

// SyncDetails 抓取赛事详情页
// @Param id path string true "HLTV 赛事 ID 或 slug"
// @Router /sync/events/{id}/details [post]
func (h *SyncHandler) SyncDetails(c *gin.Context) {
	key := c.Param("id")
	h.run(c, "sync_details", func(ctx context.Context) (interface{}, error) {
		ev, err := h.syncService.SyncEventDetails(ctx, key)
		if err != nil {
			return nil, err
		}
		return service.NewEventView(ev), nil
	})
}

// ListJobs 定时任务及下次执行时间
// GET /sync/jobs
func (h *SyncHandler) ListJobs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"jobs": h.jobs.Jobs()})
}
