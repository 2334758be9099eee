// Package app 进程级依赖装配：HTTP 客户端、抓取器、服务与定时任务
package app

import (
	"context"
	"net/http"
	"time"

	"HLTVSync/internal/config"
	"HLTVSync/internal/scheduler"
	"HLTVSync/internal/scraper"
	"HLTVSync/internal/service"
	"HLTVSync/internal/utils/httpclient"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// 单次定时任务执行上限
const jobTimeout = 30 * time.Minute

type App struct {
	Config *config.Config
	Logger *logrus.Logger
	DB     *gorm.DB
	Clock  clockwork.Clock

	ScrapeClient *http.Client // 抓取页面
	ProxyClient  *http.Client // 队标图片代理

	Scraper   *scraper.Scraper
	Events    *service.EventService
	Stats     *service.StatsService
	Sync      *service.SyncService
	Scheduler *scheduler.Scheduler
}

// New 装配全部组件；clock 为 nil 时使用真实时钟
func New(cfg *config.Config, db *gorm.DB, logger *logrus.Logger, clock clockwork.Clock) (*App, error) {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	a := &App{Config: cfg, Logger: logger, DB: db, Clock: clock}

	a.ScrapeClient = httpclient.NewHTTPClient(&cfg.Scraper, cfg.Scraper.TimeoutDuration(), logger)
	a.ProxyClient = httpclient.NewHTTPClient(&cfg.Scraper, cfg.Scraper.ProxyTimeoutDuration(), logger)

	fetcher := scraper.NewFetcher(a.ScrapeClient, cfg.Scraper.RetryCount, cfg.Scraper.RetryDelay, clock, logger)
	a.Scraper = scraper.New(fetcher, cfg.Scraper.BaseURL, logger)

	repos := service.NewRepositories(db)
	a.Events = service.NewEventService(repos, logger)
	a.Stats = service.NewStatsService(repos, logger)
	a.Sync = service.NewSyncService(repos, a.Scraper, clock, logger, cfg.Sync.HighlightsWindow())

	a.Scheduler = scheduler.New(clock, logger, jobTimeout)
	if err := a.Scheduler.Register(scheduler.SyncJobs(syncJobRunner{a.Sync}, cfg.Sync)); err != nil {
		return nil, err
	}
	return a, nil
}

// Start 按配置启动定时任务；run_on_startup 时后台补跑一次赛事与比赛同步
func (a *App) Start() {
	if !a.Config.Sync.Enabled {
		a.Logger.Info("定时同步已关闭")
		return
	}
	a.Scheduler.Start()
	if a.Config.Sync.RunOnStartup {
		go func() {
			for _, id := range []string{scheduler.JobSyncEvents, scheduler.JobSyncMatches} {
				if err := a.Scheduler.RunNow(context.Background(), id); err != nil {
					a.Logger.WithError(err).WithField("job", id).Warn("启动同步失败")
				}
			}
		}()
	}
}

// Close 停止定时任务并关闭数据库连接
func (a *App) Close(ctx context.Context) error {
	if a.Config.Sync.Enabled {
		if err := a.Scheduler.Stop(ctx); err != nil {
			a.Logger.WithError(err).Warn("等待定时任务结束超时")
		}
	}
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// syncJobRunner 定时任务只关心错误，同步报告已由服务层记录日志
type syncJobRunner struct {
	svc *service.SyncService
}

func (r syncJobRunner) SyncAllEventMatches(ctx context.Context) error {
	_, err := r.svc.SyncAllEventMatches(ctx)
	return err
}

func (r syncJobRunner) SyncEvents(ctx context.Context) error {
	_, err := r.svc.SyncEvents(ctx)
	return err
}

func (r syncJobRunner) SyncRecentHighlights(ctx context.Context) error {
	_, err := r.svc.SyncRecentHighlights(ctx)
	return err
}
