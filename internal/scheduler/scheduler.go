// Package scheduler 定时同步任务表，任务状态可查询
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Job 一个定时任务
type Job struct {
	ID       string
	Name     string
	Schedule string
	Run      func(ctx context.Context) error
}

// JobStatus /sync/jobs 返回的任务状态
type JobStatus struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Schedule  string     `json:"schedule"`
	NextRun   *time.Time `json:"next_run"`
	LastRun   *time.Time `json:"last_run"`
	LastRunID string     `json:"last_run_id,omitempty"`
	LastError string     `json:"last_error,omitempty"`
	Running   bool       `json:"running"`
}

type entry struct {
	job     Job
	entryID cron.EntryID

	lastRun   *time.Time
	lastRunID string
	lastError string
	running   bool
}

type Scheduler struct {
	cron    *cron.Cron
	clock   clockwork.Clock
	logger  *logrus.Logger
	timeout time.Duration

	mu      sync.Mutex
	entries []*entry
	byID    map[string]*entry
}

// New timeout 为单次执行上限，<=0 表示不限制
func New(clock clockwork.Clock, logger *logrus.Logger, timeout time.Duration) *Scheduler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	cronLogger := cron.PrintfLogger(logger)
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.SkipIfStillRunning(cronLogger)),
		),
		clock:   clock,
		logger:  logger,
		timeout: timeout,
		byID:    make(map[string]*entry),
	}
}

// Add 注册任务；ID 重复或表达式非法时返回错误
func (s *Scheduler) Add(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[job.ID]; ok {
		return fmt.Errorf("任务已存在: %s", job.ID)
	}
	e := &entry{job: job}
	id, err := s.cron.AddFunc(job.Schedule, func() { s.execute(context.Background(), e) })
	if err != nil {
		return fmt.Errorf("任务 %s 调度表达式无效 %q: %w", job.ID, job.Schedule, err)
	}
	e.entryID = id
	s.entries = append(s.entries, e)
	s.byID[job.ID] = e
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.WithField("jobs", len(s.entries)).Info("定时任务已启动")
}

// Stop 停止调度并等待正在执行的任务结束
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("定时任务已停止")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunNow 立即同步执行一次任务，用于启动时补跑
func (s *Scheduler) RunNow(ctx context.Context, id string) error {
	s.mu.Lock()
	e, ok := s.byID[id]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("任务不存在: %s", id)
	}
	return s.execute(ctx, e)
}

// execute 执行任务并记录状态；错误与 panic 只记日志，不向上抛给 cron
func (s *Scheduler) execute(ctx context.Context, e *entry) (err error) {
	runID := uuid.NewString()
	started := s.clock.Now().UTC()
	s.mu.Lock()
	e.running = true
	e.lastRun = &started
	e.lastRunID = runID
	s.mu.Unlock()

	entry := s.logger.WithFields(logrus.Fields{"job": e.job.ID, "run_id": runID})
	entry.Info("任务开始执行")

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("任务 panic: %v", p)
		}
		s.mu.Lock()
		e.running = false
		e.lastError = ""
		if err != nil {
			e.lastError = err.Error()
		}
		s.mu.Unlock()

		elapsed := s.clock.Since(started)
		if err != nil {
			entry.WithError(err).WithField("elapsed", elapsed.String()).Error("任务执行失败")
			return
		}
		entry.WithField("elapsed", elapsed.String()).Info("任务执行完成")
	}()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return e.job.Run(ctx)
}

// Jobs 按注册顺序返回任务状态
func (s *Scheduler) Jobs() []JobStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]JobStatus, 0, len(s.entries))
	for _, e := range s.entries {
		st := JobStatus{
			ID:        e.job.ID,
			Name:      e.job.Name,
			Schedule:  e.job.Schedule,
			LastRun:   e.lastRun,
			LastRunID: e.lastRunID,
			LastError: e.lastError,
			Running:   e.running,
		}
		if next := s.cron.Entry(e.entryID).Next; !next.IsZero() {
			n := next.UTC()
			st.NextRun = &n
		}
		out = append(out, st)
	}
	return out
}
