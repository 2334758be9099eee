package scraper

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
)

// Fetcher 带重试与指数退避的页面抓取器
type Fetcher struct {
	client    *http.Client
	clock     clockwork.Clock
	logger    *logrus.Logger
	retries   int
	baseDelay time.Duration
}

// NewFetcher retries 为最大尝试次数（至少 1 次），第 n 次重试前等待 baseDelay*2^n
func NewFetcher(client *http.Client, retries int, baseDelay time.Duration, clock clockwork.Clock, logger *logrus.Logger) *Fetcher {
	if retries < 1 {
		retries = 1
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Fetcher{
		client:    client,
		clock:     clock,
		logger:    logger,
		retries:   retries,
		baseDelay: baseDelay,
	}
}

// Fetch GET 页面并解析为 HTML 文档
// 非 200 响应在重试耗尽后返回 (nil, nil)，表示"该页无数据"；
// 最后一次尝试仍为网络错误时返回 error；ctx 取消时立即返回 ctx.Err()
func (f *Fetcher) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	for attempt := 0; attempt < f.retries; attempt++ {
		entry := f.logger.WithFields(logrus.Fields{"url": url, "attempt": attempt + 1})
		if attempt > 0 {
			wait := f.baseDelay * time.Duration(1<<attempt)
			entry.WithField("wait", wait.String()).Debug("等待后重试")
			if err := f.sleep(ctx, wait); err != nil {
				return nil, err
			}
		}

		doc, status, err := f.get(ctx, url)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			entry.WithError(err).Warn("页面请求失败")
			if attempt == f.retries-1 {
				return nil, fmt.Errorf("请求 %s 失败: %w", url, err)
			}
			continue
		}
		if status == http.StatusOK {
			entry.Debug("页面抓取成功")
			return doc, nil
		}
		entry.WithField("status", status).Warn("页面返回非 200 状态")
	}

	f.logger.WithField("url", url).Error("重试耗尽，放弃抓取")
	return nil, nil
}

func (f *Fetcher) get(ctx context.Context, url string) (*goquery.Document, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("构建请求失败: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, nil
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("解析 HTML 失败: %w", err)
	}
	return doc, resp.StatusCode, nil
}

func (f *Fetcher) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-f.clock.After(d):
		return nil
	}
}
