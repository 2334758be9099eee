package scraper

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// flakyServer 前 failures 次返回 500，之后返回页面
func flakyServer(t *testing.T, failures int32) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		if n <= failures {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`<html><body><h1 class="event-hub-title">ok</h1></body></html>`))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestFetchRetriesUntilSuccess(t *testing.T) {
	srv, calls := flakyServer(t, 2)
	f := NewFetcher(srv.Client(), 3, 0, clockwork.NewRealClock(), quietLogger())

	doc, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "ok", doc.Find("h1.event-hub-title").Text())
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetchExhaustedReturnsNoData(t *testing.T) {
	srv, calls := flakyServer(t, 100)
	f := NewFetcher(srv.Client(), 3, 0, clockwork.NewRealClock(), quietLogger())

	doc, err := f.Fetch(context.Background(), srv.URL)
	assert.NoError(t, err)
	assert.Nil(t, doc)
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetchTransportErrorOnLastAttempt(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	f := NewFetcher(&http.Client{Timeout: time.Second}, 2, 0, clockwork.NewRealClock(), quietLogger())
	doc, err := f.Fetch(context.Background(), url)
	assert.Error(t, err)
	assert.Nil(t, doc)
}

func TestFetchBacksOffExponentially(t *testing.T) {
	srv, calls := flakyServer(t, 2)
	clock := clockwork.NewFakeClock()
	f := NewFetcher(srv.Client(), 3, time.Second, clock, quietLogger())

	type result struct {
		doc *goquery.Document
		err error
	}
	done := make(chan result, 1)
	go func() {
		doc, err := f.Fetch(context.Background(), srv.URL)
		done <- result{doc, err}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 第 1 次重试前等待 1s*2^1
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	assert.Equal(t, int32(1), calls.Load())
	clock.Advance(time.Second)
	select {
	case <-done:
		t.Fatal("退避未结束就返回了")
	case <-time.After(50 * time.Millisecond):
	}
	clock.Advance(time.Second)

	// 第 2 次重试前等待 1s*2^2
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	assert.Equal(t, int32(2), calls.Load())
	clock.Advance(4 * time.Second)

	select {
	case r := <-done:
		require.NoError(t, r.err)
		assert.NotNil(t, r.doc)
	case <-ctx.Done():
		t.Fatal("Fetch 未返回")
	}
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetchStopsOnContextCancel(t *testing.T) {
	srv, _ := flakyServer(t, 100)
	clock := clockwork.NewFakeClock()
	f := NewFetcher(srv.Client(), 3, time.Minute, clock, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := f.Fetch(ctx, srv.URL)
		done <- err
	}()

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer waitCancel()
	require.NoError(t, clock.BlockUntilContext(waitCtx, 1))
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-waitCtx.Done():
		t.Fatal("取消后 Fetch 未返回")
	}
}
