package service

import (
	"testing"
	"time"

	"HLTVSync/internal/model"

	"github.com/stretchr/testify/assert"
)

func utc(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func tp(t time.Time) *time.Time { return &t }

func TestDeriveEventStatus(t *testing.T) {
	start := tp(utc(2024, 12, 13, 0))
	end := tp(utc(2024, 12, 16, 0))

	tests := []struct {
		name   string
		start  *time.Time
		end    *time.Time
		now    time.Time
		want   string
		wantOK bool
	}{
		{"进行中", start, end, utc(2024, 12, 14, 12), model.EventStatusOngoing, true},
		{"已结束", start, end, utc(2024, 12, 20, 0), model.EventStatusFinished, true},
		{"未开始", start, end, utc(2024, 12, 10, 0), model.EventStatusUpcoming, true},
		{"开始时刻算进行中", start, end, *start, model.EventStatusOngoing, true},
		{"结束时刻算进行中", start, end, *end, model.EventStatusOngoing, true},
		{"无结束时间不处理", start, nil, utc(2024, 12, 20, 0), "", false},
		{"无开始时间但已结束", nil, end, utc(2024, 12, 20, 0), model.EventStatusFinished, true},
		{"无开始时间且未结束", nil, end, utc(2024, 12, 14, 0), "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DeriveEventStatus(tt.start, tt.end, tt.now)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeriveEventStatusUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	end := tp(utc(2024, 12, 16, 0))
	// 本地时间 12-16 07:00 即 UTC 12-15 23:00，尚未结束
	now := time.Date(2024, 12, 16, 7, 0, 0, 0, loc)
	got, ok := DeriveEventStatus(tp(utc(2024, 12, 13, 0)), end, now)
	assert.True(t, ok)
	assert.Equal(t, model.EventStatusOngoing, got)
}

func TestDeriveEventStatusMovesForwardOnly(t *testing.T) {
	rank := map[string]int{
		model.EventStatusUpcoming: 0,
		model.EventStatusOngoing:  1,
		model.EventStatusFinished: 2,
	}
	start := tp(utc(2024, 12, 13, 0))
	end := tp(utc(2024, 12, 16, 0))

	prev := -1
	for now := utc(2024, 12, 10, 0); now.Before(utc(2024, 12, 20, 0)); now = now.Add(3 * time.Hour) {
		got, ok := DeriveEventStatus(start, end, now)
		assert.True(t, ok)
		assert.GreaterOrEqual(t, rank[got], prev, "now=%s", now)
		prev = rank[got]
	}
	assert.Equal(t, 2, prev)
}
