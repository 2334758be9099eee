package service

import (
	"time"

	"HLTVSync/internal/model"
)

// DeriveEventStatus 按 UTC 比较 now 与起止时间推导赛事状态
// 只在结束时间存在时生效；缺开始时间且尚未结束时无法判断，ok 为 false
func DeriveEventStatus(start, end *time.Time, now time.Time) (status string, ok bool) {
	if end == nil {
		return "", false
	}
	now = now.UTC()
	if now.After(end.UTC()) {
		return model.EventStatusFinished, true
	}
	if start == nil {
		return "", false
	}
	if now.Before(start.UTC()) {
		return model.EventStatusUpcoming, true
	}
	return model.EventStatusOngoing, true
}
