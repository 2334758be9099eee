package service

import "errors"

var (
	ErrEventNotFound = errors.New("赛事不存在")
	ErrInvalidStatus = errors.New("状态取值无效，可选 upcoming/ongoing/finished")
	ErrInvalidDate   = errors.New("日期格式无效，需为 RFC3339 或 YYYY-MM-DD")
)
