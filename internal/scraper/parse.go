package scraper

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

var leadingIntRe = regexp.MustCompile(`^\s*(-?\d+)`)

// text 返回选择结果第一个节点的去空白文本，为空返回 nil
func text(sel *goquery.Selection) *string {
	if sel.Length() == 0 {
		return nil
	}
	s := strings.TrimSpace(sel.First().Text())
	if s == "" {
		return nil
	}
	return &s
}

func attr(sel *goquery.Selection, name string) *string {
	v, ok := sel.First().Attr(name)
	if !ok {
		return nil
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

// parseLeadingInt 取字符串开头的整数，"12 (3)" → 12
func parseLeadingInt(s string) *int {
	m := leadingIntRe.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &n
}

func parseInt(s string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &n
}

// parseFloat2 解析浮点并四舍五入到两位小数
func parseFloat2(s string) *float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	r := round2(f)
	return &r
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// unixMillis 毫秒时间戳转 UTC 时间
func unixMillis(s string) *time.Time {
	ms, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || ms <= 0 {
		return nil
	}
	t := time.UnixMilli(ms).UTC()
	return &t
}
