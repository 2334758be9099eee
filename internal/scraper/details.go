package scraper

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"HLTVSync/internal/model"

	"github.com/PuerkitoBio/goquery"
)

var (
	// "13th - 16th of December 2024" / "28th of November - 1st of December 2024" / "30th of December 2024 - 2nd of January 2025"
	dateRangeRe = regexp.MustCompile(`(?i)^(\d{1,2})(?:st|nd|rd|th)?(?:\s+of\s+([a-z]+))?(?:\s+(\d{4}))?\s*-\s*(\d{1,2})(?:st|nd|rd|th)?\s+of\s+([a-z]+)\s+(\d{4})$`)
	// "13th of December 2024"
	singleDateRe = regexp.MustCompile(`(?i)^(\d{1,2})(?:st|nd|rd|th)?\s+of\s+([a-z]+)\s+(\d{4})$`)
)

// ParseEventDetails 解析赛事主页：标题 h1.event-hub-title，信息表为 "标签 td + 值 td"
func ParseEventDetails(doc *goquery.Document) *model.ScrapedEventDetails {
	d := &model.ScrapedEventDetails{
		Name:      text(doc.Find("h1.event-hub-title")),
		PrizePool: labelValue(doc, "prize pool"),
		Location:  labelValue(doc, "location"),
		Type:      labelValue(doc, "type"),
		DateText:  labelValue(doc, "dates"),
	}
	if teams := labelValue(doc, "teams"); teams != nil {
		d.TeamsCount = parseInt(*teams)
	}
	if d.DateText != nil {
		d.StartDate, d.EndDate = ParseDateRange(*d.DateText)
	}
	return d
}

// labelValue 找到以 label 开头的第一个叶子 td（如 "Prize pool:"），返回其后相邻 td 的文本
// 包着信息表的布局 td 不算标签格
func labelValue(doc *goquery.Document, label string) *string {
	cell := doc.Find("td").FilterFunction(func(_ int, s *goquery.Selection) bool {
		if s.Find("td, table").Length() > 0 {
			return false
		}
		own := strings.ToLower(strings.Join(strings.Fields(s.Text()), " "))
		if !strings.HasPrefix(own, label) {
			return false
		}
		rest := own[len(label):]
		return rest == "" || !unicode.IsLetter(rune(rest[0]))
	}).First()
	if cell.Length() == 0 {
		return nil
	}
	return text(cell.NextFiltered("td"))
}

// ParseDateRange 解析 HLTV 日期文本，返回 UTC 零点的起止日期；无法识别时返回 nil
func ParseDateRange(s string) (start, end *time.Time) {
	s = strings.Join(strings.Fields(s), " ")
	if m := singleDateRe.FindStringSubmatch(s); m != nil {
		t := buildDate(m[1], m[2], m[3])
		if t == nil {
			return nil, nil
		}
		return t, t
	}

	m := dateRangeRe.FindStringSubmatch(s)
	if m == nil {
		return nil, nil
	}
	end = buildDate(m[4], m[5], m[6])
	if end == nil {
		return nil, nil
	}

	startMonth := m[2]
	if startMonth == "" {
		startMonth = m[5]
	}
	startYear := m[3]
	if startYear == "" {
		startYear = m[6]
		// 跨年但只写了一个年份
		if sm, ok := parseMonth(startMonth); ok && sm > end.Month() {
			startYear = strconv.Itoa(end.Year() - 1)
		}
	}
	start = buildDate(m[1], startMonth, startYear)
	if start == nil {
		return nil, nil
	}
	return start, end
}

func buildDate(day, month, year string) *time.Time {
	mon, ok := parseMonth(month)
	if !ok {
		return nil
	}
	d, err := strconv.Atoi(day)
	if err != nil || d < 1 || d > 31 {
		return nil
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return nil
	}
	t := time.Date(y, mon, d, 0, 0, 0, 0, time.UTC)
	// time.Date 会把 31st of November 归一化到 12 月，视为非法
	if t.Month() != mon {
		return nil
	}
	return &t
}

// parseMonth 支持全称与三字母缩写
func parseMonth(s string) (time.Month, bool) {
	s = strings.ToLower(s)
	if len(s) < 3 {
		return 0, false
	}
	for m := time.January; m <= time.December; m++ {
		full := strings.ToLower(m.String())
		if s == full || s == full[:3] {
			return m, true
		}
	}
	return 0, false
}
