package scraper

import (
	"regexp"

	"HLTVSync/internal/model"

	"github.com/PuerkitoBio/goquery"
)

var eventHrefRe = regexp.MustCompile(`/events/(\d+)/([^/?#]+)`)

// ParseEvents 解析 /events 列表页，每个 div.event-col 一条记录
func ParseEvents(doc *goquery.Document) *model.ScrapeResult[model.ScrapedEvent] {
	res := &model.ScrapeResult[model.ScrapedEvent]{}
	doc.Find("div.event-col").Each(func(_ int, col *goquery.Selection) {
		res.Add(parseEventCol(col))
	})
	return res
}

func parseEventCol(col *goquery.Selection) model.RowResult[model.ScrapedEvent] {
	link := col.Find("a.a-reset").First()
	href, ok := link.Attr("href")
	if !ok {
		return model.SkipRow[model.ScrapedEvent]("缺少赛事链接")
	}
	m := eventHrefRe.FindStringSubmatch(href)
	if m == nil {
		return model.SkipRow[model.ScrapedEvent]("赛事链接格式不符: " + href)
	}

	ev := model.ScrapedEvent{
		ExternalID: m[1],
		Slug:       m[2],
		Name:       text(col.Find("div.text-ellipsis")),
		PrizePool:  text(col.Find("div.prizePoolEllipsis")),
		Location:   text(col.Find("span.big-event-location")),
		Type:       text(col.Find("div.eventTeamName")),
	}

	// 第一个 data-unix 为开始日期，最后一个为结束日期
	dates := col.Find(".eventdate [data-unix]")
	if dates.Length() > 0 {
		ev.StartDate = unixMillis(dates.First().AttrOr("data-unix", ""))
		ev.EndDate = unixMillis(dates.Last().AttrOr("data-unix", ""))
	}
	return model.KeepRow(ev)
}
