package scraper

import (
	"net/url"
	"strings"

	"HLTVSync/internal/model"

	"github.com/PuerkitoBio/goquery"
)

const twitchClipBase = "https://clips.twitch.tv/"

// ParseHighlights 解析赛事页 div.event-highlights 下的 div.highlight-video
// 数据都在 data-* 属性上，剪辑 ID 取自嵌入地址的 clip 参数
func ParseHighlights(doc *goquery.Document) *model.ScrapeResult[model.ScrapedHighlight] {
	res := &model.ScrapeResult[model.ScrapedHighlight]{}
	doc.Find("div.event-highlights").First().Find("div.highlight-video").Each(func(_ int, item *goquery.Selection) {
		res.Add(parseHighlightVideo(item))
	})
	return res
}

func parseHighlightVideo(item *goquery.Selection) model.RowResult[model.ScrapedHighlight] {
	embed := attr(item, "data-highlight-embed")
	if embed == nil {
		embed = attr(item, "data-embed-url")
	}
	if embed == nil {
		return model.SkipRow[model.ScrapedHighlight]("缺少嵌入地址")
	}
	clip := clipID(*embed)
	if clip == "" {
		return model.SkipRow[model.ScrapedHighlight]("嵌入地址中没有 clip 参数: " + *embed)
	}

	title := text(item.Find(".highlight-description"))
	if title == nil {
		title = attr(item, "data-title")
	}
	thumb := attr(item.Find("img.highlights-thumbnail"), "src")
	if thumb == nil {
		thumb = attr(item, "data-thumbnail")
	}

	h := model.ScrapedHighlight{
		Title:       title,
		URL:         twitchClipBase + clip,
		EmbedURL:    embed,
		Thumbnail:   thumb,
		VideoID:     &clip,
		Duration:    attr(item, "data-duration"),
		Platform:    model.DefaultHighlightPlatform,
		HighlightID: attr(item, "data-highlight-id"),
	}
	if v := attr(item, "data-views"); v != nil {
		h.ViewCount = parseInt(strings.ReplaceAll(*v, ",", ""))
	}
	return model.KeepRow(h)
}

// clipID 从 https://clips.twitch.tv/embed?clip=XXX&parent=... 中取出 XXX
func clipID(embed string) string {
	u, err := url.Parse(embed)
	if err == nil {
		if c := u.Query().Get("clip"); c != "" {
			return c
		}
	}
	// 非法 URL 时按字符串切分
	if i := strings.Index(embed, "clip="); i >= 0 {
		c := embed[i+len("clip="):]
		if j := strings.IndexAny(c, "&#"); j >= 0 {
			c = c[:j]
		}
		return c
	}
	return ""
}
