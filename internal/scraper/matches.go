package scraper

import (
	"regexp"
	"strings"

	"HLTVSync/internal/model"

	"github.com/PuerkitoBio/goquery"
)

var matchHrefRe = regexp.MustCompile(`/matches/(\d+)/`)

// 赛制标记，不是地图名
var seriesFormats = map[string]bool{"bo1": true, "bo3": true, "bo5": true}

// ParseMatches 解析 /results?event= 结果页，每个 div.result-con 一场比赛
func ParseMatches(doc *goquery.Document) *model.ScrapeResult[model.ScrapedMatch] {
	res := &model.ScrapeResult[model.ScrapedMatch]{}
	doc.Find("div.result-con").Each(func(_ int, con *goquery.Selection) {
		res.Add(parseResultCon(con))
	})
	return res
}

func parseResultCon(con *goquery.Selection) model.RowResult[model.ScrapedMatch] {
	href, ok := con.Find("a.a-reset").First().Attr("href")
	if !ok {
		return model.SkipRow[model.ScrapedMatch]("缺少比赛链接")
	}
	m := matchHrefRe.FindStringSubmatch(href)
	if m == nil {
		return model.SkipRow[model.ScrapedMatch]("比赛链接格式不符: " + href)
	}
	match := model.ScrapedMatch{ExternalID: m[1]}

	teams := con.Find("td.team-cell")
	if teams.Length() >= 2 {
		t1, t2 := teams.Eq(0), teams.Eq(1)
		match.Team1Name = text(t1.Find("div.team"))
		match.Team1Logo = upgradeLogoPtr(attr(t1.Find("img.team-logo"), "src"))
		match.Team2Name = text(t2.Find("div.team"))
		match.Team2Logo = upgradeLogoPtr(attr(t2.Find("img.team-logo"), "src"))
	}

	// 两个比分都能解析才记录
	scores := con.Find("td.result-score span")
	if scores.Length() >= 2 {
		s1 := parseInt(scores.Eq(0).Text())
		s2 := parseInt(scores.Eq(1).Text())
		if s1 != nil && s2 != nil {
			match.Team1Score, match.Team2Score = s1, s2
		}
	}

	if v, ok := con.Attr("data-zonedgrouping-entry-unix"); ok {
		match.Date = unixMillis(v)
	}

	if mapName := text(con.Find("div.map-text")); mapName != nil && !seriesFormats[strings.ToLower(*mapName)] {
		match.Map = mapName
	}
	return model.KeepRow(match)
}
