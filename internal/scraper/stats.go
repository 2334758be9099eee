package scraper

import (
	"fmt"

	"HLTVSync/internal/model"

	"github.com/PuerkitoBio/goquery"
)

const (
	minPlayerCells = 7
	minTeamCells   = 5
)

// ParsePlayerStats 解析 /stats/players?event= 表格
// 列：0 选手 | 1 战队 | 2 地图数 | 3 回合差 | 4 K/D | 5 Rating
func ParsePlayerStats(doc *goquery.Document) *model.ScrapeResult[model.ScrapedPlayerStat] {
	res := &model.ScrapeResult[model.ScrapedPlayerStat]{}
	doc.Find("table.stats-table tbody tr").Each(func(_ int, row *goquery.Selection) {
		res.Add(parsePlayerRow(row))
	})
	return res
}

func parsePlayerRow(row *goquery.Selection) model.RowResult[model.ScrapedPlayerStat] {
	cells := row.Find("td")
	if cells.Length() < minPlayerCells {
		return model.SkipRow[model.ScrapedPlayerStat](fmt.Sprintf("列数不足: %d", cells.Length()))
	}

	nameSel := cells.Eq(0).Find("a.playerCol")
	if nameSel.Length() == 0 {
		nameSel = cells.Eq(0).Find("a")
	}
	name := text(nameSel)
	if name == nil {
		return model.SkipRow[model.ScrapedPlayerStat]("缺少选手名")
	}

	return model.KeepRow(model.ScrapedPlayerStat{
		PlayerName: *name,
		TeamName:   text(cells.Eq(1).Find("a")),
		MapsPlayed: parseInt(cells.Eq(2).Text()),
		KDRatio:    parseFloat2(cells.Eq(4).Text()),
		Rating:     parseFloat2(cells.Eq(5).Text()),
	})
}

// ParseTeamStats 解析 /stats/teams?event= 表格
// 列：0 战队 | 1 地图数 | 2 胜 | 3 负 | 4 ...；胜负列形如 "12 (3)" 取括号前整数
func ParseTeamStats(doc *goquery.Document) *model.ScrapeResult[model.ScrapedTeamStat] {
	res := &model.ScrapeResult[model.ScrapedTeamStat]{}
	doc.Find("table.stats-table tbody tr").Each(func(_ int, row *goquery.Selection) {
		res.Add(parseTeamRow(row))
	})
	return res
}

func parseTeamRow(row *goquery.Selection) model.RowResult[model.ScrapedTeamStat] {
	cells := row.Find("td")
	if cells.Length() < minTeamCells {
		return model.SkipRow[model.ScrapedTeamStat](fmt.Sprintf("列数不足: %d", cells.Length()))
	}

	teamCell := cells.Eq(0)
	nameSel := teamCell.Find("a.teamCol")
	if nameSel.Length() == 0 {
		nameSel = teamCell.Find("a")
	}
	name := text(nameSel)
	if name == nil {
		return model.SkipRow[model.ScrapedTeamStat]("缺少战队名")
	}

	stat := model.ScrapedTeamStat{
		TeamName:   *name,
		TeamLogo:   upgradeLogoPtr(attr(teamCell.Find("img"), "src")),
		MapsPlayed: parseInt(cells.Eq(1).Text()),
		Wins:       parseLeadingInt(cells.Eq(2).Text()),
		Losses:     parseLeadingInt(cells.Eq(3).Text()),
	}
	if stat.Wins != nil && stat.Losses != nil {
		stat.WinRate = model.WinRate(*stat.Wins, *stat.Losses)
	}
	return model.KeepRow(stat)
}
