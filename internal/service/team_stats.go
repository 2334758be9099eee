package service

import (
	"sort"

	"HLTVSync/internal/model"
)

// CalculateTeamStats 从已完赛比赛全量重算战队汇总（非增量）
// 每场比赛双方各记一张地图；比分严格大者记胜，平分不计胜负；队标取最后出现的非空值
// matches 需按时间正序传入，返回结果按战队名排序
func CalculateTeamStats(matches []*model.Match) []model.TeamAggregate {
	byTeam := make(map[string]*model.TeamAggregate)
	get := func(name string) *model.TeamAggregate {
		agg, ok := byTeam[name]
		if !ok {
			agg = &model.TeamAggregate{TeamName: name}
			byTeam[name] = agg
		}
		return agg
	}

	for _, m := range matches {
		if m.Status != model.MatchStatusFinished || m.Team1Score == nil || m.Team2Score == nil {
			continue
		}
		if m.Team1Name == nil || *m.Team1Name == "" || m.Team2Name == nil || *m.Team2Name == "" {
			continue
		}
		t1, t2 := get(*m.Team1Name), get(*m.Team2Name)
		t1.MapsPlayed++
		t2.MapsPlayed++
		if m.Team1Logo != nil && *m.Team1Logo != "" {
			t1.TeamLogo = m.Team1Logo
		}
		if m.Team2Logo != nil && *m.Team2Logo != "" {
			t2.TeamLogo = m.Team2Logo
		}

		s1, s2 := *m.Team1Score, *m.Team2Score
		switch {
		case s1 > s2:
			t1.Wins++
			t2.Losses++
		case s2 > s1:
			t2.Wins++
			t1.Losses++
		}
	}

	out := make([]model.TeamAggregate, 0, len(byTeam))
	for _, agg := range byTeam {
		agg.WinRate = model.WinRate(agg.Wins, agg.Losses)
		out = append(out, *agg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TeamName < out[j].TeamName })
	return out
}
