package service

import (
	"testing"

	"HLTVSync/internal/model"
	"HLTVSync/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	str = testutil.Ptr[string]
	num = testutil.Ptr[int]
)

func finished(t1, t2 string, s1, s2 int) *model.Match {
	return &model.Match{
		Team1Name:  str(t1),
		Team2Name:  str(t2),
		Team1Score: num(s1),
		Team2Score: num(s2),
		Status:     model.MatchStatusFinished,
	}
}

func TestCalculateTeamStats(t *testing.T) {
	m1 := finished("Vitality", "NAVI", 13, 7)
	m1.Team1Logo = str("https://img-cdn.hltv.org/teamlogo/v1.png")
	m2 := finished("NAVI", "Vitality", 13, 11)
	m2.Team2Logo = str("https://img-cdn.hltv.org/teamlogo/v2.png")
	m3 := finished("Vitality", "FaZe", 16, 14)
	draw := finished("FaZe", "NAVI", 15, 15)
	upcoming := &model.Match{Team1Name: str("FaZe"), Team2Name: str("Vitality"), Status: model.MatchStatusUpcoming}
	noName := finished("", "NAVI", 13, 2)

	got := CalculateTeamStats([]*model.Match{m1, m2, m3, draw, upcoming, noName})
	require.Len(t, got, 3)

	// 按战队名排序
	faze, navi, vit := got[0], got[1], got[2]
	assert.Equal(t, "FaZe", faze.TeamName)
	assert.Equal(t, 0, faze.Wins)
	assert.Equal(t, 1, faze.Losses)
	assert.Equal(t, 2, faze.MapsPlayed)
	assert.Equal(t, 0.0, *faze.WinRate)

	assert.Equal(t, "NAVI", navi.TeamName)
	assert.Equal(t, 1, navi.Wins)
	assert.Equal(t, 1, navi.Losses)
	assert.Equal(t, 3, navi.MapsPlayed)
	assert.Equal(t, 50.0, *navi.WinRate)
	assert.Nil(t, navi.TeamLogo)

	assert.Equal(t, "Vitality", vit.TeamName)
	assert.Equal(t, 2, vit.Wins)
	assert.Equal(t, 1, vit.Losses)
	assert.Equal(t, 66.67, *vit.WinRate)
	// 取最后出现的非空队标
	assert.Equal(t, "https://img-cdn.hltv.org/teamlogo/v2.png", *vit.TeamLogo)
}

func TestCalculateTeamStatsDrawOnly(t *testing.T) {
	got := CalculateTeamStats([]*model.Match{finished("A", "B", 1, 1)})
	require.Len(t, got, 2)
	for _, agg := range got {
		assert.Equal(t, 0, agg.Wins)
		assert.Equal(t, 0, agg.Losses)
		assert.Equal(t, 1, agg.MapsPlayed)
		assert.Nil(t, agg.WinRate)
	}
}

func TestCalculateTeamStatsIsDeterministic(t *testing.T) {
	matches := []*model.Match{
		finished("A", "B", 2, 0),
		finished("B", "C", 2, 1),
		finished("C", "A", 0, 2),
	}
	assert.Equal(t, CalculateTeamStats(matches), CalculateTeamStats(matches))

	var wins, losses int
	for _, agg := range CalculateTeamStats(matches) {
		wins += agg.Wins
		losses += agg.Losses
	}
	assert.Equal(t, 3, wins)
	assert.Equal(t, 3, losses)
}

func TestCalculateTeamStatsEmpty(t *testing.T) {
	assert.Empty(t, CalculateTeamStats(nil))
}
