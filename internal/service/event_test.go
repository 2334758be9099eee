package service

import (
	"context"
	"fmt"
	"testing"

	"HLTVSync/internal/model"
	"HLTVSync/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimitClamp(t *testing.T) {
	tests := []struct {
		rule limitRule
		in   int
		want int
	}{
		{matchesLimit, 0, 100},
		{matchesLimit, -3, 100},
		{matchesLimit, 20, 20},
		{matchesLimit, 9999, 500},
		{playersLimit, 0, 20},
		{playersLimit, 101, 100},
		{teamsLimit, 0, 20},
		{teamsLimit, 51, 50},
		{highlightsLimit, 0, 12},
		{highlightsLimit, 1000, 100},
		{eventsLimit, 0, 50},
		{eventsLimit, 500, 200},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.rule.clamp(tt.in), "%+v clamp(%d)", tt.rule, tt.in)
	}
}

// seedEvent 写入一个赛事及若干比赛、选手、集锦
func seedEvent(t *testing.T, repos Repositories) *model.Event {
	t.Helper()
	ctx := context.Background()
	_, err := repos.Events.UpsertEvents(ctx, []model.ScrapedEvent{
		{ExternalID: "8042", Slug: "budapest-major", Name: str("Budapest Major"), StartDate: dayPtr(2024, 12, 13), EndDate: dayPtr(2024, 12, 16)},
	})
	require.NoError(t, err)
	ev, err := repos.Events.GetBySlug(ctx, "budapest-major")
	require.NoError(t, err)

	var matches []model.ScrapedMatch
	for i := 0; i < 30; i++ {
		matches = append(matches, model.ScrapedMatch{
			ExternalID: fmt.Sprintf("23770%02d", i),
			Team1Name:  str("Vitality"),
			Team1Logo:  str("https://img-cdn.hltv.org/teamlogo/vit.png?ixlib=java-2.1.0&w=50&s=abc"),
			Team2Name:  str(fmt.Sprintf("Team%d", i)),
			Team1Score: num(13),
			Team2Score: num(i % 13),
			Date:       dayPtr(2024, 12, 13),
		})
	}
	_, err = repos.Matches.UpsertMatches(ctx, ev.ID, matches)
	require.NoError(t, err)

	var players []model.ScrapedPlayerStat
	for i := 0; i < 30; i++ {
		players = append(players, model.ScrapedPlayerStat{PlayerName: fmt.Sprintf("player%d", i), Rating: testutil.Ptr(float64(i) / 10)})
	}
	_, err = repos.Stats.UpsertPlayerStats(ctx, ev.ID, players)
	require.NoError(t, err)

	var highlights []model.ScrapedHighlight
	for i := 0; i < 15; i++ {
		highlights = append(highlights, model.ScrapedHighlight{
			URL:       fmt.Sprintf("https://clips.twitch.tv/clip%d", i),
			Platform:  model.DefaultHighlightPlatform,
			ViewCount: num(i),
		})
	}
	_, err = repos.Highlights.ReplaceForEvent(ctx, ev.ID, highlights)
	require.NoError(t, err)
	return ev
}

func newEventService(t *testing.T) (*EventService, Repositories) {
	repos := NewRepositories(testutil.NewDB(t))
	return NewEventService(repos, testutil.QuietLogger()), repos
}

func TestGetOverlayClampsEachListIndependently(t *testing.T) {
	ctx := context.Background()
	svc, repos := newEventService(t)
	seedEvent(t, repos)

	overlay, err := svc.GetOverlay(ctx, "budapest-major", OverlayLimits{Matches: 5, Players: 0, Teams: 3})
	require.NoError(t, err)
	assert.Equal(t, "budapest-major", overlay.Event.Slug)
	assert.Len(t, overlay.Matches, 5)
	assert.Len(t, overlay.TopPlayers, 20)
	assert.Equal(t, "player29", overlay.TopPlayers[0].PlayerName)
	assert.Empty(t, overlay.TopTeams)
	require.Len(t, overlay.Highlights, 12)
	assert.Equal(t, 14, *overlay.Highlights[0].ViewCount)
}

func TestEventReadEndpoints(t *testing.T) {
	ctx := context.Background()
	svc, repos := newEventService(t)
	seedEvent(t, repos)

	events, err := svc.ListEvents(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, events, 1)

	events, err = svc.ListEvents(ctx, model.EventStatusFinished, 0)
	require.NoError(t, err)
	assert.Empty(t, events)

	_, err = svc.ListEvents(ctx, "live", 0)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	matches, err := svc.ListMatches(ctx, "budapest-major", 0)
	require.NoError(t, err)
	assert.Len(t, matches, 30)

	players, err := svc.TopPlayers(ctx, "budapest-major", 1000)
	require.NoError(t, err)
	assert.Len(t, players, 30)

	hl, err := svc.Highlights(ctx, "budapest-major", 3)
	require.NoError(t, err)
	assert.Len(t, hl, 3)

	_, err = svc.GetEvent(ctx, "unknown")
	assert.ErrorIs(t, err, ErrEventNotFound)
	_, err = svc.TopTeams(ctx, "unknown", 0)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	svc, repos := newEventService(t)
	seedEvent(t, repos)

	_, err := svc.UpdateStatus(ctx, "budapest-major", "cancelled")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	ev, err := svc.UpdateStatus(ctx, "budapest-major", model.EventStatusFinished)
	require.NoError(t, err)
	assert.Equal(t, model.EventStatusFinished, ev.Status)

	_, err = svc.UpdateStatus(ctx, "unknown", model.EventStatusFinished)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestUpdateDetailsPartial(t *testing.T) {
	ctx := context.Background()
	svc, repos := newEventService(t)
	seedEvent(t, repos)

	ev, err := svc.UpdateDetails(ctx, "budapest-major", DetailsUpdate{
		PrizePool: str("$1,250,000"),
		EndDate:   str("2024-12-17"),
	})
	require.NoError(t, err)
	assert.Equal(t, "$1,250,000", *ev.PrizePool)
	assert.Nil(t, ev.Location)
	assert.WithinDuration(t, utc(2024, 12, 17, 0), *ev.EndDate, 0)
	assert.WithinDuration(t, utc(2024, 12, 13, 0), *ev.StartDate, 0)

	ev, err = svc.UpdateDetails(ctx, "budapest-major", DetailsUpdate{StartDate: str("2024-12-12T10:00:00+02:00")})
	require.NoError(t, err)
	assert.WithinDuration(t, utc(2024, 12, 12, 8), *ev.StartDate, 0)
	assert.Equal(t, "$1,250,000", *ev.PrizePool)

	_, err = svc.UpdateDetails(ctx, "budapest-major", DetailsUpdate{StartDate: str("13/12/2024")})
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestRecomputeTeamStatsIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories(testutil.NewDB(t))
	ev := seedEvent(t, repos)
	svc := NewStatsService(repos, testutil.QuietLogger())

	first, err := svc.RecomputeTeamStats(ctx, "budapest-major")
	require.NoError(t, err)
	require.Len(t, first.Teams, 31)

	second, err := svc.RecomputeTeamStats(ctx, "budapest-major")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	teams, err := repos.Stats.ListTeamStats(ctx, ev.ID)
	require.NoError(t, err)
	assert.Len(t, teams, 31)

	top, err := repos.Stats.TopTeams(ctx, ev.ID, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "Vitality", top[0].TeamName)
	assert.Equal(t, 30, *top[0].Wins)
	assert.Equal(t, 100.0, *top[0].WinRate)

	_, err = svc.RecomputeTeamStats(ctx, "unknown")
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestUpgradeEventLogos(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories(testutil.NewDB(t))
	ev := seedEvent(t, repos)
	svc := NewStatsService(repos, testutil.QuietLogger())

	_, err := svc.RecomputeTeamStats(ctx, "budapest-major")
	require.NoError(t, err)

	report, err := svc.UpgradeEventLogos(ctx, "budapest-major")
	require.NoError(t, err)
	assert.Equal(t, 30, report.Matches)
	assert.Equal(t, 1, report.Teams)

	matches, err := repos.Matches.ListAllByEvent(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://img-cdn.hltv.org/teamlogo/vit.png?ixlib=java-2.1.0&w=200", *matches[0].Team1Logo)

	// 第二次没有需要改写的记录
	report, err = svc.UpgradeEventLogos(ctx, "budapest-major")
	require.NoError(t, err)
	assert.Equal(t, &LogoUpgradeReport{}, report)
}
