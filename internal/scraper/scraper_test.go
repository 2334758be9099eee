package scraper

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubFetcher 按 URL 返回预置页面，并记录请求过的 URL
type stubFetcher struct {
	pages     map[string]string
	err       error
	requested []string
}

func (s *stubFetcher) Fetch(_ context.Context, url string) (*goquery.Document, error) {
	s.requested = append(s.requested, url)
	if s.err != nil {
		return nil, s.err
	}
	html, ok := s.pages[url]
	if !ok {
		return nil, nil
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

func TestScraperURLs(t *testing.T) {
	s := New(&stubFetcher{}, "https://www.hltv.org/", quietLogger())
	assert.Equal(t, "https://www.hltv.org/events", s.EventsURL())
	assert.Equal(t, "https://www.hltv.org/results?event=8042", s.ResultsURL("8042"))
	assert.Equal(t, "https://www.hltv.org/stats/players?event=8042", s.PlayerStatsURL("8042"))
	assert.Equal(t, "https://www.hltv.org/stats/teams?event=8042", s.TeamStatsURL("8042"))
	assert.Equal(t, "https://www.hltv.org/events/8042/starladder-budapest-major-2025", s.EventPageURL("8042", "starladder-budapest-major-2025"))
}

func TestScraperParsesFetchedPages(t *testing.T) {
	f := &stubFetcher{pages: map[string]string{
		"https://hltv.test/events":                  eventsHTML,
		"https://hltv.test/results?event=8042":      resultsHTML,
		"https://hltv.test/stats/players?event=8042": playersHTML,
		"https://hltv.test/stats/teams?event=8042":   teamsHTML,
		"https://hltv.test/events/8042/budapest":     highlightsHTML,
	}}
	s := New(f, "https://hltv.test", quietLogger())
	ctx := context.Background()

	events, err := s.ScrapeEvents(ctx)
	require.NoError(t, err)
	assert.Len(t, events.Records(), 2)

	matches, err := s.ScrapeMatches(ctx, "8042")
	require.NoError(t, err)
	assert.Len(t, matches.Records(), 2)

	players, err := s.ScrapePlayerStats(ctx, "8042")
	require.NoError(t, err)
	assert.Len(t, players.Records(), 2)

	teams, err := s.ScrapeTeamStats(ctx, "8042")
	require.NoError(t, err)
	assert.Len(t, teams.Records(), 2)

	highlights, err := s.ScrapeHighlights(ctx, "8042", "budapest")
	require.NoError(t, err)
	assert.Len(t, highlights.Records(), 2)
}

func TestScraperMissingPageIsEmpty(t *testing.T) {
	s := New(&stubFetcher{}, "https://hltv.test", quietLogger())

	matches, err := s.ScrapeMatches(context.Background(), "1")
	require.NoError(t, err)
	assert.Empty(t, matches.Records())

	details, err := s.ScrapeEventDetails(context.Background(), "1", "x")
	require.NoError(t, err)
	assert.Nil(t, details)
}

func TestScraperPropagatesFetchError(t *testing.T) {
	boom := errors.New("connection reset")
	s := New(&stubFetcher{err: boom}, "https://hltv.test", quietLogger())

	res, err := s.ScrapeEvents(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, res.Records())
}
