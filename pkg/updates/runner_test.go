package updates

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hoopsline/wnba-updates/pkg/logger"
	"github.com/hoopsline/wnba-updates/pkg/models"
	"github.com/hoopsline/wnba-updates/pkg/publisher"
	"github.com/hoopsline/wnba-updates/pkg/services"
)

type fakeGames struct {
	games     services.Result[[]models.Game]
	summaries map[string]services.Result[*models.GameSummary]
	asked     []string
}

func (f *fakeGames) FetchTodayGames(ctx context.Context) services.Result[[]models.Game] {
	return f.games
}

func (f *fakeGames) FetchGameSummary(ctx context.Context, gameID string) services.Result[*models.GameSummary] {
	f.asked = append(f.asked, gameID)
	return f.summaries[gameID]
}

type fakeLeaders struct {
	result services.Result[string]
	calls  int
}

func (f *fakeLeaders) FetchTopPlayers(ctx context.Context) services.Result[string] {
	f.calls++
	return f.result
}

type recordingPublisher struct {
	posts  []publisher.Post
	status publisher.Status
}

func (p *recordingPublisher) Publish(ctx context.Context, post publisher.Post) publisher.Outcome {
	p.posts = append(p.posts, post)
	status := p.status
	if status == "" {
		status = publisher.StatusPublished
	}
	return publisher.Outcome{Status: status, Text: post.Text}
}

func newTestRunner(games *fakeGames, leaders *fakeLeaders, pub *recordingPublisher, now time.Time) *Runner {
	r := NewRunner(games, leaders, pub, logger.Nop())
	r.now = func() time.Time { return now }
	return r
}

func withOdds(id, away, home string) models.Game {
	return models.Game{
		ID:           id,
		AwayTeam:     away,
		HomeTeam:     home,
		CommenceTime: "2025-06-05T23:30:00Z",
		Bookmakers: []models.Bookmaker{{
			Title: "DraftKings",
			Markets: []models.Market{{Key: "h2h", Outcomes: []models.Outcome{
				{Name: away, Price: json.Number("2.1")},
				{Name: home, Price: json.Number("1.75")},
			}}},
		}},
	}
}

func TestRun_MorningWithGames(t *testing.T) {
	games := &fakeGames{games: services.Success([]models.Game{
		withOdds("g1", "Las Vegas Aces", "New York Liberty"),
		withOdds("g2", "Seattle Storm", "Phoenix Mercury"),
	})}
	leaders := &fakeLeaders{}
	pub := &recordingPublisher{}
	runner := newTestRunner(games, leaders, pub, time.Date(2025, 6, 5, 8, 0, 0, 0, time.UTC))

	report := runner.Run(context.Background())

	if report.Window != WindowMorning {
		t.Errorf("Expected morning window, got %s", report.Window)
	}
	if len(pub.posts) != 1 {
		t.Fatalf("Expected exactly one post, got %d", len(pub.posts))
	}
	post := pub.posts[0]
	for _, team := range []string{"Las Vegas Aces", "New York Liberty", "Seattle Storm", "Phoenix Mercury"} {
		if !strings.Contains(post.Text, team) {
			t.Errorf("Expected post to mention %s", team)
		}
	}
	if !strings.HasSuffix(post.Text, "#WNBA #BettingOdds") {
		t.Errorf("Expected post to end with hashtags, got %q", post.Text)
	}
	if post.Kind != KindMorningOdds || post.Key != "2025-06-05-morning-odds" {
		t.Errorf("Unexpected post kind/key %s/%s", post.Kind, post.Key)
	}
	if report.Published() != 1 {
		t.Errorf("Expected 1 published, got %d", report.Published())
	}
	if leaders.calls != 0 || len(games.asked) != 0 {
		t.Error("Morning run should not fetch summaries or leaders")
	}
}

func TestRun_MorningWithoutGames(t *testing.T) {
	tests := []struct {
		name      string
		games     services.Result[[]models.Game]
		fallbacks int
	}{
		{"empty schedule", services.Success([]models.Game{}), 0},
		{"odds fetch failed", services.Fallback([]models.Game{}, errors.New("401")), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &recordingPublisher{}
			runner := newTestRunner(&fakeGames{games: tt.games}, &fakeLeaders{}, pub, time.Date(2025, 6, 5, 7, 0, 0, 0, time.UTC))

			report := runner.Run(context.Background())

			if len(pub.posts) != 1 {
				t.Fatalf("Expected one filler post, got %d", len(pub.posts))
			}
			if pub.posts[0].Kind != KindNoGames || !strings.Contains(pub.posts[0].Text, "No WNBA games today") {
				t.Errorf("Unexpected filler post %+v", pub.posts[0])
			}
			if report.Fallbacks != tt.fallbacks {
				t.Errorf("Expected %d fallbacks, got %d", tt.fallbacks, report.Fallbacks)
			}
		})
	}
}

func TestRun_EveningWithoutGames(t *testing.T) {
	board := "1. A'ja Wilson (LVA): 26.9 PPG\n2. Arike Ogunbowale (DAL): 22.2 PPG"
	leaders := &fakeLeaders{result: services.Success(board)}
	pub := &recordingPublisher{}
	runner := newTestRunner(&fakeGames{games: services.Success([]models.Game{})}, leaders, pub, time.Date(2025, 6, 5, 23, 0, 0, 0, time.UTC))

	report := runner.Run(context.Background())

	if report.Window != WindowEvening {
		t.Errorf("Expected evening window, got %s", report.Window)
	}
	if len(pub.posts) != 1 {
		t.Fatalf("Expected exactly one post, got %d", len(pub.posts))
	}
	text := pub.posts[0].Text
	if !strings.Contains(text, board) || !strings.Contains(text, "#WNBA #PlayerStats") {
		t.Errorf("Expected leaderboard post, got %q", text)
	}
}

func TestRun_EveningLeaderboardUnavailable(t *testing.T) {
	leaders := &fakeLeaders{result: services.Fallback(services.StatsUnavailable, errors.New("503"))}
	pub := &recordingPublisher{}
	runner := newTestRunner(&fakeGames{games: services.Success([]models.Game{})}, leaders, pub, time.Date(2025, 6, 5, 22, 30, 0, 0, time.UTC))

	report := runner.Run(context.Background())

	if len(pub.posts) != 1 || !strings.Contains(pub.posts[0].Text, "Player stats unavailable today.") {
		t.Fatalf("Expected placeholder leaderboard post, got %+v", pub.posts)
	}
	if report.Fallbacks != 1 {
		t.Errorf("Expected 1 fallback, got %d", report.Fallbacks)
	}
}

func TestRun_EveningWithGames(t *testing.T) {
	g1 := withOdds("g1", "Las Vegas Aces", "New York Liberty")
	g2 := withOdds("g2", "Seattle Storm", "Phoenix Mercury")
	g3 := withOdds("g3", "Dallas Wings", "Chicago Sky")
	games := &fakeGames{
		games: services.Success([]models.Game{g1, g2, g3}),
		summaries: map[string]services.Result[*models.GameSummary]{
			"g1": services.Success(&models.GameSummary{
				Game: g1, AwayScore: "81", HomeScore: "88",
				TopPerformers: []models.PlayerStat{{Name: "Breanna Stewart", Team: "NYL", Points: 29, Rebounds: 11}},
			}),
			"g2": services.Success[*models.GameSummary](nil),
			"g3": services.Success(&models.GameSummary{
				Game: g3, AwayScore: "90", HomeScore: "85",
				PerformersErr: errors.New("box score missing"),
			}),
		},
	}
	leaders := &fakeLeaders{}
	pub := &recordingPublisher{}
	runner := newTestRunner(games, leaders, pub, time.Date(2025, 6, 5, 23, 0, 0, 0, time.UTC))

	report := runner.Run(context.Background())

	if len(pub.posts) != 2 {
		t.Fatalf("Expected one post per completed game, got %d", len(pub.posts))
	}
	if !strings.Contains(pub.posts[0].Text, "Las Vegas Aces 81 - New York Liberty 88") {
		t.Errorf("Unexpected first summary %q", pub.posts[0].Text)
	}
	if !strings.Contains(pub.posts[1].Text, "Top performers unavailable.") {
		t.Errorf("Expected performer placeholder, got %q", pub.posts[1].Text)
	}
	if pub.posts[0].Key == pub.posts[1].Key {
		t.Error("Expected distinct dedup keys per game")
	}
	for _, post := range pub.posts {
		if !strings.HasSuffix(post.Text, "#WNBA #GameSummary") {
			t.Errorf("Expected summary hashtags, got %q", post.Text)
		}
	}
	if len(games.asked) != 3 {
		t.Errorf("Expected a summary lookup per game, got %v", games.asked)
	}
	if leaders.calls != 0 {
		t.Error("Leaderboard should not be fetched when games exist")
	}
	if report.Fallbacks != 1 {
		t.Errorf("Expected 1 fallback for the missing box score, got %d", report.Fallbacks)
	}
}

func TestRun_OutsideWindows(t *testing.T) {
	for _, hour := range []int{0, 6, 9, 12, 21} {
		pub := &recordingPublisher{}
		leaders := &fakeLeaders{}
		games := &fakeGames{games: services.Success([]models.Game{withOdds("g1", "A", "B")})}
		runner := newTestRunner(games, leaders, pub, time.Date(2025, 6, 5, hour, 0, 0, 0, time.UTC))

		report := runner.Run(context.Background())

		if len(pub.posts) != 0 {
			t.Errorf("Hour %d: expected zero posts, got %d", hour, len(pub.posts))
		}
		if report.Window != WindowIdle {
			t.Errorf("Hour %d: expected idle window, got %s", hour, report.Window)
		}
	}
}

func TestRun_FailedPostsDoNotStopRun(t *testing.T) {
	g1 := withOdds("g1", "A", "B")
	g2 := withOdds("g2", "C", "D")
	games := &fakeGames{
		games: services.Success([]models.Game{g1, g2}),
		summaries: map[string]services.Result[*models.GameSummary]{
			"g1": services.Success(&models.GameSummary{Game: g1, AwayScore: "1", HomeScore: "2"}),
			"g2": services.Success(&models.GameSummary{Game: g2, AwayScore: "3", HomeScore: "4"}),
		},
	}
	pub := &recordingPublisher{status: publisher.StatusFailed}
	runner := newTestRunner(games, &fakeLeaders{}, pub, time.Date(2025, 6, 5, 23, 0, 0, 0, time.UTC))

	report := runner.Run(context.Background())

	if len(pub.posts) != 2 {
		t.Errorf("Expected both posts attempted, got %d", len(pub.posts))
	}
	if report.Failed() != 2 || report.Published() != 0 {
		t.Errorf("Expected 2 failed, 0 published, got %d/%d", report.Failed(), report.Published())
	}
}

func TestWindowAt(t *testing.T) {
	tests := []struct {
		hour int
		want Window
	}{
		{6, WindowIdle},
		{7, WindowMorning},
		{8, WindowMorning},
		{9, WindowIdle},
		{21, WindowIdle},
		{22, WindowEvening},
		{23, WindowEvening},
	}

	for _, tt := range tests {
		if got := WindowAt(time.Date(2025, 6, 5, tt.hour, 59, 0, 0, time.UTC)); got != tt.want {
			t.Errorf("WindowAt(%02d:59) = %s, want %s", tt.hour, got, tt.want)
		}
	}

	// 19:30 in New York is 23:30 UTC
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("LoadLocation: %v", err)
	}
	if got := WindowAt(time.Date(2025, 6, 5, 19, 30, 0, 0, ny)); got != WindowEvening {
		t.Errorf("Expected non-UTC times to be judged in UTC, got %s", got)
	}
}
