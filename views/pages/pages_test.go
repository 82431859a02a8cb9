package pages

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"

	"geoparty/internal/viewmodel"
	"geoparty/pkg/geom"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	return buf.String()
}

func TestHostPageEscapesNames(t *testing.T) {
	out := renderString(t, HostPage(viewmodel.HostPage{
		Title:   "host",
		Players: []string{"<b>Eve</b>"},
		Message: "That player name already exists.",
	}))
	if strings.Contains(out, "<b>Eve</b>") {
		t.Error("player name was not escaped")
	}
	if !strings.Contains(out, "&lt;b&gt;Eve&lt;/b&gt;") {
		t.Error("escaped player name missing")
	}
	if !strings.Contains(out, `class="msg bad"`) {
		t.Error("error message not rendered")
	}
	if strings.Contains(out, "No players yet.") {
		t.Error("empty-roster note shown with a player present")
	}
}

func TestHostPageRounds(t *testing.T) {
	current := viewmodel.RoundRow{ID: "b", Index: 1, Number: 2, MapFile: "b.png", Guessed: 1, Players: 2, Current: true}
	out := renderString(t, HostPage(viewmodel.HostPage{
		Title: "host",
		Rounds: []viewmodel.RoundRow{
			{ID: "a", Index: 0, Number: 1, MapFile: "a.png", HasAnswer: true, Players: 2},
			current,
		},
		Current:      &current,
		ShareURL:     "http://example.test/r/b",
		Maps:         []viewmodel.LibraryItem{{Filename: "a.png", Dimensions: "64×48", Bytes: "1.2 kB"}},
		MaxUploadMiB: 25,
	}))
	for _, want := range []string{
		"No players yet.",
		`<li class="">Round 1 · a.png · Guessed: 0 / 2 <span class="pill ok">answer set</span>`,
		`<li class="current">Round 2 · b.png · Guessed: 1 / 2`,
		`<input type="hidden" name="round_index" value="0">`,
		`<option value="a.png">a.png (64×48, 1.2 kB)</option>`,
		"Up to 25 MiB, png/jpg/jpeg/webp.",
		"Current: round 2",
		`Share: <a href="http://example.test/r/b">http://example.test/r/b</a>`,
		`<button class="btn bad">Reset game</button>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in\n%s", want, out)
		}
	}
	if strings.Contains(out, `name="round_index" value="1"`) {
		t.Error("current round offered a Show button")
	}
}

func TestPlayPage(t *testing.T) {
	out := renderString(t, PlayPage(viewmodel.PlayPage{
		Title:     "play",
		RoundID:   "r2",
		Number:    2,
		Total:     3,
		PrevID:    "r1",
		Players:   []viewmodel.PlayerOption{{Name: "Alice", Label: "Alice ✅"}, {Name: "Bob", Label: "Bob", Selected: true}},
		Guessed:   "Guessed: 1 / 2",
		PinStatus: "Pin: hidden",
		Message:   "Turn: Bob",
		Map:       viewmodel.PinMap{ID: "play", Natural: geom.Sz(10, 10), Display: geom.Sz(10, 10), GuessInput: true},
	}))
	for _, want := range []string{
		"<h1>Round 2 / 3</h1>",
		`href="/play/r1">Previous</a>`,
		`<p class="msg">Turn: Bob</p>`,
		`<option value="Alice">Alice ✅</option>`,
		`<option value="Bob" selected>Bob</option>`,
		`action="/play/r2/player"`,
		`id="pinmap-play"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in\n%s", want, out)
		}
	}
	if strings.Contains(out, ">Next</a>") {
		t.Error("last link rendered a Next button")
	}
	if strings.Contains(out, "Answer set") {
		t.Error("answer pill shown without an answer")
	}
}

func TestPlayPageWithoutPlayers(t *testing.T) {
	out := renderString(t, PlayPage(viewmodel.PlayPage{Title: "play", RoundID: "r1", Number: 1, Total: 1}))
	if !strings.Contains(out, "Add at least one player first.") {
		t.Error("missing empty-roster hint")
	}
	if strings.Contains(out, `<select name="player"`) {
		t.Error("player picker rendered with no players")
	}
}

func TestLeaderboardPage(t *testing.T) {
	out := renderString(t, LeaderboardPage(viewmodel.LeaderboardPage{
		Title:  "scores",
		Ranked: []viewmodel.ScoreEntry{{Name: "Alice", Points: 1000}, {Name: "Bob", Points: 0}},
		Rounds: []viewmodel.LeaderboardRound{{
			Number:  1,
			MapFile: "w.png",
			Cells: []viewmodel.ScoreCell{
				{Player: "Alice", Guessed: true, Score: 1000, Distance: 0},
				{Player: "Bob"},
			},
			Map: viewmodel.PinMap{ID: "r1", Natural: geom.Sz(10, 10), Display: geom.Sz(10, 10)},
		}},
		BackRoundID: "r1",
	}))
	for _, want := range []string{
		"<tr><td>1</td><td>Alice</td><td>1000</td></tr>",
		"<tr><td>2</td><td>Bob</td><td>0</td></tr>",
		"<h2>Round 1 · w.png</h2>",
		"<td>1000 pts · 0 px</td>",
		`<span class="muted">no guess</span>`,
		`href="/play/r1">Back to round</a>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in\n%s", want, out)
		}
	}
	if strings.Contains(out, "No round has an answer yet.") {
		t.Error("empty note shown with an answered round")
	}
}

func TestSetAnswerPage(t *testing.T) {
	out := renderString(t, SetAnswerPage(viewmodel.SetAnswerPage{
		Title:  "answer",
		Number: 4,
		Error:  "You should select a point",
		Map:    viewmodel.PinMap{ID: "answer", Natural: geom.Sz(10, 10), Display: geom.Sz(10, 10), GuessInput: true},
	}))
	for _, want := range []string{
		"<h1>Set answer · round 4</h1>",
		`<p class="msg bad">You should select a point</p>`,
		`<a href="/host">Back to host</a>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in\n%s", want, out)
		}
	}
}
