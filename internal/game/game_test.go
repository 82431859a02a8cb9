package game

import (
	"math"
	"testing"

	"geoparty/pkg/geom"
)

func TestScore(t *testing.T) {
	size := geom.Sz(300, 400)
	if got := Score(0, size); got != 1000 {
		t.Errorf("Score(0) = %d, want 1000", got)
	}
	// diag 500, scale 250: 1000*e^-1 = 367.88
	if got := Score(250, size); got != 368 {
		t.Errorf("Score(250) = %d, want 368", got)
	}
	if got := Score(1e9, size); got != 1 {
		t.Errorf("Score(far) = %d, want 1", got)
	}
	if got := Score(1, geom.Sz(1, 1)); got != 368 {
		t.Errorf("Score on tiny map = %d, want 368", got)
	}
}

func TestDistance(t *testing.T) {
	if got := Distance(geom.Pt(0, 0), geom.Pt(3, 4)); math.Abs(got-5) > 1e-12 {
		t.Errorf("Distance = %v, want 5", got)
	}
}

func TestLeaderboard(t *testing.T) {
	s := NewStore()
	s.AddPlayer("Alice")
	s.AddPlayer("Bob")
	s.AddPlayer("Carol")

	answered, _ := s.AddRound("a.png", geom.Sz(300, 400), "")
	s.SetAnswer(answered.ID, geom.Pt(100, 100))
	s.SubmitGuess(answered.ID, "Alice", geom.Pt(100, 100))
	s.SubmitGuess(answered.ID, "Bob", geom.Pt(103, 104))

	open, _ := s.AddRound("b.png", geom.Sz(300, 400), "")
	s.SubmitGuess(open.ID, "Carol", geom.Pt(1, 1))

	lb := s.Leaderboard()
	if len(lb.Rounds) != 1 {
		t.Fatalf("len(Rounds) %d, want 1", len(lb.Rounds))
	}
	cells := lb.Rounds[0].Cells
	if len(cells) != 3 {
		t.Fatalf("len(Cells) %d, want 3", len(cells))
	}
	if !cells[0].Guessed || cells[0].Score != 1000 || cells[0].Distance != 0 {
		t.Errorf("Alice %+v, want 1000 at 0px", cells[0])
	}
	if cells[1].Distance != 5 || cells[1].Score != Score(5, geom.Sz(300, 400)) {
		t.Errorf("Bob %+v, want 5px", cells[1])
	}
	if cells[2].Guessed {
		t.Errorf("Carol %+v, want no guess", cells[2])
	}

	want := []string{"Alice", "Bob", "Carol"}
	for i, entry := range lb.Ranked {
		if entry.Name != want[i] {
			t.Errorf("rank %d = %q, want %q", i, entry.Name, want[i])
		}
	}
	if lb.Ranked[2].Points != 0 {
		t.Errorf("Carol points %d, want 0", lb.Ranked[2].Points)
	}
	if lb.BackRoundID != open.ID {
		t.Errorf("BackRoundID %q, want current round", lb.BackRoundID)
	}
}

func TestSortScoresKeepsJoinOrderOnTies(t *testing.T) {
	scores := []ScoreEntry{{"Zed", 5}, {"Amy", 5}, {"Max", 9}}
	sortScores(scores)
	if scores[0].Name != "Max" || scores[1].Name != "Zed" || scores[2].Name != "Amy" {
		t.Errorf("order %v", scores)
	}
}
