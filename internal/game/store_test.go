package game

import (
	"errors"
	"testing"

	"geoparty/pkg/geom"
)

func TestNewStore(t *testing.T) {
	s := NewStore()
	if s == nil {
		t.Fatal("NewStore returned nil")
	}
	if _, ok := s.Current(); ok {
		t.Error("new store has a current round")
	}
}

func TestStore_AddPlayer(t *testing.T) {
	s := NewStore()
	name, players, err := s.AddPlayer("  Alice ")
	if err != nil {
		t.Fatalf("AddPlayer: %v", err)
	}
	if name != "Alice" {
		t.Errorf("name %q, want Alice", name)
	}
	if len(players) != 1 || players[0] != "Alice" {
		t.Errorf("players %v, want [Alice]", players)
	}

	if _, _, err := s.AddPlayer("ALICE"); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("duplicate err %v, want %v", err, ErrDuplicateName)
	}
	if _, _, err := s.AddPlayer("STRASSE"); err != nil {
		t.Fatalf("AddPlayer: %v", err)
	}
	if _, _, err := s.AddPlayer("straße"); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("case-folded duplicate err %v, want %v", err, ErrDuplicateName)
	}
	if _, _, err := s.AddPlayer("   "); !errors.Is(err, ErrEmptyName) {
		t.Errorf("blank err %v, want %v", err, ErrEmptyName)
	}
}

func TestStore_RemovePlayerDropsGuesses(t *testing.T) {
	s := NewStore()
	s.AddPlayer("Alice")
	s.AddPlayer("Bob")
	rd, _ := s.AddRound("map.png", geom.Sz(100, 100), "")
	s.SubmitGuess(rd.ID, "Alice", geom.Pt(1, 2))
	s.SubmitGuess(rd.ID, "Bob", geom.Pt(3, 4))

	if !s.RemovePlayer("Alice") {
		t.Fatal("RemovePlayer returned false")
	}
	if s.RemovePlayer("Alice") {
		t.Error("second RemovePlayer returned true")
	}
	got, _ := s.Round(rd.ID)
	if _, ok := got.Guesses["Alice"]; ok || len(got.Guesses) != 1 {
		t.Errorf("guesses %v, want only Bob", got.Guesses)
	}
}

func TestStore_Rounds(t *testing.T) {
	s := NewStore()
	first, err := s.AddRound("a.png", geom.Sz(800, 600), "")
	if err != nil {
		t.Fatalf("AddRound: %v", err)
	}
	if len(first.ID) != 32 {
		t.Errorf("ID %q, want 32 hex chars", first.ID)
	}
	second, _ := s.AddRound("b.png", geom.Sz(800, 600), "scene.jpg")

	cur, ok := s.Current()
	if !ok || cur.ID != second.ID {
		t.Fatalf("current %q, want newest round %q", cur.ID, second.ID)
	}
	if cur.PrevID != first.ID || cur.NextID != "" || cur.Number != 2 || cur.Total != 2 {
		t.Errorf("navigation %+v", cur)
	}
	if err := s.Goto(0); err != nil {
		t.Fatalf("Goto: %v", err)
	}
	if cur, _ := s.Current(); cur.ID != first.ID || cur.NextID != second.ID {
		t.Errorf("after Goto current %q next %q", cur.ID, cur.NextID)
	}
	if err := s.Goto(2); !errors.Is(err, ErrInvalidIndex) {
		t.Errorf("Goto(2) err %v, want %v", err, ErrInvalidIndex)
	}
	if _, err := s.AddRound("c.png", geom.Size{}, ""); !errors.Is(err, ErrInvalidMapSize) {
		t.Errorf("zero size err %v, want %v", err, ErrInvalidMapSize)
	}

	s.Reset()
	if snap := s.Snapshot(); len(snap.Players) != 0 || len(snap.Rounds) != 0 {
		t.Errorf("Reset left %+v", snap)
	}
}

func TestStore_SubmitGuess(t *testing.T) {
	s := NewStore()
	s.AddPlayer("Alice")
	rd, _ := s.AddRound("a.png", geom.Sz(800, 600), "")

	guesses, err := s.SubmitGuess(rd.ID, "Alice", geom.Pt(10.6, 20.2))
	if err != nil {
		t.Fatalf("SubmitGuess: %v", err)
	}
	if guesses["Alice"] != geom.Pt(11, 20) {
		t.Errorf("guess %v, want (11,20)", guesses["Alice"])
	}
	if _, err := s.SubmitGuess(rd.ID, "alice", geom.Pt(1, 1)); !errors.Is(err, ErrUnknownPlayer) {
		t.Errorf("wrong-case player err %v, want %v", err, ErrUnknownPlayer)
	}
	if _, err := s.SubmitGuess("nope", "Alice", geom.Pt(1, 1)); !errors.Is(err, ErrRoundNotFound) {
		t.Errorf("missing round err %v, want %v", err, ErrRoundNotFound)
	}

	guesses["Alice"] = geom.Pt(0, 0)
	if got, _ := s.Round(rd.ID); got.Guesses["Alice"] != geom.Pt(11, 20) {
		t.Error("returned guesses alias the store")
	}
}

func TestStore_SetAnswer(t *testing.T) {
	s := NewStore()
	rd, _ := s.AddRound("a.png", geom.Sz(800, 600), "")
	if err := s.SetAnswer(rd.ID, geom.Pt(400.4, 299.5)); err != nil {
		t.Fatalf("SetAnswer: %v", err)
	}
	got, _ := s.Round(rd.ID)
	if !got.HasAnswer() || *got.Answer != geom.Pt(400, 300) {
		t.Errorf("answer %v, want (400,300)", got.Answer)
	}
	if err := s.SetAnswer("nope", geom.Pt(1, 1)); !errors.Is(err, ErrRoundNotFound) {
		t.Errorf("err %v, want %v", err, ErrRoundNotFound)
	}
}
