package game

import (
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/text/cases"

	"geoparty/pkg/geom"
	"geoparty/pkg/mapper"
)

var (
	ErrEmptyName      = errors.New("player name cannot be empty")
	ErrDuplicateName  = errors.New("player name already exists")
	ErrUnknownPlayer  = errors.New("invalid player")
	ErrRoundNotFound  = errors.New("round not found")
	ErrInvalidIndex   = errors.New("invalid round index")
	ErrNoAnswerPoint  = errors.New("no answer point selected")
	ErrInvalidMapSize = errors.New("map size must be positive")
)

// normalizeName is the form names are compared in: trimmed and case-folded.
func normalizeName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// Round is one map to guess on.
type Round struct {
	ID        string
	MapFile   string
	MapSize   geom.Size
	SceneFile string
	Answer    *geom.Point
	Guesses   map[string]geom.Point
}

// Store holds the single running game: players in join order, rounds in
// play order and the round the host is currently showing.
type Store struct {
	mu      sync.Mutex
	players []string
	rounds  []*Round
	current int
}

// NewStore creates an empty game.
func NewStore() *Store {
	return &Store{}
}

// AddPlayer registers a trimmed name. Names are unique ignoring case.
func (s *Store) AddPlayer(name string) (string, []string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", nil, ErrEmptyName
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.playerIndexLocked(name) >= 0 {
		return "", nil, ErrDuplicateName
	}
	s.players = append(s.players, name)
	return name, s.playersLocked(), nil
}

// RemovePlayer drops an exact name and that player's guesses in every round.
func (s *Store) RemovePlayer(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.players {
		if p != name {
			continue
		}
		s.players = append(s.players[:i], s.players[i+1:]...)
		for _, rd := range s.rounds {
			delete(rd.Guesses, name)
		}
		return true
	}
	return false
}

// Players returns the names in join order.
func (s *Store) Players() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playersLocked()
}

// HasPlayer reports whether name is registered, matched exactly.
func (s *Store) HasPlayer(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return name != "" && s.hasExactPlayerLocked(name)
}

func (s *Store) playersLocked() []string {
	return append([]string(nil), s.players...)
}

func (s *Store) playerIndexLocked(name string) int {
	n := normalizeName(name)
	for i, p := range s.players {
		if normalizeName(p) == n {
			return i
		}
	}
	return -1
}

func (s *Store) hasExactPlayerLocked(name string) bool {
	for _, p := range s.players {
		if p == name {
			return true
		}
	}
	return false
}

// AddRound appends a round for mapFile and makes it current.
func (s *Store) AddRound(mapFile string, size geom.Size, sceneFile string) (RoundSnapshot, error) {
	if size.Empty() {
		return RoundSnapshot{}, ErrInvalidMapSize
	}
	rd := &Round{
		ID:        newID(),
		MapFile:   mapFile,
		MapSize:   size,
		SceneFile: sceneFile,
		Guesses:   make(map[string]geom.Point),
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rounds = append(s.rounds, rd)
	s.current = len(s.rounds) - 1
	return s.snapshotLocked(s.current), nil
}

// Round returns the round with id.
func (s *Store) Round(id string) (RoundSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.roundIndexLocked(id)
	if i < 0 {
		return RoundSnapshot{}, false
	}
	return s.snapshotLocked(i), true
}

func (s *Store) roundIndexLocked(id string) int {
	for i, rd := range s.rounds {
		if rd.ID == id {
			return i
		}
	}
	return -1
}

// SubmitGuess records player's guess, rounded to whole pixels, and returns
// the round's guesses.
func (s *Store) SubmitGuess(roundID, player string, p geom.Point) (map[string]geom.Point, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.roundIndexLocked(roundID)
	if i < 0 {
		return nil, ErrRoundNotFound
	}
	if player == "" || !s.hasExactPlayerLocked(player) {
		return nil, ErrUnknownPlayer
	}
	rd := s.rounds[i]
	rd.Guesses[player] = mapper.RoundPoint(p)
	return copyGuesses(rd.Guesses), nil
}

// SetAnswer stores the round's answer point.
func (s *Store) SetAnswer(roundID string, p geom.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.roundIndexLocked(roundID)
	if i < 0 {
		return ErrRoundNotFound
	}
	pt := mapper.RoundPoint(p)
	s.rounds[i].Answer = &pt
	return nil
}

// Goto makes the round at index current.
func (s *Store) Goto(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.rounds) {
		return ErrInvalidIndex
	}
	s.current = index
	return nil
}

// Current returns the round the host is showing, if any.
func (s *Store) Current() (RoundSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.rounds) == 0 {
		return RoundSnapshot{}, false
	}
	return s.snapshotLocked(s.currentIndexLocked()), true
}

func (s *Store) currentIndexLocked() int {
	if s.current < 0 {
		return 0
	}
	if s.current >= len(s.rounds) {
		return len(s.rounds) - 1
	}
	return s.current
}

// Reset drops all players and rounds.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players = nil
	s.rounds = nil
	s.current = 0
}

// RoundSnapshot is a copy of one round plus its place in the game.
type RoundSnapshot struct {
	ID        string
	Index     int
	Number    int
	Total     int
	PrevID    string
	NextID    string
	MapFile   string
	MapSize   geom.Size
	SceneFile string
	Answer    *geom.Point
	Guesses   map[string]geom.Point
}

// HasAnswer reports whether the host has set the answer.
func (r RoundSnapshot) HasAnswer() bool { return r.Answer != nil }

func (s *Store) snapshotLocked(i int) RoundSnapshot {
	rd := s.rounds[i]
	snap := RoundSnapshot{
		ID:        rd.ID,
		Index:     i,
		Number:    i + 1,
		Total:     len(s.rounds),
		MapFile:   rd.MapFile,
		MapSize:   rd.MapSize,
		SceneFile: rd.SceneFile,
		Guesses:   copyGuesses(rd.Guesses),
	}
	if rd.Answer != nil {
		a := *rd.Answer
		snap.Answer = &a
	}
	if i > 0 {
		snap.PrevID = s.rounds[i-1].ID
	}
	if i < len(s.rounds)-1 {
		snap.NextID = s.rounds[i+1].ID
	}
	return snap
}

// Snapshot captures the whole game for the host page.
type Snapshot struct {
	Players      []string
	Rounds       []RoundSnapshot
	CurrentIndex int
}

// Snapshot returns a consistent view of the game.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{Players: s.playersLocked()}
	for i := range s.rounds {
		snap.Rounds = append(snap.Rounds, s.snapshotLocked(i))
	}
	if len(s.rounds) > 0 {
		snap.CurrentIndex = s.currentIndexLocked()
	}
	return snap
}

// Current returns the snapshot's current round, if any.
func (s Snapshot) Current() (RoundSnapshot, bool) {
	if len(s.Rounds) == 0 {
		return RoundSnapshot{}, false
	}
	return s.Rounds[s.CurrentIndex], true
}

func copyGuesses(in map[string]geom.Point) map[string]geom.Point {
	out := make(map[string]geom.Point, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// newID returns a 32-character hex round id.
func newID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
