package viewmodel

import (
	"geoparty/pkg/geom"
	"geoparty/pkg/panzoom"
)

// PinMap is one map image with its pin overlay.
type PinMap struct {
	ID       string
	ImageURL string
	Natural  geom.Size
	Display  geom.Size
	Guesses  map[string]geom.Point
	Answer   *geom.Point

	// PanZoom shows the map through a zoomable viewport driven by Controls.
	PanZoom   bool
	Transform panzoom.Transform
	Controls  []Link

	// GuessInput turns the map into the submit control of Form.
	GuessInput bool
	Form       Form
}

// Form is a POST target with hidden fields.
type Form struct {
	Action string
	Hidden []Field
}

type Field struct {
	Name  string
	Value string
}

// Link is a labelled href. Disabled links render without a target.
type Link struct {
	Label    string
	Href     string
	Title    string
	Disabled bool
}

// HostPage holds data for the host dashboard.
type HostPage struct {
	Title        string
	Message      string
	Players      []string
	Rounds       []RoundRow
	Current      *RoundRow
	Preview      *PinMap
	ShareURL     string
	Maps         []LibraryItem
	Scenes       []LibraryItem
	MaxUploadMiB int
}

// RoundRow is one round in the host's round list.
type RoundRow struct {
	ID        string
	Index     int
	Number    int
	MapFile   string
	Guessed   int
	Players   int
	HasAnswer bool
	Current   bool
}

// LibraryItem is one reusable image on disk.
type LibraryItem struct {
	Filename   string
	Dimensions string
	Bytes      string
}

// PlayerOption is an entry in a player picker.
type PlayerOption struct {
	Name     string
	Label    string
	Selected bool
}

// PlayPage holds data for the guess entry page.
type PlayPage struct {
	Title     string
	RoundID   string
	Number    int
	Total     int
	PrevID    string
	NextID    string
	Players   []PlayerOption
	Selected  string
	Guessed   string
	PinStatus string
	Message   string
	IsError   bool
	AnswerSet bool
	SceneURL  string
	Map       PinMap
}

// SetAnswerPage holds data for the answer picker.
type SetAnswerPage struct {
	Title   string
	RoundID string
	Number  int
	Error   string
	Map     PinMap
}

// LeaderboardPage holds data for the scores page.
type LeaderboardPage struct {
	Title       string
	Players     []string
	Ranked      []ScoreEntry
	Rounds      []LeaderboardRound
	BackRoundID string
}

// LeaderboardRound is one answered round with its scores and map.
type LeaderboardRound struct {
	Number  int
	MapFile string
	Cells   []ScoreCell
	Map     PinMap
}

// ScoreCell is one player's result in one round.
type ScoreCell struct {
	Player   string
	Guessed  bool
	Score    int
	Distance int
}

// ScoreEntry represents a player's total points.
type ScoreEntry struct {
	Name   string
	Points int
}
