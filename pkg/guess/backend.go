// Package guess drives the full-screen guess entry screen: choosing a player,
// placing that player's pin and saving it, with the save results folded back
// into local state on the UI goroutine.
package guess

import (
	"context"

	"geoparty/pkg/geom"
)

// Backend is the remote side of the screen. Implementations may block.
type Backend interface {
	RoundState(ctx context.Context, roundID string) (RoundState, error)
	AddPlayer(ctx context.Context, name string) (Added, error)
	SubmitGuess(ctx context.Context, roundID, player string, p geom.Point) (map[string]geom.Point, error)
}

// RoundState is the server's view of one round.
type RoundState struct {
	Players []string
	Guesses map[string]geom.Point
	Map     string
	Natural geom.Size
}

// Added is the result of adding a player: the full list and the stored name.
type Added struct {
	Players []string
	Name    string
}

// RejectedError is a request the server understood and refused.
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return "request rejected"
	}
	return e.Message
}

// Mapper converts a screen position into image pixels. ok is false when the
// position cannot be mapped yet.
type Mapper interface {
	ScreenToImage(geom.Point) (geom.Point, bool)
}
