package game

import (
	"math"
	"sort"

	"geoparty/pkg/geom"
)

const maxScore = 1000.0

// Distance is the straight-line pixel distance between two image points.
func Distance(a, b geom.Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Score turns a distance on a map of the given size into points. A perfect
// guess is worth 1000 and the score falls off with half the map diagonal as
// the decay length. Every guess is worth at least 1.
func Score(d float64, mapSize geom.Size) int {
	scale := math.Max(1, math.Hypot(mapSize.W, mapSize.H)/2)
	return max(1, int(math.Round(maxScore*math.Exp(-d/scale))))
}

// ScoreCell is one player's result in one round.
type ScoreCell struct {
	Player   string
	Guessed  bool
	Score    int
	Distance int
}

// RoundResult is a scored round.
type RoundResult struct {
	Round RoundSnapshot
	Cells []ScoreCell
}

// ScoreEntry represents a player's total points.
type ScoreEntry struct {
	Name   string
	Points int
}

// Leaderboard is the scored view of every round that has an answer.
type Leaderboard struct {
	Players     []string
	Ranked      []ScoreEntry
	Rounds      []RoundResult
	BackRoundID string
}

// Leaderboard scores every answered round.
func (s *Store) Leaderboard() Leaderboard {
	snap := s.Snapshot()
	totals := make(map[string]int, len(snap.Players))
	lb := Leaderboard{Players: snap.Players}

	for _, rd := range snap.Rounds {
		if rd.Answer == nil {
			continue
		}
		res := RoundResult{Round: rd}
		for _, p := range snap.Players {
			g, ok := rd.Guesses[p]
			if !ok {
				res.Cells = append(res.Cells, ScoreCell{Player: p})
				continue
			}
			d := Distance(g, *rd.Answer)
			sc := Score(d, rd.MapSize)
			totals[p] += sc
			res.Cells = append(res.Cells, ScoreCell{
				Player:   p,
				Guessed:  true,
				Score:    sc,
				Distance: int(math.Round(d)),
			})
		}
		lb.Rounds = append(lb.Rounds, res)
	}

	for _, p := range snap.Players {
		lb.Ranked = append(lb.Ranked, ScoreEntry{Name: p, Points: totals[p]})
	}
	sortScores(lb.Ranked)
	if cur, ok := snap.Current(); ok {
		lb.BackRoundID = cur.ID
	}
	return lb
}

// sortScores orders by points, highest first. Ties keep join order.
func sortScores(scores []ScoreEntry) {
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Points > scores[j].Points
	})
}
