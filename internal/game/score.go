package game

import (
	"slices"

	"github.com/scythe504/sketchroom/internal"
)

const (
	FirstGuessBonus    = 50
	LaterGuessBonus    = 30
	GuessBonusStep     = 5
	DrawerPointsPerHit = 20
	MaxDrawerPoints    = 100
)

// GuesserScore awards half the remaining seconds (rounded up) plus a bonus
// for how early the guess landed. position counts earlier correct guessers.
// The bonus never drops below zero.
func GuesserScore(roundTimeLeft, position int) int {
	base := (max(roundTimeLeft, 0) + 1) / 2

	bonus := FirstGuessBonus
	if position > 0 {
		bonus = max(LaterGuessBonus-GuessBonusStep*position, 0)
	}

	return base + bonus
}

// DrawerScore is the drawer's round award for n correct guessers.
func DrawerScore(correctGuessers int) int {
	return min(correctGuessers*DrawerPointsPerHit, MaxDrawerPoints)
}

// RankPlayers returns the final scoreboard, highest score first. Ties keep
// join order.
func RankPlayers(players []*internal.Player) []internal.PlayerSnapshot {
	ordered := slices.Clone(players)
	slices.SortStableFunc(ordered, func(a, b *internal.Player) int {
		if a.Score != b.Score {
			return b.Score - a.Score
		}
		return a.JoinedAt.Compare(b.JoinedAt)
	})

	ranked := make([]internal.PlayerSnapshot, 0, len(ordered))
	for _, p := range ordered {
		ranked = append(ranked, internal.CreatePlayerSnapshot(p))
	}
	return ranked
}
