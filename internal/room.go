package internal

import (
	"time"

	"github.com/samber/lo"
)

// Methods (Room Struct). Callers hold Mu.

func (r *Room) GetPlayer(id string) *Player {
	p, ok := lo.Find(r.Players, func(p *Player) bool { return p.Id == id })
	if !ok {
		return nil
	}
	return p
}

func (r *Room) PlayerIndex(id string) int {
	for i, p := range r.Players {
		if p.Id == id {
			return i
		}
	}
	return -1
}

func (r *Room) Drawer() *Player {
	if r.CurrentDrawer == "" {
		return nil
	}
	return r.GetPlayer(r.CurrentDrawer)
}

func (r *Room) GetPlayerCount() int {
	return len(r.Players)
}

func (r *Room) IsFull(limit int) bool {
	return len(r.Players) >= limit
}

func (r *Room) CanStartGame() bool {
	return r.GetPlayerCount() >= MinPlayersToStart
}

// RemovePlayer drops the player from the member list and from this round's
// correct guessers. It returns the removed player, or nil.
func (r *Room) RemovePlayer(id string) *Player {
	idx := r.PlayerIndex(id)
	if idx < 0 {
		return nil
	}
	p := r.Players[idx]
	r.Players = append(r.Players[:idx], r.Players[idx+1:]...)
	r.CorrectGuessers = lo.Without(r.CorrectGuessers, id)
	return p
}

func (r *Room) HasGuessed(id string) bool {
	return lo.Contains(r.CorrectGuessers, id)
}

func (r *Room) NonDrawerCount() int {
	return lo.CountBy(r.Players, func(p *Player) bool { return p.Id != r.CurrentDrawer })
}

// HasEveryoneGuessed is true when at least one guesser exists and all of them
// have guessed correctly.
func (r *Room) HasEveryoneGuessed() bool {
	guessers := r.NonDrawerCount()
	if guessers == 0 {
		return false
	}
	for _, p := range r.Players {
		if p.Id != r.CurrentDrawer && !r.HasGuessed(p.Id) {
			return false
		}
	}
	return true
}

func (r *Room) ResetRoundState() {
	r.CorrectGuessers = make([]string, 0)
	r.CurrentWord = ""
	r.WordOptions = nil
	r.Hint = nil
}

// ResetGame returns the room to its lobby shape and zeroes all scores.
func (r *Room) ResetGame() {
	r.ResetRoundState()
	r.State = StateLobby
	r.CurrentDrawer = ""
	r.RoundTimeLeft = 0
	r.PhaseDuration = 0
	r.DrawOrder = nil
	r.TurnIndex = 0
	r.RoundNumber = 0
	for _, p := range r.Players {
		p.ResetGameState()
	}
}

// NextDrawer advances the rotation to the next player still present.
// It returns false once the rotation is exhausted.
func (r *Room) NextDrawer() (*Player, bool) {
	for r.TurnIndex+1 < len(r.DrawOrder) {
		r.TurnIndex++
		if p := r.GetPlayer(r.DrawOrder[r.TurnIndex]); p != nil {
			return p, true
		}
	}
	return nil, false
}

func (r *Room) Snapshots() []PlayerSnapshot {
	return lo.Map(r.Players, func(p *Player, _ int) PlayerSnapshot {
		return CreatePlayerSnapshot(p)
	})
}

func (r *Room) AppendChat(msg ChatMessage) {
	r.Chat = append(r.Chat, msg)
	if over := len(r.Chat) - MaxChatHistory; over > 0 {
		r.Chat = r.Chat[over:]
	}
}

func (r *Room) Touch(now time.Time) {
	r.LastActivity = now
}
