package internal

import "time"

type Player struct {
	Id       string    `json:"id"`
	Name     string    `json:"name"`
	Score    int       `json:"score"`
	JoinedAt time.Time `json:"joinedAt"`

	// Statistics for the current game
	CorrectGuesses int `json:"correctGuesses"`
	TimesDrawn     int `json:"timesDrawn"`
}

type PlayerSnapshot struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Score          int    `json:"score"`
	CorrectGuesses int    `json:"correctGuesses"`
	TimesDrawn     int    `json:"timesDrawn"`
}

func NewPlayer(id, name string, now time.Time) *Player {
	return &Player{Id: id, Name: name, JoinedAt: now}
}

// ResetGameState clears everything accumulated during a game.
func (p *Player) ResetGameState() {
	p.Score = 0
	p.CorrectGuesses = 0
	p.TimesDrawn = 0
}

func CreatePlayerSnapshot(p *Player) PlayerSnapshot {
	return PlayerSnapshot{
		ID:             p.Id,
		Name:           p.Name,
		Score:          p.Score,
		CorrectGuesses: p.CorrectGuesses,
		TimesDrawn:     p.TimesDrawn,
	}
}
