package internal

import (
	"context"
	"sync"
	"time"
)

const (
	WordSelectionDuration = 15 * time.Second
	DrawingPhaseDuration  = 120 * time.Second
	RoundEndDuration      = 8 * time.Second
	GameEndDuration       = 10 * time.Second

	MaxRooms          = 50
	MaxPlayersPerRoom = 10
	MinPlayersToStart = 1
	WordOptionCount   = 3

	MaxDrawingLog  = 1000
	MaxChatHistory = 100

	// Words at or below this length never receive letter reveals.
	MinHintWordLength = 3
)

type GameState string

const (
	StateLobby         GameState = "lobby"
	StateWordSelection GameState = "word_selection"
	StateDrawing       GameState = "drawing"
	StateRoundEnd      GameState = "round_end"
	StateGameEnd       GameState = "game_end"
)

// InRound reports whether a drawer currently owns the canvas.
func (s GameState) InRound() bool {
	return s == StateWordSelection || s == StateDrawing || s == StateRoundEnd
}

type WordDifficulty string

const (
	Easy   WordDifficulty = "easy"
	Medium WordDifficulty = "medium"
	Hard   WordDifficulty = "hard"
)

type Word struct {
	Word      string         `json:"word"`
	Category  string         `json:"category"`
	Difficult WordDifficulty `json:"difficulty"`
}

// GameTimer is the cancellable handle for the one countdown a room may run.
type GameTimer struct {
	StartTime time.Time
	Duration  time.Duration
	State     GameState
	Context   context.Context
	Cancel    context.CancelFunc
}

// Stop cancels the countdown. Safe on a nil timer.
func (t *GameTimer) Stop() {
	if t == nil || t.Cancel == nil {
		return
	}
	t.Cancel()
}

type Room struct {
	Id      string    `json:"id"`
	Players []*Player `json:"players"`
	Chat    []ChatMessage
	// Stroke records of the shared canvas, oldest first.
	DrawingLog   []StrokeRecord
	NextPathID   int
	VisiblePaths int

	State         GameState `json:"state"`
	CurrentDrawer string    `json:"currentDrawer"`
	CurrentWord   string    `json:"-"`
	WordOptions   []string  `json:"-"`
	RoundTimeLeft int       `json:"roundTimeLeft"`
	PhaseDuration int       `json:"-"`

	CorrectGuessers []string  `json:"correctGuessers"`
	Hint            *WordHint `json:"-"`

	// Rotation fixed at game start; players joining later are appended.
	DrawOrder   []string `json:"-"`
	TurnIndex   int      `json:"-"`
	RoundNumber int      `json:"roundNumber"`

	CreatedAt    time.Time `json:"createdAt"`
	LastActivity time.Time `json:"lastActivity"`
	GameStarted  time.Time `json:"-"`

	Timer     *GameTimer `json:"-"`
	Destroyed bool       `json:"-"`
	Mu        sync.Mutex `json:"-"`
}

func NewRoom(id string, now time.Time) *Room {
	return &Room{
		Id:              id,
		Players:         make([]*Player, 0, MaxPlayersPerRoom),
		Chat:            make([]ChatMessage, 0),
		DrawingLog:      make([]StrokeRecord, 0),
		State:           StateLobby,
		CorrectGuessers: make([]string, 0),
		CreatedAt:       now,
		LastActivity:    now,
	}
}

type ChatMessage struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
	Time   string `json:"time"`
	System bool   `json:"system,omitempty"`
}

// WordHint is the masked view of the current word, one slot per character.
type WordHint struct {
	Letters  []rune
	Revealed []bool
}

func NewWordHint(word string) *WordHint {
	letters := []rune(word)
	revealed := make([]bool, len(letters))
	for i, r := range letters {
		// spaces and hyphens in phrases are never hidden
		if r == ' ' || r == '-' {
			revealed[i] = true
		}
	}
	return &WordHint{Letters: letters, Revealed: revealed}
}

// Masked returns the indices still hidden.
func (h *WordHint) Masked() []int {
	masked := make([]int, 0, len(h.Letters))
	for i, r := range h.Revealed {
		if !r {
			masked = append(masked, i)
		}
	}
	return masked
}

func (h *WordHint) RevealedCount() int {
	n := 0
	for i, r := range h.Revealed {
		if r && h.Letters[i] != ' ' && h.Letters[i] != '-' {
			n++
		}
	}
	return n
}

// GameResult is the final scoreboard of one finished game.
type GameResult struct {
	RoomID    string           `json:"roomId"`
	Winner    *PlayerSnapshot  `json:"winner"`
	Players   []PlayerSnapshot `json:"players"`
	Rounds    int              `json:"rounds"`
	StartedAt time.Time        `json:"startedAt"`
	EndedAt   time.Time        `json:"endedAt"`
}
