package game

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/scythe504/sketchroom/internal"
)

type sentMessage struct {
	To  string
	Msg internal.Message[any]
}

// recorder is a Broadcaster that keeps everything it was asked to send.
type recorder struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (r *recorder) SendToPlayer(playerID string, msg internal.Message[any]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sentMessage{To: playerID, Msg: msg})
}

func (r *recorder) messages(playerID, msgType string) []internal.Message[any] {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []internal.Message[any]
	for _, s := range r.sent {
		if s.To == playerID && s.Msg.Type == msgType {
			out = append(out, s.Msg)
		}
	}
	return out
}

func (r *recorder) last(t *testing.T, playerID, msgType string) internal.Message[any] {
	t.Helper()
	msgs := r.messages(playerID, msgType)
	require.NotEmpty(t, msgs, "%s never received %s", playerID, msgType)
	return msgs[len(msgs)-1]
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = nil
}

func dataOf[T any](t *testing.T, msg internal.Message[any]) T {
	t.Helper()
	data, ok := msg.Data.(T)
	require.True(t, ok, "unexpected payload %T for %s", msg.Data, msg.Type)
	return data
}

// manualTickers never fires; tests drive countdowns through advance.
type manualTickers struct{}

func (manualTickers) NewTicker(time.Duration) (<-chan time.Time, func()) {
	return nil, func() {}
}

// fixedWords always offers the same three words, easy to hard.
type fixedWords struct{}

func (fixedWords) Choices(n int) []string {
	return []string{"cat", "giraffe", "lighthouse"}[:n]
}

type mockArchive struct {
	mock.Mock
}

func (m *mockArchive) SaveGame(ctx context.Context, result internal.GameResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func testSettings() Settings {
	s := DefaultSettings()
	s.WordSelectionTime = 3 * time.Second
	s.RoundTime = 9 * time.Second
	s.RoundEndTime = 2 * time.Second
	s.GameEndTime = 2 * time.Second
	return s
}

func newTestRegistry(t *testing.T, opts ...Option) (*Registry, *recorder) {
	t.Helper()
	rec := &recorder{}
	opts = append([]Option{WithTickerFactory(manualTickers{})}, opts...)
	reg := NewRegistry(testSettings(), fixedWords{}, rec, opts...)
	t.Cleanup(reg.Shutdown)
	return reg, rec
}

// advance fires n one-second ticks on the room's current countdown.
func advance(t *testing.T, reg *Registry, roomID string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		room := reg.lookup(roomID)
		require.NotNil(t, room)

		room.Mu.Lock()
		timer := room.Timer
		room.Mu.Unlock()
		require.NotNil(t, timer, "no countdown running on tick %d", i)

		reg.tick(room, timer)
	}
}

// inspect runs fn with the room locked.
func inspect(t *testing.T, reg *Registry, roomID string, fn func(room *internal.Room)) {
	t.Helper()
	room := reg.lookup(roomID)
	require.NotNil(t, room)
	room.Mu.Lock()
	defer room.Mu.Unlock()
	fn(room)
}

func stateOf(t *testing.T, reg *Registry, roomID string) internal.GameState {
	t.Helper()
	var state internal.GameState
	inspect(t, reg, roomID, func(room *internal.Room) { state = room.State })
	return state
}

func drawerOf(t *testing.T, reg *Registry, roomID string) string {
	t.Helper()
	var id string
	inspect(t, reg, roomID, func(room *internal.Room) { id = room.CurrentDrawer })
	return id
}

func scoreOf(t *testing.T, reg *Registry, roomID, playerID string) int {
	t.Helper()
	score := -1
	inspect(t, reg, roomID, func(room *internal.Room) {
		if p := room.GetPlayer(playerID); p != nil {
			score = p.Score
		}
	})
	return score
}

// startedRoom builds a room with the given players and starts the game.
func startedRoom(t *testing.T, reg *Registry, roomID string, players ...string) {
	t.Helper()
	_, err := reg.CreateRoom(roomID, players[0], players[0])
	require.NoError(t, err)
	for _, p := range players[1:] {
		_, err := reg.JoinRoom(roomID, p, p)
		require.NoError(t, err)
	}
	require.NoError(t, reg.StartGame(roomID, players[0]))
}

// drawingRoom goes one step further and has the drawer pick "cat".
func drawingRoom(t *testing.T, reg *Registry, roomID string, players ...string) string {
	t.Helper()
	startedRoom(t, reg, roomID, players...)
	drawer := drawerOf(t, reg, roomID)
	require.NoError(t, reg.SelectWord(roomID, drawer, "cat"))
	return drawer
}

func guessersOf(players []string, drawer string) []string {
	var out []string
	for _, p := range players {
		if p != drawer {
			out = append(out, p)
		}
	}
	return out
}
