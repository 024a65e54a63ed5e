package game

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/scythe504/sketchroom/internal"
)

// =============================================================================
// ROOM REGISTRY
// =============================================================================

// Settings carries the limits and phase lengths the registry enforces.
type Settings struct {
	MaxRooms          int
	MaxPlayersPerRoom int

	WordSelectionTime time.Duration
	RoundTime         time.Duration
	RoundEndTime      time.Duration
	GameEndTime       time.Duration

	InactivityTTL time.Duration
	PressureTTL   time.Duration
	SweepInterval time.Duration
}

func DefaultSettings() Settings {
	return Settings{
		MaxRooms:          internal.MaxRooms,
		MaxPlayersPerRoom: internal.MaxPlayersPerRoom,
		WordSelectionTime: internal.WordSelectionDuration,
		RoundTime:         internal.DrawingPhaseDuration,
		RoundEndTime:      internal.RoundEndDuration,
		GameEndTime:       internal.GameEndDuration,
		InactivityTTL:     2 * time.Hour,
		PressureTTL:       30 * time.Minute,
		SweepInterval:     30 * time.Minute,
	}
}

// WordSource supplies the options offered to a drawer.
type WordSource interface {
	Choices(n int) []string
}

// ResultArchive stores finished games. Saving happens off the room lock.
type ResultArchive interface {
	SaveGame(ctx context.Context, result internal.GameResult) error
}

// RoomSnapshot is what a caller learns about a room it just entered.
type RoomSnapshot struct {
	ID            string                    `json:"id"`
	State         internal.GameState        `json:"state"`
	Players       []internal.PlayerSnapshot `json:"players"`
	CurrentDrawer string                    `json:"currentDrawer"`
}

type Stats struct {
	Rooms   int `json:"rooms"`
	Players int `json:"players"`
}

// Registry owns every live room. A room's fields are only touched while its
// Mu is held; the rooms map is guarded by mu, which is always taken first.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*internal.Room

	settings Settings
	words    WordSource
	gateway  *Gateway
	archive  ResultArchive
	tickers  TickerFactory
	pressure PressureProbe
	now      func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
}

type Option func(*Registry)

func WithArchive(archive ResultArchive) Option {
	return func(r *Registry) { r.archive = archive }
}

func WithTickerFactory(tickers TickerFactory) Option {
	return func(r *Registry) { r.tickers = tickers }
}

func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

func WithPressureProbe(probe PressureProbe) Option {
	return func(r *Registry) { r.pressure = probe }
}

func NewRegistry(settings Settings, words WordSource, out Broadcaster, opts ...Option) *Registry {
	ctx, cancel := context.WithCancel(context.Background())
	r := &Registry{
		rooms:    make(map[string]*internal.Room),
		settings: settings,
		words:    words,
		gateway:  NewGateway(out),
		tickers:  systemTickers{},
		now:      time.Now,
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Shutdown stops every room timer. Rooms stay in memory until the process exits.
func (r *Registry) Shutdown() {
	r.cancel()
}

func (r *Registry) lookup(roomID string) *internal.Room {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rooms[roomID]
}

func (r *Registry) snapshotRooms() []*internal.Room {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rooms := make([]*internal.Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		rooms = append(rooms, room)
	}
	return rooms
}

// withRoom runs fn under the room lock. Destroyed rooms read as missing.
func (r *Registry) withRoom(roomID string, fn func(room *internal.Room) error) error {
	room := r.lookup(roomID)
	if room == nil {
		return internal.ErrRoomNotFound
	}

	room.Mu.Lock()
	defer room.Mu.Unlock()

	if room.Destroyed {
		return internal.ErrRoomNotFound
	}
	return fn(room)
}

// withMember is withRoom plus a membership check on the acting player.
func (r *Registry) withMember(roomID, playerID string, fn func(room *internal.Room, player *internal.Player) error) error {
	return r.withRoom(roomID, func(room *internal.Room) error {
		player := room.GetPlayer(playerID)
		if player == nil {
			return internal.ErrNotInRoom
		}
		room.Touch(r.now())
		return fn(room, player)
	})
}

// destroyLocked marks the room dead and cancels its timer. Caller holds
// room.Mu and must call forget once it is released.
func (r *Registry) destroyLocked(room *internal.Room, reason string) {
	if room.Destroyed {
		return
	}
	r.cancelPhaseTimer(room)
	room.Destroyed = true
	log.Info().Str("room", room.Id).Str("reason", reason).Msg("[CleanupRoom] room destroyed")
}

func (r *Registry) forget(room *internal.Room) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if current, ok := r.rooms[room.Id]; ok && current == room {
		delete(r.rooms, room.Id)
	}
}

// CreateRoom registers a new room with its creator as the first player. An
// empty id gets a generated room code.
func (r *Registry) CreateRoom(roomID, creatorName, playerID string) (RoomSnapshot, error) {
	now := r.now()

	r.mu.Lock()
	if roomID == "" {
		roomID = r.unusedCodeLocked()
	}
	if _, exists := r.rooms[roomID]; exists {
		r.mu.Unlock()
		return RoomSnapshot{}, fmt.Errorf("%w: %s", internal.ErrRoomAlreadyExists, roomID)
	}
	if len(r.rooms) >= r.settings.MaxRooms {
		r.mu.Unlock()
		return RoomSnapshot{}, internal.ErrRegistryAtCapacity
	}

	room := internal.NewRoom(roomID, now)
	creator := internal.NewPlayer(playerID, creatorName, now)
	room.Players = append(room.Players, creator)
	r.rooms[roomID] = room

	// Lock the room before publishing the map so no join overtakes the
	// creator's own notifications.
	room.Mu.Lock()
	r.mu.Unlock()
	defer room.Mu.Unlock()

	log.Info().Str("room", roomID).Str("player", playerID).Msg("[CreateRoom] room created")

	r.gateway.SendToPlayer(playerID, internal.EventRoomCreated, internal.RoomCreatedData{RoomID: roomID})
	r.gateway.BroadcastToRoom(room, internal.EventUserJoined, internal.MembershipData{
		Message: fmt.Sprintf("%s created the room", creatorName),
		Players: room.Snapshots(),
	})
	r.sendHistory(room, creator)

	return snapshotOf(room), nil
}

// JoinRoom adds a player, or renames them if their id is already a member.
func (r *Registry) JoinRoom(roomID, playerName, playerID string) (RoomSnapshot, error) {
	var snap RoomSnapshot
	err := r.withRoom(roomID, func(room *internal.Room) error {
		now := r.now()

		player := room.GetPlayer(playerID)
		if player != nil {
			log.Info().Str("room", roomID).Str("player", playerID).Msg("[AddPlayer] player rejoined")
			player.Name = playerName
		} else {
			if room.IsFull(r.settings.MaxPlayersPerRoom) {
				return internal.ErrRoomFull
			}
			player = internal.NewPlayer(playerID, playerName, now)
			room.Players = append(room.Players, player)
			// a player returning mid-game keeps their original turn
			if room.State != internal.StateLobby && room.State != internal.StateGameEnd &&
				!lo.Contains(room.DrawOrder, playerID) {
				room.DrawOrder = append(room.DrawOrder, playerID)
			}
			log.Info().Str("room", roomID).Str("player", playerID).Int("players", len(room.Players)).
				Msg("[AddPlayer] player joined")
		}
		room.Touch(now)

		r.gateway.BroadcastToRoom(room, internal.EventUserJoined, internal.MembershipData{
			Message: fmt.Sprintf("%s joined the room", playerName),
			Players: room.Snapshots(),
		})
		r.sendHistory(room, player)

		snap = snapshotOf(room)
		return nil
	})
	return snap, err
}

// RemovePlayer takes a player out of a room. The last one out destroys the
// room. Removing an absent player or from a missing room is a no-op.
func (r *Registry) RemovePlayer(roomID, playerID string) {
	room := r.lookup(roomID)
	if room == nil {
		return
	}

	room.Mu.Lock()
	if room.Destroyed {
		room.Mu.Unlock()
		return
	}

	player := room.RemovePlayer(playerID)
	if player == nil {
		room.Mu.Unlock()
		return
	}
	room.Touch(r.now())

	if len(room.Players) == 0 {
		r.destroyLocked(room, "empty")
		room.Mu.Unlock()
		r.forget(room)
		return
	}
	defer room.Mu.Unlock()

	log.Info().Str("room", roomID).Str("player", playerID).Int("players", len(room.Players)).
		Msg("[removePlayer] player left")

	r.gateway.BroadcastToRoom(room, internal.EventUserLeft, internal.MembershipData{
		Message: fmt.Sprintf("%s left the room", player.Name),
		Players: room.Snapshots(),
	})

	wasDrawer := room.CurrentDrawer == playerID
	if wasDrawer {
		room.CurrentDrawer = ""
	}

	switch room.State {
	case internal.StateWordSelection:
		if wasDrawer {
			r.endRound(room)
		}
	case internal.StateDrawing:
		if wasDrawer || room.HasEveryoneGuessed() {
			r.endRound(room)
		}
	}
}

// sendHistory brings a (re)joining player up to date. Caller holds room.Mu.
func (r *Registry) sendHistory(room *internal.Room, player *internal.Player) {
	r.gateway.SendToPlayer(player.Id, internal.EventRoomHistory, internal.RoomHistoryData{
		Chat:    append([]internal.ChatMessage(nil), room.Chat...),
		Drawing: room.VisibleDrawing(),
		Players: room.Snapshots(),
		State:   room.State,
	})

	if room.State == internal.StateLobby {
		return
	}
	r.gateway.SendToPlayer(player.Id, internal.EventTimerUpdate, internal.TimerUpdateData{
		TimeLeft: room.RoundTimeLeft,
		State:    room.State,
	})

	isDrawer := player.Id == room.CurrentDrawer
	switch {
	case room.State == internal.StateWordSelection && isDrawer:
		r.gateway.SendToPlayer(player.Id, internal.EventSelectWord, internal.SelectWordData{
			Words:    room.WordOptions,
			TimeLeft: room.RoundTimeLeft,
		})
	case room.State == internal.StateDrawing && isDrawer:
		r.gateway.SendToPlayer(player.Id, internal.EventStartDrawing, internal.StartDrawingData{Word: room.CurrentWord})
	case room.State == internal.StateDrawing:
		r.gateway.SendToPlayer(player.Id, internal.EventDrawingStarted, internal.DrawingStartedData{
			Drawer:     room.CurrentDrawer,
			WordLength: len([]rune(room.CurrentWord)),
		})
		r.gateway.SendToPlayer(player.Id, internal.EventWordHint, internal.WordHintData{Hint: RenderHint(room.Hint)})
	}
}

// Stats counts live rooms and their members.
func (r *Registry) Stats() Stats {
	var stats Stats
	for _, room := range r.snapshotRooms() {
		room.Mu.Lock()
		if !room.Destroyed {
			stats.Rooms++
			stats.Players += len(room.Players)
		}
		room.Mu.Unlock()
	}
	return stats
}

// GetJoinableRoom returns the id of a lobby with a free seat, or "".
func (r *Registry) GetJoinableRoom() string {
	for _, room := range r.snapshotRooms() {
		room.Mu.Lock()
		ok := !room.Destroyed && room.State == internal.StateLobby && !room.IsFull(r.settings.MaxPlayersPerRoom)
		id := room.Id
		room.Mu.Unlock()
		if ok {
			return id
		}
	}
	return ""
}

// Snapshot returns the public view of a room.
func (r *Registry) Snapshot(roomID string) (RoomSnapshot, error) {
	var snap RoomSnapshot
	err := r.withRoom(roomID, func(room *internal.Room) error {
		snap = snapshotOf(room)
		return nil
	})
	return snap, err
}

func snapshotOf(room *internal.Room) RoomSnapshot {
	return RoomSnapshot{
		ID:            room.Id,
		State:         room.State,
		Players:       room.Snapshots(),
		CurrentDrawer: room.CurrentDrawer,
	}
}

const (
	roomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	roomCodeLength   = 6
)

func (r *Registry) unusedCodeLocked() string {
	for {
		code := generateRoomCode()
		if _, taken := r.rooms[code]; !taken {
			return code
		}
	}
}

func generateRoomCode() string {
	buf := make([]byte, roomCodeLength)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	var sb strings.Builder
	for _, b := range buf {
		sb.WriteByte(roomCodeAlphabet[int(b)%len(roomCodeAlphabet)])
	}
	return sb.String()
}
