package websocket

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/time/rate"

	"github.com/scythe504/sketchroom/internal"
	"github.com/scythe504/sketchroom/internal/game"
)

// GameService is the slice of the room registry the transport drives.
type GameService interface {
	CreateRoom(roomID, creatorName, playerID string) (game.RoomSnapshot, error)
	JoinRoom(roomID, playerName, playerID string) (game.RoomSnapshot, error)
	RemovePlayer(roomID, playerID string)
	StartGame(roomID, playerID string) error
	SelectWord(roomID, playerID, word string) error
	SendMessage(roomID, playerID string, msg internal.ChatMessage) error
	RecordStroke(roomID, playerID string, stroke internal.StrokeRecord, relay any) error
	ChangeConfig(roomID, playerID string, relay any) error
	ClearCanvas(roomID, playerID string) error
	ActionMenu(roomID, playerID, action string, historyPointer int, relay any) error
	MenuItemChange(roomID, playerID string, relay any) error
}

type HandlerConfig struct {
	AllowedOrigins  []string
	EventsPerSecond float64
	EventBurst      int
}

type Handler struct {
	games    GameService
	hub      *Hub
	validate *validator.Validate
	upgrader websocket.Upgrader
	cfg      HandlerConfig
}

func NewHandler(games GameService, hub *Hub, cfg HandlerConfig) *Handler {
	h := &Handler{
		games:    games,
		hub:      hub,
		validate: newValidator(),
		cfg:      cfg,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || lo.Contains(h.cfg.AllowedOrigins, "*") {
		return true
	}
	return lo.Contains(h.cfg.AllowedOrigins, origin)
}

// =============================================================================
// WEBSOCKET CONNECTION HANDLING
// =============================================================================

// HandleWebSocket upgrades the request and binds the socket to a session. A
// valid playerId query parameter resumes an earlier session.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("[HandleWebSocket] upgrade failed")
		return
	}

	session := Session{
		PlayerID: resumeOrNewID(r.URL.Query().Get("playerId")),
		Name:     strings.TrimSpace(r.URL.Query().Get("name")),
	}
	if session.Name == "" {
		session.Name = "Anonymous"
	}

	var limiter *rate.Limiter
	if h.cfg.EventsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(h.cfg.EventsPerSecond), max(h.cfg.EventBurst, 1))
	}
	client := NewClient(conn, session, limiter)

	if previous := h.hub.Register(client); previous != nil {
		// the new socket inherits the room so its disconnect still removes the player
		client.SetRoomID(previous.RoomID())
		log.Info().Str("player", session.PlayerID).Str("room", client.RoomID()).
			Msg("[HandleWebSocket] session resumed on new connection")
		previous.Close()
	}
	log.Info().Str("player", session.PlayerID).Str("remote", r.RemoteAddr).Msg("[HandleWebSocket] client connected")

	client.PushEvent(internal.EventSession, internal.SessionData{PlayerID: session.PlayerID})

	go client.writeMessages()
	go h.serve(client)
}

func resumeOrNewID(requested string) string {
	if id, err := uuid.Parse(requested); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

// serve runs the read loop and cleans up once the socket is gone.
func (h *Handler) serve(c *Client) {
	defer func() {
		if h.hub.Unregister(c) {
			if roomID := c.RoomID(); roomID != "" {
				h.games.RemovePlayer(roomID, c.PlayerID())
			}
		}
		log.Info().Str("player", c.PlayerID()).Msg("[HandleWebSocket] client disconnected")
	}()

	c.readMessages(func(frame internal.Message[json.RawMessage]) {
		h.HandleFrame(c, frame)
	})
}

// HandleFrame decodes, validates and dispatches a single inbound frame.
func (h *Handler) HandleFrame(c *Client, frame internal.Message[json.RawMessage]) {
	event, err := DecodeEvent(h.validate, frame)
	if err != nil {
		if relayEvents[frame.Type] {
			log.Debug().Err(err).Str("player", c.PlayerID()).Str("type", frame.Type).Msg("[handleMessages] dropped malformed event")
			return
		}
		c.PushEvent(internal.EventError, internal.ErrorData{Message: err.Error()})
		return
	}

	if err := h.dispatch(c, event); err != nil {
		if relayEvents[frame.Type] && (errors.Is(err, internal.ErrRoomNotFound) || errors.Is(err, internal.ErrNotInRoom)) {
			log.Debug().Err(err).Str("player", c.PlayerID()).Str("type", frame.Type).Msg("[handleMessages] dropped event for stale room")
			return
		}
		log.Debug().Err(err).Str("player", c.PlayerID()).Str("type", frame.Type).Msg("[handleMessages] event rejected")
		c.PushEvent(internal.EventError, internal.ErrorData{Message: err.Error()})
	}
}

func (h *Handler) dispatch(c *Client, event any) error {
	id := c.PlayerID()

	switch e := event.(type) {
	case *CreateRoomPayload:
		snap, err := h.games.CreateRoom(e.Room, e.Name, id)
		if err != nil {
			return err
		}
		h.switchRoom(c, snap.ID)
		return nil

	case *JoinRoomPayload:
		if _, err := h.games.JoinRoom(e.Room, e.Name, id); err != nil {
			return err
		}
		h.switchRoom(c, e.Room)
		return nil

	case *BeginPathPayload:
		return h.games.RecordStroke(e.Room, id, internal.StrokeRecord{
			Type:     internal.StrokeBeginPath,
			X:        e.X,
			Y:        e.Y,
			Color:    e.Color,
			Size:     e.Size,
			IsEraser: e.IsEraser,
		}, e)

	case *DrawLinePayload:
		return h.games.RecordStroke(e.Room, id, internal.StrokeRecord{
			Type: internal.StrokeDrawLine,
			X:    e.X,
			Y:    e.Y,
		}, e)

	case *ChangeConfigPayload:
		return h.games.ChangeConfig(e.Room, id, e)

	case *ClearCanvasPayload:
		return h.games.ClearCanvas(e.Room, id)

	case *SendMessagePayload:
		return h.games.SendMessage(e.Room, id, internal.ChatMessage{
			Sender: e.Message.Sender,
			Text:   e.Message.Text,
			Time:   e.Message.Time,
		})

	case *ActionMenuPayload:
		return h.games.ActionMenu(e.Room, id, e.Action, e.HistoryPointer, e)

	case *MenuItemPayload:
		return h.games.MenuItemChange(e.Room, id, e)

	case *StartGamePayload:
		return h.games.StartGame(e.Room, id)

	case *SelectWordPayload:
		return h.games.SelectWord(e.Room, id, e.Word)
	}

	return ErrUnknownEvent
}

// switchRoom records the room the client just entered and drops its
// membership in the previous one, if any.
func (h *Handler) switchRoom(c *Client, next string) {
	current := c.RoomID()
	c.SetRoomID(next)
	if current == "" || current == next {
		return
	}
	h.games.RemovePlayer(current, c.PlayerID())
}
