package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/scythe504/sketchroom/internal"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = (pongWait * 9) / 10
	maxMessageSize = 8 * 1024
	sendBufferSize = 256
)

// Session is the player identity a connection speaks for. PlayerID outlives
// the socket so a client can resume after reconnecting.
type Session struct {
	PlayerID string
	Name     string
}

type Client struct {
	session Session
	conn    *websocket.Conn
	limiter *rate.Limiter

	egress    chan internal.Message[any]
	done      chan struct{}
	closeOnce sync.Once

	mu     sync.Mutex
	roomID string
}

func NewClient(conn *websocket.Conn, session Session, limiter *rate.Limiter) *Client {
	return &Client{
		session: session,
		conn:    conn,
		limiter: limiter,
		egress:  make(chan internal.Message[any], sendBufferSize),
		done:    make(chan struct{}),
	}
}

func (c *Client) PlayerID() string {
	return c.session.PlayerID
}

func (c *Client) RoomID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.roomID
}

func (c *Client) SetRoomID(roomID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roomID = roomID
}

// Enqueue queues an envelope without blocking. A full queue drops the message.
func (c *Client) Enqueue(msg internal.Message[any]) {
	select {
	case <-c.done:
		return
	default:
	}

	select {
	case c.egress <- msg:
	case <-c.done:
	default:
		log.Warn().Str("player", c.PlayerID()).Str("type", msg.Type).Msg("[Client] send queue full, dropping message")
	}
}

func (c *Client) PushEvent(msgType string, data any) {
	c.Enqueue(internal.NewMessage(msgType, data))
}

func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.conn != nil {
			c.conn.Close()
		}
	})
}

func (c *Client) Done() <-chan struct{} {
	return c.done
}

// readMessages feeds decoded frames to handle until the socket fails.
func (c *Client) readMessages(handle func(frame internal.Message[json.RawMessage])) {
	defer c.Close()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Warn().Err(err).Str("player", c.PlayerID()).Msg("[Client] unable to set read deadline")
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("player", c.PlayerID()).Msg("[Client] unexpected close")
			}
			return
		}

		if c.limiter != nil && !c.limiter.Allow() {
			log.Debug().Str("player", c.PlayerID()).Msg("[Client] rate limited, frame dropped")
			continue
		}

		var frame internal.Message[json.RawMessage]
		if err := json.Unmarshal(payload, &frame); err != nil {
			log.Debug().Err(err).Str("player", c.PlayerID()).Msg("[Client] malformed frame")
			continue
		}

		handle(frame)
	}
}

// writeMessages drains the egress queue and keeps the connection alive with pings.
func (c *Client) writeMessages() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-c.Done():
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		case msg := <-c.egress:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				log.Debug().Err(err).Str("player", c.PlayerID()).Msg("[Client] write failed")
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
