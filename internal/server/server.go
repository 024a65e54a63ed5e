package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/scythe504/sketchroom/internal"
	"github.com/scythe504/sketchroom/internal/game"
)

// RoomDirectory is the read side of the room registry.
type RoomDirectory interface {
	Stats() game.Stats
	GetJoinableRoom() string
	Snapshot(roomID string) (game.RoomSnapshot, error)
}

// GameHistory lists archived games.
type GameHistory interface {
	RecentGames(ctx context.Context, limit int) ([]internal.GameResult, error)
}

type Server struct {
	port           string
	allowedOrigins []string
	rooms          RoomDirectory
	history        GameHistory
	ws             http.HandlerFunc
	startedAt      time.Time
}

// NewServer wires the HTTP surface. history may be nil when no archive is configured.
func NewServer(port string, allowedOrigins []string, rooms RoomDirectory, history GameHistory, ws http.HandlerFunc) *Server {
	return &Server{
		port:           port,
		allowedOrigins: allowedOrigins,
		rooms:          rooms,
		history:        history,
		ws:             ws,
		startedAt:      time.Now(),
	}
}

func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%s", s.port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}
