package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"

	"github.com/scythe504/sketchroom/internal"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

func (s *Server) RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.HealthHandler).Methods(http.MethodGet)
	r.HandleFunc("/rooms-available", s.GetRoomToJoin).Methods(http.MethodGet)
	r.HandleFunc("/rooms/{id}", s.RoomHandler).Methods(http.MethodGet)
	r.HandleFunc("/games/recent", s.RecentGamesHandler).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.ws)

	c := cors.New(cors.Options{
		AllowedOrigins:   s.allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
	})

	return c.Handler(r)
}

type healthData struct {
	Status         string   `json:"status"`
	Uptime         string   `json:"uptime"`
	AllowedOrigins []string `json:"allowedOrigins"`
	Rooms          int      `json:"rooms"`
	Players        int      `json:"players"`
}

func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	stats := s.rooms.Stats()
	writeJSON(w, http.StatusOK, time.Now().UnixMilli(), healthData{
		Status:         "ok",
		Uptime:         time.Since(s.startedAt).Round(time.Second).String(),
		AllowedOrigins: s.allowedOrigins,
		Rooms:          stats.Rooms,
		Players:        stats.Players,
	})
}

func (s *Server) GetRoomToJoin(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now().UnixMilli()

	roomID := s.rooms.GetJoinableRoom()
	if roomID == "" {
		writeJSON(w, http.StatusNotFound, startTime, "No joinable rooms available")
		return
	}
	writeJSON(w, http.StatusOK, startTime, roomID)
}

// RoomHandler lets a client check a room code before joining it.
func (s *Server) RoomHandler(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now().UnixMilli()

	snap, err := s.rooms.Snapshot(mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, internal.ErrRoomNotFound) {
			writeJSON(w, http.StatusNotFound, startTime, "room not found")
			return
		}
		log.Error().Err(err).Msg("[RoomHandler] failed to read room")
		writeJSON(w, http.StatusInternalServerError, startTime, "unable to read room")
		return
	}
	writeJSON(w, http.StatusOK, startTime, snap)
}

func (s *Server) RecentGamesHandler(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now().UnixMilli()

	if s.history == nil {
		writeJSON(w, http.StatusServiceUnavailable, startTime, "game history is not enabled")
		return
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxHistoryLimit {
			writeJSON(w, http.StatusBadRequest, startTime, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	games, err := s.history.RecentGames(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("[RecentGamesHandler] failed to load games")
		writeJSON(w, http.StatusInternalServerError, startTime, "unable to load game history")
		return
	}
	if games == nil {
		games = []internal.GameResult{}
	}
	writeJSON(w, http.StatusOK, startTime, games)
}

func writeJSON(w http.ResponseWriter, status int, startTime int64, data any) {
	endTime := time.Now().UnixMilli()
	resp := internal.Response{
		StatusCode:    status,
		RespStartTime: startTime,
		RespEndTime:   endTime,
		NetRespTime:   endTime - startTime,
		Data:          data,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error().Err(err).Msg("error encoding response")
	}
}
