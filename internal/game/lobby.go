package game

import (
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/scythe504/sketchroom/internal"
)

// StartGame shuffles the players, fixes the drawing rotation and hands the
// first turn to whoever landed first.
func (r *Registry) StartGame(roomID, playerID string) error {
	return r.withMember(roomID, playerID, func(room *internal.Room, _ *internal.Player) error {
		if room.State != internal.StateLobby {
			return internal.ErrInvalidPhase
		}
		if !room.CanStartGame() {
			return internal.ErrInvalidPhase
		}

		room.ResetGame()
		room.Players = lo.Shuffle(room.Players)
		room.DrawOrder = lo.Map(room.Players, func(p *internal.Player, _ int) string { return p.Id })
		room.TurnIndex = 0
		room.GameStarted = r.now()

		drawer := room.Players[0]
		log.Info().Str("room", room.Id).Strs("order", room.DrawOrder).Msg("[StartGame] game started")

		r.gateway.BroadcastToRoom(room, internal.EventGameStarted, internal.GameStartedData{
			Players:       room.Snapshots(),
			CurrentDrawer: drawer.Id,
		})
		r.startWordSelection(room, drawer)
		return nil
	})
}

// returnToLobby ends the post-game pause. Caller holds room.Mu.
func (r *Registry) returnToLobby(room *internal.Room) {
	r.cancelPhaseTimer(room)
	room.ResetGame()
	room.ClearDrawing()

	log.Info().Str("room", room.Id).Msg("[ResetRoomToLobby] room back in lobby")

	r.gateway.BroadcastToRoom(room, internal.EventClearCanvas, internal.RoomRef{Room: room.Id})
	r.gateway.BroadcastToRoom(room, internal.EventReturnToLobby, internal.PlayersData{
		Players: room.Snapshots(),
	})
}
