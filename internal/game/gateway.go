package game

import (
	"github.com/scythe504/sketchroom/internal"
)

// Broadcaster delivers an envelope to a single player's connection. It must
// not block; unknown or disconnected players are ignored.
type Broadcaster interface {
	SendToPlayer(playerID string, msg internal.Message[any])
}

// Gateway fans state-machine effects out to room members. Callers hold the
// room lock so per-room ordering follows mutation order.
type Gateway struct {
	out Broadcaster
}

func NewGateway(out Broadcaster) *Gateway {
	return &Gateway{out: out}
}

func (g *Gateway) SendToPlayer(playerID, msgType string, data any) {
	if playerID == "" {
		return
	}
	g.out.SendToPlayer(playerID, internal.NewMessage(msgType, data))
}

func (g *Gateway) BroadcastToRoom(room *internal.Room, msgType string, data any) {
	msg := internal.NewMessage(msgType, data)
	for _, p := range room.Players {
		g.out.SendToPlayer(p.Id, msg)
	}
}

func (g *Gateway) BroadcastToRoomExcept(room *internal.Room, exceptID, msgType string, data any) {
	msg := internal.NewMessage(msgType, data)
	for _, p := range room.Players {
		if p.Id == exceptID {
			continue
		}
		g.out.SendToPlayer(p.Id, msg)
	}
}

// BroadcastToGuessers reaches everyone except the current drawer.
func (g *Gateway) BroadcastToGuessers(room *internal.Room, msgType string, data any) {
	g.BroadcastToRoomExcept(room, room.CurrentDrawer, msgType, data)
}

func (g *Gateway) BroadcastScores(room *internal.Room) {
	g.BroadcastToRoom(room, internal.EventUpdateScores, internal.PlayersData{Players: room.Snapshots()})
}

func (g *Gateway) BroadcastTimer(room *internal.Room) {
	g.BroadcastToRoom(room, internal.EventTimerUpdate, internal.TimerUpdateData{
		TimeLeft: room.RoundTimeLeft,
		State:    room.State,
	})
}
