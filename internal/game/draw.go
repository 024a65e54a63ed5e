package game

import (
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/scythe504/sketchroom/internal"
)

// =============================================================================
// DRAWING RELAY
// Stroke payloads are relayed untouched to everyone but the sender.
// =============================================================================

// canDraw is true outside rounds, where anyone may doodle, and for the
// drawer during one.
func canDraw(room *internal.Room, playerID string) bool {
	return !room.State.InRound() || room.CurrentDrawer == playerID
}

// RecordStroke appends a beginPath/drawLine segment to the room log and relays it.
func (r *Registry) RecordStroke(roomID, playerID string, stroke internal.StrokeRecord, relay any) error {
	return r.withMember(roomID, playerID, func(room *internal.Room, _ *internal.Player) error {
		if !canDraw(room, playerID) {
			log.Debug().Str("room", roomID).Str("player", playerID).Msg("[HandleDraw] stroke from non-drawer dropped")
			return nil
		}

		room.AppendStroke(stroke)
		r.gateway.BroadcastToRoomExcept(room, playerID, string(stroke.Type), relay)
		return nil
	})
}

// ChangeConfig relays a brush color/size change.
func (r *Registry) ChangeConfig(roomID, playerID string, relay any) error {
	return r.withMember(roomID, playerID, func(room *internal.Room, _ *internal.Player) error {
		if !canDraw(room, playerID) {
			return nil
		}
		r.gateway.BroadcastToRoomExcept(room, playerID, internal.EventChangeConfig, relay)
		return nil
	})
}

// ClearCanvas wipes the drawing log. During a round only the drawer may do it.
func (r *Registry) ClearCanvas(roomID, playerID string) error {
	return r.withMember(roomID, playerID, func(room *internal.Room, _ *internal.Player) error {
		if !canDraw(room, playerID) {
			return internal.ErrInvalidActor
		}

		room.ClearDrawing()
		log.Debug().Str("room", roomID).Str("player", playerID).Msg("[ClearCanvas] canvas cleared")
		r.gateway.BroadcastToRoomExcept(room, playerID, internal.EventClearCanvas, internal.RoomRef{Room: roomID})
		return nil
	})
}

// ActionMenu applies undo/redo/erase-all to the log and relays the event.
func (r *Registry) ActionMenu(roomID, playerID, action string, historyPointer int, relay any) error {
	return r.withMember(roomID, playerID, func(room *internal.Room, _ *internal.Player) error {
		if !canDraw(room, playerID) {
			return nil
		}

		switch strings.ToUpper(action) {
		case internal.ActionUndo, internal.ActionRedo:
			room.SetHistoryPointer(historyPointer)
		case internal.ActionEraseAll:
			room.ClearDrawing()
		}

		r.gateway.BroadcastToRoomExcept(room, playerID, internal.EventActionMenu, relay)
		return nil
	})
}

// MenuItemChange relays a toolbar selection.
func (r *Registry) MenuItemChange(roomID, playerID string, relay any) error {
	return r.withMember(roomID, playerID, func(room *internal.Room, _ *internal.Player) error {
		r.gateway.BroadcastToRoomExcept(room, playerID, internal.EventMenuItemChange, relay)
		return nil
	})
}
