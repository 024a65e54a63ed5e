package game

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/scythe504/sketchroom/internal"
)

const chatTimeLayout = "15:04"

// SendMessage handles a chat line. During drawing it doubles as a guess: a
// correct guess scores and is announced instead of relayed.
func (r *Registry) SendMessage(roomID, playerID string, msg internal.ChatMessage) error {
	return r.withMember(roomID, playerID, func(room *internal.Room, sender *internal.Player) error {
		text := strings.TrimSpace(msg.Text)
		if text == "" {
			return nil
		}

		if r.isCorrectGuess(room, sender, text) {
			r.scoreGuess(room, sender)
			return nil
		}

		chat := internal.ChatMessage{
			Sender: sender.Name,
			Text:   text,
			Time:   msg.Time,
		}
		if chat.Time == "" {
			chat.Time = r.now().Format(chatTimeLayout)
		}
		room.AppendChat(chat)
		r.gateway.BroadcastToRoom(room, internal.EventReceiveMessage, chat)
		return nil
	})
}

func (r *Registry) isCorrectGuess(room *internal.Room, sender *internal.Player, text string) bool {
	if room.State != internal.StateDrawing || room.CurrentWord == "" {
		return false
	}
	if sender.Id == room.CurrentDrawer || room.HasGuessed(sender.Id) {
		return false
	}
	return strings.EqualFold(text, room.CurrentWord)
}

func (r *Registry) scoreGuess(room *internal.Room, guesser *internal.Player) {
	position := len(room.CorrectGuessers)
	points := GuesserScore(room.RoundTimeLeft, position)

	guesser.Score += points
	guesser.CorrectGuesses++
	room.CorrectGuessers = append(room.CorrectGuessers, guesser.Id)

	log.Info().Str("room", room.Id).Str("player", guesser.Id).Int("position", position).Int("points", points).
		Msg("[HandleGuess] correct guess")

	r.systemMessage(room, fmt.Sprintf("%s guessed the word!", guesser.Name))
	r.gateway.BroadcastScores(room)

	if room.HasEveryoneGuessed() {
		log.Info().Str("room", room.Id).Msg("[HandleGuess] everyone guessed, ending round early")
		r.endRound(room)
	}
}

func (r *Registry) systemMessage(room *internal.Room, text string) {
	msg := r.newSystemMessage(text)
	room.AppendChat(msg)
	r.gateway.BroadcastToRoom(room, internal.EventReceiveMessage, msg)
}

// systemMessageExcept keeps the note out of one player's feed and out of history.
func (r *Registry) systemMessageExcept(room *internal.Room, exceptID, text string) {
	r.gateway.BroadcastToRoomExcept(room, exceptID, internal.EventReceiveMessage, r.newSystemMessage(text))
}

func (r *Registry) newSystemMessage(text string) internal.ChatMessage {
	return internal.ChatMessage{
		Sender: "System",
		Text:   text,
		Time:   r.now().Format(chatTimeLayout),
		System: true,
	}
}
