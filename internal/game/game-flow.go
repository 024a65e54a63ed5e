package game

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/scythe504/sketchroom/internal"
)

// =============================================================================
// GAME FLOW - ROUND MANAGEMENT
// All unexported steps expect room.Mu to be held.
// =============================================================================

const archiveTimeout = 5 * time.Second

func (r *Registry) startWordSelection(room *internal.Room, drawer *internal.Player) {
	room.ResetRoundState()
	room.State = internal.StateWordSelection
	room.CurrentDrawer = drawer.Id
	room.RoundNumber++
	room.WordOptions = r.words.Choices(internal.WordOptionCount)
	drawer.TimesDrawn++

	r.startPhaseTimer(room, r.settings.WordSelectionTime)

	log.Info().Str("room", room.Id).Str("drawer", drawer.Id).Int("round", room.RoundNumber).
		Msg("[StartWordSelection] drawer is choosing")

	r.gateway.SendToPlayer(drawer.Id, internal.EventSelectWord, internal.SelectWordData{
		Words:    room.WordOptions,
		TimeLeft: room.RoundTimeLeft,
	})
	r.systemMessageExcept(room, drawer.Id, fmt.Sprintf("%s is choosing a word", drawer.Name))
}

// SelectWord locks in the drawer's pick and starts the drawing phase.
func (r *Registry) SelectWord(roomID, playerID, word string) error {
	return r.withMember(roomID, playerID, func(room *internal.Room, _ *internal.Player) error {
		if room.State != internal.StateWordSelection {
			return internal.ErrInvalidPhase
		}
		if room.CurrentDrawer != playerID {
			return internal.ErrInvalidActor
		}

		word = strings.ToLower(strings.TrimSpace(word))
		if !lo.Contains(room.WordOptions, word) {
			return internal.ErrInvalidWord
		}

		r.beginDrawing(room, word)
		return nil
	})
}

func (r *Registry) beginDrawing(room *internal.Room, word string) {
	room.State = internal.StateDrawing
	room.CurrentWord = word
	room.WordOptions = nil
	room.CorrectGuessers = make([]string, 0)
	room.Hint = internal.NewWordHint(word)
	room.ClearDrawing()

	r.startPhaseTimer(room, r.settings.RoundTime)

	log.Info().Str("room", room.Id).Str("drawer", room.CurrentDrawer).Msg("[StartDrawingPhase] drawing started")

	r.gateway.BroadcastToRoom(room, internal.EventClearCanvas, internal.RoomRef{Room: room.Id})
	r.gateway.SendToPlayer(room.CurrentDrawer, internal.EventStartDrawing, internal.StartDrawingData{Word: word})
	r.gateway.BroadcastToGuessers(room, internal.EventDrawingStarted, internal.DrawingStartedData{
		Drawer:     room.CurrentDrawer,
		WordLength: len([]rune(word)),
	})
	r.gateway.BroadcastToGuessers(room, internal.EventWordHint, internal.WordHintData{Hint: RenderHint(room.Hint)})
}

// endRound pays the drawer, reveals the word and starts the between-rounds pause.
func (r *Registry) endRound(room *internal.Room) {
	word := room.CurrentWord
	guessed := len(room.CorrectGuessers)

	if drawer := room.Drawer(); drawer != nil && word != "" {
		drawer.Score += DrawerScore(guessed)
	}

	room.State = internal.StateRoundEnd
	room.CurrentWord = ""
	room.WordOptions = nil
	room.Hint = nil

	r.startPhaseTimer(room, r.settings.RoundEndTime)

	log.Info().Str("room", room.Id).Int("guessed", guessed).Msg("[StartRevealingPhase] round ended")

	r.gateway.BroadcastToRoom(room, internal.EventRoundEnded, internal.RoundEndedData{
		Word:            word,
		CorrectGuessers: append([]string{}, room.CorrectGuessers...),
		NextRoundIn:     room.RoundTimeLeft,
	})
	r.gateway.BroadcastScores(room)
	if word != "" {
		r.systemMessage(room, fmt.Sprintf("The word was %s", word))
	}
}

func (r *Registry) advanceRound(room *internal.Room) {
	next, ok := room.NextDrawer()
	if !ok {
		r.endGame(room)
		return
	}
	r.startWordSelection(room, next)
}

func (r *Registry) endGame(room *internal.Room) {
	ranked := RankPlayers(room.Players)
	var winner *internal.PlayerSnapshot
	if len(ranked) > 0 {
		winner = &ranked[0]
	}

	result := internal.GameResult{
		RoomID:    room.Id,
		Winner:    winner,
		Players:   ranked,
		Rounds:    room.RoundNumber,
		StartedAt: room.GameStarted,
		EndedAt:   r.now(),
	}

	room.State = internal.StateGameEnd
	room.CurrentDrawer = ""
	room.ResetRoundState()

	r.startPhaseTimer(room, r.settings.GameEndTime)

	log.Info().Str("room", room.Id).Int("rounds", room.RoundNumber).Msg("[EndGame] game finished")

	r.gateway.BroadcastToRoom(room, internal.EventGameEnded, internal.GameEndedData{
		Winner:  winner,
		Players: ranked,
	})
	r.archiveResult(result)
}

func (r *Registry) archiveResult(result internal.GameResult) {
	if r.archive == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
		defer cancel()
		if err := r.archive.SaveGame(ctx, result); err != nil {
			log.Error().Err(err).Str("room", result.RoomID).Msg("[EndGame] failed to archive game")
		}
	}()
}

// onPhaseExpired runs when a countdown reaches zero.
func (r *Registry) onPhaseExpired(room *internal.Room) {
	switch room.State {
	case internal.StateWordSelection:
		if len(room.WordOptions) == 0 {
			room.WordOptions = r.words.Choices(internal.WordOptionCount)
		}
		word := lo.Sample(room.WordOptions)
		log.Debug().Str("room", room.Id).Msg("[StartWordSelection] selection timed out, picked for drawer")
		r.beginDrawing(room, word)
	case internal.StateDrawing:
		r.endRound(room)
	case internal.StateRoundEnd:
		r.advanceRound(room)
	case internal.StateGameEnd:
		r.returnToLobby(room)
	}
}
