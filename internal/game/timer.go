package game

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/scythe504/sketchroom/internal"
)

// TickerFactory hands out one-second tick sources. Tests swap in a manual one.
type TickerFactory interface {
	NewTicker(d time.Duration) (<-chan time.Time, func())
}

type systemTickers struct{}

func (systemTickers) NewTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// startPhaseTimer replaces the room's countdown with a new one of the given
// length. Caller holds room.Mu.
func (r *Registry) startPhaseTimer(room *internal.Room, duration time.Duration) {
	r.cancelPhaseTimer(room)

	seconds := int(duration / time.Second)
	ctx, cancel := context.WithCancel(r.ctx)
	timer := &internal.GameTimer{
		StartTime: r.now(),
		Duration:  duration,
		State:     room.State,
		Context:   ctx,
		Cancel:    cancel,
	}
	room.Timer = timer
	room.RoundTimeLeft = seconds
	room.PhaseDuration = seconds

	log.Debug().Str("room", room.Id).Str("state", string(room.State)).
		Msgf("[StartPhaseTimer] timer started for %v", duration)

	ticks, stop := r.tickers.NewTicker(time.Second)
	go func() {
		defer stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticks:
				if done := r.tick(room, timer); done {
					return
				}
			}
		}
	}()
}

// cancelPhaseTimer stops the room's countdown. Caller holds room.Mu.
func (r *Registry) cancelPhaseTimer(room *internal.Room) {
	if room.Timer == nil {
		return
	}
	room.Timer.Stop()
	room.Timer = nil
}

// tick advances a countdown by one second. It returns true once the timer is
// finished or stale, which ends its goroutine.
func (r *Registry) tick(room *internal.Room, timer *internal.GameTimer) bool {
	room.Mu.Lock()
	defer room.Mu.Unlock()

	if room.Destroyed || room.Timer != timer || timer.Context.Err() != nil {
		log.Debug().Str("room", room.Id).Msg("[tick] stale timer ignored")
		return true
	}

	room.RoundTimeLeft--
	if room.RoundTimeLeft < 0 {
		room.RoundTimeLeft = 0
	}
	r.gateway.BroadcastTimer(room)

	if room.State == internal.StateDrawing {
		r.revealHint(room)
	}

	if room.RoundTimeLeft > 0 {
		return false
	}

	r.cancelPhaseTimer(room)
	r.onPhaseExpired(room)
	return true
}

func (r *Registry) revealHint(room *internal.Room) {
	elapsed := room.PhaseDuration - room.RoundTimeLeft
	due := HintRevealsDue(room.CurrentWord, elapsed, room.PhaseDuration)
	if due == 0 || room.Hint == nil {
		return
	}

	RevealLetters(room.Hint, due)
	r.gateway.BroadcastToGuessers(room, internal.EventWordHint, internal.WordHintData{
		Hint: RenderHint(room.Hint),
	})
}
