package game

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/scythe504/sketchroom/internal"
)

// PressureProbe reports whether the host is short on memory.
type PressureProbe func(ctx context.Context) bool

// MemoryPressureProbe flags pressure once used system memory reaches
// thresholdPercent.
func MemoryPressureProbe(thresholdPercent float64) PressureProbe {
	return func(ctx context.Context) bool {
		vm, err := mem.VirtualMemoryWithContext(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("[MemoryPressureProbe] unable to read memory stats")
			return false
		}
		return vm.UsedPercent >= thresholdPercent
	}
}

// SweepInactive destroys rooms idle for longer than the inactivity TTL, or the
// shorter pressure TTL while memory is tight. It returns how many were removed.
func (r *Registry) SweepInactive(now time.Time) int {
	ttl := r.settings.InactivityTTL
	if r.pressure != nil && r.pressure(r.ctx) {
		ttl = r.settings.PressureTTL
		log.Warn().Dur("ttl", ttl).Msg("[SweepInactive] memory pressure, using short ttl")
	}

	removed := 0
	for _, room := range r.snapshotRooms() {
		room.Mu.Lock()
		stale := !room.Destroyed && now.Sub(room.LastActivity) > ttl
		if stale {
			r.gateway.BroadcastToRoom(room, internal.EventError, internal.ErrorData{
				Message: "room closed after a period of inactivity",
			})
			r.destroyLocked(room, "inactive")
		}
		room.Mu.Unlock()

		if stale {
			r.forget(room)
			removed++
		}
	}

	if removed > 0 {
		log.Info().Int("removed", removed).Msg("[SweepInactive] inactive rooms cleaned up")
	}
	return removed
}

// RunSweeper sweeps on the configured interval until ctx is done.
func (r *Registry) RunSweeper(ctx context.Context) {
	ticks, stop := r.tickers.NewTicker(r.settings.SweepInterval)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticks:
			r.SweepInactive(r.now())
		}
	}
}
