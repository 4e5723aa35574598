package game

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/scythe504/tabu-backend/internal"
)

// =============================================================================
// TIMER MANAGEMENT
// =============================================================================

// startCountdown replaces the room's countdown with a fresh one calling onTick
// every interval until cancelled. Callers hold the manager lock.
func startCountdown(room *internal.Room, interval time.Duration, onTick func(*internal.GameTimer)) {
	stopCountdown(room)

	ctx, cancel := context.WithCancel(context.Background())
	timer := &internal.GameTimer{
		StartTime: time.Now(),
		Interval:  interval,
		Context:   ctx,
		Cancel:    cancel,
	}
	room.Timer = timer

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				onTick(timer)
			case <-ctx.Done():
				log.Debugf("[startCountdown] room=%s: countdown stopped after %v",
					room.Id, time.Since(timer.StartTime).Round(time.Second))
				return
			}
		}
	}()
}

// stopCountdown cancels the running countdown, if any, and reports whether
// one was running.
func stopCountdown(room *internal.Room) bool {
	if room.Timer == nil {
		return false
	}
	room.Timer.Cancel()
	room.Timer = nil
	return true
}

// tick advances the countdown of the room owning timer by one second. Ticks
// from a superseded or stopped countdown are dropped.
func (m *Manager) tick(code string, timer *internal.GameTimer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	room, ok := m.rooms.Lookup(code)
	if !ok || room.Timer != timer {
		return
	}
	if err := CheckTransition(room.Phase, EventTick); err != nil {
		return
	}

	room.Time--
	if room.Time <= 0 {
		room.Time = 0
		m.endGame(room, "time is up")
	}
	m.broadcastRoom(room)
}
