package game

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/scythe504/tabu-backend/internal"
	"github.com/scythe504/tabu-backend/internal/utils"
)

const anonymousName = "Anonim"

// Manager applies client events and timer ticks to the room registry. Every
// entry point takes the same lock, so rooms only ever see one mutation at a
// time and every broadcast reflects a consistent state.
type Manager struct {
	mu    sync.Mutex
	rooms *Registry
	hub   Broadcaster

	words        utils.WordBank
	stats        *StatsReconciler
	roundTime    int
	tickInterval time.Duration
	intn         func(n int) int

	// pending tracks stats reconciliations still talking to the store.
	pending sync.WaitGroup
}

type Option func(*Manager)

// WithWordBank sets the server-side cards used when a client sends none.
func WithWordBank(words utils.WordBank) Option {
	return func(m *Manager) { m.words = words }
}

// WithStatsStore enables win/loss bookkeeping at the end of every game.
func WithStatsStore(store StatsStore) Option {
	return func(m *Manager) {
		if store != nil {
			m.stats = NewStatsReconciler(store)
		}
	}
}

func WithRoundTime(seconds int) Option {
	return func(m *Manager) {
		if seconds > 0 {
			m.roundTime = seconds
		}
	}
}

func WithTickInterval(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.tickInterval = d
		}
	}
}

func NewManager(hub Broadcaster, opts ...Option) *Manager {
	m := &Manager{
		rooms:        NewRegistry(),
		hub:          hub,
		words:        utils.WordBank{},
		roundTime:    internal.DefaultRoundTime,
		tickInterval: internal.TickInterval,
		intn:         rand.IntN,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Summaries lists every live room for the lobby.
func (m *Manager) Summaries() []internal.RoomSummary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rooms.Summaries()
}

func (m *Manager) HasRoom(code string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.rooms.Lookup(code)
	return ok
}

// SendRoomList pushes the current room list to a single connection.
func (m *Manager) SendRoomList(connID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hub.SendTo(connID, m.roomListMessage())
}

// Wait blocks until every stats reconciliation started so far has finished.
func (m *Manager) Wait() {
	m.pending.Wait()
}

// Shutdown stops every countdown and waits for outstanding stats writes.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	for _, room := range m.rooms.Rooms() {
		stopCountdown(room)
	}
	m.mu.Unlock()

	done := make(chan struct{})
	go func() {
		m.pending.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info("[Shutdown] all stats reconciliations finished")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) lookup(code string) (*internal.Room, error) {
	room, ok := m.rooms.Lookup(code)
	if !ok {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

func requireHost(room *internal.Room, connID string) error {
	if room.Host != connID {
		return ErrNotHost
	}
	return nil
}

func displayName(name string) string {
	if name = strings.TrimSpace(name); name == "" {
		return anonymousName
	}
	return name
}

func roomLog(room *internal.Room, connID string) *log.Entry {
	return log.WithFields(log.Fields{"room": room.Id, "conn": connID})
}
