package game

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/scythe504/tabu-backend/internal"
	"github.com/scythe504/tabu-backend/internal/utils"
)

type sentMessage struct {
	To   string // connection, room code or "*" for everyone
	Type string
	Data json.RawMessage
}

// fakeHub records every message as JSON at the moment it was sent.
type fakeHub struct {
	mu   sync.Mutex
	subs map[string]map[string]bool
	sent []sentMessage
}

func newFakeHub() *fakeHub {
	return &fakeHub{subs: make(map[string]map[string]bool)}
}

func (h *fakeHub) Subscribe(connID, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[roomID] == nil {
		h.subs[roomID] = make(map[string]bool)
	}
	h.subs[roomID][connID] = true
}

func (h *fakeHub) Unsubscribe(connID, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs[roomID], connID)
}

func (h *fakeHub) DropRoom(roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs, roomID)
}

func (h *fakeHub) SendTo(connID string, msg any)     { h.record(connID, msg) }
func (h *fakeHub) SendToRoom(roomID string, msg any) { h.record(roomID, msg) }
func (h *fakeHub) SendToAll(msg any)                 { h.record("*", msg) }

func (h *fakeHub) record(to string, msg any) {
	raw, err := json.Marshal(msg)
	if err != nil {
		panic(err)
	}
	var envelope internal.Message[json.RawMessage]
	if err := json.Unmarshal(raw, &envelope); err != nil {
		panic(err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.sent = append(h.sent, sentMessage{To: to, Type: envelope.Type, Data: envelope.Data})
}

func (h *fakeHub) subscribed(connID, roomID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.subs[roomID][connID]
}

// last returns the most recent message of the given type sent to target.
func (h *fakeHub) last(t *testing.T, to, msgType string) json.RawMessage {
	t.Helper()
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := len(h.sent) - 1; i >= 0; i-- {
		if h.sent[i].To == to && h.sent[i].Type == msgType {
			return h.sent[i].Data
		}
	}
	t.Fatalf("no %s message sent to %s", msgType, to)
	return nil
}

func (h *fakeHub) count(to, msgType string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, s := range h.sent {
		if s.To == to && s.Type == msgType {
			n++
		}
	}
	return n
}

type fakeStats struct {
	mu     sync.Mutex
	wins   map[string]int
	losses map[string]int
	fail   map[string]error
}

func newFakeStats() *fakeStats {
	return &fakeStats{
		wins:   make(map[string]int),
		losses: make(map[string]int),
		fail:   make(map[string]error),
	}
}

func (s *fakeStats) IncrementWins(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail[userID]; err != nil {
		return err
	}
	s.wins[userID]++
	return nil
}

func (s *fakeStats) IncrementLosses(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail[userID]; err != nil {
		return err
	}
	s.losses[userID]++
	return nil
}

var testWords = utils.WordBank{
	"genel": {
		{Word: "Elma", Taboo: []string{"meyve", "kırmızı"}},
		{Word: "Deniz", Taboo: []string{"su", "mavi"}},
		{Word: "Kitap", Taboo: []string{"okumak", "sayfa"}},
	},
}

// newTestManager returns a manager whose countdown never fires on its own and
// whose deck always deals its first card.
func newTestManager(t *testing.T, opts ...Option) (*Manager, *fakeHub) {
	t.Helper()
	hub := newFakeHub()
	base := []Option{WithTickInterval(time.Hour), WithWordBank(testWords)}
	m := NewManager(hub, append(base, opts...)...)
	m.intn = func(int) int { return 0 }
	t.Cleanup(func() { _ = m.Shutdown(context.Background()) })
	return m, hub
}

// seat describes a player to put in a fresh room.
type seat struct {
	conn string
	team internal.TeamID // empty leaves the player unassigned
}

// setupRoom creates a room hosted by the first seat and seats the rest,
// moving each onto its team. Account ids are "u-" + conn.
func setupRoom(t *testing.T, m *Manager, seats ...seat) string {
	t.Helper()
	require.NotEmpty(t, seats)

	host := seats[0]
	code, err := m.CreateRoom(host.conn, internal.CreateRoomData{
		RoomName: "Oda",
		Username: host.conn,
		UserId:   "u-" + host.conn,
	})
	require.NoError(t, err)

	for _, s := range seats[1:] {
		require.NoError(t, m.JoinRoom(s.conn, internal.JoinRoomData{
			RoomId:   code,
			Username: s.conn,
			UserId:   "u-" + s.conn,
		}))
	}
	for _, s := range seats {
		if s.team != "" {
			require.NoError(t, m.JoinTeam(s.conn, internal.JoinTeamData{RoomId: code, TeamId: s.team}))
		}
	}
	return code
}

func roomOf(t *testing.T, m *Manager, code string) *internal.Room {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.rooms.Lookup(code)
	require.True(t, ok, "room %s not found", code)
	return room
}

// fireTick delivers one tick from the room's current countdown.
func fireTick(t *testing.T, m *Manager, code string) {
	t.Helper()
	m.mu.Lock()
	room, ok := m.rooms.Lookup(code)
	require.True(t, ok)
	timer := room.Timer
	m.mu.Unlock()
	require.NotNil(t, timer, "room %s has no countdown", code)
	m.tick(code, timer)
}

func connIDs(players []*internal.Player) []string {
	ids := make([]string, 0, len(players))
	for _, p := range players {
		ids = append(ids, p.Id)
	}
	return ids
}
