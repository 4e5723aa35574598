package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scythe504/tabu-backend/internal"
)

func TestReconnectMovesEveryReference(t *testing.T) {
	m, hub := newTestManager(t)
	code := setupRoom(t, m, seat{"a1", internal.TeamA}, seat{"b1", internal.TeamB})
	require.NoError(t, m.StartGame("a1", internal.StartGameData{RoomId: code}))

	require.NoError(t, m.ReconnectPlayer("a1-new", internal.ReconnectPlayerData{RoomId: code, UserId: "u-a1"}))

	room := roomOf(t, m, code)
	assert.Equal(t, "a1-new", room.Host)
	assert.Equal(t, "a1-new", room.CurrentTurn)
	assert.Equal(t, []string{"a1-new", "b1"}, room.TurnOrder)
	assert.Equal(t, []string{"a1-new"}, connIDs(room.Teams.TeamA.Players))
	assert.False(t, hub.subscribed("a1", code))
	assert.True(t, hub.subscribed("a1-new", code))

	// the old handle no longer controls the seat
	assert.ErrorIs(t, m.PlayerAction("a1", internal.PlayerActionData{RoomId: code, Action: internal.ActionCorrect}), ErrNotYourTurn)
	require.NoError(t, m.PlayerAction("a1-new", internal.PlayerActionData{RoomId: code, Action: internal.ActionCorrect}))
	assert.Equal(t, 1, room.Teams.TeamA.Score)
}

func TestReconnectNonHost(t *testing.T) {
	m, _ := newTestManager(t)
	code := setupRoom(t, m, seat{"a1", internal.TeamA}, seat{"b1", internal.TeamB})

	require.NoError(t, m.ReconnectPlayer("b1-new", internal.ReconnectPlayerData{RoomId: code, UserId: "u-b1"}))

	room := roomOf(t, m, code)
	assert.Equal(t, "a1", room.Host)
	assert.Equal(t, []string{"b1-new"}, connIDs(room.Teams.TeamB.Players))
}

func TestReconnectWithoutSeat(t *testing.T) {
	m, hub := newTestManager(t)
	code := setupRoom(t, m, seat{"a1", ""})

	require.NoError(t, m.ReconnectPlayer("x", internal.ReconnectPlayerData{RoomId: "gone", UserId: "u-a1"}))
	var directive internal.RoomRefData
	require.NoError(t, json.Unmarshal(hub.last(t, "x", internal.EventLeaveRoom), &directive))
	assert.Equal(t, "gone", directive.RoomId)

	require.NoError(t, m.ReconnectPlayer("y", internal.ReconnectPlayerData{RoomId: code, UserId: "u-nobody"}))
	require.NoError(t, json.Unmarshal(hub.last(t, "y", internal.EventLeaveRoom), &directive))
	assert.Equal(t, code, directive.RoomId)
	assert.Equal(t, 1, roomOf(t, m, code).PlayerCount())
}

func TestReconnectOntoAnotherSeat(t *testing.T) {
	m, _ := newTestManager(t)
	code := setupRoom(t, m, seat{"a1", ""}, seat{"b1", ""})

	err := m.ReconnectPlayer("b1", internal.ReconnectPlayerData{RoomId: code, UserId: "u-a1"})
	assert.ErrorIs(t, err, ErrAlreadyInRoom)
	assert.Equal(t, "a1", roomOf(t, m, code).Host)
}

func TestReconnectSameConnection(t *testing.T) {
	m, hub := newTestManager(t)
	code := setupRoom(t, m, seat{"a1", ""})

	require.NoError(t, m.ReconnectPlayer("a1", internal.ReconnectPlayerData{RoomId: code, UserId: "u-a1"}))
	assert.True(t, hub.subscribed("a1", code))
	assert.Equal(t, "a1", roomOf(t, m, code).Host)
}
