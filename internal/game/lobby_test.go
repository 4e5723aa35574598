package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scythe504/tabu-backend/internal"
)

func TestCreateRoom(t *testing.T) {
	m, hub := newTestManager(t)

	code, err := m.CreateRoom("c1", internal.CreateRoomData{RoomName: "  Oda  ", Username: "Ann", UserId: "u1", Password: "gizli"})
	require.NoError(t, err)

	room := roomOf(t, m, code)
	assert.Equal(t, "Oda", room.Name)
	assert.True(t, room.IsPrivate)
	assert.Equal(t, "c1", room.Host)
	assert.Equal(t, []string{"c1"}, connIDs(room.UnassignedPlayers))
	assert.True(t, hub.subscribed("c1", code))

	var update map[string]any
	require.NoError(t, json.Unmarshal(hub.last(t, code, internal.EventRoomUpdate), &update))
	assert.NotContains(t, update, "password")
	assert.NotContains(t, update, "deck")
	assert.Equal(t, "waiting", update["gameState"])

	var list []internal.RoomSummary
	require.NoError(t, json.Unmarshal(hub.last(t, "*", internal.EventRoomListUpdate), &list))
	assert.Equal(t, []internal.RoomSummary{{Id: code, Name: "Oda", PlayerCount: 1, IsPrivate: true}}, list)
}

func TestCreateRoomRequiresName(t *testing.T) {
	m, _ := newTestManager(t)
	_, err := m.CreateRoom("c1", internal.CreateRoomData{RoomName: "  "})
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestJoinRoom(t *testing.T) {
	m, hub := newTestManager(t)
	code, err := m.CreateRoom("c1", internal.CreateRoomData{RoomName: "Oda", Username: "Ann", UserId: "u1", Password: "gizli"})
	require.NoError(t, err)

	t.Run("unknown room", func(t *testing.T) {
		err := m.JoinRoom("c2", internal.JoinRoomData{RoomId: "nope", UserId: "u2"})
		assert.ErrorIs(t, err, ErrRoomNotFound)
	})

	t.Run("wrong password", func(t *testing.T) {
		err := m.JoinRoom("c2", internal.JoinRoomData{RoomId: code, UserId: "u2", Password: "yanlis"})
		assert.ErrorIs(t, err, ErrWrongPassword)
		assert.Equal(t, 1, roomOf(t, m, code).PlayerCount())
	})

	t.Run("right password", func(t *testing.T) {
		err := m.JoinRoom("c2", internal.JoinRoomData{RoomId: code, Username: "", UserId: "u2", Password: "gizli"})
		require.NoError(t, err)

		room := roomOf(t, m, code)
		assert.Equal(t, []string{"c1", "c2"}, connIDs(room.UnassignedPlayers))
		assert.Equal(t, anonymousName, room.UnassignedPlayers[1].Username)
		assert.True(t, hub.subscribed("c2", code))
	})

	t.Run("same connection twice", func(t *testing.T) {
		require.NoError(t, m.JoinRoom("c2", internal.JoinRoomData{RoomId: code, UserId: "u2", Password: "gizli"}))
		assert.Equal(t, 2, roomOf(t, m, code).PlayerCount())
	})

	t.Run("same account on a new connection", func(t *testing.T) {
		require.NoError(t, m.JoinRoom("c2b", internal.JoinRoomData{RoomId: code, UserId: "u2", Password: "gizli"}))

		room := roomOf(t, m, code)
		assert.Equal(t, []string{"c1", "c2b"}, connIDs(room.UnassignedPlayers))
		assert.False(t, hub.subscribed("c2", code))
		assert.True(t, hub.subscribed("c2b", code))
	})
}

func TestJoinRoomAfterStart(t *testing.T) {
	m, _ := newTestManager(t)
	code := setupRoom(t, m, seat{"c1", internal.TeamA}, seat{"c2", internal.TeamB})
	require.NoError(t, m.StartGame("c1", internal.StartGameData{RoomId: code}))

	err := m.JoinRoom("c3", internal.JoinRoomData{RoomId: code, UserId: "u3"})
	assert.ErrorIs(t, err, ErrGameAlreadyStarted)
}

func TestJoinTeamKeepsSeatsExclusive(t *testing.T) {
	m, _ := newTestManager(t)
	code := setupRoom(t, m, seat{"c1", ""}, seat{"c2", ""})

	require.NoError(t, m.JoinTeam("c1", internal.JoinTeamData{RoomId: code, TeamId: internal.TeamA}))
	require.NoError(t, m.JoinTeam("c1", internal.JoinTeamData{RoomId: code, TeamId: internal.TeamB}))

	room := roomOf(t, m, code)
	assert.Empty(t, room.Teams.TeamA.Players)
	assert.Equal(t, []string{"c1"}, connIDs(room.Teams.TeamB.Players))
	assert.Equal(t, []string{"c2"}, connIDs(room.UnassignedPlayers))

	err := m.JoinTeam("c2", internal.JoinTeamData{RoomId: code, TeamId: "teamC"})
	assert.ErrorIs(t, err, ErrUnknownTeam)
	assert.Equal(t, []string{"c2"}, connIDs(room.UnassignedPlayers), "an invalid team must not cost the seat")

	require.NoError(t, m.JoinTeam("stranger", internal.JoinTeamData{RoomId: code, TeamId: internal.TeamA}))
	assert.Equal(t, 2, room.PlayerCount())
}

func TestHostOnlySettings(t *testing.T) {
	m, _ := newTestManager(t)
	code := setupRoom(t, m, seat{"c1", ""}, seat{"c2", ""})

	assert.ErrorIs(t, m.ChangeCategory("c2", internal.ChangeCategoryData{RoomId: code, Category: "spor"}), ErrNotHost)
	require.NoError(t, m.ChangeCategory("c1", internal.ChangeCategoryData{RoomId: code, Category: "spor"}))
	assert.Equal(t, "spor", roomOf(t, m, code).Category)

	rename := internal.ChangeTeamNameData{RoomId: code, TeamId: internal.TeamB, NewName: "Kartallar"}
	assert.ErrorIs(t, m.ChangeTeamName("c2", rename), ErrNotHost)
	require.NoError(t, m.ChangeTeamName("c1", rename))
	assert.Equal(t, "Kartallar", roomOf(t, m, code).Teams.TeamB.Name)

	assert.ErrorIs(t, m.ChangeTeamName("c1", internal.ChangeTeamNameData{RoomId: code, TeamId: internal.TeamA, NewName: " "}), ErrInvalidName)
	assert.ErrorIs(t, m.ChangeTeamName("c1", internal.ChangeTeamNameData{RoomId: code, TeamId: "x", NewName: "y"}), ErrUnknownTeam)
}

func TestLeaveRoomPromotesHost(t *testing.T) {
	m, hub := newTestManager(t)
	code := setupRoom(t, m, seat{"c1", ""}, seat{"c2", ""}, seat{"c3", internal.TeamB})

	require.NoError(t, m.LeaveRoom("c1", internal.RoomRefData{RoomId: code}))

	room := roomOf(t, m, code)
	assert.Equal(t, "c3", room.Host, "team B is searched before the unassigned roster")
	assert.Nil(t, room.FindByConn("c1"))
	assert.False(t, hub.subscribed("c1", code))
}

func TestLastPlayerLeavingDeletesRoom(t *testing.T) {
	m, hub := newTestManager(t)
	code := setupRoom(t, m, seat{"c1", internal.TeamA}, seat{"c2", internal.TeamB})
	require.NoError(t, m.StartGame("c1", internal.StartGameData{RoomId: code}))
	timer := roomOf(t, m, code).Timer

	m.Disconnect("c1")
	m.Disconnect("c2")

	assert.False(t, m.HasRoom(code))
	assert.Empty(t, m.Summaries())
	assert.Error(t, timer.Context.Err(), "countdown must stop with the room")

	var list []internal.RoomSummary
	require.NoError(t, json.Unmarshal(hub.last(t, "*", internal.EventRoomListUpdate), &list))
	assert.Empty(t, list)
}

func TestLeaveUnknownRoomIsIgnored(t *testing.T) {
	m, _ := newTestManager(t)
	assert.NoError(t, m.LeaveRoom("c1", internal.RoomRefData{RoomId: "nope"}))
}

func TestDisconnectLeavesEveryRoom(t *testing.T) {
	m, _ := newTestManager(t)
	first := setupRoom(t, m, seat{"c1", ""}, seat{"c2", ""})
	second := setupRoom(t, m, seat{"c3", ""}, seat{"c2", ""})

	m.Disconnect("c2")

	assert.Nil(t, roomOf(t, m, first).FindByConn("c2"))
	assert.Nil(t, roomOf(t, m, second).FindByConn("c2"))
}

func TestResetGame(t *testing.T) {
	m, _ := newTestManager(t)
	code := setupRoom(t, m, seat{"c1", internal.TeamA}, seat{"c2", internal.TeamB})

	assert.ErrorIs(t, m.ResetGame("c1", internal.RoomRefData{RoomId: code}), ErrGameNotOver)

	require.NoError(t, m.StartGame("c1", internal.StartGameData{RoomId: code}))
	require.NoError(t, m.PlayerAction("c1", internal.PlayerActionData{RoomId: code, Action: internal.ActionCorrect}))
	room := roomOf(t, m, code)
	room.Time = 1
	fireTick(t, m, code)
	require.Equal(t, internal.PhaseGameOver, room.Phase)

	assert.ErrorIs(t, m.ResetGame("c2", internal.RoomRefData{RoomId: code}), ErrNotHost)
	require.NoError(t, m.ResetGame("c1", internal.RoomRefData{RoomId: code}))

	assert.Equal(t, internal.PhaseWaiting, room.Phase)
	assert.Zero(t, room.Teams.TeamA.Score)
	assert.Zero(t, room.Teams.TeamB.Score)
	assert.Equal(t, internal.DefaultRoundTime, room.Time)
	assert.Nil(t, room.CurrentCard)
	assert.Empty(t, room.CurrentTurn)
	assert.Empty(t, room.TurnOrder)
	assert.Zero(t, room.DeckSize)
	assert.Equal(t, []string{"c1"}, connIDs(room.Teams.TeamA.Players), "rosters survive a reset")
}

func TestCreateRoomUsesConfiguredRoundTime(t *testing.T) {
	m, _ := newTestManager(t, WithRoundTime(90))
	code := setupRoom(t, m, seat{conn: "host"})
	assert.Equal(t, 90, roomOf(t, m, code).Time)
}
