package game

import (
	"slices"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/scythe504/tabu-backend/internal"
)

// =============================================================================
// LOBBY
// =============================================================================

// CreateRoom registers a new waiting room hosted by the calling connection
// and returns its code.
func (m *Manager) CreateRoom(connID string, data internal.CreateRoomData) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := strings.TrimSpace(data.RoomName)
	if name == "" {
		return "", ErrInvalidName
	}

	creator := &internal.Player{
		Id:       connID,
		Username: displayName(data.Username),
		UserId:   data.UserId,
	}
	room, err := m.rooms.Create(name, data.Password, creator, data.TeamAName, data.TeamBName)
	if err != nil {
		return "", err
	}
	room.Time = m.roundTime

	m.hub.Subscribe(connID, room.Id)
	roomLog(room, connID).Infof("[CreateRoom] %s created %q (private=%v)", creator.Username, room.Name, room.IsPrivate)

	m.broadcastRoom(room)
	m.broadcastRoomList()
	return room.Id, nil
}

// JoinRoom seats the connection in the room's unassigned roster. An account
// that already holds a seat gets that seat back instead of a second one.
func (m *Manager) JoinRoom(connID string, data internal.JoinRoomData) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	room, err := m.lookup(data.RoomId)
	if err != nil {
		return err
	}
	if room.FindByConn(connID) != nil {
		m.hub.Subscribe(connID, room.Id)
		m.broadcastRoom(room)
		return nil
	}

	if seat := room.FindByAccount(data.UserId); seat != nil {
		if room.IsPrivate && data.Password != room.Password {
			return ErrWrongPassword
		}
		m.rebind(room, seat, connID)
		roomLog(room, connID).Infof("[JoinRoom] %s rejoined their seat", seat.Username)
		m.broadcastRoom(room)
		return nil
	}

	if err := CheckTransition(room.Phase, EventJoin); err != nil {
		return err
	}
	if room.IsPrivate && data.Password != room.Password {
		roomLog(room, connID).Info("[JoinRoom] rejected: wrong password")
		return ErrWrongPassword
	}

	player := &internal.Player{
		Id:       connID,
		Username: displayName(data.Username),
		UserId:   data.UserId,
	}
	room.UnassignedPlayers = append(room.UnassignedPlayers, player)
	m.hub.Subscribe(connID, room.Id)

	roomLog(room, connID).Infof("[JoinRoom] %s joined, players=%d", player.Username, room.PlayerCount())
	m.broadcastRoom(room)
	m.broadcastRoomList()
	return nil
}

// JoinTeam moves the caller's seat to the end of the chosen team. Callers
// that hold no seat are ignored.
func (m *Manager) JoinTeam(connID string, data internal.JoinTeamData) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	room, err := m.lookup(data.RoomId)
	if err != nil {
		return err
	}
	if err := CheckTransition(room.Phase, EventJoinTeam); err != nil {
		return err
	}
	if !data.TeamId.Valid() {
		return ErrUnknownTeam
	}

	player := room.RemoveByConn(connID)
	if player == nil {
		return nil
	}
	team := room.Team(data.TeamId)
	team.Players = append(team.Players, player)

	roomLog(room, connID).Debugf("[JoinTeam] %s -> %s", player.Username, data.TeamId)
	m.broadcastRoom(room)
	return nil
}

func (m *Manager) ChangeCategory(connID string, data internal.ChangeCategoryData) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	room, err := m.lookup(data.RoomId)
	if err != nil {
		return err
	}
	if err := CheckTransition(room.Phase, EventChangeCategory); err != nil {
		return err
	}
	if err := requireHost(room, connID); err != nil {
		return err
	}
	category := strings.TrimSpace(data.Category)
	if category == "" {
		return ErrInvalidName
	}

	room.Category = category
	m.broadcastRoom(room)
	return nil
}

func (m *Manager) ChangeTeamName(connID string, data internal.ChangeTeamNameData) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	room, err := m.lookup(data.RoomId)
	if err != nil {
		return err
	}
	if err := CheckTransition(room.Phase, EventChangeTeamName); err != nil {
		return err
	}
	if err := requireHost(room, connID); err != nil {
		return err
	}
	if !data.TeamId.Valid() {
		return ErrUnknownTeam
	}
	name := strings.TrimSpace(data.NewName)
	if name == "" {
		return ErrInvalidName
	}

	room.Team(data.TeamId).Name = name
	m.broadcastRoom(room)
	return nil
}

// LeaveRoom gives up the caller's seat. Leaving a room that no longer exists
// is not an error.
func (m *Manager) LeaveRoom(connID string, data internal.RoomRefData) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	room, ok := m.rooms.Lookup(data.RoomId)
	if !ok {
		return nil
	}
	m.hub.Unsubscribe(connID, room.Id)
	m.removePlayer(room, connID)
	return nil
}

// Disconnect removes the connection from every room seating it.
func (m *Manager) Disconnect(connID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, room := range m.rooms.Rooms() {
		if room.FindByConn(connID) == nil {
			continue
		}
		m.hub.Unsubscribe(connID, room.Id)
		m.removePlayer(room, connID)
	}
}

// ResetGame takes a finished room back to the waiting phase with the same
// rosters.
func (m *Manager) ResetGame(connID string, data internal.RoomRefData) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	room, err := m.lookup(data.RoomId)
	if err != nil {
		return err
	}
	if err := CheckTransition(room.Phase, EventResetGame); err != nil {
		return err
	}
	if err := requireHost(room, connID); err != nil {
		return err
	}

	stopCountdown(room)
	room.Phase = internal.PhaseWaiting
	room.Teams.TeamA.Score = 0
	room.Teams.TeamB.Score = 0
	room.Time = m.roundTime
	room.CurrentCard = nil
	room.CurrentTurn = ""
	room.TurnOrder = make([]string, 0)
	room.SetDeck(make([]internal.Card, 0))

	roomLog(room, connID).Info("[ResetGame] room back to waiting")
	m.broadcastRoom(room)
	return nil
}

// removePlayer drops the connection's seat and repairs the room around the
// hole: an empty room is deleted, a team emptied mid-game ends the game, a
// vacated turn passes to whoever now holds that slot and a vacated host seat
// goes to the first remaining player.
func (m *Manager) removePlayer(room *internal.Room, connID string) {
	turnIdx := slices.Index(room.TurnOrder, connID)
	heldTurn := room.Phase == internal.PhasePlaying && room.CurrentTurn == connID

	player := room.RemoveByConn(connID)
	if player == nil {
		return
	}
	if turnIdx >= 0 {
		room.TurnOrder = slices.Delete(room.TurnOrder, turnIdx, turnIdx+1)
	}
	entry := roomLog(room, connID)
	entry.Infof("[removePlayer] %s left, players=%d", player.Username, room.PlayerCount())

	if room.IsEmpty() {
		stopCountdown(room)
		m.rooms.Remove(room.Id)
		m.hub.DropRoom(room.Id)
		entry.Info("[removePlayer] room empty, deleted")
		m.broadcastRoomList()
		return
	}

	if room.Phase == internal.PhasePlaying {
		switch {
		case len(room.Teams.TeamA.Players) == 0 || len(room.Teams.TeamB.Players) == 0:
			m.endGame(room, "a team has no players left")
		case heldTurn:
			if len(room.TurnOrder) == 0 {
				room.TurnOrder = room.BuildTurnOrder()
				turnIdx = 0
			}
			turnIdx = max(turnIdx, 0)
			room.CurrentTurn = room.TurnOrder[turnIdx%len(room.TurnOrder)]
		}
	}

	if room.Host == connID {
		room.Host = room.AllPlayers()[0].Id
		log.WithField("room", room.Id).Infof("[removePlayer] host passed to %s", room.Host)
	}

	m.broadcastRoom(room)
	m.broadcastRoomList()
}
