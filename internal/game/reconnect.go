package game

import (
	"slices"

	"github.com/scythe504/tabu-backend/internal"
)

// ReconnectPlayer binds the account's existing seat to the calling
// connection. When the room or the seat is gone the client is told to leave.
func (m *Manager) ReconnectPlayer(connID string, data internal.ReconnectPlayerData) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	room, ok := m.rooms.Lookup(data.RoomId)
	if !ok {
		m.sendLeaveDirective(connID, data.RoomId)
		return nil
	}
	if err := CheckTransition(room.Phase, EventReconnect); err != nil {
		return err
	}

	seat := room.FindByAccount(data.UserId)
	if seat == nil {
		roomLog(room, connID).Infof("[ReconnectPlayer] no seat for account %s", data.UserId)
		m.sendLeaveDirective(connID, room.Id)
		return nil
	}
	if other := room.FindByConn(connID); other != nil && other != seat {
		return ErrAlreadyInRoom
	}

	m.rebind(room, seat, connID)
	roomLog(room, connID).Infof("[ReconnectPlayer] %s is back", seat.Username)
	m.broadcastRoom(room)
	return nil
}

// rebind points the seat and every reference to its old connection (host,
// current turn, turn order) at connID.
func (m *Manager) rebind(room *internal.Room, seat *internal.Player, connID string) {
	old := seat.Id
	if old != connID {
		if room.Host == old {
			room.Host = connID
		}
		if room.CurrentTurn == old {
			room.CurrentTurn = connID
		}
		if idx := slices.Index(room.TurnOrder, old); idx >= 0 {
			room.TurnOrder[idx] = connID
		}
		seat.Id = connID
		m.hub.Unsubscribe(old, room.Id)
	}
	m.hub.Subscribe(connID, room.Id)
}
