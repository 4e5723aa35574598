package game

import (
	"github.com/scythe504/tabu-backend/internal"
)

// Broadcaster delivers server events to connections. Implementations must
// serialize msg before returning: the room keeps changing after the call.
type Broadcaster interface {
	// Subscribe adds the connection to the room's broadcast group.
	Subscribe(connID, roomID string)
	Unsubscribe(connID, roomID string)
	// DropRoom forgets the room's broadcast group entirely.
	DropRoom(roomID string)
	SendTo(connID string, msg any)
	SendToRoom(roomID string, msg any)
	SendToAll(msg any)
}

func (m *Manager) broadcastRoom(room *internal.Room) {
	m.hub.SendToRoom(room.Id, internal.Message[*internal.Room]{
		Type: internal.EventRoomUpdate,
		Data: room,
	})
}

func (m *Manager) broadcastRoomList() {
	m.hub.SendToAll(m.roomListMessage())
}

func (m *Manager) roomListMessage() internal.Message[[]internal.RoomSummary] {
	return internal.Message[[]internal.RoomSummary]{
		Type: internal.EventRoomListUpdate,
		Data: m.rooms.Summaries(),
	}
}

// sendLeaveDirective tells a client its room no longer holds a seat for it.
func (m *Manager) sendLeaveDirective(connID, roomID string) {
	m.hub.SendTo(connID, internal.Message[internal.RoomRefData]{
		Type: internal.EventLeaveRoom,
		Data: internal.RoomRefData{RoomId: roomID},
	})
}
