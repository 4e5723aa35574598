package game

import (
	"slices"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/scythe504/tabu-backend/internal"
	"github.com/scythe504/tabu-backend/internal/utils"
)

// maxCodeAttempts bounds how often a colliding room code is redrawn.
const maxCodeAttempts = 16

// =============================================================================
// ROOM REGISTRY
// =============================================================================

// Registry owns every live room, keyed by room code. It is not safe for
// concurrent use; the Manager serializes access.
type Registry struct {
	rooms   map[string]*internal.Room
	newCode func() string
}

func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]*internal.Room),
		newCode: func() string {
			return utils.GenerateID(internal.RoomCodeLength)
		},
	}
}

// Create allocates a fresh code and registers a waiting room with creator as
// host in the unassigned roster.
func (r *Registry) Create(name, password string, creator *internal.Player, teamAName, teamBName string) (*internal.Room, error) {
	code := ""
	for range maxCodeAttempts {
		candidate := r.newCode()
		if _, taken := r.rooms[candidate]; !taken {
			code = candidate
			break
		}
		log.Debugf("[Registry.Create] code %s already taken, retrying", candidate)
	}
	if code == "" {
		return nil, ErrRoomCodeExhausted
	}

	room := internal.NewRoom(code, name, password, creator,
		strings.TrimSpace(teamAName), strings.TrimSpace(teamBName))
	r.rooms[code] = room
	return room, nil
}

func (r *Registry) Lookup(code string) (*internal.Room, bool) {
	room, ok := r.rooms[code]
	return room, ok
}

func (r *Registry) Remove(code string) {
	delete(r.rooms, code)
}

func (r *Registry) Len() int {
	return len(r.rooms)
}

// Rooms returns the live rooms oldest first.
func (r *Registry) Rooms() []*internal.Room {
	rooms := make([]*internal.Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		rooms = append(rooms, room)
	}
	slices.SortFunc(rooms, func(a, b *internal.Room) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.Id, b.Id)
	})
	return rooms
}

// Summaries lists every live room, oldest first, public or private.
func (r *Registry) Summaries() []internal.RoomSummary {
	rooms := r.Rooms()
	summaries := make([]internal.RoomSummary, 0, len(rooms))
	for _, room := range rooms {
		summaries = append(summaries, room.Summary())
	}
	return summaries
}
