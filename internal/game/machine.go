package game

import (
	"slices"

	"github.com/scythe504/tabu-backend/internal"
)

// EventKind names every event that can mutate a room.
type EventKind string

const (
	EventJoin           EventKind = "join"
	EventReconnect      EventKind = "reconnect"
	EventChangeCategory EventKind = "changeCategory"
	EventJoinTeam       EventKind = "joinTeam"
	EventChangeTeamName EventKind = "changeTeamName"
	EventLeave          EventKind = "leave"
	EventStartGame      EventKind = "startGame"
	EventPlayerAction   EventKind = "playerAction"
	EventTick           EventKind = "tick"
	EventResetGame      EventKind = "resetGame"
)

var allPhases = []internal.GamePhase{internal.PhaseWaiting, internal.PhasePlaying, internal.PhaseGameOver}

// transitions lists the phases in which each event is accepted. Phase changes
// happen in exactly three places: startGame (waiting -> playing), endGame
// (playing -> game-over) and resetGame (game-over -> waiting).
var transitions = map[EventKind][]internal.GamePhase{
	EventJoin:           {internal.PhaseWaiting},
	EventReconnect:      allPhases,
	EventChangeCategory: {internal.PhaseWaiting},
	EventJoinTeam:       allPhases,
	EventChangeTeamName: allPhases,
	EventLeave:          allPhases,
	EventStartGame:      {internal.PhaseWaiting},
	EventPlayerAction:   {internal.PhasePlaying},
	EventTick:           {internal.PhasePlaying},
	EventResetGame:      {internal.PhaseGameOver},
}

// CheckTransition reports whether an event of the given kind may be applied
// to a room in the given phase, returning the named rejection when it may not.
func CheckTransition(phase internal.GamePhase, kind EventKind) error {
	allowed, ok := transitions[kind]
	if !ok {
		return ErrUnknownAction
	}
	if slices.Contains(allowed, phase) {
		return nil
	}

	switch {
	case slices.Contains(allowed, internal.PhaseWaiting):
		return ErrGameAlreadyStarted
	case slices.Contains(allowed, internal.PhasePlaying):
		return ErrGameNotInProgress
	default:
		return ErrGameNotOver
	}
}
