package game

import (
	"slices"

	"github.com/scythe504/tabu-backend/internal"
)

// =============================================================================
// GAME FLOW
// =============================================================================

// StartGame deals the category's cards and starts the countdown. Cards sent
// by the client for the room's category take precedence over the server's.
func (m *Manager) StartGame(connID string, data internal.StartGameData) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	room, err := m.lookup(data.RoomId)
	if err != nil {
		return err
	}
	if err := CheckTransition(room.Phase, EventStartGame); err != nil {
		return err
	}
	if err := requireHost(room, connID); err != nil {
		return err
	}
	if len(room.Teams.TeamA.Players) == 0 || len(room.Teams.TeamB.Players) == 0 {
		return ErrMissingTeamMembers
	}

	deck := newDeck(data.Words[room.Category])
	if len(deck) == 0 {
		deck = newDeck(m.words.Cards(room.Category))
	}
	card, rest := DrawNextCard(deck, m.intn)
	if card == nil {
		return ErrEmptyDeck
	}

	room.Phase = internal.PhasePlaying
	room.Time = m.roundTime
	room.TurnOrder = room.BuildTurnOrder()
	room.CurrentTurn = room.TurnOrder[0]
	room.CurrentCard = card
	room.SetDeck(rest)

	code := room.Id
	startCountdown(room, m.tickInterval, func(t *internal.GameTimer) { m.tick(code, t) })

	roomLog(room, connID).Infof("[StartGame] category=%s cards=%d turnOrder=%v",
		room.Category, len(deck), room.TurnOrder)

	m.hub.SendToRoom(room.Id, internal.Message[*internal.Room]{
		Type: internal.EventGameStart,
		Data: room,
	})
	m.broadcastRoom(room)
	return nil
}

// PlayerAction scores the current card for the describer's team, deals the
// next one and passes the turn on. An exhausted deck ends the game.
func (m *Manager) PlayerAction(connID string, data internal.PlayerActionData) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	room, err := m.lookup(data.RoomId)
	if err != nil {
		return err
	}
	if err := CheckTransition(room.Phase, EventPlayerAction); err != nil {
		return err
	}
	if !data.Action.Valid() {
		return ErrUnknownAction
	}
	if room.CurrentTurn != connID {
		return ErrNotYourTurn
	}

	if teamID, ok := room.TeamOf(connID); ok {
		team := room.Team(teamID)
		switch data.Action {
		case internal.ActionCorrect:
			team.Score++
		case internal.ActionTaboo:
			team.Score--
		}
	}

	card, rest := DrawNextCard(room.Deck, m.intn)
	room.SetDeck(rest)
	if card == nil {
		m.endGame(room, "deck exhausted")
		m.broadcastRoom(room)
		return nil
	}
	room.CurrentCard = card

	idx := slices.Index(room.TurnOrder, connID)
	room.CurrentTurn = room.TurnOrder[(idx+1)%len(room.TurnOrder)]

	roomLog(room, connID).Debugf("[PlayerAction] %s, score A=%d B=%d, next=%s",
		data.Action, room.Teams.TeamA.Score, room.Teams.TeamB.Score, room.CurrentTurn)
	m.broadcastRoom(room)
	return nil
}

// endGame is the only way out of the playing phase. It stops the countdown
// and hands the final scores to the stats store.
func (m *Manager) endGame(room *internal.Room, reason string) {
	if room.Phase != internal.PhasePlaying {
		return
	}

	stopCountdown(room)
	room.Phase = internal.PhaseGameOver

	result := room.Result()
	roomLog(room, "").Infof("[endGame] %s, final score %s=%d %s=%d", reason,
		room.Teams.TeamA.Name, result.TeamAScore, room.Teams.TeamB.Name, result.TeamBScore)
	m.reconcile(result)
}
