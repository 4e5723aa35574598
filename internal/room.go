package internal

import (
	"slices"
	"time"
)

// NewRoom builds a room in the waiting phase with the creator seated in the
// unassigned roster as host.
func NewRoom(id, name, password string, creator *Player, teamAName, teamBName string) *Room {
	if teamAName == "" {
		teamAName = DefaultTeamAName
	}
	if teamBName == "" {
		teamBName = DefaultTeamBName
	}
	return &Room{
		Id:        id,
		Name:      name,
		Password:  password,
		IsPrivate: password != "",
		Teams: Teams{
			TeamA: &Team{Name: teamAName, Players: make([]*Player, 0)},
			TeamB: &Team{Name: teamBName, Players: make([]*Player, 0)},
		},
		UnassignedPlayers: []*Player{creator},
		Host:              creator.Id,
		Category:          DefaultCategory,
		Phase:             PhaseWaiting,
		Time:              DefaultRoundTime,
		Deck:              make([]Card, 0),
		TurnOrder:         make([]string, 0),
		CreatedAt:         time.Now(),
	}
}

// Methods (Room Struct)
func (r *Room) Team(id TeamID) *Team {
	switch id {
	case TeamA:
		return r.Teams.TeamA
	case TeamB:
		return r.Teams.TeamB
	}
	return nil
}

// AllPlayers returns team A, team B and the unassigned roster concatenated in
// that order.
func (r *Room) AllPlayers() []*Player {
	all := make([]*Player, 0, r.PlayerCount())
	all = append(all, r.Teams.TeamA.Players...)
	all = append(all, r.Teams.TeamB.Players...)
	all = append(all, r.UnassignedPlayers...)
	return all
}

func (r *Room) PlayerCount() int {
	return len(r.Teams.TeamA.Players) + len(r.Teams.TeamB.Players) + len(r.UnassignedPlayers)
}

func (r *Room) IsEmpty() bool {
	return r.PlayerCount() == 0
}

func (r *Room) FindByConn(connID string) *Player {
	for _, p := range r.AllPlayers() {
		if p.Id == connID {
			return p
		}
	}
	return nil
}

func (r *Room) FindByAccount(userID string) *Player {
	if userID == "" {
		return nil
	}
	for _, p := range r.AllPlayers() {
		if p.UserId == userID {
			return p
		}
	}
	return nil
}

// TeamOf reports which team seats the connection. Unassigned players and
// strangers report false.
func (r *Room) TeamOf(connID string) (TeamID, bool) {
	if slices.ContainsFunc(r.Teams.TeamA.Players, byConn(connID)) {
		return TeamA, true
	}
	if slices.ContainsFunc(r.Teams.TeamB.Players, byConn(connID)) {
		return TeamB, true
	}
	return "", false
}

// RemoveByConn takes the connection's seat out of whichever roster holds it,
// searching team A, team B and the unassigned roster in that order.
func (r *Room) RemoveByConn(connID string) *Player {
	rosters := []*[]*Player{&r.Teams.TeamA.Players, &r.Teams.TeamB.Players, &r.UnassignedPlayers}
	for _, roster := range rosters {
		idx := slices.IndexFunc(*roster, byConn(connID))
		if idx < 0 {
			continue
		}
		p := (*roster)[idx]
		*roster = slices.Delete(*roster, idx, idx+1)
		return p
	}
	return nil
}

// BuildTurnOrder interleaves the team rosters A[0], B[0], A[1], B[1], ...
// skipping slots a shorter team does not have.
func (r *Room) BuildTurnOrder() []string {
	a, b := r.Teams.TeamA.Players, r.Teams.TeamB.Players
	order := make([]string, 0, len(a)+len(b))
	for i := range max(len(a), len(b)) {
		if i < len(a) {
			order = append(order, a[i].Id)
		}
		if i < len(b) {
			order = append(order, b[i].Id)
		}
	}
	return order
}

func (r *Room) SetDeck(deck []Card) {
	r.Deck = deck
	r.DeckSize = len(deck)
}

func (r *Room) Summary() RoomSummary {
	return RoomSummary{
		Id:          r.Id,
		Name:        r.Name,
		PlayerCount: r.PlayerCount(),
		IsPrivate:   r.IsPrivate,
	}
}

// Result captures the scores and rosters at this moment.
func (r *Room) Result() GameResult {
	return GameResult{
		RoomID:     r.Id,
		Category:   r.Category,
		TeamAScore: r.Teams.TeamA.Score,
		TeamBScore: r.Teams.TeamB.Score,
		TeamA:      accountIDs(r.Teams.TeamA.Players),
		TeamB:      accountIDs(r.Teams.TeamB.Players),
	}
}

func byConn(connID string) func(*Player) bool {
	return func(p *Player) bool { return p.Id == connID }
}
