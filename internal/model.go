package internal

import (
	"context"
	"time"
)

const (
	DefaultCategory  = "genel"
	DefaultRoundTime = 60
	DefaultTeamAName = "Takım A"
	DefaultTeamBName = "Takım B"
	TickInterval     = 1 * time.Second
	LeaderboardLimit = 10
	RoomCodeLength   = 6
)

type GamePhase string

const (
	PhaseWaiting  GamePhase = "waiting"
	PhasePlaying  GamePhase = "playing"
	PhaseGameOver GamePhase = "game-over"
)

type TeamID string

const (
	TeamA TeamID = "teamA"
	TeamB TeamID = "teamB"
)

func (t TeamID) Valid() bool {
	return t == TeamA || t == TeamB
}

type Action string

const (
	ActionCorrect Action = "correct"
	ActionTaboo   Action = "taboo"
	ActionSkip    Action = "skip"
)

func (a Action) Valid() bool {
	switch a {
	case ActionCorrect, ActionTaboo, ActionSkip:
		return true
	}
	return false
}

// Card is a word to describe plus the words that may not be said while describing it.
type Card struct {
	Word  string   `json:"word"`
	Taboo []string `json:"taboo"`
}

type Team struct {
	Name    string    `json:"name"`
	Score   int       `json:"score"`
	Players []*Player `json:"players"`
}

type Teams struct {
	TeamA *Team `json:"teamA"`
	TeamB *Team `json:"teamB"`
}

// GameTimer is the handle of a room's running countdown. A tick holding a
// handle that is no longer the room's current one must not touch the room.
type GameTimer struct {
	StartTime time.Time
	Interval  time.Duration
	Context   context.Context
	Cancel    context.CancelFunc
}

type Room struct {
	Id        string `json:"id"`
	Name      string `json:"name"`
	Password  string `json:"-"`
	IsPrivate bool   `json:"isPrivate"`

	// Membership
	Teams             Teams     `json:"teams"`
	UnassignedPlayers []*Player `json:"unassignedPlayers"`

	// Host and CurrentTurn hold connection handles, resolved against the rosters.
	Host string `json:"host"`

	// Game State
	Category    string    `json:"category"`
	Phase       GamePhase `json:"gameState"`
	Time        int       `json:"time"`
	CurrentCard *Card     `json:"currentCard"`
	Deck        []Card    `json:"-"`
	DeckSize    int       `json:"deckSize"`
	TurnOrder   []string  `json:"turnOrder"`
	CurrentTurn string    `json:"currentTurn"`

	// Timer
	Timer *GameTimer `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
}

type RoomSummary struct {
	Id          string `json:"id"`
	Name        string `json:"name"`
	PlayerCount int    `json:"playerCount"`
	IsPrivate   bool   `json:"isPrivate"`
}

// GameResult is the outcome of a finished round, captured when the room left
// the playing phase.
type GameResult struct {
	RoomID     string
	Category   string
	TeamAScore int
	TeamBScore int
	TeamA      []string // account identifiers
	TeamB      []string
}

func (g GameResult) Tied() bool {
	return g.TeamAScore == g.TeamBScore
}

// Winners returns the account identifiers of the winning and losing rosters.
// Both are nil on a tie.
func (g GameResult) Winners() (winners, losers []string) {
	switch {
	case g.TeamAScore > g.TeamBScore:
		return g.TeamA, g.TeamB
	case g.TeamBScore > g.TeamAScore:
		return g.TeamB, g.TeamA
	}
	return nil, nil
}

// User is a registered account as stored by the persistence layer.
type User struct {
	Id           string    `json:"_id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Wins         int       `json:"wins"`
	Losses       int       `json:"losses"`
	CreatedAt    time.Time `json:"createdAt"`
}

type ScoreRecord struct {
	Id       string    `json:"_id"`
	UserId   string    `json:"userId"`
	Username string    `json:"username"`
	Score    int       `json:"score"`
	Category string    `json:"category"`
	Date     time.Time `json:"date"`
}
