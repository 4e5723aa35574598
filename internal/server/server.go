package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/scythe504/tabu-backend/internal"
	"github.com/scythe504/tabu-backend/internal/auth"
)

// Store is the persistence the HTTP API reads and writes.
type Store interface {
	Ping(ctx context.Context) error
	GetUserByID(ctx context.Context, id string) (internal.User, error)
	InsertScore(ctx context.Context, rec internal.ScoreRecord) (string, error)
	TopScores(ctx context.Context, limit int) ([]internal.ScoreRecord, error)
	TopWinners(ctx context.Context, limit int) ([]internal.User, error)
	History(ctx context.Context, userID string) ([]internal.ScoreRecord, error)
}

type Accounts interface {
	Register(ctx context.Context, username, password string) (auth.Session, error)
	Login(ctx context.Context, username, password string) (auth.Session, error)
	Verify(token string) (userID, username string, err error)
}

// Rooms exposes the live room list.
type Rooms interface {
	Summaries() []internal.RoomSummary
	HasRoom(code string) bool
}

type Server struct {
	store     Store
	accounts  Accounts
	rooms     Rooms
	socket    http.Handler
	publicURL string
}

// New wires the API. socket serves the websocket endpoint; publicURL, when
// set, is the base of room invite links.
func New(store Store, accounts Accounts, rooms Rooms, socket http.Handler, publicURL string) *Server {
	return &Server{
		store:     store,
		accounts:  accounts,
		rooms:     rooms,
		socket:    socket,
		publicURL: publicURL,
	}
}

// HTTPServer returns an http.Server for addr with the API mounted.
func (s *Server) HTTPServer(host string, port int) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", host, port),
		Handler:           s.RegisterRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       time.Minute,
	}
}
