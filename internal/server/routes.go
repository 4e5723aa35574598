package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	// Apply CORS middleware
	r.Use(s.corsMiddleware)
	r.Use(s.logMiddleware)

	r.HandleFunc("/healthz", s.HealthHandler).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/register", s.RegisterHandler).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/login", s.LoginHandler).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/leaderboard", s.LeaderboardHandler).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/leaderboard/wins", s.WinsLeaderboardHandler).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/rooms", s.RoomsHandler).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/rooms/{roomId}/qr", s.RoomQRHandler).Methods(http.MethodGet, http.MethodOptions)

	private := api.NewRoute().Subrouter()
	private.Use(s.authMiddleware)
	private.HandleFunc("/users/me", s.MeHandler).Methods(http.MethodGet, http.MethodOptions)
	private.HandleFunc("/users/{userId}/history", s.HistoryHandler).Methods(http.MethodGet, http.MethodOptions)
	private.HandleFunc("/scores", s.SaveScoreHandler).Methods(http.MethodPost, http.MethodOptions)

	r.Handle("/ws", s.socket)

	return r
}

// CORS middleware
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type")
		w.Header().Set("Access-Control-Allow-Credentials", "false")

		// If it's a websocket upgrade, skip further CORS checks
		if strings.ToLower(r.Header.Get("Upgrade")) == "websocket" {
			next.ServeHTTP(w, r)
			return
		}

		// Handle preflight OPTIONS requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type accountKey struct{}

// account is the identity an authenticated request carries.
type account struct {
	userID   string
	username string
}

// authMiddleware requires a bearer token. A missing token is 401, a token
// that does not verify is 403.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			writeMessage(w, http.StatusUnauthorized, msgMissingToken)
			return
		}

		userID, username, err := s.accounts.Verify(strings.TrimSpace(token))
		if err != nil {
			writeMessage(w, http.StatusForbidden, msgInvalidToken)
			return
		}

		ctx := context.WithValue(r.Context(), accountKey{}, account{userID: userID, username: username})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func accountFrom(ctx context.Context) account {
	a, _ := ctx.Value(accountKey{}).(account)
	return a
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Unwrap lets http.ResponseController reach the hijacker for websocket upgrades.
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ws" {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		log.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).Round(time.Microsecond),
		}).Debug("[HTTP] request served")
	})
}
