package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/skip2/go-qrcode"

	"github.com/scythe504/tabu-backend/internal"
	"github.com/scythe504/tabu-backend/internal/auth"
)

const (
	msgMissingToken       = "Yetkilendirme token'ı bulunamadı."
	msgInvalidToken       = "Geçersiz token."
	msgCredentialsNeeded  = "Kullanıcı adı ve şifre zorunludur."
	msgPasswordTooLong    = "Şifre en fazla 72 bayt olabilir."
	msgUsernameTaken      = "Bu kullanıcı adı zaten alınmış."
	msgBadCredentials     = "Kullanıcı adı veya şifre hatalı."
	msgRegistered         = "Kullanıcı başarıyla oluşturuldu!"
	msgLoggedIn           = "Giriş başarılı!"
	msgScoreFieldsMissing = "Skor ve kategori zorunludur."
	msgScoreSaved         = "Skor başarıyla kaydedildi."
	msgUserNotFound       = "Kullanıcı bulunamadı."
	msgRoomNotFound       = "Oda bulunamadı."
	msgServerError        = "Sunucu hatası oluştu."
)

const qrSize = 320

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Id       string `json:"_id"`
	Message  string `json:"message"`
	UserId   string `json:"userId"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		log.WithError(err).Warn("[HealthHandler] store unreachable")
		writeMessage(w, http.StatusServiceUnavailable, msgServerError)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeMessage(w, http.StatusBadRequest, msgCredentialsNeeded)
		return
	}

	session, err := s.accounts.Register(r.Context(), body.Username, body.Password)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, newSessionResponse(session, msgRegistered))
	case errors.Is(err, auth.ErrMissingCredentials):
		writeMessage(w, http.StatusBadRequest, msgCredentialsNeeded)
	case errors.Is(err, auth.ErrPasswordTooLong):
		writeMessage(w, http.StatusBadRequest, msgPasswordTooLong)
	case errors.Is(err, auth.ErrUsernameTaken):
		writeMessage(w, http.StatusConflict, msgUsernameTaken)
	default:
		serverError(w, "RegisterHandler", err)
	}
}

func (s *Server) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeMessage(w, http.StatusBadRequest, msgCredentialsNeeded)
		return
	}

	session, err := s.accounts.Login(r.Context(), body.Username, body.Password)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, newSessionResponse(session, msgLoggedIn))
	case errors.Is(err, auth.ErrMissingCredentials):
		writeMessage(w, http.StatusBadRequest, msgCredentialsNeeded)
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeMessage(w, http.StatusUnauthorized, msgBadCredentials)
	default:
		serverError(w, "LoginHandler", err)
	}
}

// SaveScoreHandler records a single-player score for the calling account.
func (s *Server) SaveScoreHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Score    *float64 `json:"score"`
		Category string   `json:"category"`
	}
	err := json.NewDecoder(r.Body).Decode(&body)
	if err != nil || body.Score == nil || strings.TrimSpace(body.Category) == "" ||
		*body.Score != math.Trunc(*body.Score) || math.Abs(*body.Score) > math.MaxInt32 {
		writeMessage(w, http.StatusBadRequest, msgScoreFieldsMissing)
		return
	}

	caller := accountFrom(r.Context())
	_, err = s.store.InsertScore(r.Context(), internal.ScoreRecord{
		UserId:   caller.userID,
		Username: caller.username,
		Score:    int(*body.Score),
		Category: strings.TrimSpace(body.Category),
	})
	switch {
	case err == nil:
		writeMessage(w, http.StatusCreated, msgScoreSaved)
	case errors.Is(err, internal.ErrUserNotFound):
		writeMessage(w, http.StatusNotFound, msgUserNotFound)
	default:
		serverError(w, "SaveScoreHandler", err)
	}
}

func (s *Server) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	history, err := s.store.History(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		serverError(w, "HistoryHandler", err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

func (s *Server) MeHandler(w http.ResponseWriter, r *http.Request) {
	user, err := s.store.GetUserByID(r.Context(), accountFrom(r.Context()).userID)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, user)
	case errors.Is(err, internal.ErrUserNotFound):
		writeMessage(w, http.StatusNotFound, msgUserNotFound)
	default:
		serverError(w, "MeHandler", err)
	}
}

func (s *Server) LeaderboardHandler(w http.ResponseWriter, r *http.Request) {
	scores, err := s.store.TopScores(r.Context(), internal.LeaderboardLimit)
	if err != nil {
		serverError(w, "LeaderboardHandler", err)
		return
	}
	writeJSON(w, http.StatusOK, scores)
}

func (s *Server) WinsLeaderboardHandler(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.TopWinners(r.Context(), internal.LeaderboardLimit)
	if err != nil {
		serverError(w, "WinsLeaderboardHandler", err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) RoomsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.rooms.Summaries())
}

// RoomQRHandler renders the room's invite link as a PNG QR code.
func (s *Server) RoomQRHandler(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]
	if !s.rooms.HasRoom(roomID) {
		writeMessage(w, http.StatusNotFound, msgRoomNotFound)
		return
	}

	png, err := qrcode.Encode(s.inviteURL(r, roomID), qrcode.Medium, qrSize)
	if err != nil {
		serverError(w, "RoomQRHandler", err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

// inviteURL points at the frontend with the room preselected. Without a
// configured public URL the request's own origin is used.
func (s *Server) inviteURL(r *http.Request, roomID string) string {
	base := strings.TrimSuffix(s.publicURL, "/")
	if base == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}
		base = scheme + "://" + r.Host
	}
	return fmt.Sprintf("%s/?room=%s", base, url.QueryEscape(roomID))
}

func newSessionResponse(session auth.Session, message string) sessionResponse {
	return sessionResponse{
		Id:       session.UserID,
		Message:  message,
		UserId:   session.UserID,
		Username: session.Username,
		Token:    session.Token,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageResponse{Message: message})
}

func serverError(w http.ResponseWriter, handler string, err error) {
	log.WithError(err).Errorf("[%s] request failed", handler)
	writeMessage(w, http.StatusInternalServerError, msgServerError)
}
