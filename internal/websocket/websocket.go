package websocket

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/scythe504/tabu-backend/internal"
	"github.com/scythe504/tabu-backend/internal/game"
	"github.com/scythe504/tabu-backend/internal/utils"
)

const (
	msgBadMessage  = "Geçersiz mesaj."
	msgUnknownType = "Bilinmeyen mesaj türü."
	msgTooFast     = "Çok hızlı işlem yapıyorsunuz, lütfen bekleyin."
)

// Games is the game engine as the transport sees it.
type Games interface {
	CreateRoom(connID string, data internal.CreateRoomData) (string, error)
	JoinRoom(connID string, data internal.JoinRoomData) error
	ReconnectPlayer(connID string, data internal.ReconnectPlayerData) error
	ChangeCategory(connID string, data internal.ChangeCategoryData) error
	JoinTeam(connID string, data internal.JoinTeamData) error
	ChangeTeamName(connID string, data internal.ChangeTeamNameData) error
	LeaveRoom(connID string, data internal.RoomRefData) error
	ResetGame(connID string, data internal.RoomRefData) error
	StartGame(connID string, data internal.StartGameData) error
	PlayerAction(connID string, data internal.PlayerActionData) error
	Disconnect(connID string)
	SendRoomList(connID string)
}

// TokenVerifier resolves a session token to the account it was issued for.
type TokenVerifier interface {
	Verify(token string) (userID, username string, err error)
}

// =============================================================================
// WEBSOCKET CONNECTION HANDLING
// =============================================================================

type Handler struct {
	hub      *Hub
	games    Games
	verifier TokenVerifier
	upgrader websocket.Upgrader
}

// NewHandler serves the game socket. verifier may be nil, in which case
// connections are anonymous and identity comes from event payloads.
func NewHandler(hub *Hub, games Games, verifier TokenVerifier) *Handler {
	return &Handler{
		hub:      hub,
		games:    games,
		verifier: verifier,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the request, greets the client with its connection id
// and the room list, then pumps events until the socket closes.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var userID, username string
	if token := r.URL.Query().Get("token"); token != "" && h.verifier != nil {
		var err error
		userID, username, err = h.verifier.Verify(token)
		if err != nil {
			log.WithError(err).Info("[HandleWebSocket] rejected token")
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("[HandleWebSocket] upgrade failed")
		return
	}

	c := newClient(utils.NewConnectionID(), h.hub, conn)
	c.userID, c.username = userID, username
	h.hub.register(c)
	log.WithFields(log.Fields{"conn": c.id, "user": c.userID}).Info("[HandleWebSocket] client connected")

	go c.writePump()

	h.hub.SendTo(c.id, internal.Message[internal.ConnectedData]{
		Type: internal.EventConnected,
		Data: internal.ConnectedData{Id: c.id},
	})
	h.games.SendRoomList(c.id)

	defer func() {
		h.games.Disconnect(c.id)
		h.hub.unregister(c)
		_ = conn.Close()
		log.WithField("conn", c.id).Info("[HandleWebSocket] client disconnected")
	}()
	c.readPump(h.dispatch)
}

// dispatch decodes one client event and applies it. Failures go back to the
// sender as an error event; the connection stays open.
func (h *Handler) dispatch(c *Client, raw []byte) {
	var msg internal.Message[json.RawMessage]
	if err := json.Unmarshal(raw, &msg); err != nil {
		log.WithField("conn", c.id).WithError(err).Debug("[dispatch] malformed message")
		c.sendError(msgBadMessage)
		return
	}

	err := h.route(c, msg)
	switch {
	case err == nil:
	case errorsIsDecode(err):
		log.WithFields(log.Fields{"conn": c.id, "type": msg.Type}).WithError(err).Debug("[dispatch] bad payload")
		c.sendError(msgBadMessage)
	case errors.Is(err, errUnknownType):
		log.WithFields(log.Fields{"conn": c.id, "type": msg.Type}).Info("[dispatch] unknown message type")
		c.sendError(msgUnknownType)
	default:
		log.WithFields(log.Fields{"conn": c.id, "type": msg.Type}).WithError(err).Debug("[dispatch] rejected")
		c.sendError(game.UserMessage(err))
	}
}

func (h *Handler) route(c *Client, msg internal.Message[json.RawMessage]) error {
	switch msg.Type {
	case internal.EventCreateRoom:
		data, err := decode[internal.CreateRoomData](msg.Data)
		if err != nil {
			return err
		}
		data.UserId, data.Username = c.identity(data.UserId, data.Username)
		_, err = h.games.CreateRoom(c.id, data)
		return err

	case internal.EventJoinRoom:
		data, err := decode[internal.JoinRoomData](msg.Data)
		if err != nil {
			return err
		}
		data.UserId, data.Username = c.identity(data.UserId, data.Username)
		return h.games.JoinRoom(c.id, data)

	case internal.EventReconnectPlayer:
		data, err := decode[internal.ReconnectPlayerData](msg.Data)
		if err != nil {
			return err
		}
		data.UserId, _ = c.identity(data.UserId, "")
		return h.games.ReconnectPlayer(c.id, data)

	case internal.EventChangeCategory:
		data, err := decode[internal.ChangeCategoryData](msg.Data)
		if err != nil {
			return err
		}
		return h.games.ChangeCategory(c.id, data)

	case internal.EventJoinTeam:
		data, err := decode[internal.JoinTeamData](msg.Data)
		if err != nil {
			return err
		}
		return h.games.JoinTeam(c.id, data)

	case internal.EventChangeTeamName:
		data, err := decode[internal.ChangeTeamNameData](msg.Data)
		if err != nil {
			return err
		}
		return h.games.ChangeTeamName(c.id, data)

	case internal.EventLeaveRoom:
		data, err := decode[internal.RoomRefData](msg.Data)
		if err != nil {
			return err
		}
		return h.games.LeaveRoom(c.id, data)

	case internal.EventResetGame:
		data, err := decode[internal.RoomRefData](msg.Data)
		if err != nil {
			return err
		}
		return h.games.ResetGame(c.id, data)

	case internal.EventStartGame:
		data, err := decode[internal.StartGameData](msg.Data)
		if err != nil {
			return err
		}
		return h.games.StartGame(c.id, data)

	case internal.EventPlayerAction:
		data, err := decode[internal.PlayerActionData](msg.Data)
		if err != nil {
			return err
		}
		return h.games.PlayerAction(c.id, data)
	}
	return errUnknownType
}

// identity prefers the account bound to the connection's token over
// whatever the payload claims.
func (c *Client) identity(userID, username string) (string, string) {
	if c.userID == "" {
		return userID, username
	}
	if username == "" {
		username = c.username
	}
	return c.userID, username
}
