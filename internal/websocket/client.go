package websocket

import (
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/scythe504/tabu-backend/internal"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 64 * 1024
	sendBuffer     = 64

	// inbound events per second, with bursts up to eventBurst
	eventRate  = 20
	eventBurst = 40
)

// Client is one websocket connection. id is the connection handle the game
// knows the player by; userID and username are set when the connection
// presented a valid token.
type Client struct {
	id       string
	userID   string
	username string

	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	limiter *rate.Limiter
}

func newClient(id string, hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		id:      id,
		hub:     hub,
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		limiter: rate.NewLimiter(eventRate, eventBurst),
	}
}

// enqueue queues data without blocking. A client whose buffer is full is too
// slow to keep up and gets disconnected. Callers hold the hub lock.
func (c *Client) enqueue(data []byte) {
	select {
	case c.send <- data:
	default:
		log.WithField("conn", c.id).Warn("[Client] send buffer full, closing connection")
		_ = c.conn.Close()
	}
}

func (c *Client) sendError(message string) {
	c.hub.SendTo(c.id, internal.Message[internal.ErrorData]{
		Type: internal.EventError,
		Data: internal.ErrorData{Message: message},
	})
}

// readPump feeds inbound frames to handle until the connection fails.
func (c *Client) readPump(handle func(c *Client, raw []byte)) {
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.WithField("conn", c.id).WithError(err).Info("[readPump] connection closed unexpectedly")
			}
			return
		}
		if !c.limiter.Allow() {
			c.sendError(msgTooFast)
			continue
		}
		handle(c, raw)
	}
}

// writePump drains the outbound queue onto the socket and keeps the
// connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
