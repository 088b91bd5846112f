package websocket

import (
	"context"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Client is one websocket connection subscribed to a room.
type Client struct {
	ID     string
	Room   string
	UserID string

	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

func NewClient(hub *Hub, conn *websocket.Conn, room, userID string) *Client {
	return &Client{
		ID:     uuid.NewString(),
		Room:   room,
		UserID: userID,
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
	}
}

// Enqueue sends data to this client only. It reports false when the client is gone or backed up.
func (c *Client) Enqueue(data []byte) (ok bool) {
	defer func() {
		// send may already be closed by the hub
		if recover() != nil {
			ok = false
		}
	}()
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

// ReadPump forwards frames to hub.Inbound until the peer goes away. Run it on the handler goroutine.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		c.close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for ctx.Err() == nil {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("Websocket read error", zap.String("clientID", c.ID), zap.String("auctionID", c.Room), zap.Error(err))
			}
			return
		}
		select {
		case c.hub.Inbound <- &ClientMessage{Client: c, Data: data}:
		default:
			log.Error("Inbound queue full, dropping frame", zap.String("clientID", c.ID), zap.String("auctionID", c.Room))
			c.Enqueue([]byte(`{"type":"server_error","payload":{"error":"server busy"}}`))
		}
	}
}

// WritePump is the only writer on the connection.
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case <-ctx.Done():
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(writeWait))
			return

		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Warn("Websocket write failed", zap.String("clientID", c.ID), zap.Error(err))
				return
			}

		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				log.Debug("Websocket ping failed", zap.String("clientID", c.ID), zap.Error(err))
				return
			}
		}
	}
}
