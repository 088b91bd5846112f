// Package websocket fans messages out to clients grouped in rooms, one room per auction.
package websocket

import (
	"context"

	"github.com/cristianortiz/auctionportal/internal/shared/logger"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

const (
	controlBuffer = 64
	inboundBuffer = 256
	sendBuffer    = 32
)

// Hub owns the room registry. Only the Run goroutine touches rooms.
type Hub struct {
	rooms      map[string]map[*Client]struct{}
	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client
	// Inbound carries client frames to the context-specific handlers.
	Inbound chan *ClientMessage
}

type Message struct {
	Room string
	Data []byte
}

// ClientMessage is a frame read from a client.
type ClientMessage struct {
	Client *Client
	Data   []byte
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]struct{}),
		broadcast:  make(chan *Message, controlBuffer),
		register:   make(chan *Client, controlBuffer),
		unregister: make(chan *Client, controlBuffer),
		Inbound:    make(chan *ClientMessage, inboundBuffer),
	}
}

func (h *Hub) Run(ctx context.Context) {
	log.Info("Websocket hub started")
	for {
		select {
		case <-ctx.Done():
			for _, clients := range h.rooms {
				for c := range clients {
					close(c.send)
				}
			}
			h.rooms = make(map[string]map[*Client]struct{})
			log.Info("Websocket hub stopped")
			return

		case c := <-h.register:
			h.add(c)

		case c := <-h.unregister:
			h.drainRegistrations()
			h.remove(c)

		case m := <-h.broadcast:
			// registrations queued earlier take effect first
			h.drainRegistrations()
			clients := h.rooms[m.Room]
			log.Debug("Broadcasting to room", zap.String("auctionID", m.Room), zap.Int("clients", len(clients)))
			for c := range clients {
				select {
				case c.send <- m.Data:
				default:
					log.Warn("Client too slow, dropping it", zap.String("clientID", c.ID), zap.String("auctionID", c.Room))
					h.remove(c)
				}
			}
		}
	}
}

func (h *Hub) add(c *Client) {
	clients, ok := h.rooms[c.Room]
	if !ok {
		clients = make(map[*Client]struct{})
		h.rooms[c.Room] = clients
	}
	clients[c] = struct{}{}
	log.Info("Client registered",
		zap.String("clientID", c.ID),
		zap.String("auctionID", c.Room),
		zap.String("userID", c.UserID),
		zap.Int("room_clients", len(clients)),
	)
}

func (h *Hub) drainRegistrations() {
	for {
		select {
		case c := <-h.register:
			h.add(c)
		default:
			return
		}
	}
}

func (h *Hub) remove(c *Client) {
	clients, ok := h.rooms[c.Room]
	if !ok {
		return
	}
	if _, ok := clients[c]; !ok {
		return
	}
	delete(clients, c)
	close(c.send)
	log.Info("Client unregistered", zap.String("clientID", c.ID), zap.String("auctionID", c.Room))
	if len(clients) == 0 {
		delete(h.rooms, c.Room)
	}
}

func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	default:
		log.Error("Register queue full, refusing client", zap.String("clientID", c.ID), zap.String("auctionID", c.Room))
		c.close()
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	default:
		log.Error("Unregister queue full", zap.String("clientID", c.ID), zap.String("auctionID", c.Room))
	}
}

// Broadcast queues data for every client in room. It never blocks.
func (h *Hub) Broadcast(room string, data []byte) {
	select {
	case h.broadcast <- &Message{Room: room, Data: data}:
	default:
		log.Error("Broadcast queue full, message dropped", zap.String("auctionID", room))
	}
}
