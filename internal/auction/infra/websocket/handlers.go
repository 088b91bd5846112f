package websocket

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/cristianortiz/auctionportal/internal/auction/application"
	"github.com/cristianortiz/auctionportal/internal/shared/apperr"
	"github.com/cristianortiz/auctionportal/internal/shared/auth"
	"github.com/cristianortiz/auctionportal/internal/shared/httpserver"
	"github.com/cristianortiz/auctionportal/internal/shared/logger"
	ws "github.com/cristianortiz/auctionportal/internal/shared/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

var (
	errInvalidFrame = apperr.New(apperr.KindValidation, "invalid message format")
	errUnknownType  = apperr.New(apperr.KindValidation, "unknown message type")
	errInvalidRoom  = apperr.New(apperr.KindValidation, "invalid auction id")
)

// AuctionWSHandler serves the live feed of one auction and accepts bids over it.
type AuctionWSHandler struct {
	auctionService application.AuctionService
	hub            *ws.Hub
}

func NewAuctionWSHandler(auctionService application.AuctionService, hub *ws.Hub) *AuctionWSHandler {
	return &AuctionWSHandler{
		auctionService: auctionService,
		hub:            hub,
	}
}

// Register mounts GET /ws/auctions/:id. The token travels as a query parameter
// because browsers cannot set headers on a websocket handshake.
func (h *AuctionWSHandler) Register(ctx context.Context, app fiber.Router, tokens *auth.TokenManager) {
	app.Get("/ws/auctions/:id", h.upgrade, httpserver.RequireAuth(tokens), websocket.New(func(conn *websocket.Conn) {
		h.serve(ctx, conn)
	}))
}

func (h *AuctionWSHandler) upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	auctionID, err := httpserver.UUIDParam(c, "id")
	if err != nil {
		return err
	}
	if _, err := h.auctionService.GetAuctionView(c.UserContext(), auctionID); err != nil {
		return err
	}
	return c.Next()
}

func (h *AuctionWSHandler) serve(ctx context.Context, conn *websocket.Conn) {
	id, _ := conn.Locals(httpserver.IdentityLocal).(auth.Identity)
	room := conn.Params("id")
	client := ws.NewClient(h.hub, conn, room, id.UserID.String())
	h.hub.Register(client)

	if auctionID, err := uuid.Parse(room); err == nil {
		if view, err := h.auctionService.GetAuctionView(ctx, auctionID); err == nil {
			h.reply(client, ServerAuctionStateMessage{
				BaseMessage: BaseMessage{Type: MessageTypeServerAuctionState},
				Payload:     view,
			})
		}
	}

	go client.WritePump(ctx)
	client.ReadPump(ctx)
}

// ListenForMessages dispatches inbound frames until ctx is done.
func (h *AuctionWSHandler) ListenForMessages(ctx context.Context) {
	log.Info("AuctionWSHandler listening for inbound messages")
	for {
		select {
		case <-ctx.Done():
			log.Info("AuctionWSHandler stopped")
			return
		case msg := <-h.hub.Inbound:
			go func(m *ws.ClientMessage) {
				if reply := h.processMessage(ctx, m.Client.Room, m.Client.UserID, m.Data); reply != nil {
					h.reply(m.Client, reply)
				}
			}(msg)
		}
	}
}

// processMessage handles one frame from userID in room and returns the reply for the sender, if any.
func (h *AuctionWSHandler) processMessage(ctx context.Context, room, userID string, data []byte) any {
	var base BaseMessage
	if err := json.Unmarshal(data, &base); err != nil {
		return errorMessage(errInvalidFrame)
	}
	switch base.Type {
	case MessageTypeClientBid:
		return h.handleClientBid(ctx, room, userID, data)
	default:
		return errorMessage(errUnknownType)
	}
}

func (h *AuctionWSHandler) handleClientBid(ctx context.Context, room, userID string, data []byte) any {
	var msg ClientBidMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return errorMessage(errInvalidFrame)
	}
	auctionID, err := uuid.Parse(room)
	if err != nil {
		return errorMessage(errInvalidRoom)
	}
	bidderID, err := uuid.Parse(userID)
	if err != nil {
		return errorMessage(auth.ErrUnauthenticated)
	}

	// room subscribers, the sender included, learn about the bid from the server_bid_placed broadcast
	bid, err := h.auctionService.SubmitBid(auth.WithIdentity(ctx, auth.Identity{UserID: bidderID}), application.SubmitBidDTO{
		AuctionID: auctionID,
		BidderID:  bidderID,
		Price:     msg.Payload.Price,
	})
	if err != nil {
		return errorMessage(err)
	}
	return newBidMessage(MessageTypeServerBidAccepted, bid)
}

func (h *AuctionWSHandler) reply(client *ws.Client, msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error("Failed to marshal reply", zap.String("clientID", client.ID), zap.Error(err))
		return
	}
	if !client.Enqueue(data) {
		log.Warn("Client send queue full or closed, reply dropped", zap.String("clientID", client.ID))
	}
}

func errorMessage(err error) ServerErrorMessage {
	msg := ServerErrorMessage{BaseMessage: BaseMessage{Type: MessageTypeServerError}}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		msg.Payload.Error = ae.Msg
		msg.Payload.Kind = ae.Kind.String()
		return msg
	}
	log.Error("Websocket bid failed", zap.Error(err))
	msg.Payload.Error = "internal error"
	msg.Payload.Kind = apperr.KindInternal.String()
	return msg
}
