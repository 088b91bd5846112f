package websocket

import (
	"context"
	"encoding/json"

	"github.com/cristianortiz/auctionportal/internal/auction/domain"
	"go.uber.org/zap"
)

// Broadcaster delivers a frame to every subscriber of a room.
type Broadcaster interface {
	Broadcast(room string, data []byte)
}

var _ domain.EventPublisher = (*Publisher)(nil)

// Publisher turns lifecycle events into room broadcasts.
type Publisher struct {
	hub Broadcaster
}

func NewPublisher(hub Broadcaster) *Publisher {
	return &Publisher{hub: hub}
}

func (p *Publisher) BidPlaced(_ context.Context, a *domain.Auction, bid *domain.Bid) {
	p.send(a.ID.String(), newBidMessage(MessageTypeServerBidPlaced, bid))
}

func (p *Publisher) AuctionClosed(_ context.Context, a *domain.Auction, t *domain.Transaction) {
	msg := ServerAuctionClosedMessage{BaseMessage: BaseMessage{Type: MessageTypeServerAuctionClosed}}
	msg.Payload.AuctionID = a.ID
	msg.Payload.TransactionID = t.ID
	msg.Payload.WinnerID = t.WinnerID
	msg.Payload.Amount = t.Amount
	msg.Payload.PaymentStatus = t.PaymentStatus
	msg.Payload.SettledAt = t.SettledAt
	p.send(a.ID.String(), msg)
}

func (p *Publisher) send(room string, msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error("Failed to marshal broadcast", zap.String("auctionID", room), zap.Error(err))
		return
	}
	p.hub.Broadcast(room, data)
}
