package websocket

import (
	"time"

	"github.com/cristianortiz/auctionportal/internal/auction/application"
	"github.com/cristianortiz/auctionportal/internal/auction/domain"
	"github.com/google/uuid"
)

type MessageType string

const (
	MessageTypeClientBid           MessageType = "client_bid"
	MessageTypeServerAuctionState  MessageType = "server_auction_state"
	MessageTypeServerBidPlaced     MessageType = "server_bid_placed"
	MessageTypeServerBidAccepted   MessageType = "server_bid_accepted"
	MessageTypeServerAuctionClosed MessageType = "server_auction_closed"
	MessageTypeServerError         MessageType = "server_error"
)

type BaseMessage struct {
	Type MessageType `json:"type"`
}

// ClientBidMessage is a bid sent over the socket. The bidder is the authenticated connection owner.
type ClientBidMessage struct {
	BaseMessage
	Payload struct {
		Price float64 `json:"price"`
	} `json:"payload"`
}

// ServerAuctionStateMessage is sent once on connect.
type ServerAuctionStateMessage struct {
	BaseMessage
	Payload *application.AuctionViewDTO `json:"payload"`
}

type BidPayload struct {
	BidID     uuid.UUID `json:"bid_id"`
	AuctionID uuid.UUID `json:"auction_id"`
	BidderID  uuid.UUID `json:"bidder_id"`
	Price     float64   `json:"price"`
	BidTime   time.Time `json:"bid_time"`
}

// ServerBidMessage announces a bid to the room, or confirms it to its sender.
type ServerBidMessage struct {
	BaseMessage
	Payload BidPayload `json:"payload"`
}

type ServerAuctionClosedMessage struct {
	BaseMessage
	Payload struct {
		AuctionID     uuid.UUID            `json:"auction_id"`
		TransactionID uuid.UUID            `json:"transaction_id"`
		WinnerID      uuid.UUID            `json:"winner_id"`
		Amount        float64              `json:"amount"`
		PaymentStatus domain.PaymentStatus `json:"payment_status"`
		SettledAt     time.Time            `json:"settled_at"`
	} `json:"payload"`
}

type ServerErrorMessage struct {
	BaseMessage
	Payload struct {
		Error string `json:"error"`
		Kind  string `json:"kind,omitempty"`
	} `json:"payload"`
}

func newBidMessage(t MessageType, b *domain.Bid) ServerBidMessage {
	return ServerBidMessage{
		BaseMessage: BaseMessage{Type: t},
		Payload: BidPayload{
			BidID:     b.ID,
			AuctionID: b.AuctionID,
			BidderID:  b.BidderID,
			Price:     b.Price,
			BidTime:   b.BidTime,
		},
	}
}
