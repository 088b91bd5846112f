package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type AuctionRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Auction, error)
	List(ctx context.Context) ([]*Auction, error)
	Insert(ctx context.Context, a *Auction) error
	Update(ctx context.Context, a *Auction) error
	// ListEndedUnsettled returns ids of auctions ended at now that have bids and no transaction.
	ListEndedUnsettled(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error)
}

type BidRepository interface {
	Insert(ctx context.Context, bid *Bid) error
	ListByAuction(ctx context.Context, auctionID uuid.UUID) ([]*Bid, error)
	ListByBidder(ctx context.Context, bidderID uuid.UUID) ([]*Bid, error)
}

type TransactionRepository interface {
	// GetByAuction returns nil, nil when the auction is not settled.
	GetByAuction(ctx context.Context, auctionID uuid.UUID) (*Transaction, error)
	Insert(ctx context.Context, t *Transaction) error
	ListByWinner(ctx context.Context, winnerID uuid.UUID) ([]*Transaction, error)
}

// TxManager runs fn as one atomic unit serialized with every other unit on the same auction.
// Repositories must be called with the ctx handed to fn to take part in the unit.
type TxManager interface {
	WithinAuction(ctx context.Context, auctionID uuid.UUID, fn func(ctx context.Context) error) error
}

// Bidder is the slice of a user account the engine needs.
type Bidder struct {
	ID       uuid.UUID
	Email    string
	Username string
}

type BidderDirectory interface {
	// Lookup returns nil, nil for unknown ids.
	Lookup(ctx context.Context, id uuid.UUID) (*Bidder, error)
}

// Notifier tells a winner about their win. Failures never undo a settlement.
type Notifier interface {
	Notify(ctx context.Context, email, itemTitle string, amount float64) error
}

// EventPublisher fans lifecycle events out to live subscribers.
type EventPublisher interface {
	BidPlaced(ctx context.Context, a *Auction, bid *Bid)
	AuctionClosed(ctx context.Context, a *Auction, t *Transaction)
}

// AuditRecorder appends to the audit log; it is best effort and never fails the caller.
type AuditRecorder interface {
	Record(ctx context.Context, action string, userID *uuid.UUID)
}
