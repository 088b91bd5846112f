package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Audit actions written by the application layer.
const (
	ActionUserRegistered = "user_registered"
	ActionAuctionCreated = "auction_created"
	ActionAuctionEdited  = "auction_edited"
	ActionBidPlaced      = "bid_placed"
	ActionAuctionClosed  = "auction_closed"
)

// Entry is an append-only audit record. UserID is nil for system actions such as a sweeper close.
type Entry struct {
	ID        uuid.UUID  `json:"id"`
	Action    string     `json:"action"`
	UserID    *uuid.UUID `json:"user_id,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

type Repository interface {
	Append(ctx context.Context, e *Entry) error
	// List returns the newest entries first.
	List(ctx context.Context, limit int) ([]*Entry, error)
}
