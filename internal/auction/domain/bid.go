package domain

import (
	"bytes"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Bid is an immutable priced offer on an auction.
type Bid struct {
	ID        uuid.UUID
	AuctionID uuid.UUID
	BidderID  uuid.UUID
	Price     float64
	BidTime   time.Time
}

// NewBid creates a new Bid instance
func NewBid(id, auctionID, bidderID uuid.UUID, price float64, bidTime time.Time) *Bid {
	return &Bid{
		ID:        id,
		AuctionID: auctionID,
		BidderID:  bidderID,
		Price:     price,
		BidTime:   bidTime,
	}
}

// ValidateBid runs the admission checks that depend on auction state, in order:
// existence, not settled, active window, positive price.
// A settled auction always answers ErrAuctionClosed, whatever the clock says.
// A bid does not have to beat the current highest bid; ranking happens at close time.
// The bidder check comes last and is done by the caller once these pass.
func ValidateBid(a *Auction, settled bool, price float64, now time.Time) error {
	if a == nil {
		return ErrAuctionNotFound
	}
	if settled {
		return ErrAuctionClosed
	}
	if DeriveStatus(a, now) != StatusActive {
		return ErrAuctionNotActive
	}
	if price <= 0 {
		return ErrInvalidPrice
	}
	return nil
}

// Outranks reports whether a beats b: higher price, then earlier bid time, then lower id.
func Outranks(a, b *Bid) bool {
	if a.Price != b.Price {
		return a.Price > b.Price
	}
	if !a.BidTime.Equal(b.BidTime) {
		return a.BidTime.Before(b.BidTime)
	}
	return bytes.Compare(a.ID[:], b.ID[:]) < 0
}

// SelectWinner returns the top ranked bid, or nil when there are none.
func SelectWinner(bids []*Bid) *Bid {
	var best *Bid
	for _, b := range bids {
		if best == nil || Outranks(b, best) {
			best = b
		}
	}
	return best
}

// SortByRank orders bids best first, the same order SelectWinner uses.
func SortByRank(bids []*Bid) {
	slices.SortStableFunc(bids, func(a, b *Bid) int {
		switch {
		case Outranks(a, b):
			return -1
		case Outranks(b, a):
			return 1
		default:
			return 0
		}
	})
}
