package domain

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentCancelled PaymentStatus = "cancelled"
)

// Transaction settles an auction to its winner. Its existence is what makes an auction closed.
type Transaction struct {
	ID            uuid.UUID
	AuctionID     uuid.UUID
	WinnerID      uuid.UUID
	BidID         uuid.UUID
	Amount        float64
	PaymentStatus PaymentStatus
	SettledAt     time.Time
}

// NewTransaction settles on the winning bid with a pending payment.
func NewTransaction(id uuid.UUID, winning *Bid, settledAt time.Time) *Transaction {
	return &Transaction{
		ID:            id,
		AuctionID:     winning.AuctionID,
		WinnerID:      winning.BidderID,
		BidID:         winning.ID,
		Amount:        winning.Price,
		PaymentStatus: PaymentPending,
		SettledAt:     settledAt,
	}
}
