package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// UserActivityUseCase answers the per-user bid and settlement history queries.
type UserActivityUseCase struct {
	d Deps
}

func NewUserActivityUseCase(d Deps) *UserActivityUseCase {
	return &UserActivityUseCase{d: d.withDefaults()}
}

// Bids returns the user's bids, oldest first.
func (uc *UserActivityUseCase) Bids(ctx context.Context, userID uuid.UUID) ([]BidDTO, error) {
	bids, err := uc.d.Bids.ListByBidder(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user bids: %w", err)
	}
	out := make([]BidDTO, 0, len(bids))
	for _, b := range bids {
		out = append(out, toBidDTO(b))
	}
	return out, nil
}

// Transactions returns the auctions the user has won.
func (uc *UserActivityUseCase) Transactions(ctx context.Context, userID uuid.UUID) ([]TransactionDTO, error) {
	txs, err := uc.d.Transactions.ListByWinner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user transactions: %w", err)
	}
	out := make([]TransactionDTO, 0, len(txs))
	for _, t := range txs {
		out = append(out, *toTransactionDTO(t))
	}
	return out, nil
}
