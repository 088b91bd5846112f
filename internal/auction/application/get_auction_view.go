package application

import (
	"context"
	"fmt"

	"github.com/cristianortiz/auctionportal/internal/auction/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GetAuctionViewUseCase returns an auction with its ranked bids. Viewing an ended,
// unsettled auction closes it first so the view shows the settlement.
type GetAuctionViewUseCase struct {
	d       Deps
	closeUC *CloseAuctionUseCase
}

func NewGetAuctionViewUseCase(d Deps, closeUC *CloseAuctionUseCase) *GetAuctionViewUseCase {
	return &GetAuctionViewUseCase{d: d.withDefaults(), closeUC: closeUC}
}

func (uc *GetAuctionViewUseCase) Execute(ctx context.Context, auctionID uuid.UUID) (*AuctionViewDTO, error) {
	a, err := uc.d.Auctions.GetByID(ctx, auctionID)
	if err != nil {
		return nil, fmt.Errorf("get auction view: %w", err)
	}
	t, err := uc.d.Transactions.GetByAuction(ctx, auctionID)
	if err != nil {
		return nil, fmt.Errorf("get auction view: %w", err)
	}
	bids, err := uc.d.Bids.ListByAuction(ctx, auctionID)
	if err != nil {
		return nil, fmt.Errorf("get auction view: %w", err)
	}

	now := uc.d.Clock.Now()
	if t == nil && len(bids) > 0 && a.Status(now) == domain.StatusEnded {
		res, err := uc.closeUC.Execute(ctx, auctionID)
		switch {
		case err != nil:
			log.Warn("Lazy close on view failed", zap.String("auctionID", auctionID.String()), zap.Error(err))
		case res.Transaction != nil:
			t = res.Transaction
			// bids are frozen once settled, reload to include any accepted before the lock
			if fresh, err := uc.d.Bids.ListByAuction(ctx, auctionID); err == nil {
				bids = fresh
			}
		}
	}

	domain.SortByRank(bids)
	return toView(a, bids, t, now), nil
}

// ListAuctionsUseCase lists every auction with its derived status. It never closes anything.
type ListAuctionsUseCase struct {
	d Deps
}

func NewListAuctionsUseCase(d Deps) *ListAuctionsUseCase {
	return &ListAuctionsUseCase{d: d.withDefaults()}
}

func (uc *ListAuctionsUseCase) Execute(ctx context.Context) ([]*AuctionViewDTO, error) {
	auctions, err := uc.d.Auctions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list auctions: %w", err)
	}
	now := uc.d.Clock.Now()
	views := make([]*AuctionViewDTO, 0, len(auctions))
	for _, a := range auctions {
		views = append(views, toView(a, nil, nil, now))
	}
	return views, nil
}
