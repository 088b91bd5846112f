package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/cristianortiz/auctionportal/internal/auction/domain"
	audit "github.com/cristianortiz/auctionportal/internal/audit/domain"
	"go.uber.org/zap"
)

// SubmitBidUseCase admits a bid while the auction is active and unsettled.
// A bid that arrives after the end of an unsettled auction triggers the close.
type SubmitBidUseCase struct {
	d       Deps
	closeUC *CloseAuctionUseCase
}

func NewSubmitBidUseCase(d Deps, closeUC *CloseAuctionUseCase) *SubmitBidUseCase {
	return &SubmitBidUseCase{d: d.withDefaults(), closeUC: closeUC}
}

func (uc *SubmitBidUseCase) Execute(ctx context.Context, dto SubmitBidDTO) (*domain.Bid, error) {
	log.Debug("Executing SubmitBidUseCase",
		zap.String("auctionID", dto.AuctionID.String()),
		zap.String("userID", dto.BidderID.String()),
		zap.Float64("price", dto.Price),
	)

	var (
		auction    *domain.Auction
		bid        *domain.Bid
		closeAfter bool
	)
	err := uc.d.Tx.WithinAuction(ctx, dto.AuctionID, func(ctx context.Context) error {
		a, err := uc.d.Auctions.GetByID(ctx, dto.AuctionID)
		if err != nil && !errors.Is(err, domain.ErrAuctionNotFound) {
			return err
		}
		var settled bool
		if a != nil {
			t, err := uc.d.Transactions.GetByAuction(ctx, dto.AuctionID)
			if err != nil {
				return err
			}
			settled = t != nil
		}

		now := uc.d.Clock.Now()
		if err := domain.ValidateBid(a, settled, dto.Price, now); err != nil {
			closeAfter = a != nil && !settled && a.Status(now) == domain.StatusEnded
			return err
		}

		bidder, err := uc.d.Bidders.Lookup(ctx, dto.BidderID)
		if err != nil {
			return err
		}
		if bidder == nil {
			return domain.ErrUnknownBidder
		}

		auction = a
		bid = domain.NewBid(newID(), a.ID, bidder.ID, dto.Price, now)
		return uc.d.Bids.Insert(ctx, bid)
	})

	if closeAfter {
		uc.lazyClose(ctx, dto)
	}
	if err != nil {
		log.Info("Bid rejected",
			zap.String("auctionID", dto.AuctionID.String()),
			zap.String("userID", dto.BidderID.String()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("submit bid: %w", err)
	}

	log.Info("Bid placed",
		zap.String("auctionID", bid.AuctionID.String()),
		zap.String("userID", bid.BidderID.String()),
		zap.String("bidID", bid.ID.String()),
		zap.Float64("price", bid.Price),
	)
	uc.d.Events.BidPlaced(ctx, auction, bid)
	uc.d.Audit.Record(ctx, audit.ActionBidPlaced, &bid.BidderID)
	return bid, nil
}

func (uc *SubmitBidUseCase) lazyClose(ctx context.Context, dto SubmitBidDTO) {
	res, err := uc.closeUC.Execute(context.WithoutCancel(ctx), dto.AuctionID)
	if err != nil {
		log.Warn("Lazy close after late bid failed", zap.String("auctionID", dto.AuctionID.String()), zap.Error(err))
		return
	}
	log.Debug("Lazy close after late bid",
		zap.String("auctionID", dto.AuctionID.String()),
		zap.String("outcome", string(res.Outcome)),
	)
}
