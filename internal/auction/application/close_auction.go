package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/cristianortiz/auctionportal/internal/auction/domain"
	audit "github.com/cristianortiz/auctionportal/internal/audit/domain"
	"github.com/cristianortiz/auctionportal/internal/shared/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CloseOutcome string

const (
	OutcomeClosed        CloseOutcome = "closed"
	OutcomeStillOpen     CloseOutcome = "still_open"
	OutcomeNoBids        CloseOutcome = "no_bids"
	OutcomeAlreadyClosed CloseOutcome = "already_closed"
)

// CloseResult reports what a close attempt did. Transaction is set for Closed and AlreadyClosed;
// Winner and WinningBid only for Closed.
type CloseResult struct {
	Outcome     CloseOutcome
	Auction     *domain.Auction
	Transaction *domain.Transaction
	Winner      *domain.Bidder
	WinningBid  *domain.Bid
}

// CloseAuctionUseCase settles an ended auction. It is safe to call any number of times from
// any number of goroutines: exactly one call inserts the transaction and notifies the winner.
type CloseAuctionUseCase struct {
	d Deps
}

func NewCloseAuctionUseCase(d Deps) *CloseAuctionUseCase {
	return &CloseAuctionUseCase{d: d.withDefaults()}
}

func (uc *CloseAuctionUseCase) Execute(ctx context.Context, auctionID uuid.UUID) (*CloseResult, error) {
	res := &CloseResult{}

	err := uc.d.Tx.WithinAuction(ctx, auctionID, func(ctx context.Context) error {
		a, err := uc.d.Auctions.GetByID(ctx, auctionID)
		if err != nil {
			return err
		}
		res.Auction = a

		existing, err := uc.d.Transactions.GetByAuction(ctx, auctionID)
		if err != nil {
			return err
		}
		if existing != nil {
			res.Outcome = OutcomeAlreadyClosed
			res.Transaction = existing
			return nil
		}

		now := uc.d.Clock.Now()
		if a.Status(now) != domain.StatusEnded {
			res.Outcome = OutcomeStillOpen
			return nil
		}

		bids, err := uc.d.Bids.ListByAuction(ctx, auctionID)
		if err != nil {
			return err
		}
		winning := domain.SelectWinner(bids)
		if winning == nil {
			res.Outcome = OutcomeNoBids
			return nil
		}

		t := domain.NewTransaction(newID(), winning, now)
		if err := uc.d.Transactions.Insert(ctx, t); err != nil {
			return err
		}
		res.Outcome = OutcomeClosed
		res.Transaction = t
		res.WinningBid = winning
		return nil
	})
	if errors.Is(err, domain.ErrTransactionExists) {
		// another closer won the race between our read and our insert
		return uc.alreadyClosed(ctx, auctionID, res.Auction)
	}
	if err != nil {
		return nil, fmt.Errorf("close auction %s: %w", auctionID, err)
	}

	if res.Outcome == OutcomeClosed {
		uc.afterClose(ctx, res)
	}
	return res, nil
}

func (uc *CloseAuctionUseCase) alreadyClosed(ctx context.Context, auctionID uuid.UUID, a *domain.Auction) (*CloseResult, error) {
	log.Info("Close raced with another closer", zap.String("auctionID", auctionID.String()))
	res := &CloseResult{Outcome: OutcomeAlreadyClosed, Auction: a}
	t, err := uc.d.Transactions.GetByAuction(ctx, auctionID)
	if err != nil {
		log.Warn("Failed to load settling transaction", zap.String("auctionID", auctionID.String()), zap.Error(err))
		return res, nil
	}
	res.Transaction = t
	return res, nil
}

// afterClose runs once the settlement is committed. Nothing here can undo it.
func (uc *CloseAuctionUseCase) afterClose(ctx context.Context, res *CloseResult) {
	ctx = context.WithoutCancel(ctx)
	a, t := res.Auction, res.Transaction

	log.Info("Auction closed",
		zap.String("auctionID", a.ID.String()),
		zap.String("transactionID", t.ID.String()),
		zap.String("winnerID", t.WinnerID.String()),
		zap.Float64("amount", t.Amount),
	)

	uc.d.Events.AuctionClosed(ctx, a, t)
	uc.d.Audit.Record(ctx, audit.ActionAuctionClosed, auth.ActorID(ctx))

	winner, err := uc.d.Bidders.Lookup(ctx, t.WinnerID)
	if err != nil || winner == nil {
		log.Warn("Winner not resolvable, skipping notification",
			zap.String("auctionID", a.ID.String()),
			zap.String("winnerID", t.WinnerID.String()),
			zap.Error(err),
		)
		return
	}
	res.Winner = winner

	if err := uc.d.Notifier.Notify(ctx, winner.Email, a.Title, t.Amount); err != nil {
		log.Error("Failed to notify winner",
			zap.String("auctionID", a.ID.String()),
			zap.String("winnerID", winner.ID.String()),
			zap.Error(err),
		)
	}
}
