package application

import (
	"context"
	"fmt"
	"time"

	"github.com/cristianortiz/auctionportal/internal/auction/domain"
	"github.com/cristianortiz/auctionportal/internal/shared/clock"
	"go.uber.org/zap"
)

const sweepLeaseKey = "auctionportal:sweeper"

// Lease lets one replica out of many run a sweep tick. Acquire reports false when another holder has it.
type Lease interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// Sweeper closes auctions that ended with bids but were never settled by a request.
type Sweeper struct {
	auctions domain.AuctionRepository
	closeUC  *CloseAuctionUseCase
	clock    clock.Clock
	interval time.Duration
	batch    int
	lease    Lease
}

// NewSweeper builds a sweeper. A nil lease means every replica sweeps on every tick.
func NewSweeper(auctions domain.AuctionRepository, closeUC *CloseAuctionUseCase, clk clock.Clock,
	interval time.Duration, batch int, lease Lease) *Sweeper {

	if clk == nil {
		clk = clock.System{}
	}
	if batch <= 0 {
		batch = 100
	}
	return &Sweeper{
		auctions: auctions,
		closeUC:  closeUC,
		clock:    clk,
		interval: interval,
		batch:    batch,
		lease:    lease,
	}
}

// SweepOnce closes one batch of ended, unsettled auctions and returns how many it settled.
func (s *Sweeper) SweepOnce(ctx context.Context) (int, error) {
	ids, err := s.auctions.ListEndedUnsettled(ctx, s.clock.Now(), s.batch)
	if err != nil {
		return 0, fmt.Errorf("sweep: %w", err)
	}

	closed := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			return closed, ctx.Err()
		}
		res, err := s.closeUC.Execute(ctx, id)
		if err != nil {
			log.Warn("Sweeper failed to close auction", zap.String("auctionID", id.String()), zap.Error(err))
			continue
		}
		if res.Outcome == OutcomeClosed {
			closed++
		}
	}
	return closed, nil
}

// Run sweeps every interval until ctx is done. A non-positive interval disables it.
func (s *Sweeper) Run(ctx context.Context) {
	if s.interval <= 0 {
		log.Info("Sweeper disabled")
		return
	}
	log.Info("Sweeper started", zap.Duration("interval", s.interval), zap.Int("batch", s.batch))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Sweeper stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Sweeper) tick(ctx context.Context) {
	if s.lease != nil {
		ok, err := s.lease.Acquire(ctx, sweepLeaseKey, s.interval)
		if err != nil {
			// closing is idempotent, so sweeping without the lease is only wasted work
			log.Warn("Sweeper lease unavailable, sweeping anyway", zap.Error(err))
		} else if !ok {
			log.Debug("Sweeper lease held elsewhere, skipping tick")
			return
		}
	}

	n, err := s.SweepOnce(ctx)
	if err != nil {
		log.Warn("Sweep failed", zap.Int("closed", n), zap.Error(err))
		return
	}
	if n > 0 {
		log.Info("Sweep closed auctions", zap.Int("closed", n))
	}
}
