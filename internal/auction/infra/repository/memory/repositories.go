package memory

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/cristianortiz/auctionportal/internal/auction/domain"
	"github.com/google/uuid"
)

var errDuplicateID = errors.New("memory store: duplicate id")

var (
	_ domain.AuctionRepository     = (*AuctionRepository)(nil)
	_ domain.BidRepository         = (*BidRepository)(nil)
	_ domain.TransactionRepository = (*TransactionRepository)(nil)
	_ domain.TxManager             = (*Store)(nil)
)

// AuctionRepository implements domain.AuctionRepository on a Store.
type AuctionRepository struct{ s *Store }

// BidRepository implements domain.BidRepository on a Store.
type BidRepository struct{ s *Store }

// TransactionRepository implements domain.TransactionRepository on a Store.
type TransactionRepository struct{ s *Store }

func (s *Store) Auctions() *AuctionRepository         { return &AuctionRepository{s: s} }
func (s *Store) Bids() *BidRepository                 { return &BidRepository{s: s} }
func (s *Store) Transactions() *TransactionRepository { return &TransactionRepository{s: s} }

func (r *AuctionRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Auction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.auctions[id]
	if !ok {
		return nil, domain.ErrAuctionNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *AuctionRepository) List(_ context.Context) ([]*domain.Auction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Auction, 0, len(r.s.auctions))
	for _, a := range r.s.auctions {
		cp := *a
		out = append(out, &cp)
	}
	slices.SortFunc(out, func(a, b *domain.Auction) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out, nil
}

func (r *AuctionRepository) Insert(ctx context.Context, a *domain.Auction) error {
	cp := *a
	return r.s.write(ctx, func(u *unit) { u.newAuctions = append(u.newAuctions, &cp) })
}

func (r *AuctionRepository) Update(ctx context.Context, a *domain.Auction) error {
	cp := *a
	return r.s.write(ctx, func(u *unit) { u.updatedAuctions = append(u.updatedAuctions, &cp) })
}

func (r *AuctionRepository) ListEndedUnsettled(_ context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var ended []*domain.Auction
	for id, a := range r.s.auctions {
		if now.Before(a.EndTime) || len(r.s.bids[id]) == 0 {
			continue
		}
		if _, settled := r.s.transactions[id]; settled {
			continue
		}
		ended = append(ended, a)
	}
	slices.SortFunc(ended, func(a, b *domain.Auction) int { return a.EndTime.Compare(b.EndTime) })
	if limit > 0 && len(ended) > limit {
		ended = ended[:limit]
	}

	ids := make([]uuid.UUID, 0, len(ended))
	for _, a := range ended {
		ids = append(ids, a.ID)
	}
	return ids, nil
}

func (r *BidRepository) Insert(ctx context.Context, bid *domain.Bid) error {
	cp := *bid
	return r.s.write(ctx, func(u *unit) { u.bids = append(u.bids, &cp) })
}

// ListByAuction returns the bids oldest first.
func (r *BidRepository) ListByAuction(_ context.Context, auctionID uuid.UUID) ([]*domain.Bid, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := copyBids(r.s.bids[auctionID])
	slices.SortStableFunc(out, func(a, b *domain.Bid) int { return a.BidTime.Compare(b.BidTime) })
	return out, nil
}

func (r *BidRepository) ListByBidder(_ context.Context, bidderID uuid.UUID) ([]*domain.Bid, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*domain.Bid
	for _, bids := range r.s.bids {
		for _, b := range bids {
			if b.BidderID == bidderID {
				cp := *b
				out = append(out, &cp)
			}
		}
	}
	slices.SortStableFunc(out, func(a, b *domain.Bid) int { return a.BidTime.Compare(b.BidTime) })
	return out, nil
}

func (r *TransactionRepository) GetByAuction(_ context.Context, auctionID uuid.UUID) (*domain.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.transactions[auctionID]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *TransactionRepository) Insert(ctx context.Context, t *domain.Transaction) error {
	cp := *t
	return r.s.write(ctx, func(u *unit) { u.transactions = append(u.transactions, &cp) })
}

func (r *TransactionRepository) ListByWinner(_ context.Context, winnerID uuid.UUID) ([]*domain.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*domain.Transaction
	for _, t := range r.s.transactions {
		if t.WinnerID == winnerID {
			cp := *t
			out = append(out, &cp)
		}
	}
	slices.SortFunc(out, func(a, b *domain.Transaction) int { return a.SettledAt.Compare(b.SettledAt) })
	return out, nil
}

func copyBids(bids []*domain.Bid) []*domain.Bid {
	out := make([]*domain.Bid, 0, len(bids))
	for _, b := range bids {
		cp := *b
		out = append(out, &cp)
	}
	return out
}
