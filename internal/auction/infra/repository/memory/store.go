// Package memory is an in-process persistence gateway for the auction context.
// Writes made inside WithinAuction are journaled and applied atomically on commit,
// and units on the same auction are serialized by a per-auction mutex.
package memory

import (
	"context"
	"sync"

	"github.com/cristianortiz/auctionportal/internal/auction/domain"
	"github.com/google/uuid"
)

// Store keeps auctions, bids and transactions in maps guarded by one RWMutex.
type Store struct {
	mu           sync.RWMutex
	auctions     map[uuid.UUID]*domain.Auction
	bids         map[uuid.UUID][]*domain.Bid      // key: auctionID
	transactions map[uuid.UUID]*domain.Transaction // key: auctionID, unique
	locks        keyedMutex
}

func NewStore() *Store {
	return &Store{
		auctions:     make(map[uuid.UUID]*domain.Auction),
		bids:         make(map[uuid.UUID][]*domain.Bid),
		transactions: make(map[uuid.UUID]*domain.Transaction),
	}
}

// unit is the write journal of one WithinAuction call.
type unit struct {
	auctionID       uuid.UUID
	newAuctions     []*domain.Auction
	updatedAuctions []*domain.Auction
	bids            []*domain.Bid
	transactions    []*domain.Transaction
}

type unitKey struct{}

// WithinAuction implements domain.TxManager. A nested call on the same auction joins the outer unit.
func (s *Store) WithinAuction(ctx context.Context, auctionID uuid.UUID, fn func(ctx context.Context) error) error {
	if u, ok := ctx.Value(unitKey{}).(*unit); ok && u.auctionID == auctionID {
		return fn(ctx)
	}

	unlock := s.locks.lock(auctionID)
	defer unlock()

	u := &unit{auctionID: auctionID}
	if err := fn(context.WithValue(ctx, unitKey{}, u)); err != nil {
		return err
	}
	return s.commit(u)
}

// write journals into the unit bound to ctx, or commits right away when there is none.
func (s *Store) write(ctx context.Context, stage func(u *unit)) error {
	if u, ok := ctx.Value(unitKey{}).(*unit); ok {
		stage(u)
		return nil
	}
	u := &unit{}
	stage(u)
	return s.commit(u)
}

// commit checks every constraint first so a failing unit applies nothing.
func (s *Store) commit(u *unit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	created := make(map[uuid.UUID]bool, len(u.newAuctions))
	for _, a := range u.newAuctions {
		if _, ok := s.auctions[a.ID]; ok || created[a.ID] {
			return errDuplicateID
		}
		created[a.ID] = true
	}
	exists := func(id uuid.UUID) bool {
		_, ok := s.auctions[id]
		return ok || created[id]
	}
	for _, a := range u.updatedAuctions {
		if !exists(a.ID) {
			return domain.ErrAuctionNotFound
		}
	}
	for _, b := range u.bids {
		if !exists(b.AuctionID) {
			return domain.ErrAuctionNotFound
		}
	}
	settled := make(map[uuid.UUID]bool, len(u.transactions))
	for _, t := range u.transactions {
		if !exists(t.AuctionID) {
			return domain.ErrAuctionNotFound
		}
		if _, ok := s.transactions[t.AuctionID]; ok || settled[t.AuctionID] {
			return domain.ErrTransactionExists
		}
		settled[t.AuctionID] = true
	}

	for _, a := range u.newAuctions {
		s.auctions[a.ID] = a
	}
	for _, a := range u.updatedAuctions {
		s.auctions[a.ID] = a
	}
	for _, b := range u.bids {
		s.bids[b.AuctionID] = append(s.bids[b.AuctionID], b)
	}
	for _, t := range u.transactions {
		s.transactions[t.AuctionID] = t
	}
	return nil
}

// keyedMutex hands out one mutex per auction id and frees it when nobody holds or waits on it.
type keyedMutex struct {
	mu sync.Mutex
	m  map[uuid.UUID]*keyedEntry
}

type keyedEntry struct {
	mu   sync.Mutex
	refs int
}

func (k *keyedMutex) lock(id uuid.UUID) (unlock func()) {
	k.mu.Lock()
	if k.m == nil {
		k.m = make(map[uuid.UUID]*keyedEntry)
	}
	e, ok := k.m[id]
	if !ok {
		e = &keyedEntry{}
		k.m[id] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.m, id)
		}
		k.mu.Unlock()
	}
}
