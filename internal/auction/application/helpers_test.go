package application_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cristianortiz/auctionportal/internal/auction/application"
	"github.com/cristianortiz/auctionportal/internal/auction/domain"
	"github.com/cristianortiz/auctionportal/internal/auction/infra/repository/memory"
	"github.com/cristianortiz/auctionportal/internal/auction/infra/users"
	"github.com/cristianortiz/auctionportal/internal/shared/auth"
	"github.com/cristianortiz/auctionportal/internal/shared/clock"
	userdomain "github.com/cristianortiz/auctionportal/internal/user/domain"
	usermemory "github.com/cristianortiz/auctionportal/internal/user/infra/repository/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type notifierMock struct {
	mock.Mock
}

func (m *notifierMock) Notify(ctx context.Context, email, itemTitle string, amount float64) error {
	args := m.Called(ctx, email, itemTitle, amount)
	return args.Error(0)
}

type eventSpy struct {
	mu     sync.Mutex
	bids   []*domain.Bid
	closed []*domain.Transaction
}

func (s *eventSpy) BidPlaced(_ context.Context, _ *domain.Auction, b *domain.Bid) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bids = append(s.bids, b)
}

func (s *eventSpy) AuctionClosed(_ context.Context, _ *domain.Auction, t *domain.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = append(s.closed, t)
}

func (s *eventSpy) closedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.closed)
}

type auditSpy struct {
	mu      sync.Mutex
	actions []string
}

func (s *auditSpy) Record(_ context.Context, action string, _ *uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actions = append(s.actions, action)
}

type harness struct {
	t        *testing.T
	store    *memory.Store
	users    *usermemory.UserRepository
	clock    *clock.Manual
	notifier *notifierMock
	events   *eventSpy
	audit    *auditSpy
	deps     application.Deps
	svc      application.AuctionService
	admin    uuid.UUID
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		t:        t,
		store:    memory.NewStore(),
		users:    usermemory.NewUserRepository(),
		clock:    clock.NewManual(t0),
		notifier: &notifierMock{},
		events:   &eventSpy{},
		audit:    &auditSpy{},
	}
	h.deps = application.Deps{
		Auctions:     h.store.Auctions(),
		Bids:         h.store.Bids(),
		Transactions: h.store.Transactions(),
		Tx:           h.store,
		Bidders:      users.NewDirectory(h.users),
		Notifier:     h.notifier,
		Events:       h.events,
		Audit:        h.audit,
		Clock:        h.clock,
	}
	h.svc = application.NewAuctionService(h.deps, nil)
	h.admin = h.user("admin", auth.RoleAdmin)
	return h
}

func (h *harness) user(name string, role auth.Role) uuid.UUID {
	h.t.Helper()
	u := userdomain.NewUser(uuid.New(), name+"@example.com", name, "hash", role, t0)
	require.NoError(h.t, h.users.Insert(context.Background(), u))
	return u.ID
}

// auction creates an auction open over [t0, t0+1h).
func (h *harness) auction(title string) *domain.Auction {
	h.t.Helper()
	a, err := h.svc.CreateAuction(context.Background(), h.admin, application.CreateAuctionDTO{
		Title:         title,
		Description:   "lot",
		StartingPrice: 10,
		StartTime:     t0,
		EndTime:       t0.Add(time.Hour),
	})
	require.NoError(h.t, err)
	return a
}

func (h *harness) bid(a *domain.Auction, bidder uuid.UUID, price float64) (*domain.Bid, error) {
	return h.svc.SubmitBid(context.Background(), application.SubmitBidDTO{
		AuctionID: a.ID,
		BidderID:  bidder,
		Price:     price,
	})
}

func (h *harness) expectNotify(email, title string, amount float64) *mock.Call {
	return h.notifier.On("Notify", mock.Anything, email, title, amount).Return(nil)
}
