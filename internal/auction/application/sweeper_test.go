package application_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cristianortiz/auctionportal/internal/auction/application"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type leaseMock struct {
	mock.Mock
	attempts atomic.Int32
}

func (m *leaseMock) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	m.attempts.Add(1)
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (h *harness) endedAuctionWithBid(title, bidder string) {
	h.t.Helper()
	a := h.auction(title)
	u := h.user(bidder, "user")
	h.clock.Set(t0.Add(time.Minute))
	_, err := h.bid(a, u, 10)
	require.NoError(h.t, err)
	h.clock.Set(t0.Add(time.Hour))
}

func runSweeper(t *testing.T, s *application.Sweeper) (stop func()) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Run(ctx)
	}()
	return func() {
		cancel()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("sweeper did not stop")
		}
	}
}

func TestSweeper_RunWithLease(t *testing.T) {
	h := newHarness(t)
	h.endedAuctionWithBid("Swept", "sam")
	h.expectNotify("sam@example.com", "Swept", 10).Once()

	lease := &leaseMock{}
	lease.On("Acquire", mock.Anything, "auctionportal:sweeper", 10*time.Millisecond).Return(true, nil)

	s := application.NewSweeper(h.deps.Auctions, application.NewCloseAuctionUseCase(h.deps), h.clock, 10*time.Millisecond, 10, lease)
	stop := runSweeper(t, s)
	require.Eventually(t, func() bool { return h.events.closedCount() == 1 }, time.Second, 5*time.Millisecond)
	stop()

	h.notifier.AssertExpectations(t)
}

func TestSweeper_SkipsTickWhenLeaseHeldElsewhere(t *testing.T) {
	h := newHarness(t)
	h.endedAuctionWithBid("Held", "hal")

	lease := &leaseMock{}
	lease.On("Acquire", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)

	s := application.NewSweeper(h.deps.Auctions, application.NewCloseAuctionUseCase(h.deps), h.clock, 5*time.Millisecond, 10, lease)
	stop := runSweeper(t, s)
	require.Eventually(t, func() bool {
		return lease.attempts.Load() > 0
	}, time.Second, 5*time.Millisecond)
	stop()

	assert.Zero(t, h.events.closedCount())
	h.notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSweeper_SweepsWhenLeaseStoreFails(t *testing.T) {
	h := newHarness(t)
	h.endedAuctionWithBid("Fallback", "fay")
	h.expectNotify("fay@example.com", "Fallback", 10).Once()

	lease := &leaseMock{}
	lease.On("Acquire", mock.Anything, mock.Anything, mock.Anything).Return(false, errors.New("redis down"))

	s := application.NewSweeper(h.deps.Auctions, application.NewCloseAuctionUseCase(h.deps), h.clock, 5*time.Millisecond, 10, lease)
	stop := runSweeper(t, s)
	require.Eventually(t, func() bool { return h.events.closedCount() == 1 }, time.Second, 5*time.Millisecond)
	stop()
}

func TestSweeper_DisabledReturnsImmediately(t *testing.T) {
	h := newHarness(t)
	s := application.NewSweeper(h.deps.Auctions, application.NewCloseAuctionUseCase(h.deps), h.clock, 0, 10, nil)

	done := make(chan struct{})
	go func() {
		s.Run(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("disabled sweeper kept running")
	}
}
