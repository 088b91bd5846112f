package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cristianortiz/auctionportal/internal/audit/application"
	"github.com/cristianortiz/auctionportal/internal/audit/domain"
	"github.com/cristianortiz/auctionportal/internal/audit/infra/repository/memory"
	"github.com/cristianortiz/auctionportal/internal/shared/clock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingRepo struct{}

func (failingRepo) Append(context.Context, *domain.Entry) error { return errors.New("disk full") }
func (failingRepo) List(context.Context, int) ([]*domain.Entry, error) {
	return nil, errors.New("disk full")
}

func TestRecorder_RecordAndList(t *testing.T) {
	clk := clock.NewManual(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	rec := application.NewRecorder(memory.NewAuditRepository(), clk)
	ctx := context.Background()
	user := uuid.New()

	rec.Record(ctx, domain.ActionUserRegistered, &user)
	clk.Advance(time.Minute)
	rec.Record(ctx, domain.ActionAuctionClosed, nil)

	entries, err := rec.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, domain.ActionAuctionClosed, entries[0].Action)
	assert.Nil(t, entries[0].UserID)
	assert.Equal(t, domain.ActionUserRegistered, entries[1].Action)
	require.NotNil(t, entries[1].UserID)
	assert.Equal(t, user, *entries[1].UserID)
	assert.True(t, entries[0].Timestamp.After(entries[1].Timestamp))
}

func TestRecorder_ListLimit(t *testing.T) {
	rec := application.NewRecorder(memory.NewAuditRepository(), clock.System{})
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		rec.Record(ctx, domain.ActionBidPlaced, nil)
	}

	entries, err := rec.List(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestRecorder_AppendFailureIsSwallowed(t *testing.T) {
	rec := application.NewRecorder(failingRepo{}, clock.System{})

	assert.NotPanics(t, func() {
		rec.Record(context.Background(), domain.ActionBidPlaced, nil)
	})

	_, err := rec.List(context.Background(), 10)
	assert.Error(t, err)
}
