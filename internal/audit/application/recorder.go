package application

import (
	"context"
	"fmt"

	"github.com/cristianortiz/auctionportal/internal/audit/domain"
	"github.com/cristianortiz/auctionportal/internal/shared/clock"
	"github.com/cristianortiz/auctionportal/internal/shared/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

const (
	DefaultListLimit = 100
	MaxListLimit     = 1000
)

// Recorder writes audit entries on behalf of other contexts. Failures are logged and swallowed.
type Recorder struct {
	repo  domain.Repository
	clock clock.Clock
}

func NewRecorder(repo domain.Repository, clk clock.Clock) *Recorder {
	return &Recorder{repo: repo, clock: clk}
}

func (r *Recorder) Record(ctx context.Context, action string, userID *uuid.UUID) {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	e := &domain.Entry{
		ID:        id,
		Action:    action,
		UserID:    userID,
		Timestamp: r.clock.Now(),
	}
	if err := r.repo.Append(ctx, e); err != nil {
		fields := []zap.Field{zap.String("action", action), zap.Error(err)}
		if userID != nil {
			fields = append(fields, zap.String("userID", userID.String()))
		}
		log.Warn("Failed to append audit entry", fields...)
	}
}

// List returns the newest audit entries. A non-positive limit means DefaultListLimit.
func (r *Recorder) List(ctx context.Context, limit int) ([]*domain.Entry, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	entries, err := r.repo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("audit: list entries: %w", err)
	}
	return entries, nil
}
