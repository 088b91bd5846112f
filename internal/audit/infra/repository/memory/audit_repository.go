package memory

import (
	"context"
	"sync"

	"github.com/cristianortiz/auctionportal/internal/audit/domain"
)

var _ domain.Repository = (*AuditRepository)(nil)

type AuditRepository struct {
	mu      sync.RWMutex
	entries []domain.Entry
}

func NewAuditRepository() *AuditRepository {
	return &AuditRepository{}
}

func (r *AuditRepository) Append(_ context.Context, e *domain.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *e)
	return nil
}

func (r *AuditRepository) List(_ context.Context, limit int) ([]*domain.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Entry, 0, min(limit, len(r.entries)))
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		e := r.entries[i]
		out = append(out, &e)
	}
	return out, nil
}
