package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/cristianortiz/auctionportal/internal/user/domain"
	"github.com/google/uuid"
)

var _ domain.UserRepository = (*UserRepository)(nil)

// UserRepository is a concurrency-safe in-memory implementation of domain.UserRepository.
type UserRepository struct {
	mu         sync.RWMutex
	users      map[uuid.UUID]*domain.User
	byEmail    map[string]uuid.UUID
	byUsername map[string]uuid.UUID
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:      make(map[uuid.UUID]*domain.User),
		byEmail:    make(map[string]uuid.UUID),
		byUsername: make(map[string]uuid.UUID),
	}
}

func (r *UserRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	id, ok := r.byEmail[strings.ToLower(email)]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *UserRepository) Insert(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(u.Email)
	if _, ok := r.byEmail[email]; ok {
		return domain.ErrEmailTaken
	}
	if _, ok := r.byUsername[u.Username]; ok {
		return domain.ErrUsernameTaken
	}
	cp := *u
	r.users[u.ID] = &cp
	r.byEmail[email] = u.ID
	r.byUsername[u.Username] = u.ID
	return nil
}
