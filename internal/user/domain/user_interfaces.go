package domain

import (
	"context"

	"github.com/google/uuid"
)

type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// Insert returns ErrEmailTaken or ErrUsernameTaken on uniqueness violations.
	Insert(ctx context.Context, u *User) error
}
