package domain

import (
	"time"

	"github.com/cristianortiz/auctionportal/internal/shared/auth"
	"github.com/google/uuid"
)

// User is a registered account. Email and username are unique.
type User struct {
	ID           uuid.UUID
	Email        string
	Username     string
	PasswordHash string
	Role         auth.Role
	CreatedAt    time.Time
}

func NewUser(id uuid.UUID, email, username, passwordHash string, role auth.Role, now time.Time) *User {
	return &User{
		ID:           id,
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    now,
	}
}
