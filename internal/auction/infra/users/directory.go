// Package users adapts the user context to the auction engine's BidderDirectory.
package users

import (
	"context"
	"errors"

	"github.com/cristianortiz/auctionportal/internal/auction/domain"
	userdomain "github.com/cristianortiz/auctionportal/internal/user/domain"
	"github.com/google/uuid"
)

var _ domain.BidderDirectory = (*Directory)(nil)

type Directory struct {
	users userdomain.UserRepository
}

func NewDirectory(users userdomain.UserRepository) *Directory {
	return &Directory{users: users}
}

func (d *Directory) Lookup(ctx context.Context, id uuid.UUID) (*domain.Bidder, error) {
	u, err := d.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, userdomain.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &domain.Bidder{ID: u.ID, Email: u.Email, Username: u.Username}, nil
}
