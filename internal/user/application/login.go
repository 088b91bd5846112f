package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/cristianortiz/auctionportal/internal/shared/auth"
	"github.com/cristianortiz/auctionportal/internal/shared/validation"
	"github.com/cristianortiz/auctionportal/internal/user/domain"
	"go.uber.org/zap"
)

type LoginUseCase struct {
	users  domain.UserRepository
	tokens *auth.TokenManager
}

func NewLoginUseCase(users domain.UserRepository, tokens *auth.TokenManager) *LoginUseCase {
	return &LoginUseCase{users: users, tokens: tokens}
}

// Execute checks the credentials and issues an access token. Unknown email and wrong password
// yield the same ErrInvalidCredentials.
func (uc *LoginUseCase) Execute(ctx context.Context, dto LoginDTO) (*LoginResultDTO, error) {
	dto.Email = normalizeEmail(dto.Email)
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	u, err := uc.users.GetByEmail(ctx, dto.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("user: login: %w", err)
	}
	if !checkPassword(u.PasswordHash, dto.Password) {
		log.Debug("Password mismatch", zap.String("userID", u.ID.String()))
		return nil, domain.ErrInvalidCredentials
	}

	token, exp, err := uc.tokens.Issue(u.ID, u.Role)
	if err != nil {
		return nil, fmt.Errorf("user: login: %w", err)
	}
	return &LoginResultDTO{
		AccessToken: token,
		ExpiresAt:   exp,
		UserID:      u.ID,
		Role:        u.Role,
		Username:    u.Username,
	}, nil
}
