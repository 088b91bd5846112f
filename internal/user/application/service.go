package application

import (
	"context"
	"fmt"

	"github.com/cristianortiz/auctionportal/internal/user/domain"
	"github.com/google/uuid"
)

// UserService exposes the account use cases to the transport layer.
type UserService interface {
	Register(ctx context.Context, dto RegisterDTO) (*ProfileDTO, error)
	Login(ctx context.Context, dto LoginDTO) (*LoginResultDTO, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error)
}

type userService struct {
	registerUC *RegisterUseCase
	loginUC    *LoginUseCase
	users      domain.UserRepository
}

func NewUserService(registerUC *RegisterUseCase, loginUC *LoginUseCase, users domain.UserRepository) UserService {
	return &userService{
		registerUC: registerUC,
		loginUC:    loginUC,
		users:      users,
	}
}

func (s *userService) Register(ctx context.Context, dto RegisterDTO) (*ProfileDTO, error) {
	return s.registerUC.Execute(ctx, dto)
}

func (s *userService) Login(ctx context.Context, dto LoginDTO) (*LoginResultDTO, error) {
	return s.loginUC.Execute(ctx, dto)
}

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user: get profile: %w", err)
	}
	return toProfile(u), nil
}
