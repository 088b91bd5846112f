package application

import (
	"context"
	"fmt"
	"slices"
	"strings"

	audit "github.com/cristianortiz/auctionportal/internal/audit/domain"
	"github.com/cristianortiz/auctionportal/internal/shared/auth"
	"github.com/cristianortiz/auctionportal/internal/shared/clock"
	"github.com/cristianortiz/auctionportal/internal/shared/logger"
	"github.com/cristianortiz/auctionportal/internal/shared/validation"
	"github.com/cristianortiz/auctionportal/internal/user/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// AuditRecorder appends best-effort audit entries.
type AuditRecorder interface {
	Record(ctx context.Context, action string, userID *uuid.UUID)
}

type RegisterUseCase struct {
	users       domain.UserRepository
	audit       AuditRecorder
	clock       clock.Clock
	adminEmails []string
}

func NewRegisterUseCase(users domain.UserRepository, audit AuditRecorder, clk clock.Clock, adminEmails []string) *RegisterUseCase {
	normalized := make([]string, 0, len(adminEmails))
	for _, e := range adminEmails {
		if e = normalizeEmail(e); e != "" {
			normalized = append(normalized, e)
		}
	}
	return &RegisterUseCase{users: users, audit: audit, clock: clk, adminEmails: normalized}
}

func (uc *RegisterUseCase) Execute(ctx context.Context, dto RegisterDTO) (*ProfileDTO, error) {
	dto.Email = normalizeEmail(dto.Email)
	dto.Username = strings.TrimSpace(dto.Username)
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	hash, err := hashPassword(dto.Password)
	if err != nil {
		return nil, fmt.Errorf("user: hash password: %w", err)
	}

	role := auth.RoleUser
	if slices.Contains(uc.adminEmails, dto.Email) {
		role = auth.RoleAdmin
	}

	u := domain.NewUser(uuid.New(), dto.Email, dto.Username, hash, role, uc.clock.Now())
	if err := uc.users.Insert(ctx, u); err != nil {
		return nil, fmt.Errorf("user: register: %w", err)
	}

	log.Info("User registered", zap.String("userID", u.ID.String()), zap.String("role", string(u.Role)))
	uc.audit.Record(ctx, audit.ActionUserRegistered, &u.ID)

	return toProfile(u), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toProfile(u *domain.User) *ProfileDTO {
	return &ProfileDTO{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
