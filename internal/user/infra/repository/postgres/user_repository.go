package postgres

import (
	"context"
	"errors"

	"github.com/cristianortiz/auctionportal/internal/shared/db"
	"github.com/cristianortiz/auctionportal/internal/user/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ domain.UserRepository = (*UserRepository)(nil)

// UserRepository implements domain.UserRepository on PostgreSQL.
type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT id, email, username, password_hash, role, created_at FROM users WHERE id = $1`
	return r.get(ctx, query, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT id, email, username, password_hash, role, created_at FROM users WHERE email = $1`
	return r.get(ctx, query, email)
}

func (r *UserRepository) get(ctx context.Context, query string, arg any) (*domain.User, error) {
	u := &domain.User{}
	err := db.Conn(ctx, r.db).QueryRow(ctx, query, arg).Scan(
		&u.ID,
		&u.Email,
		&u.Username,
		&u.PasswordHash,
		&u.Role,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, db.StoreError("get user", err)
	}
	return u, nil
}

func (r *UserRepository) Insert(ctx context.Context, u *domain.User) error {
	query := `
        INSERT INTO users (id, email, username, password_hash, role, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `
	_, err := db.Conn(ctx, r.db).Exec(ctx, query,
		u.ID,
		u.Email,
		u.Username,
		u.PasswordHash,
		u.Role,
		u.CreatedAt,
	)
	switch {
	case err == nil:
		return nil
	case db.IsUniqueViolation(err, "users_email_key"):
		return domain.ErrEmailTaken
	case db.IsUniqueViolation(err, "users_username_key"):
		return domain.ErrUsernameTaken
	default:
		return db.StoreError("insert user", err)
	}
}
