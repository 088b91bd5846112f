package postgres

import (
	"context"

	"github.com/cristianortiz/auctionportal/internal/audit/domain"
	"github.com/cristianortiz/auctionportal/internal/shared/db"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ domain.Repository = (*AuditRepository)(nil)

type AuditRepository struct {
	db *pgxpool.Pool
}

func NewAuditRepository(db *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Append(ctx context.Context, e *domain.Entry) error {
	query := `INSERT INTO audit_logs (id, action, user_id, created_at) VALUES ($1, $2, $3, $4)`
	if _, err := db.Conn(ctx, r.db).Exec(ctx, query, e.ID, e.Action, e.UserID, e.Timestamp); err != nil {
		return db.StoreError("append audit entry", err)
	}
	return nil
}

func (r *AuditRepository) List(ctx context.Context, limit int) ([]*domain.Entry, error) {
	query := `SELECT id, action, user_id, created_at FROM audit_logs ORDER BY created_at DESC, id DESC LIMIT $1`
	rows, err := db.Conn(ctx, r.db).Query(ctx, query, limit)
	if err != nil {
		return nil, db.StoreError("list audit entries", err)
	}
	defer rows.Close()

	var entries []*domain.Entry
	for rows.Next() {
		e := &domain.Entry{}
		if err := rows.Scan(&e.ID, &e.Action, &e.UserID, &e.Timestamp); err != nil {
			return nil, db.StoreError("scan audit entry", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, db.StoreError("iterate audit entries", err)
	}
	return entries, nil
}
