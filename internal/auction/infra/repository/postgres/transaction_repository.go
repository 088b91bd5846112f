package postgres

import (
	"context"
	"errors"

	"github.com/cristianortiz/auctionportal/internal/auction/domain"
	"github.com/cristianortiz/auctionportal/internal/shared/db"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const transactionsAuctionKey = "transactions_auction_id_key"

// TransactionRepository implements domain.TransactionRepository interface
type TransactionRepository struct {
	pool *pgxpool.Pool
}

func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Insert maps the auction uniqueness violation to domain.ErrTransactionExists.
func (r *TransactionRepository) Insert(ctx context.Context, t *domain.Transaction) error {
	query := `
        INSERT INTO transactions (id, auction_id, winner_id, bid_id, amount, payment_status, settled_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `
	_, err := db.Conn(ctx, r.pool).Exec(ctx, query,
		t.ID,
		t.AuctionID,
		t.WinnerID,
		t.BidID,
		t.Amount,
		t.PaymentStatus,
		t.SettledAt,
	)
	return insertTransactionErr(err)
}

// insertTransactionErr translates an insert failure. A duplicate on the auction key means another close won.
func insertTransactionErr(err error) error {
	switch {
	case err == nil:
		return nil
	case db.IsUniqueViolation(err, transactionsAuctionKey):
		return domain.ErrTransactionExists
	default:
		return db.StoreError("insert transaction", err)
	}
}

func (r *TransactionRepository) GetByAuction(ctx context.Context, auctionID uuid.UUID) (*domain.Transaction, error) {
	query := `
        SELECT id, auction_id, winner_id, bid_id, amount, payment_status, settled_at
        FROM transactions
        WHERE auction_id = $1
    `
	t, err := scanTransaction(db.Conn(ctx, r.pool).QueryRow(ctx, query, auctionID))
	if err != nil {
		// not settled yet
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, db.StoreError("get transaction", err)
	}
	return t, nil
}

func (r *TransactionRepository) ListByWinner(ctx context.Context, winnerID uuid.UUID) ([]*domain.Transaction, error) {
	query := `
        SELECT id, auction_id, winner_id, bid_id, amount, payment_status, settled_at
        FROM transactions
        WHERE winner_id = $1
        ORDER BY settled_at ASC
    `
	rows, err := db.Conn(ctx, r.pool).Query(ctx, query, winnerID)
	if err != nil {
		return nil, db.StoreError("list transactions", err)
	}
	defer rows.Close()

	var out []*domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, db.StoreError("scan transaction", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, db.StoreError("list transactions", err)
	}
	return out, nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	t := &domain.Transaction{}
	err := row.Scan(
		&t.ID,
		&t.AuctionID,
		&t.WinnerID,
		&t.BidID,
		&t.Amount,
		&t.PaymentStatus,
		&t.SettledAt,
	)
	if err != nil {
		return nil, err
	}
	t.SettledAt = t.SettledAt.UTC()
	return t, nil
}
