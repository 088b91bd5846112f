package postgres

import (
	"context"

	"github.com/cristianortiz/auctionportal/internal/auction/domain"
	"github.com/cristianortiz/auctionportal/internal/shared/db"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	_ domain.AuctionRepository     = (*AuctionRepository)(nil)
	_ domain.BidRepository         = (*BidRepository)(nil)
	_ domain.TransactionRepository = (*TransactionRepository)(nil)
	_ domain.TxManager             = (*TxManager)(nil)
)

// TxManager serializes units of work on the auction row: every unit starts with SELECT ... FOR UPDATE,
// so a bid insert and a settlement on the same auction never interleave.
type TxManager struct {
	pool *pgxpool.Pool
}

func NewTxManager(pool *pgxpool.Pool) *TxManager {
	return &TxManager{pool: pool}
}

func (m *TxManager) WithinAuction(ctx context.Context, auctionID uuid.UUID, fn func(ctx context.Context) error) error {
	return db.WithTx(ctx, m.pool, func(ctx context.Context) error {
		// a missing row locks nothing; the repositories report the not-found
		if _, err := db.Conn(ctx, m.pool).Exec(ctx, `SELECT 1 FROM auctions WHERE id = $1 FOR UPDATE`, auctionID); err != nil {
			return db.StoreError("lock auction", err)
		}
		return fn(ctx)
	})
}
