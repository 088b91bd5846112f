package postgres

import (
	"context"

	"github.com/cristianortiz/auctionportal/internal/auction/domain"
	"github.com/cristianortiz/auctionportal/internal/shared/db"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BidRepository implements domain.BidRepository interface
type BidRepository struct {
	pool *pgxpool.Pool
}

// NewBidRepository creates new instance of BidRepository.
func NewBidRepository(pool *pgxpool.Pool) *BidRepository {
	return &BidRepository{pool: pool}
}

// Insert only inserts the bid; the auction row lock is taken by the TxManager.
func (r *BidRepository) Insert(ctx context.Context, bid *domain.Bid) error {
	query := `
        INSERT INTO bids (id, auction_id, bidder_id, price, bid_time)
        VALUES ($1, $2, $3, $4, $5)
    `
	_, err := db.Conn(ctx, r.pool).Exec(ctx, query,
		bid.ID,
		bid.AuctionID,
		bid.BidderID,
		bid.Price,
		bid.BidTime,
	)
	if err != nil {
		return db.StoreError("insert bid", err)
	}
	return nil
}

func (r *BidRepository) ListByAuction(ctx context.Context, auctionID uuid.UUID) ([]*domain.Bid, error) {
	query := `
        SELECT id, auction_id, bidder_id, price, bid_time
        FROM bids
        WHERE auction_id = $1
        ORDER BY bid_time ASC
    `
	return r.list(ctx, query, auctionID)
}

func (r *BidRepository) ListByBidder(ctx context.Context, bidderID uuid.UUID) ([]*domain.Bid, error) {
	query := `
        SELECT id, auction_id, bidder_id, price, bid_time
        FROM bids
        WHERE bidder_id = $1
        ORDER BY bid_time ASC
    `
	return r.list(ctx, query, bidderID)
}

func (r *BidRepository) list(ctx context.Context, query string, arg uuid.UUID) ([]*domain.Bid, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, query, arg)
	if err != nil {
		return nil, db.StoreError("list bids", err)
	}
	defer rows.Close()

	var bids []*domain.Bid
	for rows.Next() {
		bid := &domain.Bid{}
		err := rows.Scan(
			&bid.ID,
			&bid.AuctionID,
			&bid.BidderID,
			&bid.Price,
			&bid.BidTime,
		)
		if err != nil {
			return nil, db.StoreError("scan bid", err)
		}
		bid.BidTime = bid.BidTime.UTC()
		bids = append(bids, bid)
	}
	if err := rows.Err(); err != nil {
		return nil, db.StoreError("list bids", err)
	}
	return bids, nil
}
