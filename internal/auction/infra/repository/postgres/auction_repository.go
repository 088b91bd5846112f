package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/cristianortiz/auctionportal/internal/auction/domain"
	"github.com/cristianortiz/auctionportal/internal/shared/db"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const auctionColumns = `id, title, description, image_url, starting_price, start_time, end_time, creator_id, created_at, updated_at`

// AuctionRepository implements domain.AuctionRepository interface
type AuctionRepository struct {
	pool *pgxpool.Pool
}

// NewAuctionRepository creates a new instance of AuctionRepository
func NewAuctionRepository(pool *pgxpool.Pool) *AuctionRepository {
	return &AuctionRepository{pool: pool}
}

func (r *AuctionRepository) Insert(ctx context.Context, a *domain.Auction) error {
	query := `
        INSERT INTO auctions (` + auctionColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    `
	_, err := db.Conn(ctx, r.pool).Exec(ctx, query,
		a.ID,
		a.Title,
		a.Description,
		a.ImageURL,
		a.StartingPrice,
		a.StartTime,
		a.EndTime,
		a.CreatorID,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		return db.StoreError("insert auction", err)
	}
	return nil
}

// Update writes the editable fields. Status is never stored, it is derived on read.
func (r *AuctionRepository) Update(ctx context.Context, a *domain.Auction) error {
	query := `
        UPDATE auctions
        SET title = $2, description = $3, image_url = $4, starting_price = $5,
            start_time = $6, end_time = $7, updated_at = $8
        WHERE id = $1
    `
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, query,
		a.ID,
		a.Title,
		a.Description,
		a.ImageURL,
		a.StartingPrice,
		a.StartTime,
		a.EndTime,
		a.UpdatedAt,
	)
	if err != nil {
		return db.StoreError("update auction", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAuctionNotFound
	}
	return nil
}

func (r *AuctionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Auction, error) {
	query := `SELECT ` + auctionColumns + ` FROM auctions WHERE id = $1`

	a, err := scanAuction(db.Conn(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAuctionNotFound
		}
		return nil, db.StoreError("get auction", err)
	}
	return a, nil
}

func (r *AuctionRepository) List(ctx context.Context) ([]*domain.Auction, error) {
	query := `SELECT ` + auctionColumns + ` FROM auctions ORDER BY created_at ASC`

	rows, err := db.Conn(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, db.StoreError("list auctions", err)
	}
	defer rows.Close()

	var auctions []*domain.Auction
	for rows.Next() {
		a, err := scanAuction(rows)
		if err != nil {
			return nil, db.StoreError("scan auction", err)
		}
		auctions = append(auctions, a)
	}
	if err := rows.Err(); err != nil {
		return nil, db.StoreError("list auctions", err)
	}
	return auctions, nil
}

// ListEndedUnsettled feeds the sweeper: ended auctions with at least one bid and no transaction.
func (r *AuctionRepository) ListEndedUnsettled(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	query := `
        SELECT a.id
        FROM auctions a
        WHERE a.end_time <= $1
          AND NOT EXISTS (SELECT 1 FROM transactions t WHERE t.auction_id = a.id)
          AND EXISTS (SELECT 1 FROM bids b WHERE b.auction_id = a.id)
        ORDER BY a.end_time ASC
        LIMIT $2
    `
	rows, err := db.Conn(ctx, r.pool).Query(ctx, query, now, limit)
	if err != nil {
		return nil, db.StoreError("list ended auctions", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, db.StoreError("list ended auctions", err)
	}
	return ids, nil
}

func scanAuction(row pgx.Row) (*domain.Auction, error) {
	a := &domain.Auction{}
	var imageURL *string // pointer to handle NULL
	err := row.Scan(
		&a.ID,
		&a.Title,
		&a.Description,
		&imageURL,
		&a.StartingPrice,
		&a.StartTime,
		&a.EndTime,
		&a.CreatorID,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.ImageURL = imageURL
	a.StartTime = a.StartTime.UTC()
	a.EndTime = a.EndTime.UTC()
	return a, nil
}
