package application

import (
	"time"

	"github.com/cristianortiz/auctionportal/internal/auction/domain"
	"github.com/google/uuid"
)

// SubmitBidDTO is the input of SubmitBid. BidderID comes from the authenticated caller, never the body.
type SubmitBidDTO struct {
	AuctionID uuid.UUID `json:"-"`
	BidderID  uuid.UUID `json:"-"`
	Price     float64   `json:"price"`
}

type CreateAuctionDTO struct {
	Title         string    `json:"title" validate:"required,max=200"`
	Description   string    `json:"description" validate:"max=5000"`
	ImageURL      *string   `json:"image_url" validate:"omitempty,url,max=2048"`
	StartingPrice float64   `json:"starting_price" validate:"gt=0"`
	StartTime     time.Time `json:"start_time" validate:"required"`
	EndTime       time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
}

// EditAuctionDTO changes only the fields that are set. An empty image_url clears the image.
type EditAuctionDTO struct {
	Title         *string    `json:"title" validate:"omitempty,min=1,max=200"`
	Description   *string    `json:"description" validate:"omitempty,max=5000"`
	ImageURL      *string    `json:"image_url" validate:"omitempty,url,max=2048"`
	StartingPrice *float64   `json:"starting_price" validate:"omitempty,gt=0"`
	StartTime     *time.Time `json:"start_time"`
	EndTime       *time.Time `json:"end_time"`
}

func (d EditAuctionDTO) patch() domain.AuctionPatch {
	return domain.AuctionPatch{
		Title:         d.Title,
		Description:   d.Description,
		ImageURL:      d.ImageURL,
		StartingPrice: d.StartingPrice,
		StartTime:     d.StartTime,
		EndTime:       d.EndTime,
	}
}

type BidDTO struct {
	ID        uuid.UUID `json:"id"`
	AuctionID uuid.UUID `json:"auction_id"`
	BidderID  uuid.UUID `json:"bidder_id"`
	Price     float64   `json:"price"`
	BidTime   time.Time `json:"bid_time"`
}

type TransactionDTO struct {
	ID            uuid.UUID            `json:"id"`
	AuctionID     uuid.UUID            `json:"auction_id"`
	WinnerID      uuid.UUID            `json:"winner_id"`
	BidID         uuid.UUID            `json:"bid_id"`
	Amount        float64              `json:"amount"`
	PaymentStatus domain.PaymentStatus `json:"payment_status"`
	SettledAt     time.Time            `json:"settled_at"`
}

// AuctionViewDTO is the read model of an auction. Status is derived at read time.
// Bids are best first and only filled for a single auction view.
type AuctionViewDTO struct {
	ID            uuid.UUID       `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	ImageURL      *string         `json:"image_url,omitempty"`
	StartingPrice float64         `json:"starting_price"`
	StartTime     time.Time       `json:"start_time"`
	EndTime       time.Time       `json:"end_time"`
	CreatorID     uuid.UUID       `json:"creator_id"`
	Status        domain.Status   `json:"status"`
	HighestBid    *float64        `json:"highest_bid,omitempty"`
	Bids          []BidDTO        `json:"bids,omitempty"`
	Transaction   *TransactionDTO `json:"transaction,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func toBidDTO(b *domain.Bid) BidDTO {
	return BidDTO{
		ID:        b.ID,
		AuctionID: b.AuctionID,
		BidderID:  b.BidderID,
		Price:     b.Price,
		BidTime:   b.BidTime,
	}
}

func toTransactionDTO(t *domain.Transaction) *TransactionDTO {
	if t == nil {
		return nil
	}
	return &TransactionDTO{
		ID:            t.ID,
		AuctionID:     t.AuctionID,
		WinnerID:      t.WinnerID,
		BidID:         t.BidID,
		Amount:        t.Amount,
		PaymentStatus: t.PaymentStatus,
		SettledAt:     t.SettledAt,
	}
}

// toView builds the view; bids must already be ranked.
func toView(a *domain.Auction, bids []*domain.Bid, t *domain.Transaction, now time.Time) *AuctionViewDTO {
	v := &AuctionViewDTO{
		ID:            a.ID,
		Title:         a.Title,
		Description:   a.Description,
		ImageURL:      a.ImageURL,
		StartingPrice: a.StartingPrice,
		StartTime:     a.StartTime,
		EndTime:       a.EndTime,
		CreatorID:     a.CreatorID,
		Status:        a.Status(now),
		Transaction:   toTransactionDTO(t),
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
	if len(bids) > 0 {
		top := bids[0].Price
		v.HighestBid = &top
		v.Bids = make([]BidDTO, 0, len(bids))
		for _, b := range bids {
			v.Bids = append(v.Bids, toBidDTO(b))
		}
	}
	return v
}
