package application

import (
	"context"

	"github.com/cristianortiz/auctionportal/internal/auction/domain"
	"github.com/google/uuid"
)

// AuctionService is the boundary of the auction engine used by the REST and websocket layers.
type AuctionService interface {
	SubmitBid(ctx context.Context, dto SubmitBidDTO) (*domain.Bid, error)
	CloseAuction(ctx context.Context, auctionID uuid.UUID) (*CloseResult, error)
	GetAuctionView(ctx context.Context, auctionID uuid.UUID) (*AuctionViewDTO, error)
	ListAuctions(ctx context.Context) ([]*AuctionViewDTO, error)
	CreateAuction(ctx context.Context, creatorID uuid.UUID, dto CreateAuctionDTO) (*domain.Auction, error)
	EditAuction(ctx context.Context, auctionID uuid.UUID, dto EditAuctionDTO) (*domain.Auction, error)
	GetUserBids(ctx context.Context, userID uuid.UUID) ([]BidDTO, error)
	GetUserTransactions(ctx context.Context, userID uuid.UUID) ([]TransactionDTO, error)
	SweepEnded(ctx context.Context) (int, error)
}

type auctionService struct {
	submitBidUC *SubmitBidUseCase
	closeUC     *CloseAuctionUseCase
	viewUC      *GetAuctionViewUseCase
	listUC      *ListAuctionsUseCase
	createUC    *CreateAuctionUseCase
	editUC      *EditAuctionUseCase
	activityUC  *UserActivityUseCase
	sweeper     *Sweeper
}

// NewAuctionService wires every use case over d. The sweeper may be nil when only SweepEnded
// on demand is wanted; a default one over d is built then.
func NewAuctionService(d Deps, sweeper *Sweeper) AuctionService {
	closeUC := NewCloseAuctionUseCase(d)
	if sweeper == nil {
		sweeper = NewSweeper(d.Auctions, closeUC, d.Clock, 0, 0, nil)
	}
	return &auctionService{
		submitBidUC: NewSubmitBidUseCase(d, closeUC),
		closeUC:     closeUC,
		viewUC:      NewGetAuctionViewUseCase(d, closeUC),
		listUC:      NewListAuctionsUseCase(d),
		createUC:    NewCreateAuctionUseCase(d),
		editUC:      NewEditAuctionUseCase(d),
		activityUC:  NewUserActivityUseCase(d),
		sweeper:     sweeper,
	}
}

func (s *auctionService) SubmitBid(ctx context.Context, dto SubmitBidDTO) (*domain.Bid, error) {
	return s.submitBidUC.Execute(ctx, dto)
}

func (s *auctionService) CloseAuction(ctx context.Context, auctionID uuid.UUID) (*CloseResult, error) {
	return s.closeUC.Execute(ctx, auctionID)
}

func (s *auctionService) GetAuctionView(ctx context.Context, auctionID uuid.UUID) (*AuctionViewDTO, error) {
	return s.viewUC.Execute(ctx, auctionID)
}

func (s *auctionService) ListAuctions(ctx context.Context) ([]*AuctionViewDTO, error) {
	return s.listUC.Execute(ctx)
}

func (s *auctionService) CreateAuction(ctx context.Context, creatorID uuid.UUID, dto CreateAuctionDTO) (*domain.Auction, error) {
	return s.createUC.Execute(ctx, creatorID, dto)
}

func (s *auctionService) EditAuction(ctx context.Context, auctionID uuid.UUID, dto EditAuctionDTO) (*domain.Auction, error) {
	return s.editUC.Execute(ctx, auctionID, dto)
}

func (s *auctionService) GetUserBids(ctx context.Context, userID uuid.UUID) ([]BidDTO, error) {
	return s.activityUC.Bids(ctx, userID)
}

func (s *auctionService) GetUserTransactions(ctx context.Context, userID uuid.UUID) ([]TransactionDTO, error) {
	return s.activityUC.Transactions(ctx, userID)
}

func (s *auctionService) SweepEnded(ctx context.Context) (int, error) {
	return s.sweeper.SweepOnce(ctx)
}
