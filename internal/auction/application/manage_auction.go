package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/cristianortiz/auctionportal/internal/auction/domain"
	audit "github.com/cristianortiz/auctionportal/internal/audit/domain"
	"github.com/cristianortiz/auctionportal/internal/shared/auth"
	"github.com/cristianortiz/auctionportal/internal/shared/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateAuctionUseCase lists a new auction. The caller has already passed the capability gate.
type CreateAuctionUseCase struct {
	d Deps
}

func NewCreateAuctionUseCase(d Deps) *CreateAuctionUseCase {
	return &CreateAuctionUseCase{d: d.withDefaults()}
}

func (uc *CreateAuctionUseCase) Execute(ctx context.Context, creatorID uuid.UUID, dto CreateAuctionDTO) (*domain.Auction, error) {
	dto.Title = strings.TrimSpace(dto.Title)
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	var imageURL *string
	if dto.ImageURL != nil && *dto.ImageURL != "" {
		imageURL = dto.ImageURL
	}
	a, err := domain.NewAuction(newID(), creatorID, dto.Title, dto.Description, imageURL,
		dto.StartingPrice, dto.StartTime, dto.EndTime, uc.d.Clock.Now())
	if err != nil {
		return nil, err
	}
	if err := uc.d.Auctions.Insert(ctx, a); err != nil {
		return nil, fmt.Errorf("create auction: %w", err)
	}

	log.Info("Auction created",
		zap.String("auctionID", a.ID.String()),
		zap.String("userID", creatorID.String()),
		zap.Time("startTime", a.StartTime),
		zap.Time("endTime", a.EndTime),
	)
	uc.d.Audit.Record(ctx, audit.ActionAuctionCreated, &creatorID)
	return a, nil
}

// EditAuctionUseCase changes an auction that has not been settled.
type EditAuctionUseCase struct {
	d Deps
}

func NewEditAuctionUseCase(d Deps) *EditAuctionUseCase {
	return &EditAuctionUseCase{d: d.withDefaults()}
}

func (uc *EditAuctionUseCase) Execute(ctx context.Context, auctionID uuid.UUID, dto EditAuctionDTO) (*domain.Auction, error) {
	if dto.Title != nil {
		title := strings.TrimSpace(*dto.Title)
		dto.Title = &title
	}
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	var edited *domain.Auction
	err := uc.d.Tx.WithinAuction(ctx, auctionID, func(ctx context.Context) error {
		a, err := uc.d.Auctions.GetByID(ctx, auctionID)
		if err != nil {
			return err
		}
		t, err := uc.d.Transactions.GetByAuction(ctx, auctionID)
		if err != nil {
			return err
		}
		if t != nil {
			return domain.ErrAuctionSettled
		}
		if err := a.Apply(dto.patch(), uc.d.Clock.Now()); err != nil {
			return err
		}
		edited = a
		return uc.d.Auctions.Update(ctx, a)
	})
	if err != nil {
		return nil, fmt.Errorf("edit auction %s: %w", auctionID, err)
	}

	log.Info("Auction edited", zap.String("auctionID", auctionID.String()))
	uc.d.Audit.Record(ctx, audit.ActionAuctionEdited, auth.ActorID(ctx))
	return edited, nil
}
