package domain

import (
	"time"

	"github.com/google/uuid"
)

// Status is the temporal state of an auction. It is always derived, never read back from storage.
type Status string

const (
	StatusPending Status = "pending"
	StatusActive  Status = "active"
	StatusEnded   Status = "ended"
)

// Auction is a listing with a half-open bidding window [StartTime, EndTime).
type Auction struct {
	ID            uuid.UUID
	Title         string
	Description   string
	ImageURL      *string
	StartingPrice float64
	StartTime     time.Time
	EndTime       time.Time
	CreatorID     uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewAuction builds an auction after checking the price and the time window.
func NewAuction(id, creatorID uuid.UUID, title, description string, imageURL *string,
	startingPrice float64, start, end, now time.Time) (*Auction, error) {

	a := &Auction{
		ID:            id,
		Title:         title,
		Description:   description,
		ImageURL:      imageURL,
		StartingPrice: startingPrice,
		StartTime:     start.UTC(),
		EndTime:       end.UTC(),
		CreatorID:     creatorID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := a.checkInvariants(); err != nil {
		return nil, err
	}
	return a, nil
}

// DeriveStatus computes the status of a at now.
func DeriveStatus(a *Auction, now time.Time) Status {
	switch {
	case now.Before(a.StartTime):
		return StatusPending
	case now.Before(a.EndTime):
		return StatusActive
	default:
		return StatusEnded
	}
}

// Status is DeriveStatus as a method.
func (a *Auction) Status(now time.Time) Status {
	return DeriveStatus(a, now)
}

// AuctionPatch carries the editable fields; nil means unchanged.
type AuctionPatch struct {
	Title         *string
	Description   *string
	ImageURL      *string
	StartingPrice *float64
	StartTime     *time.Time
	EndTime       *time.Time
}

// Apply edits a in place. The auction is left untouched when the result would break an invariant.
// Callers must reject edits on settled auctions before calling Apply.
func (a *Auction) Apply(p AuctionPatch, now time.Time) error {
	next := *a
	if p.Title != nil {
		next.Title = *p.Title
	}
	if p.Description != nil {
		next.Description = *p.Description
	}
	if p.ImageURL != nil {
		url := *p.ImageURL
		next.ImageURL = &url
		if url == "" {
			next.ImageURL = nil
		}
	}
	if p.StartingPrice != nil {
		next.StartingPrice = *p.StartingPrice
	}
	if p.StartTime != nil {
		next.StartTime = p.StartTime.UTC()
	}
	if p.EndTime != nil {
		next.EndTime = p.EndTime.UTC()
	}
	if err := next.checkInvariants(); err != nil {
		return err
	}
	next.UpdatedAt = now
	*a = next
	return nil
}

func (a *Auction) checkInvariants() error {
	if a.StartingPrice <= 0 {
		return ErrInvalidPrice
	}
	if !a.EndTime.After(a.StartTime) {
		return ErrInvalidTimeWindow
	}
	return nil
}
