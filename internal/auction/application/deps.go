package application

import (
	"context"

	"github.com/cristianortiz/auctionportal/internal/auction/domain"
	"github.com/cristianortiz/auctionportal/internal/shared/clock"
	"github.com/cristianortiz/auctionportal/internal/shared/logger"
	"github.com/google/uuid"
)

var log = logger.GetLogger()

// Deps are the collaborators shared by the auction use cases.
// Events and Audit may be nil.
type Deps struct {
	Auctions     domain.AuctionRepository
	Bids         domain.BidRepository
	Transactions domain.TransactionRepository
	Tx           domain.TxManager
	Bidders      domain.BidderDirectory
	Notifier     domain.Notifier
	Events       domain.EventPublisher
	Audit        domain.AuditRecorder
	Clock        clock.Clock
}

func (d Deps) withDefaults() Deps {
	if d.Events == nil {
		d.Events = noopEvents{}
	}
	if d.Audit == nil {
		d.Audit = noopAudit{}
	}
	if d.Clock == nil {
		d.Clock = clock.System{}
	}
	return d
}

type noopEvents struct{}

func (noopEvents) BidPlaced(context.Context, *domain.Auction, *domain.Bid) {}
func (noopEvents) AuctionClosed(context.Context, *domain.Auction, *domain.Transaction) {}

type noopAudit struct{}

func (noopAudit) Record(context.Context, string, *uuid.UUID) {}

// newID returns a time-ordered id, falling back to a random one.
func newID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}
