package domain

import "github.com/cristianortiz/auctionportal/internal/shared/apperr"

var (
	ErrAuctionNotFound   = apperr.New(apperr.KindNotFound, "auction not found")
	ErrAuctionNotActive  = apperr.New(apperr.KindConflict, "auction is not active")
	ErrAuctionClosed     = apperr.New(apperr.KindConflict, "auction is already closed")
	ErrAuctionSettled    = apperr.New(apperr.KindConflict, "auction has a transaction and can no longer be edited")
	ErrInvalidPrice      = apperr.New(apperr.KindValidation, "price must be greater than zero")
	ErrInvalidTimeWindow = apperr.New(apperr.KindValidation, "end time must be after start time")
	ErrUnknownBidder     = apperr.New(apperr.KindValidation, "bidder does not exist")

	// ErrTransactionExists is returned by TransactionRepository.Insert on the auction uniqueness constraint.
	ErrTransactionExists = apperr.New(apperr.KindConflict, "auction already has a transaction")
)
