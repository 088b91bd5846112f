package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/cristianortiz/auctionportal/internal/shared/apperr"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "transactions_auction_id_key"}

	assert.True(t, IsUniqueViolation(dup, "transactions_auction_id_key"))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", dup), ""))
	assert.False(t, IsUniqueViolation(dup, "users_email_key"))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}, ""))
	assert.False(t, IsUniqueViolation(errors.New("boom"), ""))
}

func TestStoreError(t *testing.T) {
	plain := StoreError("get auction", errors.New("syntax error"))
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(plain))
	assert.EqualError(t, plain, "get auction: syntax error")

	transient := StoreError("get auction", retryableErr{})
	assert.Equal(t, apperr.KindTransient, apperr.KindOf(transient))
	assert.ErrorIs(t, transient, apperr.ErrStoreUnavailable)
}

// retryableErr mimics pgconn errors raised before any bytes reached the server.
type retryableErr struct{}

func (retryableErr) Error() string      { return "connection reset" }
func (retryableErr) SafeToRetry() bool { return true }
