package domain

import "github.com/cristianortiz/auctionportal/internal/shared/apperr"

var (
	ErrUserNotFound       = apperr.New(apperr.KindNotFound, "user not found")
	ErrEmailTaken         = apperr.New(apperr.KindConflict, "email already exists")
	ErrUsernameTaken      = apperr.New(apperr.KindConflict, "username already exists")
	ErrInvalidCredentials = apperr.New(apperr.KindUnauthorized, "wrong email or password")
)
