package auth

import (
	"context"

	"github.com/google/uuid"
)

type identityKey struct{}

// WithIdentity binds the authenticated caller to ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext returns the caller bound by WithIdentity.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// ActorID is the caller's user id, or nil for background work such as the sweeper.
func ActorID(ctx context.Context) *uuid.UUID {
	id, ok := FromContext(ctx)
	if !ok || id.UserID == uuid.Nil {
		return nil
	}
	uid := id.UserID
	return &uid
}
