package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGate(t *testing.T) {
	g := NewGate()
	admin := Identity{UserID: uuid.New(), Role: RoleAdmin}
	user := Identity{UserID: uuid.New(), Role: RoleUser}

	for _, c := range []Capability{CapCreateAuction, CapEditAuction, CapViewLogs} {
		assert.True(t, g.Can(admin, c), "admin should hold %s", c)
		assert.ErrorIs(t, g.Authorize(user, c), ErrForbidden)
	}

	require.ErrorIs(t, g.Authorize(Identity{Role: RoleAdmin}, CapViewLogs), ErrUnauthenticated)

	g.Grant(RoleUser, CapViewLogs)
	require.True(t, g.Can(user, CapViewLogs))
	require.False(t, g.Can(user, CapCreateAuction))
}

func TestTokenManager(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)
	userID := uuid.New()

	tok, exp, err := m.Issue(userID, RoleAdmin)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	id, err := m.Parse(tok)
	require.NoError(t, err)
	require.Equal(t, userID, id.UserID)
	require.Equal(t, RoleAdmin, id.Role)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewTokenManager("other", time.Hour).Parse(tok)
		require.True(t, errors.Is(err, ErrUnauthenticated))
	})

	t.Run("expired", func(t *testing.T) {
		late := NewTokenManager("test-secret", time.Hour)
		late.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := late.Parse(tok)
		require.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.Parse("not-a-token")
		require.ErrorIs(t, err, ErrUnauthenticated)
	})
}

func TestIdentityContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)
	assert.Nil(t, ActorID(context.Background()))

	id := Identity{UserID: uuid.New(), Role: RoleUser}
	ctx := WithIdentity(context.Background(), id)
	got, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, id, got)
	require.NotNil(t, ActorID(ctx))
	assert.Equal(t, id.UserID, *ActorID(ctx))
}
