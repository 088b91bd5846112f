package websocket

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case data, ok := <-c.send:
		require.True(t, ok, "send channel closed")
		return data
	case <-time.After(time.Second):
		t.Fatal("no message received")
		return nil
	}
}

func TestHub_BroadcastIsPerRoom(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := NewHub()
	go h.Run(ctx)

	a1 := NewClient(h, nil, "auction-a", "u1")
	a2 := NewClient(h, nil, "auction-a", "u2")
	b1 := NewClient(h, nil, "auction-b", "u3")
	for _, c := range []*Client{a1, a2, b1} {
		h.Register(c)
	}

	h.Broadcast("auction-a", []byte("bid"))
	assert.Equal(t, "bid", string(receive(t, a1)))
	assert.Equal(t, "bid", string(receive(t, a2)))

	select {
	case <-b1.send:
		t.Fatal("other room received the broadcast")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := NewHub()
	go h.Run(ctx)

	c := NewClient(h, nil, "auction-a", "u1")
	h.Register(c)
	h.Unregister(c)

	require.Eventually(t, func() bool {
		select {
		case _, ok := <-c.send:
			return !ok
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)

	assert.False(t, c.Enqueue([]byte("late")))
}

func TestClient_EnqueueFull(t *testing.T) {
	c := NewClient(NewHub(), nil, "auction-a", "u1")
	for i := 0; i < sendBuffer; i++ {
		require.True(t, c.Enqueue([]byte("x")))
	}
	assert.False(t, c.Enqueue([]byte("overflow")))
}
