package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/cristianortiz/auctionportal/internal/auction/application"
	"github.com/cristianortiz/auctionportal/internal/auction/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type broadcastStub struct {
	rooms []string
	data  [][]byte
}

func (b *broadcastStub) Broadcast(room string, data []byte) {
	b.rooms = append(b.rooms, room)
	b.data = append(b.data, data)
}

type serviceMock struct {
	mock.Mock
	application.AuctionService
}

func (m *serviceMock) SubmitBid(ctx context.Context, dto application.SubmitBidDTO) (*domain.Bid, error) {
	args := m.Called(ctx, dto)
	bid, _ := args.Get(0).(*domain.Bid)
	return bid, args.Error(1)
}

func TestPublisher(t *testing.T) {
	stub := &broadcastStub{}
	p := NewPublisher(stub)
	a := &domain.Auction{ID: uuid.New()}
	bid := domain.NewBid(uuid.New(), a.ID, uuid.New(), 42, time.Now().UTC())

	p.BidPlaced(context.Background(), a, bid)
	p.AuctionClosed(context.Background(), a, domain.NewTransaction(uuid.New(), bid, time.Now().UTC()))

	require.Len(t, stub.data, 2)
	assert.Equal(t, []string{a.ID.String(), a.ID.String()}, stub.rooms)

	var placed ServerBidMessage
	require.NoError(t, json.Unmarshal(stub.data[0], &placed))
	assert.Equal(t, MessageTypeServerBidPlaced, placed.Type)
	assert.Equal(t, bid.ID, placed.Payload.BidID)
	assert.Equal(t, 42.0, placed.Payload.Price)

	var closed ServerAuctionClosedMessage
	require.NoError(t, json.Unmarshal(stub.data[1], &closed))
	assert.Equal(t, MessageTypeServerAuctionClosed, closed.Type)
	assert.Equal(t, bid.BidderID, closed.Payload.WinnerID)
	assert.Equal(t, domain.PaymentPending, closed.Payload.PaymentStatus)
}

func TestProcessMessage_ClientBid(t *testing.T) {
	svc := &serviceMock{}
	h := NewAuctionWSHandler(svc, nil)
	auctionID, bidderID := uuid.New(), uuid.New()
	bid := domain.NewBid(uuid.New(), auctionID, bidderID, 15, time.Now().UTC())

	svc.On("SubmitBid", mock.Anything, application.SubmitBidDTO{AuctionID: auctionID, BidderID: bidderID, Price: 15}).
		Return(bid, nil).Once()

	reply := h.processMessage(context.Background(), auctionID.String(), bidderID.String(),
		[]byte(`{"type":"client_bid","payload":{"price":15}}`))

	msg, ok := reply.(ServerBidMessage)
	require.True(t, ok)
	assert.Equal(t, MessageTypeServerBidAccepted, msg.Type)
	assert.Equal(t, bid.ID, msg.Payload.BidID)
	svc.AssertExpectations(t)
}

func TestProcessMessage_Errors(t *testing.T) {
	svc := &serviceMock{}
	h := NewAuctionWSHandler(svc, nil)
	auctionID, bidderID := uuid.New(), uuid.New()
	svc.On("SubmitBid", mock.Anything, mock.Anything).Return(nil, domain.ErrAuctionNotActive)

	tests := []struct {
		name string
		room string
		data string
		want string
		kind string
	}{
		{"garbage", auctionID.String(), `not json`, "invalid message format", "validation"},
		{"unknown type", auctionID.String(), `{"type":"client_join"}`, "unknown message type", "validation"},
		{"bad room", "lobby", `{"type":"client_bid","payload":{"price":1}}`, "invalid auction id", "validation"},
		{"rejected bid", auctionID.String(), `{"type":"client_bid","payload":{"price":1}}`, "auction is not active", "state_conflict"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := h.processMessage(context.Background(), tt.room, bidderID.String(), []byte(tt.data))
			msg, ok := reply.(ServerErrorMessage)
			require.True(t, ok)
			assert.Equal(t, MessageTypeServerError, msg.Type)
			assert.Equal(t, tt.want, msg.Payload.Error)
			assert.Equal(t, tt.kind, msg.Payload.Kind)
		})
	}
}
