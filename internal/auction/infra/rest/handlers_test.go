package rest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cristianortiz/auctionportal/internal/auction/application"
	"github.com/cristianortiz/auctionportal/internal/auction/infra/repository/memory"
	"github.com/cristianortiz/auctionportal/internal/auction/infra/rest"
	"github.com/cristianortiz/auctionportal/internal/auction/infra/users"
	"github.com/cristianortiz/auctionportal/internal/notification"
	"github.com/cristianortiz/auctionportal/internal/shared/auth"
	"github.com/cristianortiz/auctionportal/internal/shared/clock"
	"github.com/cristianortiz/auctionportal/internal/shared/httpserver"
	userdomain "github.com/cristianortiz/auctionportal/internal/user/domain"
	usermemory "github.com/cristianortiz/auctionportal/internal/user/infra/repository/memory"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type env struct {
	t      *testing.T
	app    *fiber.App
	clock  *clock.Manual
	tokens *auth.TokenManager
	users  *usermemory.UserRepository
}

func newEnv(t *testing.T) *env {
	store := memory.NewStore()
	userRepo := usermemory.NewUserRepository()
	clk := clock.NewManual(t0)
	svc := application.NewAuctionService(application.Deps{
		Auctions:     store.Auctions(),
		Bids:         store.Bids(),
		Transactions: store.Transactions(),
		Tx:           store,
		Bidders:      users.NewDirectory(userRepo),
		Notifier:     notification.NewLogNotifier(),
		Clock:        clk,
	}, nil)

	// tokens are checked against wall time; keep them valid regardless of the manual clock
	tokens := auth.NewTokenManager("secret", 24*time.Hour)
	app := fiber.New(fiber.Config{ErrorHandler: httpserver.ErrorHandler})
	rest.NewAuctionHandler(svc).Register(app, tokens, auth.NewGate())
	return &env{t: t, app: app, clock: clk, tokens: tokens, users: userRepo}
}

func (e *env) login(name string, role auth.Role) (uuid.UUID, string) {
	e.t.Helper()
	u := userdomain.NewUser(uuid.New(), name+"@example.com", name, "hash", role, t0)
	require.NoError(e.t, e.users.Insert(context.Background(), u))
	tok, _, err := e.tokens.Issue(u.ID, role)
	require.NoError(e.t, err)
	return u.ID, tok
}

func (e *env) do(method, path, token string, body any) (*http.Response, []byte) {
	e.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(e.t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(e.t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(e.t, err)
	return resp, out
}

func TestAuctionRoutes_Lifecycle(t *testing.T) {
	e := newEnv(t)
	_, adminTok := e.login("admin", auth.RoleAdmin)
	_, userTok := e.login("user", auth.RoleUser)
	bidderID, bidderTok := e.login("bidder", auth.RoleUser)

	create := map[string]any{
		"title":          "Camera",
		"description":    "35mm",
		"starting_price": 10,
		"start_time":     t0,
		"end_time":       t0.Add(time.Hour),
	}
	resp, _ := e.do(http.MethodPost, "/auctions", userTok, create)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = e.do(http.MethodPost, "/auctions", "", create)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, body := e.do(http.MethodPost, "/auctions", adminTok, create)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(body))
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body, &created))

	e.clock.Set(t0.Add(time.Minute))
	resp, body = e.do(http.MethodPost, "/auctions/"+created.ID+"/bids", bidderTok, map[string]any{"price": 55})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(body))

	resp, body = e.do(http.MethodPost, "/auctions/"+created.ID+"/bids", bidderTok, map[string]any{"price": 0})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, string(body))

	resp, _ = e.do(http.MethodPost, "/auctions/"+created.ID+"/close", userTok, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	e.clock.Set(t0.Add(time.Hour))
	resp, body = e.do(http.MethodPost, "/auctions/"+created.ID+"/bids", bidderTok, map[string]any{"price": 99})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode, string(body))

	resp, body = e.do(http.MethodPost, "/auctions/"+created.ID+"/close", userTok, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var closed struct {
		Outcome  string `json:"outcome"`
		WinnerID string `json:"winner_id"`
	}
	require.NoError(t, json.Unmarshal(body, &closed))
	// the late bid already settled it lazily
	assert.Equal(t, "already_closed", closed.Outcome)
	assert.Equal(t, bidderID.String(), closed.WinnerID)

	resp, body = e.do(http.MethodGet, "/auctions/"+created.ID, "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var view application.AuctionViewDTO
	require.NoError(t, json.Unmarshal(body, &view))
	assert.Equal(t, "ended", string(view.Status))
	require.NotNil(t, view.Transaction)
	assert.Equal(t, 55.0, view.Transaction.Amount)

	resp, body = e.do(http.MethodGet, "/users/"+bidderID.String()+"/transactions", userTok, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var txs []application.TransactionDTO
	require.NoError(t, json.Unmarshal(body, &txs))
	assert.Len(t, txs, 1)

	resp, body = e.do(http.MethodGet, "/users/"+bidderID.String()+"/bids", userTok, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var bids []application.BidDTO
	require.NoError(t, json.Unmarshal(body, &bids))
	assert.Len(t, bids, 1)
}

func TestAuctionRoutes_EditAndList(t *testing.T) {
	e := newEnv(t)
	_, adminTok := e.login("admin", auth.RoleAdmin)

	resp, body := e.do(http.MethodPost, "/auctions", adminTok, map[string]any{
		"title":          "Desk",
		"starting_price": 20,
		"start_time":     t0,
		"end_time":       t0.Add(time.Hour),
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(body))
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body, &created))

	resp, body = e.do(http.MethodPatch, "/auctions/"+created.ID, adminTok, map[string]any{"title": "Oak desk"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	assert.Contains(t, string(body), "Oak desk")

	resp, _ = e.do(http.MethodPatch, "/auctions/"+created.ID, adminTok, map[string]any{"end_time": t0.Add(-time.Hour)})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, body = e.do(http.MethodGet, "/auctions", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var views []application.AuctionViewDTO
	require.NoError(t, json.Unmarshal(body, &views))
	require.Len(t, views, 1)
	assert.Equal(t, "Oak desk", views[0].Title)
	assert.Equal(t, "active", string(views[0].Status))
}

func TestAuctionRoutes_BadInput(t *testing.T) {
	e := newEnv(t)
	_, tok := e.login("user", auth.RoleUser)

	resp, _ := e.do(http.MethodGet, "/auctions/not-a-uuid", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = e.do(http.MethodGet, "/auctions/"+uuid.NewString(), "", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = e.do(http.MethodPost, "/auctions/"+uuid.NewString()+"/bids", tok, map[string]any{"price": 5})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
