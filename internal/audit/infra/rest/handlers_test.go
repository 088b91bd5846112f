package rest_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cristianortiz/auctionportal/internal/audit/application"
	"github.com/cristianortiz/auctionportal/internal/audit/domain"
	"github.com/cristianortiz/auctionportal/internal/audit/infra/repository/memory"
	"github.com/cristianortiz/auctionportal/internal/audit/infra/rest"
	"github.com/cristianortiz/auctionportal/internal/shared/auth"
	"github.com/cristianortiz/auctionportal/internal/shared/clock"
	"github.com/cristianortiz/auctionportal/internal/shared/httpserver"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogsRoute(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Hour)
	recorder := application.NewRecorder(memory.NewAuditRepository(), clock.System{})
	for i := 0; i < 3; i++ {
		recorder.Record(context.Background(), domain.ActionBidPlaced, nil)
	}

	app := fiber.New(fiber.Config{ErrorHandler: httpserver.ErrorHandler})
	rest.NewLogHandler(recorder).Register(app, tokens, auth.NewGate())

	adminTok, _, err := tokens.Issue(uuid.New(), auth.RoleAdmin)
	require.NoError(t, err)
	userTok, _, err := tokens.Issue(uuid.New(), auth.RoleUser)
	require.NoError(t, err)

	get := func(path, tok string) (*http.Response, []byte) {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		defer resp.Body.Close()
		b, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp, b
	}

	resp, _ := get("/logs", userTok)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, body := get("/logs?limit=2", adminTok)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var entries []domain.Entry
	require.NoError(t, json.Unmarshal(body, &entries))
	assert.Len(t, entries, 2)
	assert.Equal(t, domain.ActionBidPlaced, entries[0].Action)

	resp, _ = get("/logs?limit=-1", adminTok)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
