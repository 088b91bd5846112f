package rest

import (
	"github.com/cristianortiz/auctionportal/internal/audit/application"
	"github.com/cristianortiz/auctionportal/internal/shared/auth"
	"github.com/cristianortiz/auctionportal/internal/shared/httpserver"
	"github.com/gofiber/fiber/v2"
)

type LogHandler struct {
	recorder *application.Recorder
}

func NewLogHandler(recorder *application.Recorder) *LogHandler {
	return &LogHandler{recorder: recorder}
}

// Register mounts GET /logs behind the view_logs capability.
func (h *LogHandler) Register(r fiber.Router, tokens *auth.TokenManager, gate *auth.Gate) {
	r.Get("/logs", httpserver.RequireAuth(tokens), httpserver.RequireCapability(gate, auth.CapViewLogs), h.list)
}

func (h *LogHandler) list(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", application.DefaultListLimit)
	if limit <= 0 {
		return httpserver.BadRequest("limit", "must be positive")
	}
	entries, err := h.recorder.List(c.UserContext(), limit)
	if err != nil {
		return err
	}
	return c.JSON(entries)
}
