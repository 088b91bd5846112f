package httpserver

import (
	"strings"

	"github.com/cristianortiz/auctionportal/internal/shared/auth"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// IdentityLocal is the fiber locals key holding the auth.Identity.
const IdentityLocal = "identity"

// RequireAuth accepts a bearer token, or a token query parameter for websocket upgrades,
// and binds the caller to both the fiber locals and the user context.
func RequireAuth(tokens *auth.TokenManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := bearerToken(c.Get(fiber.HeaderAuthorization))
		if raw == "" {
			raw = c.Query("token")
		}
		if raw == "" {
			return auth.ErrUnauthenticated
		}
		id, err := tokens.Parse(raw)
		if err != nil {
			return err
		}
		c.Locals(IdentityLocal, id)
		c.SetUserContext(auth.WithIdentity(c.UserContext(), id))
		return c.Next()
	}
}

// RequireCapability must run after RequireAuth.
func RequireCapability(gate *auth.Gate, capability auth.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, _ := Identity(c)
		if err := gate.Authorize(id, capability); err != nil {
			return err
		}
		return c.Next()
	}
}

// Identity returns the caller bound by RequireAuth.
func Identity(c *fiber.Ctx) (auth.Identity, bool) {
	id, ok := c.Locals(IdentityLocal).(auth.Identity)
	return id, ok
}

// UUIDParam parses a path parameter as a uuid.
func UUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, BadRequest(name, "must be a valid uuid")
	}
	return id, nil
}

// ParseBody decodes the JSON body into v.
func ParseBody(c *fiber.Ctx, v any) error {
	if err := c.BodyParser(v); err != nil {
		return BadRequest("body", "must be valid JSON")
	}
	return nil
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
