package httpserver

import (
	"errors"

	"github.com/cristianortiz/auctionportal/internal/shared/apperr"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error  string            `json:"error"`
	Kind   string            `json:"kind,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// StatusOf maps an error kind to its HTTP status.
func StatusOf(kind apperr.Kind) int {
	switch kind {
	case apperr.KindNotFound:
		return fiber.StatusNotFound
	case apperr.KindValidation:
		return fiber.StatusBadRequest
	case apperr.KindConflict:
		return fiber.StatusConflict
	case apperr.KindUnauthorized:
		return fiber.StatusUnauthorized
	case apperr.KindForbidden:
		return fiber.StatusForbidden
	case apperr.KindTransient:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandler is the fiber error handler. Classified errors expose their message;
// anything else is logged and answered with a generic 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(ErrorBody{Error: fe.Message})
	}

	var ae *apperr.Error
	if !errors.As(err, &ae) {
		log.Error("Unhandled error", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorBody{Error: "internal server error"})
	}

	status := StatusOf(ae.Kind)
	if status >= fiber.StatusInternalServerError {
		log.Error("Request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(status).JSON(ErrorBody{Error: ae.Msg, Kind: ae.Kind.String(), Fields: ae.Fields})
}

// BadRequest is a validation error for malformed input that never reached a use case.
func BadRequest(field, msg string) error {
	return apperr.Validation(map[string]string{field: msg})
}
