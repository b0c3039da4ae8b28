package server

import (
	"errors"
	"log/slog"

	"lively/internal/middleware"
	"lively/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid ID"))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// respondError renders err with the status its code maps to. Server-side
// failures are logged with their cause and answered with fallback, or the
// generic message when fallback is empty.
func (s *Server) respondError(c *fiber.Ctx, err error, fallback string) error {
	status := models.StatusFor(err)
	if status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request failed",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
		appErr := models.NewInternalError(err)
		if fallback != "" {
			appErr = appErr.WithMessage(fallback)
		}
		return models.RespondWithError(c, status, appErr)
	}
	return models.RespondWithError(c, status, err)
}

func badRequestBody(c *fiber.Ctx) error {
	return models.RespondWithError(c, fiber.StatusBadRequest,
		models.NewValidationError("Invalid request body"))
}
