package server

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"lively/internal/middleware"
	"lively/internal/models"
	"lively/internal/session"

	"github.com/gofiber/fiber/v2"
)

const localSession = "session"

// loadSession resolves the request's cookie to its session record. It
// returns session.ErrNotFound for any missing, invalid or stale cookie.
func (s *Server) loadSession(c *fiber.Ctx) (*session.Data, string, error) {
	token := c.Cookies(session.CookieName)
	if token == "" {
		return nil, "", session.ErrNotFound
	}

	claims, err := s.signer.Parse(token)
	if err != nil {
		return nil, "", session.ErrNotFound
	}

	data, err := s.sessions.Get(c.UserContext(), claims.SessionID)
	if err != nil {
		return nil, "", err
	}
	if data.UserID != claims.UserID {
		return nil, "", session.ErrNotFound
	}
	return data, claims.SessionID, nil
}

// AuthRequired rejects requests without a valid session with 401 and exposes
// the session to downstream handlers.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		data, _, err := s.loadSession(c)
		if err != nil {
			if !errors.Is(err, session.ErrNotFound) {
				middleware.Logger.ErrorContext(c.UserContext(), "session lookup failed",
					slog.String("error", err.Error()))
			}
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authentication required"))
		}

		c.Locals("userID", data.UserID)
		c.Locals(localSession, data)
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, data.UserID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// AdminRequired returns middleware that rejects non-admin users with 403.
// Must be placed after AuthRequired so that the session is available in locals.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		data, ok := c.Locals(localSession).(*session.Data)
		if !ok || data.Role != models.RoleAdmin {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Admin access required"))
		}
		return c.Next()
	}
}

// startSession stores a session for user and sets the cookie.
func (s *Server) startSession(c *fiber.Ctx, user *models.User, via string) error {
	id, err := s.sessions.Create(c.UserContext(), session.Data{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	})
	if err != nil {
		return err
	}

	token, err := s.signer.Sign(id, user.ID)
	if err != nil {
		_ = s.sessions.Delete(c.UserContext(), id)
		return err
	}

	ttl := s.sessions.TTL()
	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		Expires:  time.Now().Add(ttl),
		HTTPOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	middleware.SessionsOpened.WithLabelValues(via).Inc()
	return nil
}

func (s *Server) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
