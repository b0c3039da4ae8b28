package server

import (
	"errors"
	"log/slog"

	"lively/internal/middleware"
	"lively/internal/models"
	"lively/internal/service"
	"lively/internal/session"

	"github.com/gofiber/fiber/v2"
)

// Register handles POST /api/register
// @Summary Register
// @Description Create an account and open a session
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.RegisterInput true "Registration"
// @Success 201 {object} object{success=bool,user=models.PublicUser}
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /register [post]
func (s *Server) Register(c *fiber.Ctx) error {
	var req service.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c)
	}

	user, err := s.authService.Register(c.UserContext(), req)
	if err != nil {
		return s.respondError(c, err, "Registration failed")
	}

	if err := s.startSession(c, user, "register"); err != nil {
		return s.respondError(c, err, "Registration failed")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"user":    user.Public(),
	})
}

// Login handles POST /api/login
// @Summary Login
// @Description Check credentials and open a session
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.LoginInput true "Credentials"
// @Success 200 {object} object{success=bool,user=models.PublicUser}
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req service.LoginInput
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c)
	}

	user, err := s.authService.Login(c.UserContext(), req)
	if err != nil {
		return s.respondError(c, err, "Login failed")
	}

	if err := s.startSession(c, user, "login"); err != nil {
		return s.respondError(c, err, "Login failed")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    user.Public(),
	})
}

// Logout handles POST /api/logout
// @Summary Logout
// @Description Destroy the current session, if any
// @Tags auth
// @Produce json
// @Success 200 {object} object{success=bool}
// @Failure 500 {object} models.ErrorResponse
// @Router /logout [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	if token := c.Cookies(session.CookieName); token != "" {
		if claims, err := s.signer.Parse(token); err == nil {
			if err := s.sessions.Delete(c.UserContext(), claims.SessionID); err != nil {
				middleware.Logger.ErrorContext(c.UserContext(), "failed to destroy session",
					slog.String("error", err.Error()))
				return models.RespondWithError(c, fiber.StatusInternalServerError,
					models.NewInternalError(err).WithMessage("Logout failed"))
			}
		}
	}

	s.clearSessionCookie(c)
	return c.JSON(fiber.Map{"success": true})
}

// Me handles GET /api/me
// @Summary Current user
// @Description Identity of the signed-in user
// @Tags auth
// @Produce json
// @Success 200 {object} object{id=int,username=string,role=string}
// @Failure 401 {object} models.ErrorResponse
// @Router /me [get]
func (s *Server) Me(c *fiber.Ctx) error {
	data, _, err := s.loadSession(c)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			middleware.Logger.ErrorContext(c.UserContext(), "session lookup failed",
				slog.String("error", err.Error()))
		}
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Not authenticated"))
	}

	return c.JSON(fiber.Map{
		"id":       data.UserID,
		"username": data.Username,
		"role":     data.Role,
	})
}
