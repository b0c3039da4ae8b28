package server

import (
	"fmt"

	"lively/internal/models"
	"lively/internal/service"
	"lively/internal/session"

	"github.com/gofiber/fiber/v2"
)

// CreateReview handles POST /api/reviews
// @Summary Submit review
// @Description The author is the signed-in user. An artist name not seen before creates that artist.
// @Tags reviews
// @Accept json
// @Produce json
// @Param request body object{artistName=string,rating=int,comment=string,venue=string,concertDate=string} true "Review"
// @Success 201 {object} object{success=bool,message=string,review=models.Review}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /reviews [post]
func (s *Server) CreateReview(c *fiber.Ctx) error {
	data, ok := c.Locals(localSession).(*session.Data)
	if !ok {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authentication required"))
	}

	var req service.SubmitReviewInput
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c)
	}

	result, err := s.reviewService.Submit(c.UserContext(), service.Author{
		UserID:   data.UserID,
		Username: data.Username,
	}, req)
	if err != nil {
		return s.respondError(c, err, "Failed to add review")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("Review for %s added!", result.Artist.Name),
		"review":  result.Review,
	})
}
