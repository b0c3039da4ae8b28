package server

import (
	"lively/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetArtists handles GET /api/artists
// @Summary List artists
// @Description Every artist with its average rating (null when unreviewed)
// @Tags artists
// @Produce json
// @Success 200 {array} models.ArtistWithRating
// @Failure 500 {object} models.ErrorResponse
// @Router /artists [get]
func (s *Server) GetArtists(c *fiber.Ctx) error {
	artists, err := s.artistService.List(c.UserContext())
	if err != nil {
		return s.respondError(c, err, "")
	}
	return c.JSON(artists)
}

// GetArtist handles GET /api/artists/:id
// @Summary Get artist
// @Tags artists
// @Produce json
// @Param id path int true "Artist ID"
// @Success 200 {object} models.ArtistWithRating
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /artists/{id} [get]
func (s *Server) GetArtist(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	artist, err := s.artistService.Get(c.UserContext(), id)
	if err != nil {
		return s.respondError(c, err, "")
	}
	return c.JSON(artist)
}

// GetArtistReviews handles GET /api/artists/:id/reviews
// @Summary List an artist's reviews
// @Description Newest first. Unknown artists yield an empty list.
// @Tags reviews
// @Produce json
// @Param id path int true "Artist ID"
// @Success 200 {array} models.Review
// @Failure 400 {object} models.ErrorResponse
// @Router /artists/{id}/reviews [get]
func (s *Server) GetArtistReviews(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	reviews, err := s.reviewService.ListByArtist(c.UserContext(), id)
	if err != nil {
		return s.respondError(c, err, "")
	}
	return c.JSON(reviews)
}

// SearchArtists handles GET /api/search
// @Summary Search artists
// @Description Case-insensitive substring match on name or genre. A blank query returns every artist.
// @Tags artists
// @Produce json
// @Param q query string false "Search text"
// @Success 200 {array} models.ArtistWithRating
// @Failure 500 {object} models.ErrorResponse
// @Router /search [get]
func (s *Server) SearchArtists(c *fiber.Ctx) error {
	artists, err := s.artistService.Search(c.UserContext(), c.Query("q"))
	if err != nil {
		return s.respondError(c, err, "")
	}
	return c.JSON(artists)
}

// CreateArtist handles POST /api/artists
// @Summary Create artist
// @Tags artists
// @Accept json
// @Produce json
// @Param request body service.CreateArtistInput true "Artist"
// @Success 201 {object} models.Artist
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /artists [post]
func (s *Server) CreateArtist(c *fiber.Ctx) error {
	var req service.CreateArtistInput
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c)
	}

	artist, err := s.artistService.Create(c.UserContext(), req)
	if err != nil {
		return s.respondError(c, err, "")
	}
	return c.Status(fiber.StatusCreated).JSON(artist)
}
