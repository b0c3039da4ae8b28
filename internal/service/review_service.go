package service

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"lively/internal/middleware"
	"lively/internal/models"
	"lively/internal/repository"
)

// Accepted concert date layouts, tried in order.
var concertDateLayouts = []string{"2006-01-02", time.RFC3339}

// RatingInput accepts a rating sent as a JSON number or a numeric string.
// Range checks happen in Submit so both shapes share one error message.
type RatingInput struct {
	raw     string
	present bool
}

// NewRatingInput builds a RatingInput from its textual value.
func NewRatingInput(raw string) RatingInput {
	raw = strings.TrimSpace(raw)
	return RatingInput{raw: raw, present: raw != ""}
}

func (r *RatingInput) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*r = RatingInput{}
		return nil
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	*r = NewRatingInput(s)
	return nil
}

// Present reports whether a non-empty value was supplied.
func (r RatingInput) Present() bool { return r.present }

// Int returns the rating as a whole number. Fractions and non-numbers fail.
func (r RatingInput) Int() (int, bool) {
	if !r.present {
		return 0, false
	}
	if n, err := strconv.Atoi(r.raw); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(r.raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

// SubmitReviewInput is a review as posted by a signed-in user.
type SubmitReviewInput struct {
	ArtistName  string      `json:"artistName"`
	Rating      RatingInput `json:"rating"`
	Comment     string      `json:"comment"`
	Venue       string      `json:"venue"`
	ConcertDate string      `json:"concertDate"`
}

// Author identifies who is submitting. It always comes from the session.
type Author struct {
	UserID   uint
	Username string
}

// ReviewResult is what Submit hands back to the handler.
type ReviewResult struct {
	Review        *models.Review
	Artist        *models.Artist
	ArtistCreated bool
}

// ReviewService validates and stores reviews.
type ReviewService struct {
	reviewRepo repository.ReviewRepository
}

// NewReviewService creates a new ReviewService.
func NewReviewService(reviewRepo repository.ReviewRepository) *ReviewService {
	return &ReviewService{reviewRepo: reviewRepo}
}

// ParseConcertDate accepts a calendar date or an RFC 3339 timestamp.
func ParseConcertDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range concertDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Submit validates in and stores the review, creating the artist when no
// artist has exactly that name yet.
func (s *ReviewService) Submit(ctx context.Context, author Author, in SubmitReviewInput) (*ReviewResult, error) {
	artistName := strings.TrimSpace(in.ArtistName)
	comment := strings.TrimSpace(in.Comment)
	venue := strings.TrimSpace(in.Venue)
	concertDate := strings.TrimSpace(in.ConcertDate)

	if artistName == "" || comment == "" || venue == "" || concertDate == "" || !in.Rating.Present() {
		return nil, models.NewValidationError("All fields are required.")
	}

	rating, ok := in.Rating.Int()
	if !ok || rating < models.MinRating || rating > models.MaxRating {
		return nil, models.NewValidationError("Rating must be between 1 and 5.")
	}

	date, ok := ParseConcertDate(concertDate)
	if !ok {
		return nil, models.NewValidationError("Invalid concert date format.")
	}

	review := &models.Review{
		UserID:      author.UserID,
		Username:    author.Username,
		Rating:      rating,
		Comment:     comment,
		Venue:       venue,
		ConcertDate: date,
	}

	artist, created, err := s.reviewRepo.CreateWithArtist(ctx, artistName, review)
	if err != nil {
		return nil, err
	}

	middleware.ReviewsSubmitted.WithLabelValues(strconv.FormatBool(created)).Inc()
	return &ReviewResult{Review: review, Artist: artist, ArtistCreated: created}, nil
}

// ListByArtist returns an artist's reviews newest first.
func (s *ReviewService) ListByArtist(ctx context.Context, artistID uint) ([]models.Review, error) {
	return s.reviewRepo.ListByArtist(ctx, artistID)
}
