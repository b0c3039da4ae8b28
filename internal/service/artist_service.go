package service

import (
	"context"
	"strings"

	"lively/internal/models"
	"lively/internal/observability"
	"lively/internal/repository"
	"lively/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

// ArtistService reads artists and decorates them with their average rating.
type ArtistService struct {
	artistRepo repository.ArtistRepository
	reviewRepo repository.ReviewRepository
}

// CreateArtistInput is the admin payload for a new artist.
type CreateArtistInput struct {
	Name  string `json:"name" validate:"required,max=200"`
	Genre string `json:"genre" validate:"required,max=100"`
	Bio   string `json:"bio" validate:"max=5000"`
	Image string `json:"image" validate:"omitempty,url"`
}

// NewArtistService creates a new ArtistService.
func NewArtistService(artistRepo repository.ArtistRepository, reviewRepo repository.ReviewRepository) *ArtistService {
	return &ArtistService{artistRepo: artistRepo, reviewRepo: reviewRepo}
}

// RatingSummary is the mean and count of one artist's ratings.
type RatingSummary struct {
	Avg   float64
	Count int
}

// AverageRatings groups ratings by artist and takes the arithmetic mean of
// each group. Artists without ratings are absent from the result.
func AverageRatings(ratings []models.ArtistRating) map[uint]RatingSummary {
	sums := make(map[uint]int, len(ratings))
	counts := make(map[uint]int, len(ratings))
	for _, r := range ratings {
		sums[r.ArtistID] += r.Rating
		counts[r.ArtistID]++
	}

	out := make(map[uint]RatingSummary, len(counts))
	for id, n := range counts {
		out[id] = RatingSummary{Avg: float64(sums[id]) / float64(n), Count: n}
	}
	return out
}

// WithRatings pairs each artist with its summary. AvgRating stays nil for
// artists that have none.
func WithRatings(artists []models.Artist, summaries map[uint]RatingSummary) []models.ArtistWithRating {
	out := make([]models.ArtistWithRating, 0, len(artists))
	for _, a := range artists {
		item := models.ArtistWithRating{Artist: a}
		if s, ok := summaries[a.ID]; ok {
			avg := s.Avg
			item.AvgRating = &avg
			item.ReviewCount = s.Count
		}
		out = append(out, item)
	}
	return out
}

func (s *ArtistService) decorate(ctx context.Context, artists []models.Artist, filter bool) ([]models.ArtistWithRating, error) {
	if len(artists) == 0 {
		return []models.ArtistWithRating{}, nil
	}

	var ids []uint
	if filter {
		ids = make([]uint, 0, len(artists))
		for _, a := range artists {
			ids = append(ids, a.ID)
		}
	}

	ratings, err := s.reviewRepo.ListRatings(ctx, ids...)
	if err != nil {
		return nil, err
	}
	return WithRatings(artists, AverageRatings(ratings)), nil
}

// List returns every artist with its average rating.
func (s *ArtistService) List(ctx context.Context) (result []models.ArtistWithRating, err error) {
	ctx, span := observability.StartSpan(ctx, "ArtistService.List")
	defer func() { observability.EndSpan(span, err) }()

	artists, err := s.artistRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.decorate(ctx, artists, false)
}

// Search matches name or genre. A blank query behaves like List.
func (s *ArtistService) Search(ctx context.Context, query string) (result []models.ArtistWithRating, err error) {
	query = strings.TrimSpace(query)
	ctx, span := observability.StartSpan(ctx, "ArtistService.Search", attribute.String("search.query", query))
	defer func() { observability.EndSpan(span, err) }()

	if query == "" {
		return s.List(ctx)
	}

	artists, err := s.artistRepo.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	return s.decorate(ctx, artists, true)
}

// Get returns one artist with its average rating.
func (s *ArtistService) Get(ctx context.Context, id uint) (*models.ArtistWithRating, error) {
	artist, err := s.artistRepo.GetByID(ctx, id)
	if err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return nil, models.NewNotFoundError("Artist", id).WithMessage("Artist not found")
		}
		return nil, err
	}

	decorated, err := s.decorate(ctx, []models.Artist{*artist}, true)
	if err != nil {
		return nil, err
	}
	return &decorated[0], nil
}

// Create adds an artist explicitly.
func (s *ArtistService) Create(ctx context.Context, in CreateArtistInput) (*models.Artist, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Genre = strings.TrimSpace(in.Genre)
	in.Image = strings.TrimSpace(in.Image)

	if err := validation.Struct(in); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	artist := &models.Artist{
		Name:  in.Name,
		Genre: in.Genre,
		Bio:   strings.TrimSpace(in.Bio),
		Image: in.Image,
	}
	if err := s.artistRepo.Create(ctx, artist); err != nil {
		return nil, err
	}
	return artist, nil
}
