package repository

import (
	"context"
	"errors"
	"strings"

	"lively/internal/models"

	"gorm.io/gorm"
)

// ReviewRepository defines persistence operations for reviews.
type ReviewRepository interface {
	ListByArtist(ctx context.Context, artistID uint) ([]models.Review, error)
	ListRatings(ctx context.Context, artistIDs ...uint) ([]models.ArtistRating, error)
	CreateWithArtist(ctx context.Context, artistName string, review *models.Review) (*models.Artist, bool, error)
}

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository returns a new ReviewRepository implementation.
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// ListByArtist returns reviews newest first. An unknown artist yields an
// empty slice, not an error.
func (r *reviewRepository) ListByArtist(ctx context.Context, artistID uint) ([]models.Review, error) {
	reviews := make([]models.Review, 0)
	err := r.db.WithContext(ctx).
		Where("artist_id = ?", artistID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return reviews, nil
}

// ListRatings returns (artist_id, rating) pairs, limited to artistIDs when
// any are given.
func (r *reviewRepository) ListRatings(ctx context.Context, artistIDs ...uint) ([]models.ArtistRating, error) {
	var ratings []models.ArtistRating
	q := r.db.WithContext(ctx).Model(&models.Review{}).Select("artist_id", "rating")
	if len(artistIDs) > 0 {
		q = q.Where("artist_id IN ?", artistIDs)
	}
	if err := q.Scan(&ratings).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ratings, nil
}

// CreateWithArtist resolves artistName to an artist, creating it with the
// Unknown genre when absent, and inserts review against it. Both writes share
// one transaction. The bool reports whether the artist was created.
func (r *reviewRepository) CreateWithArtist(ctx context.Context, artistName string, review *models.Review) (*models.Artist, bool, error) {
	var (
		artist  *models.Artist
		created bool
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := findArtistByName(tx, artistName)
		if err != nil {
			return err
		}
		if found == nil {
			found = &models.Artist{
				Name:  strings.TrimSpace(artistName),
				Genre: models.UnknownGenre,
			}
			if err := tx.Create(found).Error; err != nil {
				return models.NewInternalError(err)
			}
			created = true
		}
		artist = found

		review.ArtistID = artist.ID
		if err := tx.Create(review).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		var appErr *models.AppError
		if !errors.As(err, &appErr) {
			err = models.NewInternalError(err)
		}
		return nil, false, err
	}
	return artist, created, nil
}
