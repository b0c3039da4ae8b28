package repository

import (
	"context"
	"errors"
	"strings"

	"lively/internal/cache"
	"lively/internal/models"

	"gorm.io/gorm"
)

// ArtistRepository defines persistence operations for artists.
type ArtistRepository interface {
	List(ctx context.Context) ([]models.Artist, error)
	GetByID(ctx context.Context, id uint) (*models.Artist, error)
	Search(ctx context.Context, query string) ([]models.Artist, error)
	Create(ctx context.Context, artist *models.Artist) error
}

type artistRepository struct {
	db *gorm.DB
}

// NewArtistRepository returns a new ArtistRepository implementation.
func NewArtistRepository(db *gorm.DB) ArtistRepository {
	return &artistRepository{db: db}
}

func (r *artistRepository) List(ctx context.Context) ([]models.Artist, error) {
	var artists []models.Artist
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&artists).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return artists, nil
}

// GetByID is served cache-aside. Artists are never edited, so a cached row
// cannot go stale.
func (r *artistRepository) GetByID(ctx context.Context, id uint) (*models.Artist, error) {
	var artist models.Artist
	err := cache.Aside(ctx, cache.ArtistKey(id), &artist, cache.ArtistTTL, func() error {
		if err := r.db.WithContext(ctx).First(&artist, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Artist", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &artist, nil
}

// findArtistByName matches the exact trimmed name. Returns nil, nil when absent.
func findArtistByName(db *gorm.DB, name string) (*models.Artist, error) {
	var artist models.Artist
	err := db.Where("name = ?", strings.TrimSpace(name)).Order("id ASC").First(&artist).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &artist, nil
}

// Search does a case-insensitive substring match on name or genre. A blank
// query returns every artist.
func (r *artistRepository) Search(ctx context.Context, query string) ([]models.Artist, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return r.List(ctx)
	}

	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"

	var artists []models.Artist
	err := r.db.WithContext(ctx).
		Where(`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(genre) LIKE ? ESCAPE '\'`, pattern, pattern).
		Order("id ASC").
		Find(&artists).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return artists, nil
}

func (r *artistRepository) Create(ctx context.Context, artist *models.Artist) error {
	if err := r.db.WithContext(ctx).Create(artist).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes user input match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
