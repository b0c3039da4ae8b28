package service

import (
	"context"
	"testing"

	"lively/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userRepoStub struct {
	getByEmailFn func(context.Context, string) (*models.User, error)
	existsFn     func(context.Context, string, string) (bool, error)
	createFn     func(context.Context, *models.User) error
}

func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	return s.existsFn(ctx, email, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByEmailFn: func(context.Context, string) (*models.User, error) { return nil, nil },
		existsFn:     func(context.Context, string, string) (bool, error) { return false, nil },
		createFn:     func(context.Context, *models.User) error { return nil },
	}
}

type artistRepoStub struct {
	listFn    func(context.Context) ([]models.Artist, error)
	getByIDFn func(context.Context, uint) (*models.Artist, error)
	searchFn  func(context.Context, string) ([]models.Artist, error)
	createFn  func(context.Context, *models.Artist) error
}

func (s *artistRepoStub) List(ctx context.Context) ([]models.Artist, error) {
	return s.listFn(ctx)
}
func (s *artistRepoStub) GetByID(ctx context.Context, id uint) (*models.Artist, error) {
	return s.getByIDFn(ctx, id)
}
func (s *artistRepoStub) Search(ctx context.Context, q string) ([]models.Artist, error) {
	return s.searchFn(ctx, q)
}
func (s *artistRepoStub) Create(ctx context.Context, a *models.Artist) error {
	return s.createFn(ctx, a)
}

func noopArtistRepo() *artistRepoStub {
	return &artistRepoStub{
		listFn:    func(context.Context) ([]models.Artist, error) { return nil, nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Artist, error) { return &models.Artist{ID: id}, nil },
		searchFn:  func(context.Context, string) ([]models.Artist, error) { return nil, nil },
		createFn:  func(context.Context, *models.Artist) error { return nil },
	}
}

type reviewRepoStub struct {
	listByArtistFn     func(context.Context, uint) ([]models.Review, error)
	listRatingsFn      func(context.Context, ...uint) ([]models.ArtistRating, error)
	createWithArtistFn func(context.Context, string, *models.Review) (*models.Artist, bool, error)
}

func (s *reviewRepoStub) ListByArtist(ctx context.Context, artistID uint) ([]models.Review, error) {
	return s.listByArtistFn(ctx, artistID)
}
func (s *reviewRepoStub) ListRatings(ctx context.Context, artistIDs ...uint) ([]models.ArtistRating, error) {
	return s.listRatingsFn(ctx, artistIDs...)
}
func (s *reviewRepoStub) CreateWithArtist(ctx context.Context, name string, r *models.Review) (*models.Artist, bool, error) {
	return s.createWithArtistFn(ctx, name, r)
}

func noopReviewRepo() *reviewRepoStub {
	return &reviewRepoStub{
		listByArtistFn: func(context.Context, uint) ([]models.Review, error) { return []models.Review{}, nil },
		listRatingsFn:  func(context.Context, ...uint) ([]models.ArtistRating, error) { return nil, nil },
		createWithArtistFn: func(_ context.Context, name string, _ *models.Review) (*models.Artist, bool, error) {
			return &models.Artist{ID: 1, Name: name}, false, nil
		},
	}
}

func assertValidationError(t *testing.T, err error, msg string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, models.HasCode(err, models.CodeValidation), "expected validation error, got %v", err)
	if msg != "" {
		assert.Equal(t, msg, err.Error())
	}
}
