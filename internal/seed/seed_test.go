package seed

import (
	"path/filepath"
	"testing"

	"lively/internal/database"
	"lively/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "seed.db")),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func count(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestSeed(t *testing.T) {
	db := setupDB(t)

	res, err := Seed(db, Options{
		NumUsers:   4,
		NumArtists: 6,
		NumReviews: 25,
		Seed:       42,
		BcryptCost: bcrypt.MinCost,
	})
	require.NoError(t, err)
	assert.Equal(t, &Result{Users: 4, Artists: 6, Reviews: 25}, res)

	assert.Equal(t, int64(5), count(t, db, &models.User{}), "generated users plus admin")
	assert.Equal(t, int64(6), count(t, db, &models.Artist{}))
	assert.Equal(t, int64(25), count(t, db, &models.Review{}))

	var admin models.User
	require.NoError(t, db.Where("email = ?", AdminEmail).First(&admin).Error)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(AdminPassword)))

	var reviews []models.Review
	require.NoError(t, db.Find(&reviews).Error)
	for _, r := range reviews {
		assert.GreaterOrEqual(t, r.Rating, models.MinRating)
		assert.LessOrEqual(t, r.Rating, models.MaxRating)
		assert.NotEmpty(t, r.Username)

		var artists int64
		require.NoError(t, db.Model(&models.Artist{}).Where("id = ?", r.ArtistID).Count(&artists).Error)
		assert.Equal(t, int64(1), artists, "review %d points at a missing artist", r.ID)
	}
}

func TestSeed_Clean(t *testing.T) {
	db := setupDB(t)
	opts := Options{NumUsers: 2, NumArtists: 2, NumReviews: 3, Seed: 7, BcryptCost: bcrypt.MinCost}

	_, err := Seed(db, opts)
	require.NoError(t, err)

	opts.ShouldClean = true
	opts.Seed = 8
	_, err = Seed(db, opts)
	require.NoError(t, err)

	assert.Equal(t, int64(3), count(t, db, &models.User{}))
	assert.Equal(t, int64(2), count(t, db, &models.Artist{}))
	assert.Equal(t, int64(3), count(t, db, &models.Review{}))
}

func TestSeed_AdminIsIdempotent(t *testing.T) {
	db := setupDB(t)
	opts := Options{Seed: 1, BcryptCost: bcrypt.MinCost}

	for i := 0; i < 2; i++ {
		_, err := Seed(db, opts)
		require.NoError(t, err)
	}
	assert.Equal(t, int64(1), count(t, db, &models.User{}))
}

func TestSeed_ReviewsNeedUsersAndArtists(t *testing.T) {
	db := setupDB(t)

	res, err := Seed(db, Options{NumArtists: 2, NumReviews: 10, Seed: 3, BcryptCost: bcrypt.MinCost})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Reviews)
	assert.Equal(t, int64(0), count(t, db, &models.Review{}))
}

func TestFactory_UniqueArtistNames(t *testing.T) {
	db := setupDB(t)
	f := NewFactory(db, 99, bcrypt.MinCost)

	seen := map[string]bool{}
	for i := 0; i < 30; i++ {
		a, err := f.CreateArtist()
		require.NoError(t, err)
		assert.False(t, seen[a.Name], "duplicate artist name %q", a.Name)
		seen[a.Name] = true
		assert.Contains(t, genres, a.Genre)
	}
}

func TestFactory_Overrides(t *testing.T) {
	db := setupDB(t)
	f := NewFactory(db, 5, bcrypt.MinCost)

	u, err := f.CreateUser(func(u *models.User) { u.Username = "fixed" })
	require.NoError(t, err)
	assert.Equal(t, "fixed", u.Username)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(DefaultPassword)))

	a, err := f.CreateArtist(func(a *models.Artist) { a.Genre = "Jazz" })
	require.NoError(t, err)

	r := f.BuildReview(u, a)
	assert.Equal(t, a.ID, r.ArtistID)
	assert.Equal(t, u.ID, r.UserID)
	assert.Equal(t, "fixed", r.Username)
	assert.True(t, r.ConcertDate.Before(r.CreatedAt))
}
