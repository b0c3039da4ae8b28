package seed

import (
	"fmt"
	"log/slog"

	"lively/internal/middleware"
	"lively/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Admin account created by every seed run.
const (
	AdminUsername = "admin"
	AdminEmail    = "admin@lively.local"
	AdminPassword = "admin123"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumArtists  int
	NumReviews  int
	ShouldClean bool
	// Seed makes runs reproducible. Zero picks a random seed.
	Seed int64
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
}

// Result counts what a seed run inserted.
type Result struct {
	Users   int
	Artists int
	Reviews int
}

// Seed populates the database with demo users, artists and reviews.
func Seed(db *gorm.DB, opts Options) (*Result, error) {
	log := middleware.Logger
	log.Info("Starting database seeding",
		slog.Int("users", opts.NumUsers),
		slog.Int("artists", opts.NumArtists),
		slog.Int("reviews", opts.NumReviews),
	)

	if opts.ShouldClean {
		if err := ClearAll(db); err != nil {
			return nil, fmt.Errorf("failed to clear data: %w", err)
		}
	}

	f := NewFactory(db, opts.Seed, opts.BcryptCost)
	res := &Result{}

	if err := ensureAdmin(db, opts.BcryptCost); err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		u, err := f.CreateUser()
		if err != nil {
			return nil, fmt.Errorf("failed to create users: %w", err)
		}
		users = append(users, u)
	}
	res.Users = len(users)
	log.Info("Users created", slog.Int("count", res.Users))

	artists := make([]*models.Artist, 0, opts.NumArtists)
	for i := 0; i < opts.NumArtists; i++ {
		a, err := f.CreateArtist()
		if err != nil {
			return nil, fmt.Errorf("failed to create artists: %w", err)
		}
		artists = append(artists, a)
	}
	res.Artists = len(artists)
	log.Info("Artists created", slog.Int("count", res.Artists))

	if len(users) == 0 || len(artists) == 0 {
		if opts.NumReviews > 0 {
			log.Warn("Skipping reviews: seeding them needs at least one user and one artist")
		}
		return res, nil
	}

	reviews := make([]*models.Review, 0, opts.NumReviews)
	for i := 0; i < opts.NumReviews; i++ {
		user := users[f.faker.Number(0, len(users)-1)]
		artist := artists[f.faker.Number(0, len(artists)-1)]
		reviews = append(reviews, f.BuildReview(user, artist))
	}
	if err := f.CreateReviewsBatch(reviews); err != nil {
		return nil, fmt.Errorf("failed to create reviews: %w", err)
	}
	res.Reviews = len(reviews)
	log.Info("Reviews created", slog.Int("count", res.Reviews))

	return res, nil
}

// ensureAdmin creates the admin account unless its email is already taken.
func ensureAdmin(db *gorm.DB, cost int) error {
	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", AdminEmail).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(AdminPassword), cost)
	if err != nil {
		return err
	}
	return db.Create(&models.User{
		Username: AdminUsername,
		Email:    AdminEmail,
		Password: string(hash),
		Role:     models.RoleAdmin,
	}).Error
}

// ClearAll deletes every review, artist and user. Reviews go first so no
// review is ever left pointing at a missing artist.
func ClearAll(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, model := range []interface{}{&models.Review{}, &models.Artist{}, &models.User{}} {
			if err := all.Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
