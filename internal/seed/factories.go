// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"strings"
	"time"

	"lively/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password of every generated account.
const DefaultPassword = "password123"

var genres = []string{
	"Rock", "Indie Rock", "Jazz", "Smooth Jazz", "Hip-Hop", "Electronic",
	"Folk", "Metal", "Punk", "Soul", "Blues", "Pop", "Country", "Reggae",
}

var venueKinds = []string{
	"Arena", "Hall", "Ballroom", "Theatre", "Club", "Amphitheater", "Warehouse",
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db         *gorm.DB
	faker      *gofakeit.Faker
	bcryptCost int
	hash       string
	names      map[string]struct{}
}

// NewFactory creates a Factory bound to db. A zero seed draws a random one.
func NewFactory(db *gorm.DB, seed int64, bcryptCost int) *Factory {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Factory{
		db:         db,
		faker:      gofakeit.New(seed),
		bcryptCost: bcryptCost,
		names:      make(map[string]struct{}),
	}
}

// passwordHash hashes DefaultPassword once per factory.
func (f *Factory) passwordHash() (string, error) {
	if f.hash != "" {
		return f.hash, nil
	}
	h, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), f.bcryptCost)
	if err != nil {
		return "", err
	}
	f.hash = string(h)
	return f.hash, nil
}

// CreateUser constructs and persists a sample user.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hash, err := f.passwordHash()
	if err != nil {
		return nil, err
	}

	username := f.unique("user", func() string {
		return fmt.Sprintf("%s%d", f.faker.Username(), f.faker.Number(100, 999))
	})
	user := &models.User{
		Username: username,
		Email:    strings.ToLower(username) + "@" + f.faker.DomainName(),
		Password: hash,
		Role:     models.RoleUser,
	}
	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// unique calls gen until it yields a value not yet produced for kind.
func (f *Factory) unique(kind string, gen func() string) string {
	for {
		v := gen()
		key := kind + ":" + v
		if _, seen := f.names[key]; !seen {
			f.names[key] = struct{}{}
			return v
		}
	}
}

func (f *Factory) artistName() string {
	return f.unique("artist", func() string {
		switch f.faker.Number(0, 2) {
		case 0:
			return "The " + title(f.faker.HipsterWord()) + " " + title(f.faker.Noun()) + "s"
		case 1:
			return f.faker.FirstName() + " " + f.faker.LastName()
		default:
			return title(f.faker.Adjective()) + " " + title(f.faker.Animal())
		}
	})
}

// CreateArtist constructs and persists a sample artist.
func (f *Factory) CreateArtist(overrides ...func(*models.Artist)) (*models.Artist, error) {
	artist := &models.Artist{
		Name:  f.artistName(),
		Genre: f.faker.RandomString(genres),
		Bio:   f.faker.Paragraph(1, 3, 12, " "),
		Image: fmt.Sprintf("https://picsum.photos/seed/%s/600/400", f.faker.UUID()),
	}
	for _, override := range overrides {
		override(artist)
	}

	if err := f.db.Create(artist).Error; err != nil {
		return nil, err
	}
	return artist, nil
}

// BuildReview constructs a review by user for artist without persisting it.
func (f *Factory) BuildReview(user *models.User, artist *models.Artist) *models.Review {
	now := time.Now()
	concert := f.faker.DateRange(now.AddDate(-2, 0, 0), now.AddDate(0, 0, -1))
	return &models.Review{
		ArtistID:    artist.ID,
		UserID:      user.ID,
		Username:    user.Username,
		Rating:      f.faker.Number(models.MinRating, models.MaxRating),
		Comment:     f.faker.Sentence(f.faker.Number(6, 20)),
		Venue:       f.faker.City() + " " + f.faker.RandomString(venueKinds),
		ConcertDate: concert.Truncate(24 * time.Hour),
		CreatedAt:   concert.Add(time.Duration(f.faker.Number(1, 72)) * time.Hour),
	}
}

// CreateReviewsBatch persists reviews in batches.
func (f *Factory) CreateReviewsBatch(reviews []*models.Review) error {
	if len(reviews) == 0 {
		return nil
	}
	return f.db.CreateInBatches(reviews, 100).Error
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
