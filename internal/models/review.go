package models

import "time"

// Rating bounds, inclusive.
const (
	MinRating = 1
	MaxRating = 5
)

// Review is one user's account of one concert. ArtistID always refers to an
// existing artist; the application creates the artist first when needed.
type Review struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ArtistID    uint      `gorm:"not null;index" json:"artistId"`
	UserID      uint      `gorm:"not null;index" json:"userId"`
	Username    string    `gorm:"not null" json:"username"`
	Rating      int       `gorm:"not null;check:chk_reviews_rating,rating >= 1 AND rating <= 5" json:"rating"`
	Comment     string    `gorm:"type:text;not null" json:"comment"`
	Venue       string    `gorm:"not null" json:"venue"`
	ConcertDate time.Time `gorm:"not null" json:"concertDate"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ArtistRating is the projection used to compute average ratings.
type ArtistRating struct {
	ArtistID uint
	Rating   int
}
