package models

import "time"

// UnknownGenre is assigned to artists created implicitly by a review.
const UnknownGenre = "Unknown"

// Artist is a performer that reviews attach to.
type Artist struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;index" json:"name"`
	Genre     string    `gorm:"not null" json:"genre"`
	Bio       string    `gorm:"type:text" json:"bio"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"createdAt"`
}

// ArtistWithRating decorates an artist with values derived from its reviews.
// None of these fields are persisted.
type ArtistWithRating struct {
	Artist
	// AvgRating is nil when the artist has no reviews.
	AvgRating   *float64 `json:"avgRating"`
	ReviewCount int      `json:"reviewCount"`
}
