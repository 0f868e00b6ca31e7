package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	MinRating = 0.0
	MaxRating = 10.0
)

// WatchEntry records that one user watched one movie at a point in time.
// Entries are immutable facts: there are no update or delete operations, and
// logging the same movie twice produces two rows.
type WatchEntry struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;not null;index"`
	User      *User     `json:"-" gorm:"foreignKey:UserID"`
	MovieID   uuid.UUID `json:"movieId" gorm:"type:uuid;not null"`
	Movie     *Movie    `json:"movie,omitempty" gorm:"foreignKey:MovieID"`
	Rating    *float64  `json:"rating"` // 0-10, nil when the user gave none
	Comment   string    `json:"comment" gorm:"type:text"`
	WatchedAt time.Time `json:"watchedAt" gorm:"not null;index"`
	CreatedAt time.Time `json:"createdAt"`
}

// ValidateRating accepts a nil rating; a present rating must be on the 0-10
// scale.
func ValidateRating(rating *float64) error {
	if rating == nil {
		return nil
	}
	if *rating < MinRating || *rating > MaxRating {
		return ErrInvalidRating
	}
	return nil
}
