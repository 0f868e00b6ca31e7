package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Movie is a locally cached copy of a catalog record. Rows are created the
// first time a user references the catalog id and are never updated after.
type Movie struct {
	ID             uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CatalogID      int64          `json:"catalogId" gorm:"uniqueIndex;not null"` // TMDB movie id
	Title          string         `json:"title" gorm:"not null"`
	PosterPath     string         `json:"posterPath"`
	ReleaseDate    string         `json:"releaseDate"`                  // "2006-01-02", may be empty
	RuntimeMinutes *int           `json:"runtimeMinutes"`               // not all catalog entries supply it
	Genres         datatypes.JSON `json:"genres" gorm:"type:jsonb"`     // ["Action", "Sci-Fi"]
	CreatedAt      time.Time      `json:"createdAt"`
}
