package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/mika/watchlog/internal/domain"
	"github.com/mika/watchlog/internal/repository"
	"github.com/mika/watchlog/internal/tmdb"
	"gorm.io/gorm"
)

var (
	// ErrCatalogUnavailable means the movie is not cached locally and the
	// external catalog could not supply it, so no entry can be created.
	ErrCatalogUnavailable = errors.New("movie catalog unavailable")
)

// CatalogClient is the read-only slice of the external catalog the library
// needs.
type CatalogClient interface {
	Search(ctx context.Context, query string) ([]tmdb.SearchResult, error)
	GetDetails(ctx context.Context, catalogID int64) (*tmdb.MovieDetails, error)
}

type LibraryService struct {
	movieRepo repository.MovieRepository
	entryRepo repository.WatchEntryRepository
	catalog   CatalogClient
}

func NewLibraryService(movieRepo repository.MovieRepository, entryRepo repository.WatchEntryRepository, catalog CatalogClient) *LibraryService {
	return &LibraryService{
		movieRepo: movieRepo,
		entryRepo: entryRepo,
		catalog:   catalog,
	}
}

// SearchCatalog queries the external catalog. A failed or unconfigured
// catalog yields an empty result list, not an error: search misses are not
// faults.
func (s *LibraryService) SearchCatalog(ctx context.Context, query string) []tmdb.SearchResult {
	if query == "" {
		return []tmdb.SearchResult{}
	}

	results, err := s.catalog.Search(ctx, query)
	if err != nil {
		log.Printf("ERROR [library.SearchCatalog] catalog search failed: %v", err)
		return []tmdb.SearchResult{}
	}
	if results == nil {
		return []tmdb.SearchResult{}
	}
	return results
}

// EnsureMovie returns the cached movie for a catalog id, fetching and caching
// it on first reference. Concurrent first references converge on one row via
// the catalog_id unique index.
func (s *LibraryService) EnsureMovie(ctx context.Context, catalogID int64) (*domain.Movie, error) {
	movie, err := s.movieRepo.GetByCatalogID(ctx, catalogID)
	if err == nil {
		return movie, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	details, err := s.catalog.GetDetails(ctx, catalogID)
	if err != nil {
		log.Printf("ERROR [library.EnsureMovie] catalog fetch for %d failed: %v", catalogID, err)
		return nil, ErrCatalogUnavailable
	}
	if details == nil {
		return nil, ErrCatalogUnavailable
	}

	genresJSON, err := json.Marshal(details.Genres)
	if err != nil {
		return nil, err
	}

	movie = &domain.Movie{
		ID:             uuid.New(),
		CatalogID:      details.CatalogID,
		Title:          details.Title,
		PosterPath:     details.PosterPath,
		ReleaseDate:    details.ReleaseDate,
		RuntimeMinutes: details.RuntimeMinutes,
		Genres:         genresJSON,
		CreatedAt:      time.Now(),
	}

	return s.movieRepo.CreateIfAbsent(ctx, movie)
}

type LogEntryInput struct {
	UserID    uuid.UUID
	CatalogID int64
	Rating    *float64
	Comment   string
	WatchedAt *time.Time
}

// LogEntry records a watch against the (possibly freshly cached) movie. Each
// submission is a new fact; there is no dedup of repeat watches.
func (s *LibraryService) LogEntry(ctx context.Context, input LogEntryInput) (*domain.WatchEntry, error) {
	if err := domain.ValidateRating(input.Rating); err != nil {
		return nil, err
	}

	movie, err := s.EnsureMovie(ctx, input.CatalogID)
	if err != nil {
		return nil, err
	}

	watchedAt := time.Now().UTC()
	if input.WatchedAt != nil {
		watchedAt = *input.WatchedAt
	}

	entry := &domain.WatchEntry{
		ID:        uuid.New(),
		UserID:    input.UserID,
		MovieID:   movie.ID,
		Rating:    input.Rating,
		Comment:   input.Comment,
		WatchedAt: watchedAt,
		CreatedAt: time.Now(),
	}

	if err := s.entryRepo.Create(ctx, entry); err != nil {
		return nil, err
	}

	entry.Movie = movie
	return entry, nil
}

// ListEntries returns the user's watch history, newest first, with movies
// joined in for display.
func (s *LibraryService) ListEntries(ctx context.Context, userID uuid.UUID) ([]*domain.WatchEntry, error) {
	return s.entryRepo.ListByUserID(ctx, userID)
}
