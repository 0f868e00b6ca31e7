package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mika/watchlog/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type SessionRepository interface {
	Create(ctx context.Context, session *domain.UserSession) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.UserSession, error)
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}

type MovieRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Movie, error)
	GetByCatalogID(ctx context.Context, catalogID int64) (*domain.Movie, error)
	// CreateIfAbsent inserts the movie unless a row with the same catalog id
	// already exists, and returns the surviving row either way. Safe to call
	// from concurrent requests for the same catalog id.
	CreateIfAbsent(ctx context.Context, movie *domain.Movie) (*domain.Movie, error)
}

type WatchEntryRepository interface {
	Create(ctx context.Context, entry *domain.WatchEntry) error
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.WatchEntry, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
	CountSince(ctx context.Context, userID uuid.UUID, since time.Time) (int64, error)
	AverageRating(ctx context.Context, userID uuid.UUID) (float64, error)
	TotalRuntimeMinutes(ctx context.Context, userID uuid.UUID) (int64, error)
}

type Repositories struct {
	User       UserRepository
	Session    SessionRepository
	Movie      MovieRepository
	WatchEntry WatchEntryRepository
}
