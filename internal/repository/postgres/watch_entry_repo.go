package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mika/watchlog/internal/domain"
	"gorm.io/gorm"
)

type watchEntryRepository struct {
	db *gorm.DB
}

func NewWatchEntryRepository(db *gorm.DB) *watchEntryRepository {
	return &watchEntryRepository{db: db}
}

func (r *watchEntryRepository) Create(ctx context.Context, entry *domain.WatchEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *watchEntryRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.WatchEntry, error) {
	var entries []*domain.WatchEntry
	err := r.db.WithContext(ctx).
		Preload("Movie").
		Where("user_id = ?", userID).
		Order("watched_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *watchEntryRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.WatchEntry{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// CountSince counts entries watched on or after the boundary instant.
func (r *watchEntryRepository) CountSince(ctx context.Context, userID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.WatchEntry{}).
		Where("user_id = ? AND watched_at >= ?", userID, since).
		Count(&count).Error
	return count, err
}

// AverageRating averages only non-null ratings; a user with no rated entries
// gets 0 from COALESCE rather than a division-by-zero NULL.
func (r *watchEntryRepository) AverageRating(ctx context.Context, userID uuid.UUID) (float64, error) {
	var avg float64
	err := r.db.WithContext(ctx).
		Model(&domain.WatchEntry{}).
		Where("user_id = ? AND rating IS NOT NULL", userID).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avg).Error
	return avg, err
}

// TotalRuntimeMinutes sums movie runtimes across all of the user's entries,
// counting a movie once per watch and a missing runtime as 0.
func (r *watchEntryRepository) TotalRuntimeMinutes(ctx context.Context, userID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&domain.WatchEntry{}).
		Joins("JOIN movies ON movies.id = watch_entries.movie_id").
		Where("watch_entries.user_id = ?", userID).
		Select("COALESCE(SUM(COALESCE(movies.runtime_minutes, 0)), 0)").
		Scan(&total).Error
	return total, err
}
