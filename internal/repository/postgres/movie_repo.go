package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/mika/watchlog/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type movieRepository struct {
	db *gorm.DB
}

func NewMovieRepository(db *gorm.DB) *movieRepository {
	return &movieRepository{db: db}
}

func (r *movieRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Movie, error) {
	var movie domain.Movie
	err := r.db.WithContext(ctx).First(&movie, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

func (r *movieRepository) GetByCatalogID(ctx context.Context, catalogID int64) (*domain.Movie, error) {
	var movie domain.Movie
	err := r.db.WithContext(ctx).First(&movie, "catalog_id = ?", catalogID).Error
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

// CreateIfAbsent relies on the unique index on catalog_id to arbitrate
// concurrent inserts for the same catalog id: losers hit DO NOTHING and
// re-read the winner's row.
func (r *movieRepository) CreateIfAbsent(ctx context.Context, movie *domain.Movie) (*domain.Movie, error) {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "catalog_id"}},
		DoNothing: true,
	}).Create(movie).Error
	if err != nil {
		return nil, err
	}
	return r.GetByCatalogID(ctx, movie.CatalogID)
}
