package service

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/mika/watchlog/internal/repository"
)

type StatsService struct {
	entryRepo repository.WatchEntryRepository
}

func NewStatsService(entryRepo repository.WatchEntryRepository) *StatsService {
	return &StatsService{entryRepo: entryRepo}
}

// Stats is the aggregate view for a user's watch history. Everything is
// recomputed per request; at diary-sized volumes there is nothing worth
// caching.
type Stats struct {
	WeeklyCount   int64   `json:"weeklyCount"`
	MonthlyCount  int64   `json:"monthlyCount"`
	YearlyCount   int64   `json:"yearlyCount"`
	TotalEntries  int64   `json:"totalEntries"`
	AverageRating float64 `json:"averageRating"`
	TotalHours    int64   `json:"totalHours"`
}

func (s *StatsService) CountSince(ctx context.Context, userID uuid.UUID, since time.Time) (int64, error) {
	return s.entryRepo.CountSince(ctx, userID, since)
}

// AverageRating is 0.0 for a user with no rated entries, by policy.
func (s *StatsService) AverageRating(ctx context.Context, userID uuid.UUID) (float64, error) {
	return s.entryRepo.AverageRating(ctx, userID)
}

// TotalWatchHours converts summed runtime minutes to hours, rounded to the
// nearest integer. Movies without a known runtime contribute nothing.
func (s *StatsService) TotalWatchHours(ctx context.Context, userID uuid.UUID) (int64, error) {
	minutes, err := s.entryRepo.TotalRuntimeMinutes(ctx, userID)
	if err != nil {
		return 0, err
	}
	return int64(math.Round(float64(minutes) / 60.0)), nil
}

// Overview computes the trailing 7/30/365-day counts plus the scalar
// aggregates, all relative to now.
func (s *StatsService) Overview(ctx context.Context, userID uuid.UUID, now time.Time) (*Stats, error) {
	weekly, err := s.entryRepo.CountSince(ctx, userID, now.AddDate(0, 0, -7))
	if err != nil {
		return nil, err
	}
	monthly, err := s.entryRepo.CountSince(ctx, userID, now.AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}
	yearly, err := s.entryRepo.CountSince(ctx, userID, now.AddDate(0, 0, -365))
	if err != nil {
		return nil, err
	}
	total, err := s.entryRepo.CountByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	avg, err := s.entryRepo.AverageRating(ctx, userID)
	if err != nil {
		return nil, err
	}
	hours, err := s.TotalWatchHours(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Stats{
		WeeklyCount:   weekly,
		MonthlyCount:  monthly,
		YearlyCount:   yearly,
		TotalEntries:  total,
		AverageRating: avg,
		TotalHours:    hours,
	}, nil
}
