package service

import (
	"github.com/mika/watchlog/internal/config"
	"github.com/mika/watchlog/internal/repository"
)

type Services struct {
	Auth    *AuthService
	Library *LibraryService
	Stats   *StatsService
}

func NewServices(repos *repository.Repositories, catalog CatalogClient, cfg *config.Config) *Services {
	return &Services{
		Auth:    NewAuthService(repos.User, repos.Session, cfg),
		Library: NewLibraryService(repos.Movie, repos.WatchEntry, catalog),
		Stats:   NewStatsService(repos.WatchEntry),
	}
}
