package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/mika/watchlog/internal/api/middleware"
	"github.com/mika/watchlog/internal/domain"
	"github.com/mika/watchlog/internal/service"
)

const watchedAtLayout = "2006-01-02"

type EntriesHandler struct {
	libraryService *service.LibraryService
}

func NewEntriesHandler(libraryService *service.LibraryService) *EntriesHandler {
	return &EntriesHandler{libraryService: libraryService}
}

type CreateEntryRequest struct {
	CatalogID int64    `json:"catalogId"`
	Rating    *float64 `json:"rating"`
	Comment   string   `json:"comment"`
	WatchedAt string   `json:"watchedAt"` // "2006-01-02", optional
}

// EntryResponse mirrors what the history view needs: the entry plus the movie
// it points at.
type EntryResponse struct {
	ID             string   `json:"id"`
	MovieTitle     string   `json:"movieTitle"`
	PosterPath     string   `json:"posterPath"`
	CatalogID      int64    `json:"catalogId"`
	RuntimeMinutes *int     `json:"runtimeMinutes"`
	Rating         *float64 `json:"rating"`
	Comment        string   `json:"comment"`
	WatchedAt      string   `json:"watchedAt"`
}

func (h *EntriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.CatalogID <= 0 {
		http.Error(w, "catalogId is required", http.StatusBadRequest)
		return
	}

	var watchedAt *time.Time
	if req.WatchedAt != "" {
		parsed, err := time.Parse(watchedAtLayout, req.WatchedAt)
		if err != nil {
			http.Error(w, "watchedAt must be formatted YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		watchedAt = &parsed
	}

	entry, err := h.libraryService.LogEntry(r.Context(), service.LogEntryInput{
		UserID:    userID,
		CatalogID: req.CatalogID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		WatchedAt: watchedAt,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidRating):
			http.Error(w, "Rating must be between 0 and 10", http.StatusBadRequest)
		case errors.Is(err, service.ErrCatalogUnavailable):
			http.Error(w, "Movie catalog unavailable", http.StatusBadGateway)
		default:
			log.Printf("ERROR [entries.Create] failed to log entry: %v", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toEntryResponse(entry))
}

func (h *EntriesHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	entries, err := h.libraryService.ListEntries(r.Context(), userID)
	if err != nil {
		log.Printf("ERROR [entries.List] failed to list entries: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	items := make([]EntryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, toEntryResponse(entry))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string][]EntryResponse{"entries": items})
}

func toEntryResponse(entry *domain.WatchEntry) EntryResponse {
	resp := EntryResponse{
		ID:        entry.ID.String(),
		Rating:    entry.Rating,
		Comment:   entry.Comment,
		WatchedAt: entry.WatchedAt.Format(watchedAtLayout),
	}
	if entry.Movie != nil {
		resp.MovieTitle = entry.Movie.Title
		resp.PosterPath = entry.Movie.PosterPath
		resp.CatalogID = entry.Movie.CatalogID
		resp.RuntimeMinutes = entry.Movie.RuntimeMinutes
	}
	return resp
}
