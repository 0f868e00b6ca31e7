package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/mika/watchlog/internal/service"
	"github.com/mika/watchlog/internal/tmdb"
)

type SearchHandler struct {
	libraryService *service.LibraryService
}

func NewSearchHandler(libraryService *service.LibraryService) *SearchHandler {
	return &SearchHandler{libraryService: libraryService}
}

type SearchResponse struct {
	Query   string              `json:"query"`
	Results []tmdb.SearchResult `json:"results"`
}

// Search proxies the catalog title search. Catalog failures surface as an
// empty result list, same as a genuine no-match.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	results := h.libraryService.SearchCatalog(r.Context(), query)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SearchResponse{Query: query, Results: results})
}
