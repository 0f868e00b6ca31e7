package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// StubMovie is a catalog record served by the stub TMDB server.
type StubMovie struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	PosterPath  string   `json:"poster_path"`
	ReleaseDate string   `json:"release_date"`
	Runtime     *int     `json:"runtime"`
	GenreNames  []string `json:"-"`
}

// CatalogStub mimics the two TMDB endpoints the app consumes. Unknown ids get
// a 404, and the whole stub can be switched into failure mode to exercise the
// dependency-unavailable path.
type CatalogStub struct {
	server *httptest.Server

	mu          sync.Mutex
	movies      map[int64]StubMovie
	failing     bool
	detailCalls int
}

func NewCatalogStub(t *testing.T) *CatalogStub {
	t.Helper()

	stub := &CatalogStub{
		movies: make(map[int64]StubMovie),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/search/movie", stub.handleSearch)
	mux.HandleFunc("/movie/", stub.handleDetails)
	stub.server = httptest.NewServer(mux)

	t.Cleanup(stub.server.Close)
	return stub
}

func (s *CatalogStub) URL() string {
	return s.server.URL
}

// AddMovie registers a record the stub will return from both endpoints.
func (s *CatalogStub) AddMovie(m StubMovie) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.movies[m.ID] = m
}

// SetFailing makes every endpoint answer 500 until reset.
func (s *CatalogStub) SetFailing(failing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing = failing
}

// DetailCalls reports how many detail fetches the stub has served, which lets
// tests prove the local movie cache short-circuits repeat lookups.
func (s *CatalogStub) DetailCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.detailCalls
}

func (s *CatalogStub) handleSearch(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failing {
		http.Error(w, "stub failure", http.StatusInternalServerError)
		return
	}

	query := strings.ToLower(r.URL.Query().Get("query"))
	results := make([]map[string]interface{}, 0)
	for _, m := range s.movies {
		if query != "" && !strings.Contains(strings.ToLower(m.Title), query) {
			continue
		}
		results = append(results, map[string]interface{}{
			"id":           m.ID,
			"title":        m.Title,
			"poster_path":  m.PosterPath,
			"release_date": m.ReleaseDate,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"results": results})
}

func (s *CatalogStub) handleDetails(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failing {
		http.Error(w, "stub failure", http.StatusInternalServerError)
		return
	}

	idStr := strings.TrimPrefix(r.URL.Path, "/movie/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}

	m, ok := s.movies[id]
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	s.detailCalls++

	genres := make([]map[string]interface{}, 0, len(m.GenreNames))
	for _, name := range m.GenreNames {
		genres = append(genres, map[string]interface{}{"name": name})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"id":           m.ID,
		"title":        m.Title,
		"poster_path":  m.PosterPath,
		"release_date": m.ReleaseDate,
		"runtime":      m.Runtime,
		"genres":       genres,
	})
}
