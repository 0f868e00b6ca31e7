package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const DefaultBaseURL = "https://api.themoviedb.org/3"

// Client is a read-only TMDB API client covering the two lookups the app
// needs: title search and detail fetch. Without an API key both lookups
// report empty results instead of erroring.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewClient(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type SearchResult struct {
	CatalogID   int64  `json:"catalogId"`
	Title       string `json:"title"`
	PosterPath  string `json:"posterPath"`
	ReleaseDate string `json:"releaseDate"`
}

type MovieDetails struct {
	CatalogID      int64
	Title          string
	PosterPath     string
	ReleaseDate    string
	RuntimeMinutes *int
	Genres         []string
}

type searchResponse struct {
	Results []struct {
		ID          int64  `json:"id"`
		Title       string `json:"title"`
		PosterPath  string `json:"poster_path"`
		ReleaseDate string `json:"release_date"`
	} `json:"results"`
}

type detailsResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	PosterPath  string `json:"poster_path"`
	ReleaseDate string `json:"release_date"`
	Runtime     *int   `json:"runtime"`
	Genres      []struct {
		Name string `json:"name"`
	} `json:"genres"`
}

// Search returns the first page of title matches.
func (c *Client) Search(ctx context.Context, query string) ([]SearchResult, error) {
	if c.apiKey == "" {
		return nil, nil
	}

	u, err := url.Parse(c.baseURL + "/search/movie")
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("api_key", c.apiKey)
	q.Set("query", query)
	q.Set("language", "en-US")
	q.Set("page", "1")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tmdb search returned %d", resp.StatusCode)
	}

	var res searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(res.Results))
	for _, r := range res.Results {
		results = append(results, SearchResult{
			CatalogID:   r.ID,
			Title:       r.Title,
			PosterPath:  r.PosterPath,
			ReleaseDate: r.ReleaseDate,
		})
	}
	return results, nil
}

// GetDetails fetches a single movie record by its TMDB id.
func (c *Client) GetDetails(ctx context.Context, catalogID int64) (*MovieDetails, error) {
	if c.apiKey == "" {
		return nil, nil
	}

	u, err := url.Parse(fmt.Sprintf("%s/movie/%d", c.baseURL, catalogID))
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("api_key", c.apiKey)
	q.Set("language", "en-US")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tmdb details returned %d", resp.StatusCode)
	}

	var d detailsResponse
	if err := json.NewDecoder(resp.Body).Decode(&d); err != nil {
		return nil, err
	}

	genres := make([]string, 0, len(d.Genres))
	for _, g := range d.Genres {
		genres = append(genres, g.Name)
	}

	return &MovieDetails{
		CatalogID:      d.ID,
		Title:          d.Title,
		PosterPath:     d.PosterPath,
		ReleaseDate:    d.ReleaseDate,
		RuntimeMinutes: d.Runtime,
		Genres:         genres,
	}, nil
}
