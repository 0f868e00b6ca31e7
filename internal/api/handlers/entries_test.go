package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/mika/watchlog/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func authedRequest(t *testing.T, method, rawURL, token string, body interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, rawURL, &buf)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

type entryItem struct {
	ID         string   `json:"id"`
	MovieTitle string   `json:"movieTitle"`
	CatalogID  int64    `json:"catalogId"`
	Rating     *float64 `json:"rating"`
	Comment    string   `json:"comment"`
	WatchedAt  string   `json:"watchedAt"`
}

type entriesResponse struct {
	Entries []entryItem `json:"entries"`
}

type statsResponse struct {
	WeeklyCount   int64   `json:"weeklyCount"`
	MonthlyCount  int64   `json:"monthlyCount"`
	YearlyCount   int64   `json:"yearlyCount"`
	TotalEntries  int64   `json:"totalEntries"`
	AverageRating float64 `json:"averageRating"`
	TotalHours    int64   `json:"totalHours"`
}

// TestEntriesFlow walks the whole journey: sign up, search the catalog, log
// an entry, read it back, check the aggregates.
func TestEntriesFlow(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ts.Catalog.AddMovie(testutil.StubMovie{
		ID:          27205,
		Title:       "Inception",
		PosterPath:  "/inception.jpg",
		ReleaseDate: "2010-07-16",
		Runtime:     intPtr(148),
		GenreNames:  []string{"Action", "Science Fiction"},
	})

	_, token := testutil.NewUserBuilder().WithEmail("a@x.com").BuildAndAuthenticate(t, ts)

	// Search
	searchURL := ts.APIURL("/movies/search") + "?q=" + url.QueryEscape("Inception")
	resp := authedRequest(t, http.MethodGet, searchURL, token, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var search struct {
		Results []struct {
			CatalogID int64  `json:"catalogId"`
			Title     string `json:"title"`
		} `json:"results"`
	}
	testutil.AssertJSONResponse(t, resp, &search)
	require.Len(t, search.Results, 1)
	assert.Equal(t, int64(27205), search.Results[0].CatalogID)

	// Log the entry
	resp = authedRequest(t, http.MethodPost, ts.APIURL("/entries"), token, map[string]interface{}{
		"catalogId": 27205,
		"rating":    9,
		"comment":   "great",
		"watchedAt": "2024-01-15",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created entryItem
	testutil.AssertJSONResponse(t, resp, &created)
	assert.Equal(t, "Inception", created.MovieTitle)
	assert.Equal(t, "2024-01-15", created.WatchedAt)

	// Read the history back
	resp = authedRequest(t, http.MethodGet, ts.APIURL("/entries"), token, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list entriesResponse
	testutil.AssertJSONResponse(t, resp, &list)
	require.Len(t, list.Entries, 1)
	assert.Equal(t, "Inception", list.Entries[0].MovieTitle)
	require.NotNil(t, list.Entries[0].Rating)
	assert.Equal(t, 9.0, *list.Entries[0].Rating)
	assert.Equal(t, "great", list.Entries[0].Comment)

	// Aggregates
	resp = authedRequest(t, http.MethodGet, ts.APIURL("/stats"), token, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stats statsResponse
	testutil.AssertJSONResponse(t, resp, &stats)
	assert.Equal(t, int64(1), stats.TotalEntries)
	assert.Equal(t, 9.0, stats.AverageRating)
}

func TestEntriesHandler_Create_Validation(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ts.Catalog.AddMovie(testutil.StubMovie{ID: 550, Title: "Fight Club", Runtime: intPtr(139)})

	_, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	tests := []struct {
		name           string
		request        map[string]interface{}
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "missing catalog id",
			request:        map[string]interface{}{"rating": 5},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "catalogId is required",
		},
		{
			name: "rating above scale",
			request: map[string]interface{}{
				"catalogId": 550,
				"rating":    11,
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Rating must be between 0 and 10",
		},
		{
			name: "negative rating",
			request: map[string]interface{}{
				"catalogId": 550,
				"rating":    -1,
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Rating must be between 0 and 10",
		},
		{
			name: "malformed watched date",
			request: map[string]interface{}{
				"catalogId": 550,
				"watchedAt": "15/01/2024",
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "watchedAt must be formatted",
		},
		{
			name: "unknown catalog id",
			request: map[string]interface{}{
				"catalogId": 424242,
			},
			expectedStatus: http.StatusBadGateway,
			expectedError:  "Movie catalog unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := authedRequest(t, http.MethodPost, ts.APIURL("/entries"), token, tt.request)
			defer resp.Body.Close()

			testutil.AssertErrorResponse(t, resp, tt.expectedStatus, tt.expectedError)
		})
	}
}

func TestEntriesHandler_Create_CatalogDown(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	ts.Catalog.SetFailing(true)

	resp := authedRequest(t, http.MethodPost, ts.APIURL("/entries"), token, map[string]interface{}{
		"catalogId": 27205,
		"rating":    9,
	})
	defer resp.Body.Close()

	testutil.AssertErrorResponse(t, resp, http.StatusBadGateway, "Movie catalog unavailable")

	// The failed creation must not leave any rows behind
	resp = authedRequest(t, http.MethodGet, ts.APIURL("/entries"), token, nil)
	defer resp.Body.Close()

	var list entriesResponse
	testutil.AssertJSONResponse(t, resp, &list)
	assert.Empty(t, list.Entries)
}

func TestEntriesHandler_Create_RepeatWatches(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ts.Catalog.AddMovie(testutil.StubMovie{ID: 603, Title: "The Matrix", Runtime: intPtr(136)})

	_, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	for _, date := range []string{"2024-01-01", "2024-06-01"} {
		resp := authedRequest(t, http.MethodPost, ts.APIURL("/entries"), token, map[string]interface{}{
			"catalogId": 603,
			"watchedAt": date,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	// Two watches of the same movie are two facts
	resp := authedRequest(t, http.MethodGet, ts.APIURL("/entries"), token, nil)
	defer resp.Body.Close()

	var list entriesResponse
	testutil.AssertJSONResponse(t, resp, &list)
	require.Len(t, list.Entries, 2)
	assert.Equal(t, "2024-06-01", list.Entries[0].WatchedAt)
	assert.Equal(t, "2024-01-01", list.Entries[1].WatchedAt)

	// The movie itself was cached once: one detail fetch, one row
	assert.Equal(t, 1, ts.Catalog.DetailCalls())
}

func TestEntriesHandler_RequiresAuth(t *testing.T) {
	ts := testutil.NewTestServer(t)

	resp, err := http.Get(ts.APIURL("/entries"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = http.Post(ts.APIURL("/entries"), "application/json", bytes.NewBufferString(`{"catalogId":1}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSearchHandler_EmptyQueryAndFailure(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	// Empty query is a valid empty result
	resp := authedRequest(t, http.MethodGet, ts.APIURL("/movies/search"), token, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var search struct {
		Results []entryItem `json:"results"`
	}
	testutil.AssertJSONResponse(t, resp, &search)
	assert.Empty(t, search.Results)

	// So is a catalog outage
	ts.Catalog.SetFailing(true)
	resp = authedRequest(t, http.MethodGet, ts.APIURL("/movies/search")+fmt.Sprintf("?q=%s", "anything"), token, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	testutil.AssertJSONResponse(t, resp, &search)
	assert.Empty(t, search.Results)
}
