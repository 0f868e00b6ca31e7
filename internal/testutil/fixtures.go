package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mika/watchlog/internal/domain"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	email       string
	displayName string
	password    string
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	return &UserBuilder{
		email:       fmt.Sprintf("testuser_%s@example.com", suffix),
		displayName: fmt.Sprintf("testuser_%s", suffix),
		password:    "testpassword123",
	}
}

// WithEmail sets the email
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

// WithDisplayName sets the display name
func (b *UserBuilder) WithDisplayName(name string) *UserBuilder {
	b.displayName = name
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        b.email,
		DisplayName:  b.displayName,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// AuthResponse matches the API auth response
type AuthResponse struct {
	User struct {
		ID          string `json:"id"`
		Email       string `json:"email"`
		DisplayName string `json:"displayName"`
	} `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// BuildAndAuthenticate creates a user via the API and returns the user and access token
func (b *UserBuilder) BuildAndAuthenticate(t *testing.T, ts *TestServer) (*domain.User, string) {
	t.Helper()

	reqBody := map[string]string{
		"email":       b.email,
		"displayName": b.displayName,
		"password":    b.password,
	}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(ts.APIURL("/auth/register"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to register user: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("register returned status %d", resp.StatusCode)
	}

	var authResp AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		t.Fatalf("failed to decode auth response: %v", err)
	}

	userID, err := uuid.Parse(authResp.User.ID)
	if err != nil {
		t.Fatalf("invalid user id in auth response: %v", err)
	}

	user := &domain.User{
		ID:          userID,
		Email:       authResp.User.Email,
		DisplayName: authResp.User.DisplayName,
	}

	return user, authResp.AccessToken
}

// MovieBuilder creates cached movie rows directly in the database
type MovieBuilder struct {
	catalogID int64
	title     string
	runtime   *int
}

// NewMovieBuilder creates a MovieBuilder with default values
func NewMovieBuilder() *MovieBuilder {
	return &MovieBuilder{
		catalogID: int64(uuid.New().ID()),
		title:     "Test Movie",
	}
}

// WithCatalogID sets the external catalog id
func (b *MovieBuilder) WithCatalogID(id int64) *MovieBuilder {
	b.catalogID = id
	return b
}

// WithTitle sets the title
func (b *MovieBuilder) WithTitle(title string) *MovieBuilder {
	b.title = title
	return b
}

// WithRuntime sets the runtime in minutes; leave unset for a movie whose
// runtime the catalog did not supply
func (b *MovieBuilder) WithRuntime(minutes int) *MovieBuilder {
	b.runtime = &minutes
	return b
}

// Build creates the movie row
func (b *MovieBuilder) Build(t *testing.T, db *gorm.DB) *domain.Movie {
	t.Helper()

	movie := &domain.Movie{
		ID:             uuid.New(),
		CatalogID:      b.catalogID,
		Title:          b.title,
		RuntimeMinutes: b.runtime,
		Genres:         []byte(`[]`),
		CreatedAt:      time.Now(),
	}

	if err := db.Create(movie).Error; err != nil {
		t.Fatalf("failed to create movie: %v", err)
	}

	return movie
}

// EntryBuilder creates watch entry rows directly in the database
type EntryBuilder struct {
	userID    uuid.UUID
	movieID   uuid.UUID
	rating    *float64
	comment   string
	watchedAt time.Time
}

// NewEntryBuilder creates an EntryBuilder for the given user and movie
func NewEntryBuilder(user *domain.User, movie *domain.Movie) *EntryBuilder {
	return &EntryBuilder{
		userID:    user.ID,
		movieID:   movie.ID,
		watchedAt: time.Now().UTC(),
	}
}

// WithRating sets the rating
func (b *EntryBuilder) WithRating(rating float64) *EntryBuilder {
	b.rating = &rating
	return b
}

// WithComment sets the comment
func (b *EntryBuilder) WithComment(comment string) *EntryBuilder {
	b.comment = comment
	return b
}

// WithWatchedAt sets the watched timestamp
func (b *EntryBuilder) WithWatchedAt(watchedAt time.Time) *EntryBuilder {
	b.watchedAt = watchedAt
	return b
}

// Build creates the entry row
func (b *EntryBuilder) Build(t *testing.T, db *gorm.DB) *domain.WatchEntry {
	t.Helper()

	entry := &domain.WatchEntry{
		ID:        uuid.New(),
		UserID:    b.userID,
		MovieID:   b.movieID,
		Rating:    b.rating,
		Comment:   b.comment,
		WatchedAt: b.watchedAt,
		CreatedAt: time.Now(),
	}

	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create watch entry: %v", err)
	}

	return entry
}
