package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bookstore/bookstore-service/internal/app/bookstore/entity"
	"bookstore/bookstore-service/internal/app/bookstore/infrastructure/messaging"
	"bookstore/bookstore-service/internal/app/bookstore/repository"
	"bookstore/bookstore-service/internal/app/bookstore/service"
	"bookstore/bookstore-service/internal/app/bookstore/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

// newTestRouter собирает полный роутер на хранилищах в памяти
func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	jwtManager := util.NewJWTManager(testSecret, time.Hour)
	books := repository.NewBookRepository(repository.DefaultBooks())

	authService := service.NewAuthService(repository.NewUserRepository(), jwtManager)
	catalogService := service.NewCatalogService(books, nil, time.Minute)
	reviewService := service.NewReviewService(repository.NewReviewRepository(), books, messaging.NoopPublisher{})

	return SetupRoutes(Handlers{
		Books:   NewBookHandler(catalogService),
		Auth:    NewAuthHandler(authService),
		Reviews: NewReviewHandler(reviewService),
	}, NewAuthMiddleware(authService), []string{"*"})
}

func doRequest(router *gin.Engine, method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func registerAndLogin(t *testing.T, router *gin.Engine, username, email, password string) string {
	t.Helper()

	w := doRequest(router, http.MethodPost, "/api/auth/register",
		gin.H{"username": username, "email": email, "password": password}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doRequest(router, http.MethodPost, "/api/auth/login", gin.H{"email": email, "password": password}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	return decode[entity.LoginResponse](t, w).Token
}

// ===================== Catalog =====================

func TestGetAllBooks(t *testing.T) {
	router := newTestRouter()

	w := doRequest(router, http.MethodGet, "/api/books", nil, "")

	assert.Equal(t, http.StatusOK, w.Code)
	books := decode[[]entity.Book](t, w)
	assert.Len(t, books, 3)
}

func TestGetBookByISBN(t *testing.T) {
	router := newTestRouter()

	w := doRequest(router, http.MethodGet, "/api/books/isbn/9780987654321", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Express.js in Action", decode[entity.Book](t, w).Title)

	w = doRequest(router, http.MethodGet, "/api/books/isbn/0000000000000", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decode[entity.ErrorResponse](t, w)
	assert.Equal(t, "Not Found", resp.Error)
	assert.Equal(t, "Book not found", resp.Message)
}

func TestSearchBooks(t *testing.T) {
	router := newTestRouter()

	testCases := []struct {
		name       string
		path       string
		wantStatus int
		wantCount  int
		wantMsg    string
	}{
		{"author found", "/api/books/author/john", http.StatusOK, 2, ""},
		{"author with space", "/api/books/author/Jane%20Programmer", http.StatusOK, 1, ""},
		{"author not found", "/api/books/author/tolkien", http.StatusNotFound, 0, "No books found for this author"},
		{"title found", "/api/books/title/modern", http.StatusOK, 1, ""},
		{"title not found", "/api/books/title/rust", http.StatusNotFound, 0, "No books found with this title"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(router, http.MethodGet, tc.path, nil, "")

			assert.Equal(t, tc.wantStatus, w.Code)
			if tc.wantStatus == http.StatusOK {
				assert.Len(t, decode[[]entity.Book](t, w), tc.wantCount)
				return
			}
			assert.Equal(t, tc.wantMsg, decode[entity.ErrorResponse](t, w).Message)
		})
	}
}

// ===================== Auth =====================

func TestRegister(t *testing.T) {
	router := newTestRouter()

	w := doRequest(router, http.MethodPost, "/api/auth/register",
		gin.H{"username": "alice", "email": "a@x.com", "password": "pw1"}, "")

	assert.Equal(t, http.StatusCreated, w.Code)
	resp := decode[entity.RegisterResponse](t, w)
	assert.Equal(t, "User registered successfully", resp.Message)
	assert.Equal(t, int64(1), resp.User.ID)
	assert.NotContains(t, w.Body.String(), "pw1")
	assert.NotContains(t, w.Body.String(), "password")
}

func TestRegister_Errors(t *testing.T) {
	router := newTestRouter()
	doRequest(router, http.MethodPost, "/api/auth/register",
		gin.H{"username": "alice", "email": "a@x.com", "password": "pw1"}, "")

	testCases := []struct {
		name        string
		body        any
		wantMessage string
	}{
		{"missing password", gin.H{"username": "bob", "email": "b@x.com"}, "All fields are required"},
		{"duplicate email", gin.H{"username": "mallory", "email": "a@x.com", "password": "pw2"}, "User already exists"},
		{"not json", "plain string", "Invalid request body"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(router, http.MethodPost, "/api/auth/register", tc.body, "")

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tc.wantMessage, decode[entity.ErrorResponse](t, w).Message)
		})
	}
}

func TestRegister_FreeFormEmail(t *testing.T) {
	router := newTestRouter()

	w := doRequest(router, http.MethodPost, "/api/auth/register",
		gin.H{"username": "bob", "email": "bob", "password": "pw"}, "")

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "bob", decode[entity.RegisterResponse](t, w).User.Email)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	router := newTestRouter()
	registerAndLogin(t, router, "alice", "a@x.com", "pw1")

	wrongPassword := doRequest(router, http.MethodPost, "/api/auth/login", gin.H{"email": "a@x.com", "password": "pw2"}, "")
	unknownEmail := doRequest(router, http.MethodPost, "/api/auth/login", gin.H{"email": "z@x.com", "password": "pw1"}, "")

	assert.Equal(t, http.StatusBadRequest, wrongPassword.Code)
	assert.Equal(t, http.StatusBadRequest, unknownEmail.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
	assert.Equal(t, "Invalid email or password", decode[entity.ErrorResponse](t, wrongPassword).Message)
}

// ===================== Reviews =====================

func TestUpsertReview_Validation(t *testing.T) {
	router := newTestRouter()
	token := registerAndLogin(t, router, "alice", "a@x.com", "pw1")

	testCases := []struct {
		name        string
		body        any
		wantMessage string
	}{
		{"missing rating", gin.H{"comment": "x"}, "Rating and comment are required"},
		{"missing comment", gin.H{"rating": 3}, "Rating and comment are required"},
		{"zero rating", gin.H{"rating": 0, "comment": "x"}, "Rating and comment are required"},
		{"empty comment", gin.H{"rating": 3, "comment": ""}, "Rating and comment are required"},
		{"rating wrong type", gin.H{"rating": "five", "comment": "x"}, "Invalid request body"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(router, http.MethodPost, "/api/books/9780123456789/reviews", tc.body, token)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tc.wantMessage, decode[entity.ErrorResponse](t, w).Message)
		})
	}
}

func TestUpsertReview_AnyNumericRating(t *testing.T) {
	router := newTestRouter()

	testCases := []struct {
		name   string
		rating any
		want   float64
	}{
		{"above five", 7, 7},
		{"negative", -1, -1},
		{"fractional", 4.5, 4.5},
	}

	for i, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			email := fmt.Sprintf("u%d@x.com", i)
			token := registerAndLogin(t, router, fmt.Sprintf("u%d", i), email, "pw")

			w := doRequest(router, http.MethodPost, "/api/books/9780123456789/reviews",
				gin.H{"rating": tc.rating, "comment": "x"}, token)

			assert.Equal(t, http.StatusCreated, w.Code)
			assert.Equal(t, tc.want, decode[entity.ReviewResponse](t, w).Review.Rating)
		})
	}
}

func TestUpsertReview_UnknownBook(t *testing.T) {
	router := newTestRouter()
	token := registerAndLogin(t, router, "alice", "a@x.com", "pw1")

	w := doRequest(router, http.MethodPost, "/api/books/0000000000000/reviews", gin.H{"rating": 5, "comment": "x"}, token)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Book not found", decode[entity.ErrorResponse](t, w).Message)
}

func TestDeleteReview_NonNumericID(t *testing.T) {
	router := newTestRouter()
	token := registerAndLogin(t, router, "alice", "a@x.com", "pw1")

	w := doRequest(router, http.MethodDelete, "/api/reviews/abc", nil, token)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Review not found", decode[entity.ErrorResponse](t, w).Message)
}

func TestReviewRoutes_RequireToken(t *testing.T) {
	router := newTestRouter()

	w := doRequest(router, http.MethodPost, "/api/books/9780123456789/reviews", gin.H{"rating": 5, "comment": "x"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(router, http.MethodDelete, "/api/reviews/1", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// Полный сценарий: регистрация, отзыв, замена отзыва, удаление
func TestReviewLifecycle(t *testing.T) {
	router := newTestRouter()
	const reviewsPath = "/api/books/9780123456789/reviews"

	aliceToken := registerAndLogin(t, router, "alice", "a@x.com", "pw1")

	w := doRequest(router, http.MethodPost, reviewsPath, gin.H{"rating": 5, "comment": "great"}, aliceToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[entity.ReviewResponse](t, w)
	assert.Equal(t, "Review added successfully", created.Message)
	assert.Equal(t, int64(1), created.Review.ID)
	assert.Equal(t, "alice", created.Review.Username)

	w = doRequest(router, http.MethodPost, reviewsPath, gin.H{"rating": 4, "comment": "still good"}, aliceToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[entity.ReviewResponse](t, w)
	assert.Equal(t, "Review updated successfully", updated.Message)
	assert.Equal(t, int64(1), updated.Review.ID)
	assert.Equal(t, 4.0, updated.Review.Rating)
	assert.True(t, created.Review.CreatedAt.Equal(updated.Review.CreatedAt))

	w = doRequest(router, http.MethodGet, reviewsPath, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	reviews := decode[[]entity.Review](t, w)
	require.Len(t, reviews, 1)
	assert.Equal(t, 4.0, reviews[0].Rating)

	bobToken := registerAndLogin(t, router, "bob", "b@x.com", "pw2")
	w = doRequest(router, http.MethodDelete, "/api/reviews/1", nil, bobToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(router, http.MethodGet, reviewsPath, nil, "")
	assert.Len(t, decode[[]entity.Review](t, w), 1)

	w = doRequest(router, http.MethodDelete, "/api/reviews/1", nil, aliceToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	deleted := decode[entity.ReviewResponse](t, w)
	assert.Equal(t, "Review deleted successfully", deleted.Message)
	assert.Equal(t, int64(1), deleted.Review.ID)

	w = doRequest(router, http.MethodGet, reviewsPath, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "No reviews found for this book", decode[entity.ErrorResponse](t, w).Message)

	w = doRequest(router, http.MethodDelete, "/api/reviews/1", nil, aliceToken)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// ===================== Ambient endpoints =====================

func TestHealth(t *testing.T) {
	router := newTestRouter()

	w := doRequest(router, http.MethodGet, "/health", nil, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","service":"bookstore-service"}`, w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter()
	doRequest(router, http.MethodGet, "/api/books", nil, "")

	w := doRequest(router, http.MethodGet, "/metrics", nil, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestCORS_Preflight(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodOptions, "/api/books", nil)
	req.Header.Set("Origin", "http://shop.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSConfig_ExplicitOrigins(t *testing.T) {
	cfg := corsConfig([]string{"http://shop.example.com"})

	assert.False(t, cfg.AllowAllOrigins)
	assert.True(t, cfg.AllowCredentials)
	assert.Equal(t, []string{"http://shop.example.com"}, cfg.AllowOrigins)
	assert.True(t, corsConfig(nil).AllowAllOrigins)
}
