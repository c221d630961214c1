// Package bookclient - HTTP клиент для Bookstore Service.
// Методы блокирующие и безопасны для одновременного вызова из нескольких горутин.
package bookclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

type Book struct {
	ISBN        string  `json:"isbn"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type Review struct {
	ID        int64     `json:"id"`
	ISBN      string    `json:"isbn"`
	UserID    int64     `json:"userId"`
	Username  string    `json:"username"`
	Rating    float64   `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// APIError - ответ сервиса со статусом не 2xx
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("bookstore: unexpected status code: %d", e.StatusCode)
	}
	return fmt.Sprintf("bookstore: %d: %s", e.StatusCode, e.Message)
}

// IsNotFound сообщает, что сервис ответил 404
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient создает клиент, baseURL вида http://localhost:3000
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken задает токен сессии для защищенных запросов
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) GetAllBooks(ctx context.Context) ([]Book, error) {
	var books []Book
	if err := c.do(ctx, http.MethodGet, "/api/books", nil, &books); err != nil {
		return nil, err
	}
	return books, nil
}

func (c *Client) GetBookByISBN(ctx context.Context, isbn string) (*Book, error) {
	var book Book
	if err := c.do(ctx, http.MethodGet, "/api/books/isbn/"+url.PathEscape(isbn), nil, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

func (c *Client) GetBooksByAuthor(ctx context.Context, author string) ([]Book, error) {
	var books []Book
	if err := c.do(ctx, http.MethodGet, "/api/books/author/"+url.PathEscape(author), nil, &books); err != nil {
		return nil, err
	}
	return books, nil
}

func (c *Client) GetBooksByTitle(ctx context.Context, title string) ([]Book, error) {
	var books []Book
	if err := c.do(ctx, http.MethodGet, "/api/books/title/"+url.PathEscape(title), nil, &books); err != nil {
		return nil, err
	}
	return books, nil
}

func (c *Client) GetReviews(ctx context.Context, isbn string) ([]Review, error) {
	var reviews []Review
	if err := c.do(ctx, http.MethodGet, "/api/books/"+url.PathEscape(isbn)+"/reviews", nil, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (c *Client) Register(ctx context.Context, username, email, password string) (*User, error) {
	body := map[string]string{"username": username, "email": email, "password": password}

	var resp struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", body, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Login выполняет вход и запоминает полученный токен в клиенте
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	body := map[string]string{"email": email, "password": password}

	var resp struct {
		Token string `json:"token"`
		User  User   `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &resp); err != nil {
		return nil, err
	}

	c.SetToken(resp.Token)
	return &resp.User, nil
}

// UpsertReview создает или заменяет отзыв текущего пользователя.
// Второй результат true, если отзыв был создан.
func (c *Client) UpsertReview(ctx context.Context, isbn string, rating float64, comment string) (*Review, bool, error) {
	body := map[string]any{"rating": rating, "comment": comment}

	var resp struct {
		Review Review `json:"review"`
	}
	status, err := c.doStatus(ctx, http.MethodPost, "/api/books/"+url.PathEscape(isbn)+"/reviews", body, &resp)
	if err != nil {
		return nil, false, err
	}
	return &resp.Review, status == http.StatusCreated, nil
}

func (c *Client) DeleteReview(ctx context.Context, reviewID int64) (*Review, error) {
	var resp struct {
		Review Review `json:"review"`
	}
	if err := c.do(ctx, http.MethodDelete, "/api/reviews/"+strconv.FormatInt(reviewID, 10), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Review, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	_, err := c.doStatus(ctx, method, path, body, out)
	return err
}

func (c *Client) doStatus(ctx context.Context, method, path string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errBody struct {
			Message string `json:"message"`
		}
		if json.NewDecoder(resp.Body).Decode(&errBody) == nil {
			apiErr.Message = errBody.Message
		}
		return resp.StatusCode, apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return resp.StatusCode, nil
}
