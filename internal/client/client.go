// Package client mirrors the server's film list on the consumer side: it
// wraps the HTTP API, keeps a local copy of the current listing, and
// reconciles it after every confirmed mutation without a full re-fetch.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ferbdev/ferbflix/internal/domain/model"
)

// Film is the wire representation of a catalog entry as the API serves it.
type Film struct {
	ID             string       `json:"id"`
	VietnameseName string       `json:"vietnameseName"`
	EnglishName    string       `json:"englishName"`
	EpisodeCount   int          `json:"episodeCount"`
	ImageURL       string       `json:"imageUrl"`
	FilmURL        string       `json:"filmUrl"`
	Status         model.Status `json:"status"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

// CreateFilmRequest is the body for POST /films. All fields are required.
type CreateFilmRequest struct {
	VietnameseName string       `json:"vietnameseName"`
	EnglishName    string       `json:"englishName"`
	EpisodeCount   int          `json:"episodeCount"`
	ImageURL       string       `json:"imageUrl"`
	FilmURL        string       `json:"filmUrl"`
	Status         model.Status `json:"status"`
}

// UpdateFilmRequest is the body for PATCH /films/{id}. Zero-valued fields
// are omitted from the payload, which the server reads as "leave unchanged".
type UpdateFilmRequest struct {
	VietnameseName string       `json:"vietnameseName,omitempty"`
	EnglishName    string       `json:"englishName,omitempty"`
	EpisodeCount   int          `json:"episodeCount,omitempty"`
	ImageURL       string       `json:"imageUrl,omitempty"`
	FilmURL        string       `json:"filmUrl,omitempty"`
	Status         model.Status `json:"status,omitempty"`
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
}

// API is the subset of server operations the controller depends on.
type API interface {
	List(ctx context.Context, search string, status string) ([]Film, error)
	Create(ctx context.Context, req CreateFilmRequest) (*Film, error)
	Update(ctx context.Context, id string, req UpdateFilmRequest) (*Film, error)
	Delete(ctx context.Context, id string) error
}

// APIClient is a thin JSON client for the film API.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClient creates a client for the API served at baseURL.
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// List fetches films matching the optional search text and status filter.
func (c *APIClient) List(ctx context.Context, search string, status string) ([]Film, error) {
	params := url.Values{}
	if search != "" {
		params.Set("search", search)
	}
	if status != "" {
		params.Set("status", status)
	}

	endpoint := c.baseURL + "/films"
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var films []Film
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &films); err != nil {
		return nil, err
	}
	return films, nil
}

// Create submits a new film and returns the stored record.
func (c *APIClient) Create(ctx context.Context, req CreateFilmRequest) (*Film, error) {
	var film Film
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/films", req, &film); err != nil {
		return nil, err
	}
	return &film, nil
}

// Update patches an existing film and returns the updated record.
func (c *APIClient) Update(ctx context.Context, id string, req UpdateFilmRequest) (*Film, error) {
	var film Film
	if err := c.do(ctx, http.MethodPatch, c.baseURL+"/films/"+url.PathEscape(id), req, &film); err != nil {
		return nil, err
	}
	return &film, nil
}

// Delete permanently removes a film.
func (c *APIClient) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, c.baseURL+"/films/"+url.PathEscape(id), nil, nil)
}

func (c *APIClient) do(ctx context.Context, method, endpoint string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    readErrorMessage(resp.Body),
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func readErrorMessage(body io.Reader) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err != nil || payload.Error == "" {
		return "unexpected server error"
	}
	return payload.Error
}

// Compile-time verification that APIClient implements API.
var _ API = (*APIClient)(nil)
