// Package client is the typed HTTP client for the chargehub API, used by the
// stores in pkg/store and usable on its own.
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

	"github.com/google/uuid"

	"chargehub/internal/models"
)

// HTTPDoer defines http.Client interface subset.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// NewDefaultHTTPClient returns *http.Client with timeout.
func NewDefaultHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// APIError is a non-2xx response decoded from the server's error body.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: status %d: %s", e.StatusCode, e.Message)
}

// Client calls the chargehub HTTP API. SetToken installs the bearer token
// used for authenticated endpoints.
type Client struct {
	baseURL string
	client  HTTPDoer
	token   string
}

// New builds client with base URL.
func New(baseURL string, httpClient HTTPDoer) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpClient,
	}
}

// SetToken installs the bearer token for subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// AuthResult is the server's register/login response.
type AuthResult struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Token string    `json:"token"`
}

// Register creates an account and returns its first token.
func (c *Client) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	var result AuthResult
	err := c.do(ctx, http.MethodPost, "/api/auth/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Login authenticates and returns a token.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var result AuthResult
	err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Logout revokes the current token on the server.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

// StationFilters are the raw list query parameters. Empty values are omitted.
type StationFilters struct {
	Status        string
	ConnectorType string
	MinPower      string
	MaxPower      string
}

// ListStations fetches stations matching the filters, newest-created-first.
func (c *Client) ListStations(ctx context.Context, filters StationFilters) ([]models.Station, error) {
	query := url.Values{}
	if filters.Status != "" {
		query.Set("status", filters.Status)
	}
	if filters.ConnectorType != "" {
		query.Set("connectorType", filters.ConnectorType)
	}
	if filters.MinPower != "" {
		query.Set("minPower", filters.MinPower)
	}
	if filters.MaxPower != "" {
		query.Set("maxPower", filters.MaxPower)
	}

	path := "/api/stations"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var stations []models.Station
	if err := c.do(ctx, http.MethodGet, path, nil, &stations); err != nil {
		return nil, err
	}
	return stations, nil
}

// StationInput carries station fields for create and update requests. On
// update, zero-valued fields keep the server-side value.
type StationInput struct {
	Name          string           `json:"name,omitempty"`
	Location      *models.Location `json:"location,omitempty"`
	Status        string           `json:"status,omitempty"`
	PowerOutput   *float64         `json:"powerOutput,omitempty"`
	ConnectorType string           `json:"connectorType,omitempty"`
}

// CreateStation registers a new station owned by the caller.
func (c *Client) CreateStation(ctx context.Context, input StationInput) (*models.Station, error) {
	var station models.Station
	if err := c.do(ctx, http.MethodPost, "/api/stations", input, &station); err != nil {
		return nil, err
	}
	return &station, nil
}

// GetStation fetches a single station.
func (c *Client) GetStation(ctx context.Context, id uuid.UUID) (*models.Station, error) {
	var station models.Station
	if err := c.do(ctx, http.MethodGet, "/api/stations/"+id.String(), nil, &station); err != nil {
		return nil, err
	}
	return &station, nil
}

// UpdateStation applies a partial update to an owned station.
func (c *Client) UpdateStation(ctx context.Context, id uuid.UUID, input StationInput) (*models.Station, error) {
	var station models.Station
	if err := c.do(ctx, http.MethodPut, "/api/stations/"+id.String(), input, &station); err != nil {
		return nil, err
	}
	return &station, nil
}

// DeleteStation permanently removes an owned station.
func (c *Client) DeleteStation(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/stations/"+id.String(), nil, nil)
}

// Geocode resolves a place name to coordinates.
func (c *Client) Geocode(ctx context.Context, place string) (*models.Location, error) {
	query := url.Values{}
	query.Set("q", place)
	var location models.Location
	if err := c.do(ctx, http.MethodGet, "/api/geocode?"+query.Encode(), nil, &location); err != nil {
		return nil, err
	}
	return &location, nil
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(respBody)}
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(respBody, out)
}

func errorMessage(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return strings.TrimSpace(string(body))
}
