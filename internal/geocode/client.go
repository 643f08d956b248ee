// Package geocode wraps a Nominatim-compatible forward geocoding API.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"chargehub/internal/models"
)

// ErrNoResults is returned when the upstream finds no match for a place name.
// Callers surface it as a user-visible not-found outcome, not a failure.
var ErrNoResults = errors.New("geocode: no results")

// HTTPDoer defines http.Client interface subset.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client calls the upstream geocoding service.
type Client struct {
	baseURL string
	client  HTTPDoer
}

// NewClient builds client with base URL.
func NewClient(baseURL string, client HTTPDoer) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// NewDefaultHTTPClient returns *http.Client with timeout.
func NewDefaultHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// Nominatim encodes coordinates as strings.
type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Search resolves a free-form place name to coordinates. An empty upstream
// result yields ErrNoResults.
func (c *Client) Search(ctx context.Context, place string) (models.Location, error) {
	place = strings.TrimSpace(place)
	if place == "" {
		return models.Location{}, ErrNoResults
	}

	query := url.Values{}
	query.Set("q", place)
	query.Set("format", "json")
	query.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+query.Encode(), nil)
	if err != nil {
		return models.Location{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return models.Location{}, fmt.Errorf("geocode: upstream request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Location{}, fmt.Errorf("geocode: upstream status %d", resp.StatusCode)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return models.Location{}, fmt.Errorf("geocode: decode response: %w", err)
	}
	if len(results) == 0 {
		return models.Location{}, ErrNoResults
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return models.Location{}, fmt.Errorf("geocode: parse latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return models.Location{}, fmt.Errorf("geocode: parse longitude: %w", err)
	}

	return models.Location{Latitude: lat, Longitude: lon}, nil
}
