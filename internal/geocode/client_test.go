package geocode_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chargehub/internal/geocode"
)

func TestClient_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Berlin", r.URL.Query().Get("q"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"lat":"52.5170365","lon":"13.3888599"}]`))
	}))
	defer server.Close()

	client := geocode.NewClient(server.URL, geocode.NewDefaultHTTPClient(time.Second))

	location, err := client.Search(context.Background(), "Berlin")

	require.NoError(t, err)
	assert.InDelta(t, 52.5170365, location.Latitude, 1e-9)
	assert.InDelta(t, 13.3888599, location.Longitude, 1e-9)
}

func TestClient_Search_EmptyResultIsNoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := geocode.NewClient(server.URL, geocode.NewDefaultHTTPClient(time.Second))

	_, err := client.Search(context.Background(), "Nowhere At All")

	assert.ErrorIs(t, err, geocode.ErrNoResults)
}

func TestClient_Search_BlankQueryIsNoResults(t *testing.T) {
	client := geocode.NewClient("http://unused", geocode.NewDefaultHTTPClient(time.Second))

	_, err := client.Search(context.Background(), "   ")

	assert.ErrorIs(t, err, geocode.ErrNoResults)
}

func TestClient_Search_UpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := geocode.NewClient(server.URL, geocode.NewDefaultHTTPClient(time.Second))

	_, err := client.Search(context.Background(), "Berlin")

	require.Error(t, err)
	assert.NotErrorIs(t, err, geocode.ErrNoResults)
}
