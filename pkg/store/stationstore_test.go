package store_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chargehub/internal/models"
	"chargehub/pkg/client"
	"chargehub/pkg/store"
)

func strptr(s string) *string { return &s }

func station(name string, created time.Time) models.Station {
	return models.Station{
		ID:            uuid.New(),
		Name:          name,
		Location:      models.Location{Latitude: 40, Longitude: -73.9},
		Status:        models.StatusActive,
		PowerOutput:   50,
		ConnectorType: models.ConnectorCCS,
		CreatedBy:     models.Owner{ID: uuid.New(), Name: "Alice"},
		CreatedAt:     created,
		UpdatedAt:     created,
	}
}

// apiStub is a minimal in-memory chargehub API for store tests.
type apiStub struct {
	stations []models.Station
	requests int
	failNext bool
}

func (a *apiStub) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/stations", func(w http.ResponseWriter, r *http.Request) {
		a.requests++
		if a.failNext {
			a.failNext = false
			writeErr(w, http.StatusInternalServerError, "boom")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(a.stations)
	})
	mux.HandleFunc("POST /api/stations", func(w http.ResponseWriter, r *http.Request) {
		a.requests++
		if a.failNext {
			a.failNext = false
			writeErr(w, http.StatusBadRequest, "name is required")
			return
		}
		var input client.StationInput
		_ = json.NewDecoder(r.Body).Decode(&input)
		created := station(input.Name, time.Now().UTC())
		a.stations = append([]models.Station{created}, a.stations...)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(created)
	})
	mux.HandleFunc("PUT /api/stations/{id}", func(w http.ResponseWriter, r *http.Request) {
		a.requests++
		if a.failNext {
			a.failNext = false
			writeErr(w, http.StatusForbidden, "not authorized to update this station")
			return
		}
		id, _ := uuid.Parse(r.PathValue("id"))
		var input client.StationInput
		_ = json.NewDecoder(r.Body).Decode(&input)
		for i := range a.stations {
			if a.stations[i].ID == id {
				if input.Status != "" {
					a.stations[i].Status = input.Status
				}
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(a.stations[i])
				return
			}
		}
		writeErr(w, http.StatusNotFound, "charging station not found")
	})
	mux.HandleFunc("DELETE /api/stations/{id}", func(w http.ResponseWriter, r *http.Request) {
		a.requests++
		if a.failNext {
			a.failNext = false
			writeErr(w, http.StatusForbidden, "not authorized to delete this station")
			return
		}
		id, _ := uuid.Parse(r.PathValue("id"))
		kept := a.stations[:0]
		for _, s := range a.stations {
			if s.ID != id {
				kept = append(kept, s)
			}
		}
		a.stations = kept
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "station deleted successfully"})
	})
	return mux
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func newTestStore(t *testing.T, stub *apiStub) *store.StationStore {
	t.Helper()
	server := httptest.NewServer(stub.handler())
	t.Cleanup(server.Close)
	api := client.New(server.URL, client.NewDefaultHTTPClient(time.Second))
	return store.NewStationStore(api)
}

func TestStationStore_ListReplacesLocalList(t *testing.T) {
	stub := &apiStub{stations: []models.Station{
		station("Newer", time.Now().UTC()),
		station("Older", time.Now().UTC().Add(-time.Hour)),
	}}
	s := newTestStore(t, stub)

	require.NoError(t, s.List(context.Background()))
	require.Len(t, s.Stations(), 2)
	assert.Equal(t, "Newer", s.Stations()[0].Name)

	stub.stations = stub.stations[:1]
	require.NoError(t, s.List(context.Background()))
	assert.Len(t, s.Stations(), 1, "list replaces wholesale, no merge")
	assert.False(t, s.Loading())
	assert.Empty(t, s.Err())
}

func TestStationStore_ListFailureKeepsPriorList(t *testing.T) {
	stub := &apiStub{stations: []models.Station{station("Main St", time.Now().UTC())}}
	s := newTestStore(t, stub)
	require.NoError(t, s.List(context.Background()))
	before := s.Stations()

	stub.failNext = true
	err := s.List(context.Background())

	require.Error(t, err)
	assert.Equal(t, before, s.Stations())
	assert.Equal(t, "boom", s.Err())
	assert.False(t, s.Loading())
}

func TestStationStore_CreatePrependsWithoutRefetch(t *testing.T) {
	stub := &apiStub{stations: []models.Station{station("Old", time.Now().UTC().Add(-time.Hour))}}
	s := newTestStore(t, stub)
	require.NoError(t, s.List(context.Background()))
	listRequests := stub.requests

	created, err := s.Create(context.Background(), client.StationInput{
		Name:          "New",
		Location:      &models.Location{Latitude: 40, Longitude: -73.9},
		PowerOutput:   func() *float64 { v := 50.0; return &v }(),
		ConnectorType: models.ConnectorCCS,
	})

	require.NoError(t, err)
	local := s.Stations()
	require.Len(t, local, 2)
	assert.Equal(t, created.ID, local[0].ID, "new station is prepended, newest-first")
	assert.Equal(t, "Old", local[1].Name)
	assert.Equal(t, listRequests+1, stub.requests, "create does not trigger a re-fetch")
}

func TestStationStore_CreateFailureLeavesListUntouched(t *testing.T) {
	stub := &apiStub{stations: []models.Station{station("Main St", time.Now().UTC())}}
	s := newTestStore(t, stub)
	require.NoError(t, s.List(context.Background()))
	before := s.Stations()

	stub.failNext = true
	_, err := s.Create(context.Background(), client.StationInput{})

	require.Error(t, err)
	assert.Equal(t, before, s.Stations())
	assert.Equal(t, "name is required", s.Err())
}

func TestStationStore_UpdateReplacesEntryInPlace(t *testing.T) {
	first := station("First", time.Now().UTC())
	second := station("Second", time.Now().UTC().Add(-time.Hour))
	stub := &apiStub{stations: []models.Station{first, second}}
	s := newTestStore(t, stub)
	require.NoError(t, s.List(context.Background()))

	updated, err := s.Update(context.Background(), second.ID, client.StationInput{Status: models.StatusInactive})

	require.NoError(t, err)
	assert.Equal(t, models.StatusInactive, updated.Status)
	local := s.Stations()
	require.Len(t, local, 2)
	assert.Equal(t, first.ID, local[0].ID, "ordering is preserved")
	assert.Equal(t, second.ID, local[1].ID)
	assert.Equal(t, models.StatusInactive, local[1].Status)
}

func TestStationStore_UpdateFailureLeavesListUntouched(t *testing.T) {
	existing := station("Main St", time.Now().UTC())
	stub := &apiStub{stations: []models.Station{existing}}
	s := newTestStore(t, stub)
	require.NoError(t, s.List(context.Background()))
	before := s.Stations()

	stub.failNext = true
	_, err := s.Update(context.Background(), existing.ID, client.StationInput{Status: models.StatusInactive})

	require.Error(t, err)
	assert.Equal(t, before, s.Stations())
	assert.Equal(t, "not authorized to update this station", s.Err())
}

func TestStationStore_DeleteRemovesEntry(t *testing.T) {
	first := station("First", time.Now().UTC())
	second := station("Second", time.Now().UTC().Add(-time.Hour))
	stub := &apiStub{stations: []models.Station{first, second}}
	s := newTestStore(t, stub)
	require.NoError(t, s.List(context.Background()))

	require.NoError(t, s.Delete(context.Background(), first.ID))

	local := s.Stations()
	require.Len(t, local, 1)
	assert.Equal(t, second.ID, local[0].ID)
}

func TestStationStore_DeleteFailureLeavesListUntouched(t *testing.T) {
	existing := station("Main St", time.Now().UTC())
	stub := &apiStub{stations: []models.Station{existing}}
	s := newTestStore(t, stub)
	require.NoError(t, s.List(context.Background()))
	before := s.Stations()

	stub.failNext = true
	err := s.Delete(context.Background(), existing.ID)

	require.Error(t, err)
	assert.Equal(t, before, s.Stations())
}

func TestStationStore_SetFiltersDoesNotFetch(t *testing.T) {
	stub := &apiStub{}
	s := newTestStore(t, stub)

	s.SetFilters(store.FilterUpdate{Status: strptr("Active"), MinPower: strptr("50")})

	assert.Equal(t, 0, stub.requests, "filter changes never fetch by themselves")
	assert.Equal(t, store.Filters{Status: "Active", MinPower: "50"}, s.Filters())

	// Later keys override, untouched keys survive.
	s.SetFilters(store.FilterUpdate{Status: strptr("Inactive")})
	assert.Equal(t, store.Filters{Status: "Inactive", MinPower: "50"}, s.Filters())

	s.ResetFilters()
	assert.Equal(t, store.Filters{}, s.Filters())
	assert.Equal(t, 0, stub.requests)
}

func TestStationStore_ListSendsActiveFilters(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("[]"))
	}))
	defer server.Close()

	api := client.New(server.URL, client.NewDefaultHTTPClient(time.Second))
	s := store.NewStationStore(api)
	s.SetFilters(store.FilterUpdate{
		Status:        strptr("Active"),
		ConnectorType: strptr("Type1,CCS"),
		MinPower:      strptr("50"),
		MaxPower:      strptr("100"),
	})

	require.NoError(t, s.List(context.Background()))

	req, err := http.NewRequest(http.MethodGet, "http://x/?"+gotQuery, nil)
	require.NoError(t, err)
	query := req.URL.Query()
	assert.Equal(t, "Active", query.Get("status"))
	assert.Equal(t, "Type1,CCS", query.Get("connectorType"))
	assert.Equal(t, "50", query.Get("minPower"))
	assert.Equal(t, "100", query.Get("maxPower"))
}
