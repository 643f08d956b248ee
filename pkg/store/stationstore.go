// Package store holds the client-side state containers: the station list
// mirror and the login session. Both have explicit construction points and
// no package-level state, so a session's data cannot leak past its lifetime.
package store

import (
	"context"

	"github.com/google/uuid"

	"chargehub/internal/models"
	"chargehub/pkg/client"
)

// Filters is the active filter request of the station store. Empty fields
// impose no constraint.
type Filters struct {
	Status        string
	ConnectorType string
	MinPower      string
	MaxPower      string
}

// FilterUpdate is a partial change to Filters; nil fields keep the current
// value, set fields override it.
type FilterUpdate struct {
	Status        *string
	ConnectorType *string
	MinPower      *string
	MaxPower      *string
}

// StationStore mirrors the server's station list on the client. List replaces
// the mirror wholesale; mutations adjust it in place on success and leave it
// untouched on failure. It is not safe for concurrent use: the client issues
// one request at a time, with Loading as the busy signal.
type StationStore struct {
	api *client.Client

	stations []models.Station
	filters  Filters
	loading  bool
	lastErr  string
}

// NewStationStore builds an empty store over the API client.
func NewStationStore(api *client.Client) *StationStore {
	return &StationStore{api: api}
}

// Stations returns a copy of the current local list.
func (s *StationStore) Stations() []models.Station {
	out := make([]models.Station, len(s.stations))
	copy(out, s.stations)
	return out
}

// Filters returns the active filter request.
func (s *StationStore) Filters() Filters {
	return s.filters
}

// Loading reports whether a request is in flight.
func (s *StationStore) Loading() bool {
	return s.loading
}

// Err returns the message of the last failed operation, empty after a success.
func (s *StationStore) Err() string {
	return s.lastErr
}

// SetFilters merges the update into the current filters. It does not fetch;
// call List afterwards to refresh the mirror.
func (s *StationStore) SetFilters(update FilterUpdate) {
	if update.Status != nil {
		s.filters.Status = *update.Status
	}
	if update.ConnectorType != nil {
		s.filters.ConnectorType = *update.ConnectorType
	}
	if update.MinPower != nil {
		s.filters.MinPower = *update.MinPower
	}
	if update.MaxPower != nil {
		s.filters.MaxPower = *update.MaxPower
	}
}

// ResetFilters clears all four filter fields. Like SetFilters it does not fetch.
func (s *StationStore) ResetFilters() {
	s.filters = Filters{}
}

// List fetches stations for the current filters and replaces the local list
// with the response. On failure the prior list is kept.
func (s *StationStore) List(ctx context.Context) error {
	s.begin()
	stations, err := s.api.ListStations(ctx, client.StationFilters{
		Status:        s.filters.Status,
		ConnectorType: s.filters.ConnectorType,
		MinPower:      s.filters.MinPower,
		MaxPower:      s.filters.MaxPower,
	})
	if err != nil {
		return s.fail(err, "failed to fetch stations")
	}

	s.stations = stations
	s.done()
	return nil
}

// Create registers a new station and prepends it to the local list, matching
// the server's newest-first ordering without a re-fetch.
func (s *StationStore) Create(ctx context.Context, input client.StationInput) (*models.Station, error) {
	s.begin()
	station, err := s.api.CreateStation(ctx, input)
	if err != nil {
		return nil, s.fail(err, "failed to create station")
	}

	s.stations = append([]models.Station{*station}, s.stations...)
	s.done()
	return station, nil
}

// Update applies a partial update and replaces the matching local entry in place.
func (s *StationStore) Update(ctx context.Context, id uuid.UUID, input client.StationInput) (*models.Station, error) {
	s.begin()
	station, err := s.api.UpdateStation(ctx, id, input)
	if err != nil {
		return nil, s.fail(err, "failed to update station")
	}

	for i := range s.stations {
		if s.stations[i].ID == id {
			s.stations[i] = *station
			break
		}
	}
	s.done()
	return station, nil
}

// Delete removes a station and drops the matching local entry.
func (s *StationStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.begin()
	if err := s.api.DeleteStation(ctx, id); err != nil {
		return s.fail(err, "failed to delete station")
	}

	kept := s.stations[:0]
	for _, station := range s.stations {
		if station.ID != id {
			kept = append(kept, station)
		}
	}
	s.stations = kept
	s.done()
	return nil
}

func (s *StationStore) begin() {
	s.loading = true
	s.lastErr = ""
}

func (s *StationStore) done() {
	s.loading = false
}

func (s *StationStore) fail(err error, fallback string) error {
	s.loading = false
	s.lastErr = errMessage(err, fallback)
	return err
}
