package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"chargehub/internal/models"
)

// ErrStationNotFound represents missing station rows.
var ErrStationNotFound = errors.New("station not found")

// StationFilter is the compiled query predicate over the stations table.
// Zero-valued fields impose no constraint; power bounds are inclusive.
type StationFilter struct {
	Status         string
	ConnectorTypes []string
	MinPower       *float64
	MaxPower       *float64
}

// StationRepository handles CRUD for the stations table.
type StationRepository struct {
	db *sql.DB
}

// NewStationRepository returns repository instance.
func NewStationRepository(db *sql.DB) *StationRepository {
	return &StationRepository{db: db}
}

const stationColumns = `
	s.id, s.name, s.latitude, s.longitude, s.status, s.power_output, s.connector_type,
	s.created_by, u.name, s.created_at, s.updated_at
`

// Create inserts a new station and fills in server-assigned fields.
func (r *StationRepository) Create(ctx context.Context, station *models.Station) error {
	station.ID = uuid.New()
	const query = `
		INSERT INTO stations (id, name, latitude, longitude, status, power_output, connector_type, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		station.ID,
		station.Name,
		station.Location.Latitude,
		station.Location.Longitude,
		station.Status,
		station.PowerOutput,
		station.ConnectorType,
		station.CreatedBy.ID,
	).Scan(&station.CreatedAt, &station.UpdatedAt)
}

// GetByID fetches a station with its owner projection.
func (r *StationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Station, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM stations s
		JOIN users u ON u.id = s.created_by
		WHERE s.id = $1
		LIMIT 1
	`, stationColumns)
	station, err := scanStation(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStationNotFound
		}
		return nil, err
	}
	return station, nil
}

// List returns stations matching the filter, newest-created-first. The
// descending creation order is a contract the client store depends on.
func (r *StationRepository) List(ctx context.Context, filter StationFilter) ([]models.Station, error) {
	var (
		conds []string
		args  []interface{}
	)
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("s.status = $%d", len(args)))
	}
	if len(filter.ConnectorTypes) > 0 {
		args = append(args, filter.ConnectorTypes)
		conds = append(conds, fmt.Sprintf("s.connector_type = ANY($%d)", len(args)))
	}
	if filter.MinPower != nil {
		args = append(args, *filter.MinPower)
		conds = append(conds, fmt.Sprintf("s.power_output >= $%d", len(args)))
	}
	if filter.MaxPower != nil {
		args = append(args, *filter.MaxPower)
		conds = append(conds, fmt.Sprintf("s.power_output <= $%d", len(args)))
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM stations s
		JOIN users u ON u.id = s.created_by
	`, stationColumns)
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY s.created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stations []models.Station
	for rows.Next() {
		station, err := scanStation(rows)
		if err != nil {
			return nil, err
		}
		stations = append(stations, *station)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stations, nil
}

// Update overwrites the mutable columns of a station. The merge of partial
// input into the prior record happens in the service; created_by is never touched.
func (r *StationRepository) Update(ctx context.Context, station *models.Station) error {
	const query = `
		UPDATE stations
		SET name = $2,
		    latitude = $3,
		    longitude = $4,
		    status = $5,
		    power_output = $6,
		    connector_type = $7,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		station.ID,
		station.Name,
		station.Location.Latitude,
		station.Location.Longitude,
		station.Status,
		station.PowerOutput,
		station.ConnectorType,
	).Scan(&station.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrStationNotFound
	}
	return err
}

// Delete permanently removes a station row.
func (r *StationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM stations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrStationNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanStation(row rowScanner) (*models.Station, error) {
	var s models.Station
	if err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Location.Latitude,
		&s.Location.Longitude,
		&s.Status,
		&s.PowerOutput,
		&s.ConnectorType,
		&s.CreatedBy.ID,
		&s.CreatedBy.Name,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}
