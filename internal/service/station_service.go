package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"chargehub/internal/models"
	"chargehub/internal/repository"
)

var (
	// ErrStationNotFound is returned when no station exists with the given id.
	ErrStationNotFound = errors.New("station not found")
	// ErrNotOwner is returned when a mutation is attempted by a principal
	// other than the station's creator.
	ErrNotOwner = errors.New("station: not the owner")
	// ErrValidation wraps all input validation failures.
	ErrValidation = errors.New("station: invalid input")
)

// StationRepo defines the storage contract used by the service.
type StationRepo interface {
	Create(ctx context.Context, station *models.Station) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Station, error)
	List(ctx context.Context, filter repository.StationFilter) ([]models.Station, error)
	Update(ctx context.Context, station *models.Station) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// StationService contains station lifecycle logic: validation on create,
// ownership-gated mutation, and filtered listing.
type StationService struct {
	repo   StationRepo
	logger *zap.Logger
}

// NewStationService builds StationService.
func NewStationService(repo StationRepo, logger *zap.Logger) *StationService {
	return &StationService{repo: repo, logger: logger}
}

// CreateStationInput carries the fields of a new station. Pointer fields are
// required and must be present in the request body.
type CreateStationInput struct {
	Name          string
	Location      *models.Location
	Status        string
	PowerOutput   *float64
	ConnectorType string
}

// UpdateStationInput carries a partial update. Zero values mean "keep the
// prior value": empty strings, nil location and a zero power output all leave
// the existing field untouched. That includes PowerOutput = 0, which cannot
// be distinguished from "not supplied" and therefore never zeroes the field.
type UpdateStationInput struct {
	Name          string
	Location      *models.Location
	Status        string
	PowerOutput   float64
	ConnectorType string
}

// Create validates and persists a new station owned by the acting principal.
func (s *StationService) Create(ctx context.Context, principal models.Owner, input CreateStationInput) (*models.Station, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if input.Location == nil {
		return nil, fmt.Errorf("%w: location is required", ErrValidation)
	}
	if !input.Location.InBounds() {
		return nil, fmt.Errorf("%w: location out of bounds", ErrValidation)
	}
	if input.PowerOutput == nil {
		return nil, fmt.Errorf("%w: powerOutput is required", ErrValidation)
	}
	if *input.PowerOutput < 0 {
		return nil, fmt.Errorf("%w: powerOutput must not be negative", ErrValidation)
	}
	if !models.ValidConnectorType(input.ConnectorType) {
		return nil, fmt.Errorf("%w: unknown connector type %q", ErrValidation, input.ConnectorType)
	}
	status := input.Status
	if status == "" {
		status = models.StatusActive
	}
	if !models.ValidStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	station := &models.Station{
		Name:          input.Name,
		Location:      *input.Location,
		Status:        status,
		PowerOutput:   *input.PowerOutput,
		ConnectorType: input.ConnectorType,
		CreatedBy:     principal,
	}

	if err := s.repo.Create(ctx, station); err != nil {
		return nil, err
	}

	s.logger.Info("station created",
		zap.String("station_id", station.ID.String()),
		zap.String("owner_id", principal.ID.String()))
	return station, nil
}

// List returns stations matching the filter, newest-created-first.
func (s *StationService) List(ctx context.Context, filter repository.StationFilter) ([]models.Station, error) {
	return s.repo.List(ctx, filter)
}

// GetByID returns a single station. Reads are never gated by ownership.
func (s *StationService) GetByID(ctx context.Context, id uuid.UUID) (*models.Station, error) {
	station, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrStationNotFound) {
			return nil, ErrStationNotFound
		}
		return nil, err
	}
	return station, nil
}

// Update applies a partial update to an owned station. The existence check
// runs before the ownership check, so a missing station yields not-found for
// every caller. Supplied fields overwrite; zero values keep prior values.
func (s *StationService) Update(ctx context.Context, principalID uuid.UUID, id uuid.UUID, input UpdateStationInput) (*models.Station, error) {
	station, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrStationNotFound) {
			return nil, ErrStationNotFound
		}
		return nil, err
	}
	if station.CreatedBy.ID != principalID {
		return nil, ErrNotOwner
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		station.Name = name
	}
	if input.Location != nil {
		if !input.Location.InBounds() {
			return nil, fmt.Errorf("%w: location out of bounds", ErrValidation)
		}
		station.Location = *input.Location
	}
	if input.Status != "" {
		if !models.ValidStatus(input.Status) {
			return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, input.Status)
		}
		station.Status = input.Status
	}
	if input.PowerOutput != 0 {
		if input.PowerOutput < 0 {
			return nil, fmt.Errorf("%w: powerOutput must not be negative", ErrValidation)
		}
		station.PowerOutput = input.PowerOutput
	}
	if input.ConnectorType != "" {
		if !models.ValidConnectorType(input.ConnectorType) {
			return nil, fmt.Errorf("%w: unknown connector type %q", ErrValidation, input.ConnectorType)
		}
		station.ConnectorType = input.ConnectorType
	}

	if err := s.repo.Update(ctx, station); err != nil {
		if errors.Is(err, repository.ErrStationNotFound) {
			return nil, ErrStationNotFound
		}
		return nil, err
	}

	s.logger.Info("station updated", zap.String("station_id", station.ID.String()))
	return station, nil
}

// Delete permanently removes an owned station. Like Update, existence is
// checked before ownership.
func (s *StationService) Delete(ctx context.Context, principalID uuid.UUID, id uuid.UUID) error {
	station, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrStationNotFound) {
			return ErrStationNotFound
		}
		return err
	}
	if station.CreatedBy.ID != principalID {
		return ErrNotOwner
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrStationNotFound) {
			return ErrStationNotFound
		}
		return err
	}

	s.logger.Info("station deleted",
		zap.String("station_id", id.String()),
		zap.String("owner_id", principalID.String()))
	return nil
}
