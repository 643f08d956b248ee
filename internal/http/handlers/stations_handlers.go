package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"chargehub/internal/http/middleware"
	"chargehub/internal/models"
	"chargehub/internal/repository"
	"chargehub/internal/service"
)

// StationService defines the station operations the handlers depend on.
type StationService interface {
	Create(ctx context.Context, principal models.Owner, input service.CreateStationInput) (*models.Station, error)
	List(ctx context.Context, filter repository.StationFilter) ([]models.Station, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Station, error)
	Update(ctx context.Context, principalID uuid.UUID, id uuid.UUID, input service.UpdateStationInput) (*models.Station, error)
	Delete(ctx context.Context, principalID uuid.UUID, id uuid.UUID) error
}

// OwnerResolver looks up the display projection of the acting principal.
type OwnerResolver interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// StationsHandlers serves the /api/stations endpoints.
type StationsHandlers struct {
	service StationService
	users   OwnerResolver
	logger  *zap.Logger
}

// NewStationsHandlers returns handler set.
func NewStationsHandlers(svc StationService, users OwnerResolver, logger *zap.Logger) *StationsHandlers {
	return &StationsHandlers{service: svc, users: users, logger: logger}
}

type createStationRequest struct {
	Name          string           `json:"name"`
	Location      *models.Location `json:"location"`
	Status        string           `json:"status"`
	PowerOutput   *float64         `json:"powerOutput"`
	ConnectorType string           `json:"connectorType"`
}

type updateStationRequest struct {
	Name          string           `json:"name"`
	Location      *models.Location `json:"location"`
	Status        string           `json:"status"`
	PowerOutput   float64          `json:"powerOutput"`
	ConnectorType string           `json:"connectorType"`
}

// Create handles POST /api/stations.
func (h *StationsHandlers) Create(w http.ResponseWriter, r *http.Request) {
	principalID, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req createStationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	owner, err := h.users.GetByID(r.Context(), principalID)
	if err != nil {
		h.logger.Error("failed to resolve principal", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create station")
		return
	}

	station, err := h.service.Create(r.Context(), models.Owner{ID: owner.ID, Name: owner.Name}, service.CreateStationInput{
		Name:          req.Name,
		Location:      req.Location,
		Status:        req.Status,
		PowerOutput:   req.PowerOutput,
		ConnectorType: req.ConnectorType,
	})
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to create station", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create station")
		return
	}

	writeJSON(w, http.StatusCreated, station)
}

// List handles GET /api/stations with optional filter query parameters.
func (h *StationsHandlers) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := service.ParseStationFilter(
		query.Get("status"),
		query.Get("connectorType"),
		query.Get("minPower"),
		query.Get("maxPower"),
	)

	stations, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list stations", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list stations")
		return
	}
	if stations == nil {
		stations = []models.Station{}
	}

	writeJSON(w, http.StatusOK, stations)
}

// Get handles GET /api/stations/{id}.
func (h *StationsHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "charging station not found")
		return
	}

	station, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrStationNotFound) {
			writeError(w, http.StatusNotFound, "charging station not found")
			return
		}
		h.logger.Error("failed to fetch station", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to fetch station")
		return
	}

	writeJSON(w, http.StatusOK, station)
}

// Update handles PUT /api/stations/{id}.
func (h *StationsHandlers) Update(w http.ResponseWriter, r *http.Request) {
	principalID, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "charging station not found")
		return
	}

	var req updateStationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	station, err := h.service.Update(r.Context(), principalID, id, service.UpdateStationInput{
		Name:          req.Name,
		Location:      req.Location,
		Status:        req.Status,
		PowerOutput:   req.PowerOutput,
		ConnectorType: req.ConnectorType,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStationNotFound):
			writeError(w, http.StatusNotFound, "charging station not found")
		case errors.Is(err, service.ErrNotOwner):
			writeError(w, http.StatusForbidden, "not authorized to update this station")
		case errors.Is(err, service.ErrValidation):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("failed to update station", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to update station")
		}
		return
	}

	writeJSON(w, http.StatusOK, station)
}

// Delete handles DELETE /api/stations/{id}.
func (h *StationsHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	principalID, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "charging station not found")
		return
	}

	if err := h.service.Delete(r.Context(), principalID, id); err != nil {
		switch {
		case errors.Is(err, service.ErrStationNotFound):
			writeError(w, http.StatusNotFound, "charging station not found")
		case errors.Is(err, service.ErrNotOwner):
			writeError(w, http.StatusForbidden, "not authorized to delete this station")
		default:
			h.logger.Error("failed to delete station", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to delete station")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "station deleted successfully"})
}
