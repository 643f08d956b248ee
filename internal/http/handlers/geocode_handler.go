package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"chargehub/internal/geocode"
	"chargehub/internal/models"
)

// Geocoder resolves place names to coordinates.
type Geocoder interface {
	Search(ctx context.Context, place string) (models.Location, error)
}

// NewGeocodeHandler returns GET /api/geocode handler. An empty upstream
// result surfaces as 404, an upstream failure as 502.
func NewGeocodeHandler(geocoder Geocoder, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		place := strings.TrimSpace(r.URL.Query().Get("q"))
		if place == "" {
			writeError(w, http.StatusBadRequest, "query parameter q is required")
			return
		}

		location, err := geocoder.Search(r.Context(), place)
		if err != nil {
			if errors.Is(err, geocode.ErrNoResults) {
				writeError(w, http.StatusNotFound, "place not found")
				return
			}
			logger.Error("geocode lookup failed", zap.Error(err))
			writeError(w, http.StatusBadGateway, "geocoding service unavailable")
			return
		}

		writeJSON(w, http.StatusOK, location)
	}
}
