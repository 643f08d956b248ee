package models

import (
	"time"

	"github.com/google/uuid"
)

// Station statuses.
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

// Connector types supported by the registry.
const (
	ConnectorType1   = "Type1"
	ConnectorType2   = "Type2"
	ConnectorCCS     = "CCS"
	ConnectorCHAdeMO = "CHAdeMO"
)

// Location is a geographic point. Latitude is bounded to [-90, 90] and
// longitude to [-180, 180]; both are validated by the service on writes.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// InBounds reports whether both coordinates are within valid geographic range.
func (l Location) InBounds() bool {
	return l.Latitude >= -90 && l.Latitude <= 90 && l.Longitude >= -180 && l.Longitude <= 180
}

// Owner is the display-safe projection of the principal that created a
// station. It never carries credentials.
type Owner struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Station is a registered charging station. CreatedBy is set once at creation
// and never changes afterwards.
type Station struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Location      Location  `json:"location"`
	Status        string    `json:"status"`
	PowerOutput   float64   `json:"powerOutput"`
	ConnectorType string    `json:"connectorType"`
	CreatedBy     Owner     `json:"createdBy"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ValidStatus reports whether s is one of the enumerated station statuses.
func ValidStatus(s string) bool {
	return s == StatusActive || s == StatusInactive
}

// ValidConnectorType reports whether c is one of the enumerated connector types.
func ValidConnectorType(c string) bool {
	switch c {
	case ConnectorType1, ConnectorType2, ConnectorCCS, ConnectorCHAdeMO:
		return true
	}
	return false
}
