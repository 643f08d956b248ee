package service

import (
	"strconv"
	"strings"

	"chargehub/internal/repository"
)

// ParseStationFilter compiles raw query values into a station filter.
// Empty values impose no constraint. The connectorType value is a
// comma-separated list compiled into set membership. Malformed power bounds
// are ignored rather than rejected, so a bad number simply means "no bound
// on that side".
func ParseStationFilter(status, connectorType, minPower, maxPower string) repository.StationFilter {
	filter := repository.StationFilter{
		Status: strings.TrimSpace(status),
	}

	if connectorType = strings.TrimSpace(connectorType); connectorType != "" {
		for _, part := range strings.Split(connectorType, ",") {
			if part = strings.TrimSpace(part); part != "" {
				filter.ConnectorTypes = append(filter.ConnectorTypes, part)
			}
		}
	}

	filter.MinPower = parsePowerBound(minPower)
	filter.MaxPower = parsePowerBound(maxPower)
	return filter
}

func parsePowerBound(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &value
}
