package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// EarthRadiusKm is the mean Earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

func toRadians(deg float64) float64 {
	return deg * (math.Pi / 180.0)
}

// HaversineKm returns the great-circle distance in kilometers between two points
// given in decimal degrees.
func HaversineKm(lon1, lat1, lon2, lat2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * EarthRadiusKm * math.Asin(math.Min(1, math.Sqrt(a)))
}

// IsWithinRadius reports whether the point lies at most radiusKm from the center.
func IsWithinRadius(centerLon, centerLat, lon, lat, radiusKm float64) bool {
	return HaversineKm(centerLon, centerLat, lon, lat) <= radiusKm
}

// ParseCoordinate parses a "lat,lon" location string.
func ParseCoordinate(s string) (lat, lon float64, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("coordinate must be in \"lat,lon\" form")
	}

	lat, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid latitude: %w", err)
	}
	lon, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid longitude: %w", err)
	}

	if !IsFinite(lat) || !IsFinite(lon) {
		return 0, 0, fmt.Errorf("coordinate must be finite")
	}
	if lat < -90 || lat > 90 {
		return 0, 0, fmt.Errorf("latitude out of range")
	}
	if lon < -180 || lon > 180 {
		return 0, 0, fmt.Errorf("longitude out of range")
	}
	return lat, lon, nil
}

// IsFinite reports whether f is neither NaN nor an infinity.
func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
