package photos

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/agentstation/photomap/pkg/errors"
)

// ParsePosition decodes the service's JSON-encoded position string.
// Empty, malformed, non-finite or out-of-range positions are rejected.
func ParsePosition(raw string) (LatLng, error) {
	if strings.TrimSpace(raw) == "" {
		return LatLng{}, errors.NewValidationError("position", raw, "missing")
	}

	var wire struct {
		Lat *float64 `json:"lat"`
		Lng *float64 `json:"lng"`
	}
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return LatLng{}, errors.WrapParse("json", "position", err)
	}
	if wire.Lat == nil || wire.Lng == nil {
		return LatLng{}, errors.NewValidationError("position", raw, "lat and lng are required")
	}

	pos := LatLng{Lat: *wire.Lat, Lng: *wire.Lng}
	if !pos.Valid() {
		return LatLng{}, errors.NewValidationError("position", raw, "out of range")
	}
	return pos, nil
}

// FormatPosition encodes a position the way the service stores it.
func FormatPosition(pos LatLng) string {
	b, _ := json.Marshal(pos)
	return string(b)
}

// Valid reports whether the position is a finite coordinate on the globe.
func (p LatLng) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lng, 0) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}
