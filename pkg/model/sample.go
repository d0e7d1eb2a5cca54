package model

import (
	"encoding/json"
	"math"
	"time"
)

// DayFormat is the key format used for per-day aggregations.
const DayFormat = "2006-01-02"

// GeoPoint is a WGS84 coordinate. Samples without a position carry
// NaN coordinates; such points never contribute to distances.
type GeoPoint struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// NoPosition marks a sample without a usable coordinate.
func NoPosition() GeoPoint {
	return GeoPoint{Latitude: math.NaN(), Longitude: math.NaN()}
}

func (p GeoPoint) Valid() bool {
	return !math.IsNaN(p.Latitude) && !math.IsInf(p.Latitude, 0) &&
		!math.IsNaN(p.Longitude) && !math.IsInf(p.Longitude, 0)
}

type geoPointJSON struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// MarshalJSON emits null for points without usable coordinates: JSON
// numbers cannot carry NaN.
func (p GeoPoint) MarshalJSON() ([]byte, error) {
	if !p.Valid() {
		return []byte("null"), nil
	}
	return json.Marshal(geoPointJSON{p.Latitude, p.Longitude})
}

func (p *GeoPoint) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = NoPosition()
		return nil
	}
	var raw geoPointJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = GeoPoint{Latitude: raw.Latitude, Longitude: raw.Longitude}
	return nil
}

// Sample is one telemetry reading of a vehicle.
// Samples of one vehicle must be processed in non-decreasing FixTime order.
type Sample struct {
	FixTime    time.Time `json:"fixTime"`
	SpeedKmh   float64   `json:"speedKmh"`
	Point      GeoPoint  `json:"point"`
	Address    string    `json:"address,omitempty"`
	Attributes any       `json:"attributes,omitempty"`
}
