package geo

import (
	"math"

	"github.com/quicktrack/fleetcontrol-service-go/pkg/model"
)

const earthRadiusKm = 6371

// HaversineKm computes the great-circle distance between two points.
// Returns 0 if either point has non-finite coordinates.
func HaversineKm(a, b model.GeoPoint) float64 {
	if !a.Valid() || !b.Valid() {
		return 0
	}
	dLat := toRad(b.Latitude - a.Latitude)
	dLon := toRad(b.Longitude - a.Longitude)
	lat1 := toRad(a.Latitude)
	lat2 := toRad(b.Latitude)
	h := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dLon/2), 2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c
}

// LegKm computes the distance contribution of one leg between consecutive
// samples. Legs with zero elapsed time or an implied speed above
// maxPlausibleSpeedKmh are rejected as GPS jumps and contribute 0.
func LegKm(prev, cur model.Sample, maxPlausibleSpeedKmh float64) float64 {
	dist := HaversineKm(prev.Point, cur.Point)
	if dist == 0 {
		return 0
	}
	elapsed := cur.FixTime.Sub(prev.FixTime)
	if elapsed <= 0 {
		return 0
	}
	impliedKmh := dist / elapsed.Hours()
	if maxPlausibleSpeedKmh > 0 && impliedKmh > maxPlausibleSpeedKmh {
		return 0
	}
	return dist
}

// TrackKm sums the plausible legs over consecutive samples.
func TrackKm(samples []model.Sample, maxPlausibleSpeedKmh float64) float64 {
	total := 0.0
	for i := 1; i < len(samples); i++ {
		total += LegKm(samples[i-1], samples[i], maxPlausibleSpeedKmh)
	}
	return total
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
