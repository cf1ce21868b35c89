// Package match finds other users currently sharing the same mood, optionally
// narrowed to a radius around a client-supplied search point.
package match

import "math"

// earthRadiusKm is the mean radius of the Earth sphere used by the haversine formula.
const earthRadiusKm = 6371.0

// DistanceKm calculates the great-circle distance in kilometers between two
// coordinates using the haversine formula. It is pure and total: degenerate or
// NaN coordinates propagate NaN rather than raising an error.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180.0
	lon1Rad := lon1 * math.Pi / 180.0
	lat2Rad := lat2 * math.Pi / 180.0
	lon2Rad := lon2 * math.Pi / 180.0

	dLat := lat2Rad - lat1Rad
	dLon := lon2Rad - lon1Rad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}
