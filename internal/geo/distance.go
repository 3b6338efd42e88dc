// Package geo provides geolocation utilities for distance computation and
// coarse location display.
package geo

import "math"

// EarthRadiusKm is the mean Earth radius used for great-circle distances.
const EarthRadiusKm = 6371.0

// DistanceKm computes the haversine great-circle distance in kilometers
// between two coordinates given in degrees.
//
// The function is total: inputs are not range-checked, and out-of-range
// coordinates produce mathematically defined but meaningless results. It is
// symmetric and returns 0 for identical points.
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLng := toRadians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// toRadians converts degrees to radians.
func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
