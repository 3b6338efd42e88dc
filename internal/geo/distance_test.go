package geo

import (
	"math"
	"testing"
)

// TestDistanceKmSymmetry verifies that distance is symmetric in its endpoints
// and zero for identical points.
func TestDistanceKmSymmetry(t *testing.T) {
	pairs := []struct {
		name                   string
		lat1, lng1, lat2, lng2 float64
	}{
		{"delhi to mumbai", 28.6139, 77.2090, 19.0760, 72.8777},
		{"equator to pole", 0, 0, 90, 0},
		{"across antimeridian", 10, 179.5, 10, -179.5},
		{"same point", 28.6139, 77.2090, 28.6139, 77.2090},
	}

	for _, tt := range pairs {
		t.Run(tt.name, func(t *testing.T) {
			ab := DistanceKm(tt.lat1, tt.lng1, tt.lat2, tt.lng2)
			ba := DistanceKm(tt.lat2, tt.lng2, tt.lat1, tt.lng1)
			if math.Abs(ab-ba) > 1e-9 {
				t.Errorf("distance not symmetric: %f vs %f", ab, ba)
			}
		})
	}

	if d := DistanceKm(12.9716, 77.5946, 12.9716, 77.5946); d != 0 {
		t.Errorf("distance for identical points = %f, want 0", d)
	}
}

// TestDistanceKmKnownValues checks computed distances against known
// great-circle spacings. One degree of latitude along a meridian is
// approximately 111.19 km.
func TestDistanceKmKnownValues(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lng1, lat2, lng2 float64
		expectedKm             float64
		tolerancePct           float64
	}{
		{"one degree of latitude", 0, 0, 1, 0, 111.19, 1},
		{"two degrees of latitude", 10, 20, 12, 20, 222.39, 1},
		{"delhi to mumbai", 28.6139, 77.2090, 19.0760, 72.8777, 1153, 2},
		{"quarter circumference", 0, 0, 90, 0, 10007.5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceKm(tt.lat1, tt.lng1, tt.lat2, tt.lng2)
			tolerance := tt.expectedKm * tt.tolerancePct / 100
			if math.Abs(got-tt.expectedKm) > tolerance {
				t.Errorf("DistanceKm = %f, want %f ± %f", got, tt.expectedKm, tolerance)
			}
		})
	}
}
