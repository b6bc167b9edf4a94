// Package geo provides great-circle geometry over latitude/longitude pairs.
package geo

import (
	"fmt"
	"math"
)

// EarthRadiusKm is the mean Earth radius used for great-circle distances.
const EarthRadiusKm = 6371.0

// Point is a geographic coordinate in decimal degrees.
type Point struct {
	Lat float64
	Lon float64
}

// Haversine returns the great-circle distance between two points in kilometers.
func Haversine(a, b Point) float64 {
	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dLat := radians(b.Lat - a.Lat)
	dLon := radians(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKm * c
}

// PathDistance returns the sum of consecutive great-circle segment lengths
// along the given points, in kilometers. Fewer than two points yields zero.
func PathDistance(points []Point) float64 {
	var total float64
	for i := 0; i+1 < len(points); i++ {
		total += Haversine(points[i], points[i+1])
	}
	return total
}

// Validate checks that the point is within valid coordinate ranges.
func Validate(p Point) error {
	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("latitude %f out of range [-90, 90]", p.Lat)
	}
	if p.Lon < -180 || p.Lon > 180 {
		return fmt.Errorf("longitude %f out of range [-180, 180]", p.Lon)
	}
	return nil
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
