package geo

import (
	"math"
	"testing"
)

var (
	amsterdam = Point{Lat: 52.3676, Lon: 4.9041}
	utrecht   = Point{Lat: 52.0907, Lon: 5.1214}
	tokyo     = Point{Lat: 35.6762, Lon: 139.6503}
)

func TestHaversine_Symmetry(t *testing.T) {
	pairs := []struct {
		name string
		a, b Point
	}{
		{"amsterdam-utrecht", amsterdam, utrecht},
		{"amsterdam-tokyo", amsterdam, tokyo},
		{"antimeridian", Point{Lat: 0, Lon: 179.9}, Point{Lat: 0, Lon: -179.9}},
	}

	for _, tt := range pairs {
		t.Run(tt.name, func(t *testing.T) {
			ab := Haversine(tt.a, tt.b)
			ba := Haversine(tt.b, tt.a)
			if math.Abs(ab-ba) > 1e-9 {
				t.Errorf("expected symmetric distance, got %f and %f", ab, ba)
			}
		})
	}
}

func TestHaversine_Identity(t *testing.T) {
	if d := Haversine(tokyo, tokyo); d != 0 {
		t.Errorf("expected zero distance for identical points, got %f", d)
	}
}

func TestHaversine_KnownDistance(t *testing.T) {
	// Amsterdam to Utrecht is roughly 34-35 km as the crow flies.
	d := Haversine(amsterdam, utrecht)
	if d < 33 || d > 36 {
		t.Errorf("expected ~34.5 km, got %f", d)
	}
}

func TestPathDistance(t *testing.T) {
	points := []Point{amsterdam, utrecht, amsterdam}
	want := 2 * Haversine(amsterdam, utrecht)
	got := PathDistance(points)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("expected %f, got %f", want, got)
	}

	if d := PathDistance([]Point{amsterdam}); d != 0 {
		t.Errorf("expected zero distance for single point, got %f", d)
	}
	if d := PathDistance(nil); d != 0 {
		t.Errorf("expected zero distance for empty path, got %f", d)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		p       Point
		wantErr bool
	}{
		{"valid", tokyo, false},
		{"lat too high", Point{Lat: 90.1, Lon: 0}, true},
		{"lat too low", Point{Lat: -90.1, Lon: 0}, true},
		{"lon too high", Point{Lat: 0, Lon: 180.1}, true},
		{"lon too low", Point{Lat: 0, Lon: -180.1}, true},
		{"poles", Point{Lat: 90, Lon: 180}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.p)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(%+v) error = %v, wantErr %v", tt.p, err, tt.wantErr)
			}
		})
	}
}
