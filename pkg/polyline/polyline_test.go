package polyline

import (
	"math"
	"testing"
)

func TestDecode_GoogleExample(t *testing.T) {
	tests := []struct {
		name     string
		encoded  string
		expected []Coordinate
	}{
		{
			name:    "single point",
			encoded: "_p~iF~ps|U",
			expected: []Coordinate{
				{Lat: 38.5, Lon: -120.2},
			},
		},
		{
			name:    "three points",
			encoded: "_p~iF~ps|U_ulLnnqC_mqNvxq`@",
			expected: []Coordinate{
				{Lat: 38.5, Lon: -120.2},
				{Lat: 40.7, Lon: -120.95},
				{Lat: 43.252, Lon: -126.453},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Decode(tt.encoded)
			if len(result) != len(tt.expected) {
				t.Fatalf("expected %d coordinates, got %d", len(tt.expected), len(result))
			}
			for i, coord := range result {
				if !coordsEqual(coord, tt.expected[i], 0.001) {
					t.Errorf("coordinate %d: expected %+v, got %+v", i, tt.expected[i], coord)
				}
			}
		})
	}
}

func TestDecode_EmptyString(t *testing.T) {
	if result := Decode(""); result != nil {
		t.Errorf("expected nil for empty string, got %v", result)
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	// A short walk through Yanaka, Tokyo.
	coords := []Coordinate{
		{Lat: 35.72780, Lon: 139.77080},
		{Lat: 35.72563, Lon: 139.76501},
		{Lat: 35.72201, Lon: 139.76204},
	}

	encoded := Encode(coords)
	if encoded == "" {
		t.Fatal("expected non-empty encoded string")
	}

	decoded := Decode(encoded)
	if len(decoded) != len(coords) {
		t.Fatalf("round-trip: expected %d coordinates, got %d", len(coords), len(decoded))
	}
	for i, coord := range decoded {
		// Precision of 5 decimal places = 0.00001
		if !coordsEqual(coord, coords[i], 0.00001) {
			t.Errorf("round-trip coordinate %d: expected %+v, got %+v", i, coords[i], coord)
		}
	}
}

func TestEncode_EmptyCoordinates(t *testing.T) {
	if result := Encode(nil); result != "" {
		t.Errorf("expected empty string for nil coordinates, got %q", result)
	}
	if result := Encode([]Coordinate{}); result != "" {
		t.Errorf("expected empty string for empty coordinates, got %q", result)
	}
}

// coordsEqual checks if two coordinates are equal within a tolerance.
func coordsEqual(a, b Coordinate, tolerance float64) bool {
	return math.Abs(a.Lat-b.Lat) <= tolerance && math.Abs(a.Lon-b.Lon) <= tolerance
}
