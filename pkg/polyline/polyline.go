// Package polyline implements Google's polyline encoding for route
// geometries, documented at
// https://developers.google.com/maps/documentation/utilities/polylinealgorithm
package polyline

import "math"

// Coordinate represents a geographic point with latitude and longitude.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Encode encodes coordinates into a polyline string at the standard
// precision of 5 decimal places.
func Encode(coords []Coordinate) string {
	if len(coords) == 0 {
		return ""
	}

	encoded := make([]byte, 0, len(coords)*4)
	prevLat := 0
	prevLon := 0

	for _, coord := range coords {
		lat := int(math.Round(coord.Lat * 1e5))
		lon := int(math.Round(coord.Lon * 1e5))

		encoded = encodeValue(encoded, lat-prevLat)
		encoded = encodeValue(encoded, lon-prevLon)

		prevLat = lat
		prevLon = lon
	}

	return string(encoded)
}

func encodeValue(buf []byte, value int) []byte {
	if value < 0 {
		value = ^(value << 1)
	} else {
		value <<= 1
	}

	for value >= 0x20 {
		buf = append(buf, byte((value&0x1f)|0x20)+63)
		value >>= 5
	}
	buf = append(buf, byte(value)+63)

	return buf
}

// Decode decodes a polyline string back into coordinates.
func Decode(encoded string) []Coordinate {
	if encoded == "" {
		return nil
	}

	var coords []Coordinate
	index := 0
	lat := 0
	lon := 0

	for index < len(encoded) {
		latDelta, newIndex := decodeValue(encoded, index)
		index = newIndex
		lat += latDelta

		lonDelta, newIndex := decodeValue(encoded, index)
		index = newIndex
		lon += lonDelta

		coords = append(coords, Coordinate{
			Lat: float64(lat) / 1e5,
			Lon: float64(lon) / 1e5,
		})
	}

	return coords
}

// decodeValue decodes one delta starting at index and returns it with
// the new index position.
func decodeValue(encoded string, index int) (int, int) {
	shift := 0
	result := 0

	for index < len(encoded) {
		b := int(encoded[index]) - 63
		index++
		result |= (b & 0x1f) << shift
		shift += 5
		if b < 0x20 {
			break
		}
	}

	if result&1 != 0 {
		return ^(result >> 1), index
	}
	return result >> 1, index
}
