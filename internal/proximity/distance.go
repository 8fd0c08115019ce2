// Package proximity ranks discoverable teammates by place, distance and recent activity.
// Everything here is a pure function of its inputs.
package proximity

import "math"

// EarthRadiusKm is the mean Earth radius used for great-circle distances.
const EarthRadiusKm = 6371.0

type Point struct {
	Lat float64
	Lon float64
}

// PointOf returns the point for a nullable coordinate pair. ok is false unless both are set.
func PointOf(lat, lon *float64) (Point, bool) {
	if lat == nil || lon == nil {
		return Point{}, false
	}
	return Point{Lat: *lat, Lon: *lon}, true
}

// Distance returns the haversine distance between a and b in kilometers.
func Distance(a, b Point) float64 {
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)
	dLat := toRadians(b.Lat - a.Lat)
	dLon := toRadians(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusKm * c
}

// DistanceBetween is Distance over nullable coordinates. ok is false when
// either side lacks a location; the distance is then undefined, not zero.
func DistanceBetween(aLat, aLon, bLat, bLon *float64) (float64, bool) {
	a, ok := PointOf(aLat, aLon)
	if !ok {
		return 0, false
	}
	b, ok := PointOf(bLat, bLon)
	if !ok {
		return 0, false
	}
	return Distance(a, b), true
}

// RoundKm rounds a distance to one decimal place for display.
func RoundKm(km float64) float64 {
	return math.Round(km*10) / 10
}

// ValidCoordinates reports whether lat/lon are finite and inside their ranges.
func ValidCoordinates(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
