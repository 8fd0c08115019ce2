package proximity

import "math"

// boxSlackDeg widens a box so float error never drops a point lying on the radius.
const boxSlackDeg = 1e-6

// Box is a latitude/longitude rectangle. With WrapsLon set the box crosses
// the antimeridian and covers MinLon..180 plus -180..MaxLon.
type Box struct {
	MinLat   float64
	MaxLat   float64
	MinLon   float64
	MaxLon   float64
	WrapsLon bool
}

// BoundingBox returns a box holding every point within radiusKm of center.
// It over-approximates the circle; exact distances are still checked by Rank.
func BoundingBox(center Point, radiusKm float64) Box {
	angular := math.Max(radiusKm, 0) / EarthRadiusKm
	dLat := angular*180/math.Pi + boxSlackDeg
	box := Box{MinLat: center.Lat - dLat, MaxLat: center.Lat + dLat, MinLon: -180, MaxLon: 180}
	if box.MinLat <= -90 || box.MaxLat >= 90 {
		// a pole lies inside the circle, so every longitude qualifies
		box.MinLat = math.Max(box.MinLat, -90)
		box.MaxLat = math.Min(box.MaxLat, 90)
		return box
	}
	s := math.Sin(angular) / math.Cos(toRadians(center.Lat))
	if s >= 1 {
		return box
	}
	dLon := math.Asin(s)*180/math.Pi + boxSlackDeg
	box.MinLon = center.Lon - dLon
	box.MaxLon = center.Lon + dLon
	if box.MinLon < -180 {
		box.MinLon += 360
		box.WrapsLon = true
	}
	if box.MaxLon > 180 {
		box.MaxLon -= 360
		box.WrapsLon = true
	}
	return box
}

func (b Box) Contains(p Point) bool {
	if p.Lat < b.MinLat || p.Lat > b.MaxLat {
		return false
	}
	if b.WrapsLon {
		return p.Lon >= b.MinLon || p.Lon <= b.MaxLon
	}
	return p.Lon >= b.MinLon && p.Lon <= b.MaxLon
}
