package proximity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDistanceSamePointIsZero(t *testing.T) {
	for _, p := range []Point{{0, 0}, {19.076, 72.8777}, {-33.8688, 151.2093}, {89.9, -179.9}} {
		require.Equal(t, 0.0, Distance(p, p))
	}
}

func TestDistanceIsSymmetric(t *testing.T) {
	a := Point{Lat: 19.076, Lon: 72.8777}
	b := Point{Lat: 28.7041, Lon: 77.1025}
	require.InDelta(t, Distance(a, b), Distance(b, a), 1e-9)
}

func TestDistanceQuarterCircumference(t *testing.T) {
	got := Distance(Point{0, 0}, Point{0, 90})
	require.InDelta(t, math.Pi*EarthRadiusKm/2, got, 1e-6)
	require.InDelta(t, 10007.5, got, 0.1)
}

func TestDistanceBetweenRequiresBothSides(t *testing.T) {
	lat, lon := 1.0, 2.0
	_, ok := DistanceBetween(&lat, &lon, nil, &lon)
	require.False(t, ok)
	_, ok = DistanceBetween(nil, nil, &lat, &lon)
	require.False(t, ok)
	km, ok := DistanceBetween(&lat, &lon, &lat, &lon)
	require.True(t, ok)
	require.Equal(t, 0.0, km)
}

func TestRoundKm(t *testing.T) {
	require.Equal(t, 4.9, RoundKm(4.94))
	require.Equal(t, 5.0, RoundKm(4.96))
	require.Equal(t, 0.0, RoundKm(0.04))
}

func TestValidCoordinates(t *testing.T) {
	require.True(t, ValidCoordinates(0, 0))
	require.True(t, ValidCoordinates(-90, 180))
	require.False(t, ValidCoordinates(90.1, 0))
	require.False(t, ValidCoordinates(0, -180.5))
	require.False(t, ValidCoordinates(math.NaN(), 0))
}
