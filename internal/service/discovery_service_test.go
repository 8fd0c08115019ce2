package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/sportmate/internal/model"
	appErr "github.com/xxxsen/sportmate/internal/pkg/errors"
	"github.com/xxxsen/sportmate/internal/testutil"
)

func fptr(v float64) *float64 { return &v }

func discoveryFixture(now time.Time) *DiscoveryService {
	ts := now.Unix()
	users := testutil.NewUserStore(
		model.User{ID: "me", Name: "Me", Sport: model.SportTennis, City: "Mumbai", Area: "Bandra",
			Latitude: fptr(19.0596), Longitude: fptr(72.8295), Verified: true, LastActive: ts},
		model.User{ID: "near", Name: "Near", Sport: model.SportTennis, City: "Mumbai", Area: "bandra",
			Latitude: fptr(19.0600), Longitude: fptr(72.8300), Verified: true, LastActive: ts - 3600},
		model.User{ID: "far", Name: "Far", Sport: model.SportTennis, City: "Mumbai", Area: "Andheri",
			Latitude: fptr(19.1136), Longitude: fptr(72.8697), Verified: true, LastActive: ts - 60},
		model.User{ID: "noloc", Name: "NoLoc", Sport: model.SportTennis, City: "Mumbai", Area: "Andheri",
			Verified: true, LastActive: ts - 30},
		model.User{ID: "pune", Name: "Pune", Sport: model.SportTennis, City: "Pune", Area: "Baner",
			Verified: true, LastActive: ts},
		model.User{ID: "cricket", Name: "Cricket", Sport: model.SportCricket, City: "Mumbai", Area: "Bandra",
			Verified: true, LastActive: ts},
		model.User{ID: "pending", Name: "Pending", Sport: model.SportTennis, City: "Mumbai", Area: "Bandra",
			LastActive: ts},
	)
	svc := NewDiscoveryService(users, DiscoveryConfig{})
	svc.now = func() time.Time { return now }
	return svc
}

func TestDiscoverOrdersByActivityWithoutDistance(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := discoveryFixture(now)

	items, err := svc.Discover(context.Background(), "me", DiscoverQuery{Sport: "tennis"})
	require.NoError(t, err)
	got := make([]string, 0, len(items))
	for _, item := range items {
		got = append(got, item.ID)
	}
	require.Equal(t, []string{"pune", "noloc", "far", "near"}, got)
	require.True(t, items[0].IsOnline)
	require.False(t, items[3].IsOnline)
	require.Nil(t, items[0].DistanceKm)
}

func TestDiscoverWithDistanceCap(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := discoveryFixture(now)

	items, err := svc.Discover(context.Background(), "me", DiscoverQuery{Sport: "tennis", MaxDistanceKm: 10})
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "near", items[0].ID)
	require.Equal(t, "far", items[1].ID)
	require.NotNil(t, items[1].DistanceKm)

	_, err = svc.Discover(context.Background(), "me", DiscoverQuery{Sport: "chess"})
	require.ErrorIs(t, err, appErr.ErrInvalid)
}

func TestNearbySplitsByArea(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := discoveryFixture(now)

	res, err := svc.Nearby(context.Background(), "me", NearbyQuery{Sport: "tennis", SortByDistance: true})
	require.NoError(t, err)
	require.Equal(t, 1, res.SameArea.Count)
	require.Equal(t, "near", res.SameArea.Items[0].ID)
	require.Equal(t, 2, res.OtherAreas.Count)
	require.Equal(t, "far", res.OtherAreas.Items[0].ID)
	require.Equal(t, "noloc", res.OtherAreas.Items[1].ID)
}

func TestActiveListsOnlineOnly(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := discoveryFixture(now)

	items, err := svc.Active(context.Background(), "me")
	require.NoError(t, err)
	require.Len(t, items, 4)
	for _, item := range items {
		require.True(t, item.IsOnline)
		require.NotEqual(t, "near", item.ID)
	}

	_, err = svc.Active(context.Background(), "ghost")
	require.ErrorIs(t, err, appErr.ErrNotFound)
	require.Len(t, svc.Sports(), 8)
}

func TestDistanceCapLooksPastScanLimit(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	ts := now.Unix()
	users := testutil.NewUserStore(
		model.User{ID: "me", Name: "Me", Sport: model.SportTennis, City: "Mumbai", Area: "Bandra",
			Latitude: fptr(19.0596), Longitude: fptr(72.8295), Verified: true, LastActive: ts},
		model.User{ID: "delhi1", Name: "Delhi One", Sport: model.SportTennis, City: "Delhi", Area: "Saket",
			Latitude: fptr(28.5245), Longitude: fptr(77.2066), Verified: true, LastActive: ts - 10},
		model.User{ID: "delhi2", Name: "Delhi Two", Sport: model.SportTennis, City: "Delhi", Area: "Dwarka",
			Latitude: fptr(28.5921), Longitude: fptr(77.0460), Verified: true, LastActive: ts - 20},
		model.User{ID: "mumbai2", Name: "Mumbai Two", Sport: model.SportTennis, City: "Mumbai", Area: "Bandra",
			Latitude: fptr(19.0600), Longitude: fptr(72.8300), Verified: true, LastActive: ts - 3600},
		model.User{ID: "mumbai3", Name: "Mumbai Three", Sport: model.SportTennis, City: "Mumbai", Area: "Juhu",
			Verified: true, LastActive: ts - 5},
	)
	svc := NewDiscoveryService(users, DiscoveryConfig{ScanLimit: 2})
	svc.now = func() time.Time { return now }
	ctx := context.Background()

	items, err := svc.Discover(ctx, "me", DiscoverQuery{MaxDistanceKm: 10})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "mumbai2", items[0].ID)

	nearby, err := svc.Nearby(ctx, "me", NearbyQuery{MaxDistanceKm: 10})
	require.NoError(t, err)
	require.Equal(t, 1, nearby.SameArea.Count)
	require.Equal(t, "mumbai2", nearby.SameArea.Items[0].ID)
	require.Zero(t, nearby.OtherAreas.Count)
}
