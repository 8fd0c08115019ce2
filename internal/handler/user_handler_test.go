package handler_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/sportmate/internal/pkg/errcode"
)

type candidate struct {
	ID         string   `json:"id"`
	IsOnline   bool     `json:"is_online"`
	DistanceKm *float64 `json:"distance_km"`
}

func TestDiscoverNearbyActive(t *testing.T) {
	f := setupRouter(t, nil)
	me := f.signup(t, "me@example.com", "tennis", "Mumbai", "Bandra", 19.0596, 72.8295)
	f.signup(t, "near@example.com", "tennis", "Mumbai", "bandra", 19.0600, 72.8300)
	f.signup(t, "far@example.com", "tennis", "Mumbai", "Andheri", 19.1136, 72.8697)
	f.signup(t, "cricket@example.com", "cricket", "Mumbai", "Bandra", 19.0596, 72.8295)

	env := f.do(t, http.MethodGet, "/api/users/discover?sport=tennis&max_distance=5", me, nil)
	var list struct {
		Count int         `json:"count"`
		Items []candidate `json:"items"`
	}
	decode(t, env, &list)
	require.Equal(t, 1, list.Count)
	require.NotNil(t, list.Items[0].DistanceKm)
	require.True(t, list.Items[0].IsOnline)

	env = f.do(t, http.MethodGet, "/api/users/discover?max_distance=-1", me, nil)
	require.Equal(t, errcode.ErrInvalid, env.Code)

	env = f.do(t, http.MethodGet, "/api/users/nearby?sport=tennis&sort=distance", me, nil)
	var nearby struct {
		SameArea struct {
			Count int         `json:"count"`
			Items []candidate `json:"items"`
		} `json:"same_area"`
		OtherAreas struct {
			Count int         `json:"count"`
			Items []candidate `json:"items"`
		} `json:"other_areas"`
	}
	decode(t, env, &nearby)
	require.Equal(t, 1, nearby.SameArea.Count)
	require.Equal(t, 1, nearby.OtherAreas.Count)

	env = f.do(t, http.MethodGet, "/api/users/active", me, nil)
	decode(t, env, &list)
	require.Equal(t, 3, list.Count)

	env = f.do(t, http.MethodGet, "/api/users/sports", "", nil)
	var sports []struct {
		Value string `json:"value"`
		Label string `json:"label"`
	}
	decode(t, env, &sports)
	require.Len(t, sports, 8)

	env = f.do(t, http.MethodGet, "/api/users/discover", "", nil)
	require.Equal(t, errcode.ErrUnauthorized, env.Code)
}
