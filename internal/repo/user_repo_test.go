package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/sportmate/internal/model"
	appErr "github.com/xxxsen/sportmate/internal/pkg/errors"
	"github.com/xxxsen/sportmate/internal/pkg/timeutil"
	"github.com/xxxsen/sportmate/internal/proximity"
	"github.com/xxxsen/sportmate/internal/repo"
)

func floatPtr(v float64) *float64 { return &v }

func seedUser(t *testing.T, users *repo.UserRepo, id, email string, sport model.Sport, city, area string, lastActive int64) {
	t.Helper()
	u := &model.User{
		ID:           id,
		Name:         "user " + id,
		Email:        email,
		PasswordHash: "hash",
		Sport:        sport,
		City:         city,
		Area:         area,
		Latitude:     floatPtr(19.07),
		Longitude:    floatPtr(72.87),
		Verified:     true,
		Active:       true,
		LastActive:   lastActive,
		Ctime:        lastActive,
		Mtime:        lastActive,
	}
	require.NoError(t, users.Create(context.Background(), u))
}

func TestUserRepoCreateAndGet(t *testing.T) {
	conn := openTestDB(t)
	users := repo.NewUserRepo(conn)
	ctx := context.Background()
	now := timeutil.NowUnix()

	seedUser(t, users, "u1", "a@b.com", model.SportTennis, "Mumbai", "Bandra", now)
	err := users.Create(ctx, &model.User{ID: "u2", Email: "a@b.com", Sport: model.SportTennis})
	require.ErrorIs(t, err, appErr.ErrConflict)

	got, err := users.GetByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	require.Equal(t, "u1", got.ID)
	require.True(t, got.HasLocation())

	_, err = users.GetByID(ctx, "missing")
	require.ErrorIs(t, err, appErr.ErrNotFound)
}

func TestUserRepoPendingSignupOnlyTouchesUnverified(t *testing.T) {
	conn := openTestDB(t)
	users := repo.NewUserRepo(conn)
	ctx := context.Background()
	now := timeutil.NowUnix()

	seedUser(t, users, "u1", "done@b.com", model.SportTennis, "Mumbai", "Bandra", now)
	err := users.UpdatePendingSignup(ctx, &model.User{Email: "done@b.com", Name: "x", Sport: model.SportCricket})
	require.ErrorIs(t, err, appErr.ErrNotFound)

	require.NoError(t, users.Create(ctx, &model.User{ID: "u2", Name: "p", Email: "p@b.com", PasswordHash: "h", Sport: model.SportHockey, Ctime: now, Mtime: now}))
	require.NoError(t, users.UpdatePendingSignup(ctx, &model.User{Email: "p@b.com", Name: "pending", PasswordHash: "h2", Sport: model.SportCricket, City: "Pune", Area: "Baner", Mtime: now}))
	require.NoError(t, users.MarkVerified(ctx, "p@b.com", now))

	got, err := users.GetByEmail(ctx, "p@b.com")
	require.NoError(t, err)
	require.True(t, got.Verified)
	require.Equal(t, model.SportCricket, got.Sport)
	require.False(t, got.HasLocation())
}

func TestUserRepoListCandidates(t *testing.T) {
	conn := openTestDB(t)
	users := repo.NewUserRepo(conn)
	ctx := context.Background()
	now := timeutil.NowUnix()

	seedUser(t, users, "me", "me@b.com", model.SportTennis, "Mumbai", "Bandra", now)
	seedUser(t, users, "a", "a@b.com", model.SportTennis, "Mumbai", "Andheri", now-60)
	seedUser(t, users, "b", "b@b.com", model.SportTennis, "Pune", "Baner", now-7200)
	seedUser(t, users, "c", "c@b.com", model.SportCricket, "Mumbai", "Bandra", now)

	items, err := users.ListCandidates(ctx, repo.CandidateQuery{ExcludeID: "me", Sport: model.SportTennis})
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "a", items[0].ID)

	items, err = users.ListCandidates(ctx, repo.CandidateQuery{ExcludeID: "me", Sport: model.SportTennis, City: "mum"})
	require.NoError(t, err)
	require.Len(t, items, 1)

	items, err = users.ListCandidates(ctx, repo.CandidateQuery{ExcludeID: "me", ActiveAfter: now - 900})
	require.NoError(t, err)
	require.Len(t, items, 2)
}

func TestUserRepoListCandidatesWithinBox(t *testing.T) {
	conn := openTestDB(t)
	users := repo.NewUserRepo(conn)
	ctx := context.Background()
	now := timeutil.NowUnix()

	seedUser(t, users, "near", "near@b.com", model.SportTennis, "Mumbai", "Bandra", now-3600)
	for i, id := range []string{"far1", "far2"} {
		seedUser(t, users, id, id+"@b.com", model.SportTennis, "Delhi", "Saket", now-int64(i))
		u, err := users.GetByID(ctx, id)
		require.NoError(t, err)
		u.Latitude, u.Longitude = floatPtr(28.52), floatPtr(77.20)
		require.NoError(t, users.UpdateProfile(ctx, u))
	}
	require.NoError(t, users.Create(ctx, &model.User{
		ID: "noloc", Name: "user noloc", Email: "noloc@b.com", PasswordHash: "hash", Sport: model.SportTennis,
		City: "Mumbai", Area: "Bandra", Verified: true, LastActive: now, Ctime: now, Mtime: now,
	}))

	box := proximity.BoundingBox(proximity.Point{Lat: 19.07, Lon: 72.87}, 10)
	items, err := users.ListCandidates(ctx, repo.CandidateQuery{Within: &box, Limit: 2})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "near", items[0].ID)
}

func TestUserRepoAdminQueries(t *testing.T) {
	conn := openTestDB(t)
	users := repo.NewUserRepo(conn)
	ctx := context.Background()
	now := timeutil.NowUnix()

	seedUser(t, users, "a", "a@b.com", model.SportTennis, "Mumbai", "Andheri", now)
	seedUser(t, users, "b", "b@b.com", model.SportTennis, "Pune", "Baner", now-7200)
	seedUser(t, users, "c", "c@b.com", model.SportCricket, "Mumbai", "Bandra", now)

	total, err := users.Count(ctx, repo.UserListQuery{})
	require.NoError(t, err)
	require.Equal(t, 3, total)

	page, err := users.List(ctx, repo.UserListQuery{Offset: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)

	bySport, err := users.CountBySport(ctx)
	require.NoError(t, err)
	require.Equal(t, model.SportCount{Sport: model.SportTennis, Count: 2}, bySport[0])

	byCity, err := users.CountByCity(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, model.CityCount{City: "Mumbai", Count: 2}, byCity[0])

	active, err := users.CountActiveAfter(ctx, now-900)
	require.NoError(t, err)
	require.Equal(t, 2, active)

	areas, err := users.DistinctAreas(ctx, "mumbai")
	require.NoError(t, err)
	require.Equal(t, []string{"Andheri", "Bandra"}, areas)

	idle, err := users.MarkIdle(ctx, now-3600)
	require.NoError(t, err)
	require.Equal(t, int64(1), idle)

	require.NoError(t, users.Delete(ctx, "a"))
	require.ErrorIs(t, users.Delete(ctx, "a"), appErr.ErrNotFound)
}
