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

func TestPresenceTouchIsThrottled(t *testing.T) {
	users := testutil.NewUserStore(model.User{ID: "u1", Verified: true, LastActive: 100})
	svc := NewPresenceService(users, time.Minute, 10)
	now := time.Unix(1000, 0)
	svc.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, svc.Touch(ctx, "u1"))
	u, _ := users.GetByID(ctx, "u1")
	require.Equal(t, int64(1000), u.LastActive)
	require.True(t, u.Active)

	now = time.Unix(1010, 0)
	require.NoError(t, svc.Touch(ctx, "u1"))
	u, _ = users.GetByID(ctx, "u1")
	require.Equal(t, int64(1000), u.LastActive)

	svc.Forget("u1")
	require.NoError(t, svc.Touch(ctx, "u1"))
	u, _ = users.GetByID(ctx, "u1")
	require.Equal(t, int64(1010), u.LastActive)

	require.ErrorIs(t, svc.Touch(ctx, "ghost"), appErr.ErrUnauthorized)
}

func TestPresenceMarkIdle(t *testing.T) {
	users := testutil.NewUserStore(
		model.User{ID: "fresh", Verified: true, Active: true, LastActive: 9000},
		model.User{ID: "stale", Verified: true, Active: true, LastActive: 100},
	)
	svc := NewPresenceService(users, time.Minute, 10)
	svc.now = func() time.Time { return time.Unix(10000, 0) }

	n, err := svc.MarkIdle(context.Background(), time.Hour)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
	u, _ := users.GetByID(context.Background(), "stale")
	require.False(t, u.Active)
}
