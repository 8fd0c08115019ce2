package job

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/sportmate/internal/model"
	"github.com/xxxsen/sportmate/internal/otp"
	"github.com/xxxsen/sportmate/internal/service"
	"github.com/xxxsen/sportmate/internal/testutil"
)

func TestOTPCleanupJob(t *testing.T) {
	store := otp.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Replace(ctx, &model.OTP{ID: "old", Email: "a@b.com", Purpose: model.OTPPurposeSignup, ExpiresAt: 1}))
	require.NoError(t, store.Replace(ctx, &model.OTP{ID: "new", Email: "c@d.com", Purpose: model.OTPPurposeSignup, ExpiresAt: time.Now().Add(time.Hour).Unix()}))

	j := NewOTPCleanupJob(otp.NewManager(store, nil, otp.Config{}))
	require.Equal(t, "otp_cleanup", j.Name())
	require.NoError(t, j.Run(ctx))
	require.Equal(t, 1, store.Len())
}

func TestIdleUserJob(t *testing.T) {
	now := time.Now().Unix()
	users := testutil.NewUserStore(
		model.User{ID: "fresh", Verified: true, Active: true, LastActive: now},
		model.User{ID: "stale", Verified: true, Active: true, LastActive: now - 48*3600},
	)
	j := NewIdleUserJob(service.NewPresenceService(users, time.Second, 10), 24*time.Hour)
	require.NoError(t, j.Run(context.Background()))

	u, err := users.GetByID(context.Background(), "stale")
	require.NoError(t, err)
	require.False(t, u.Active)
	u, err = users.GetByID(context.Background(), "fresh")
	require.NoError(t, err)
	require.True(t, u.Active)
}
