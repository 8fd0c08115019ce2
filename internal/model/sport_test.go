package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSport(t *testing.T) {
	s, ok := ParseSport("  Tennis ")
	require.True(t, ok)
	require.Equal(t, SportTennis, s)

	_, ok = ParseSport("chess")
	require.False(t, ok)
}

func TestSportOptionsIsCopy(t *testing.T) {
	opts := SportOptions()
	require.Len(t, opts, 8)
	opts[0].Label = "changed"
	require.Equal(t, "Football", SportOptions()[0].Label)
}

func TestOTPPurposeValid(t *testing.T) {
	require.True(t, OTPPurposeSignup.Valid())
	require.True(t, OTPPurposeLogin.Valid())
	require.False(t, OTPPurpose("reset").Valid())
}
