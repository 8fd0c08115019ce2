package dbutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFinalizeRewritesLimitAndPlaceholders(t *testing.T) {
	query, args := Finalize("SELECT id FROM users WHERE sport=? LIMIT ?, ?", []interface{}{"tennis", 40, 20})
	require.Equal(t, "SELECT id FROM users WHERE sport=$1 LIMIT $2 OFFSET $3", query)
	require.Equal(t, []interface{}{"tennis", 20, 40}, args)
}

func TestContainsPatternEscapesWildcards(t *testing.T) {
	require.Equal(t, `%bandra%`, ContainsPattern("bandra"))
	require.Equal(t, `%50\%\_off%`, ContainsPattern("50%_off"))
}
