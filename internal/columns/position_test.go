package columns

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClampInsert(t *testing.T) {
	require.Equal(t, 0, clampInsert(0, 0))
	require.Equal(t, 3, clampInsert(-1, 3)) // absent position appends
	require.Equal(t, 2, clampInsert(2, 3))
	require.Equal(t, 3, clampInsert(99, 3)) // beyond the end clamps to append
}

func TestClampMove(t *testing.T) {
	require.Equal(t, 0, clampMove(0, 0))
	require.Equal(t, 0, clampMove(-5, 4))
	require.Equal(t, 2, clampMove(2, 4))
	require.Equal(t, 3, clampMove(99, 4))
}
