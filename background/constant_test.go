package background

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConstant_Background(t *testing.T) {
	c := NewConstant(0.25)

	require.Equal(t, 0.25, c.Rate())
	require.InDelta(t, 2.5, c.Background(0, 10), 1e-12)
	require.InDelta(t, 0.25, c.Background(4, 5), 1e-12)
	require.Zero(t, c.Background(7, 7))
}

func TestConstant_ZeroRate(t *testing.T) {
	c := NewConstant(0)

	require.Zero(t, c.Background(0, 1e9))
}
