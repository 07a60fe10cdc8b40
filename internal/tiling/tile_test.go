package tiling

import (
	stdmath "math"
	"testing"

	"github.com/stretchr/testify/require"
)

// branchyOffset is the three-case decomposition the closed form replaces.
func branchyOffset(index, uTiles int) (int, int) {
	switch {
	case index == 0:
		return 0, 0
	case index < uTiles:
		return index, 0
	default:
		return index % uTiles, index / uTiles
	}
}

func TestTileOffset(t *testing.T) {
	for k := 1; k <= 7; k++ {
		du, dv := TileOffset(0, k)
		require.Equal(t, 0, du)
		require.Equal(t, 0, dv)

		for index := 0; index < 50; index++ {
			du, dv := TileOffset(index, k)
			require.Less(t, du, k)
			require.Equal(t, index, dv*k+du)

			bu, bv := branchyOffset(index, k)
			require.Equal(t, bu, du, "index %d, k %d", index, k)
			require.Equal(t, bv, dv, "index %d, k %d", index, k)
		}
	}
}

func TestTileOffsetClampsRowWidth(t *testing.T) {
	du, dv := TileOffset(3, 0)
	require.Equal(t, 0, du)
	require.Equal(t, 3, dv)
}

func TestNumTiles(t *testing.T) {
	tests := []struct {
		name       string
		maxU, maxV float32
		want       int
	}{
		{"single", 1, 1, 1},
		{"whole", 2, 3, 6},
		{"fractional", 1.5, 2.2, 6},
		{"below one", 0.4, 0.2, 1},
		{"zero", 0, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, NumTiles(tt.maxU, tt.maxV))
		})
	}
}

func TestTileCenterUV(t *testing.T) {
	p := NewParams(2, 1, 1)

	s, tv := TileCenterUV(0, p)
	require.InDelta(t, 0.25, s, 1e-5)
	require.InDelta(t, 0.5, tv, 1e-5)

	s, tv = TileCenterUV(1, p)
	require.InDelta(t, 0.75, s, 1e-5)
	require.InDelta(t, 0.5, tv, 1e-5)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("Deferred")
	require.NoError(t, err)
	require.Equal(t, ModeDeferred, m)

	m, err = ParseMode("")
	require.NoError(t, err)
	require.Equal(t, ModeEager, m)

	_, err = ParseMode("sideways")
	require.ErrorIs(t, err, ErrInvalidMode)
}

func TestCheckGrid(t *testing.T) {
	inf := float32(stdmath.Inf(1))
	nan := float32(stdmath.NaN())

	require.NoError(t, CheckGrid(1, 1))
	require.NoError(t, CheckGrid(1024, 1024))
	require.NoError(t, CheckGrid(-5, 0.5))

	for _, grid := range [][2]float32{
		{1024, 1025},
		{1e12, 1},
		{inf, 1},
		{1, -inf},
		{nan, 2},
	} {
		require.ErrorIs(t, CheckGrid(grid[0], grid[1]), ErrTooManyTiles, "%v", grid)
	}
}
