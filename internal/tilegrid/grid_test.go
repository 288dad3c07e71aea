package tilegrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swarmgrid/swarmcore/internal/geom"
)

func testGrid(t *testing.T) *Grid {
	t.Helper()
	g, err := New([][]Code{
		{1, 1, 1, 1},
		{1, 0, 2, 1},
		{1, 3, 9, 1},
		{1, 1, 1, 1},
	}, 16)
	require.NoError(t, err)
	return g
}

func TestNewRejectsBadInput(t *testing.T) {
	_, err := New(nil, 16)
	assert.Error(t, err)

	_, err = New([][]Code{{0, 0}, {0}}, 16)
	assert.Error(t, err)

	_, err = New([][]Code{{0, 7}}, 16)
	assert.Error(t, err)

	_, err = New([][]Code{{9, 9}}, 16)
	assert.Error(t, err)

	_, err = New([][]Code{{0}}, 0)
	assert.Error(t, err)
}

func TestWallAt(t *testing.T) {
	g := testGrid(t)

	w := g.WallAt(0, 0)
	require.NotNil(t, w)
	assert.Equal(t, WallGray, w.Code)
	assert.False(t, w.Destructible())
	assert.Equal(t, geom.Rect{MinX: 0, MinY: 0, MaxX: 16, MaxY: 16}, w.Rect)

	assert.Nil(t, g.WallAt(1, 1))
	assert.Nil(t, g.WallAt(-1, 0))
	assert.Nil(t, g.WallAt(0, 4))
	assert.Nil(t, g.WallAt(2, 2), "exit tile is not solid")

	row, col, ok := g.Exit()
	assert.True(t, ok)
	assert.Equal(t, 2, row)
	assert.Equal(t, 2, col)
}

func TestRemoveWall(t *testing.T) {
	g := testGrid(t)

	assert.False(t, g.RemoveWall(0, 0), "gray walls survive")
	assert.True(t, g.Solid(0, 0))

	assert.True(t, g.RemoveWall(1, 2))
	assert.False(t, g.Solid(1, 2))
	assert.False(t, g.RemoveWall(1, 2), "already removed")

	assert.True(t, g.RemoveWall(2, 1))
	assert.False(t, g.RemoveWall(1, 1))
	assert.False(t, g.RemoveWall(9, 9))
}

func TestCellAndDeltas(t *testing.T) {
	g := testGrid(t)

	row, col := g.CellOf(geom.Point{X: 20, Y: 35})
	assert.Equal(t, 2, row)
	assert.Equal(t, 1, col)

	d := g.Deltas(geom.Point{X: 20, Y: 35})
	assert.Equal(t, Deltas{DxLeft: 4, DxRight: 12, DyTop: 3, DyBottom: 13}, d)

	assert.Equal(t, geom.Point{X: 24, Y: 24}, g.Center(1, 1))
}

func TestOverlaps(t *testing.T) {
	g := testGrid(t)
	box := geom.NewBox(12, 12)

	assert.False(t, g.Overlaps(box.At(g.Center(1, 1))))
	// Touching the left wall edge exactly is not an overlap.
	assert.False(t, g.Overlaps(box.At(geom.Point{X: 22, Y: 24})))
	assert.True(t, g.Overlaps(box.At(geom.Point{X: 21, Y: 24})))
	assert.True(t, g.Overlaps(box.At(geom.Point{X: 27, Y: 24})), "green wall to the right")
}

func TestWalls(t *testing.T) {
	g := testGrid(t)
	assert.Len(t, g.Walls(), 14)
	g.RemoveWall(1, 2)
	assert.Len(t, g.Walls(), 13)
}
