package motion

import (
	"math"

	"github.com/swarmgrid/swarmcore/internal/geom"
	"github.com/swarmgrid/swarmcore/internal/tilegrid"
)

// ResolveMove applies (dx, dy) to from and resolves the result against the
// grid. Displacements larger than the box's half extent are split into
// sub-steps so no single step can carry the centre past a wall's neighbour
// test, which keeps boxes out of walls for any frame delta.
func ResolveMove(g *tilegrid.Grid, from geom.Point, dx, dy int, box geom.Box, in Intent) geom.Point {
	if dx == 0 && dy == 0 {
		return from
	}
	limit := int(math.Min(box.HalfWidth, box.HalfHeight)) - 1
	if limit < 1 {
		limit = 1
	}
	n := (max(abs(dx), abs(dy)) + limit - 1) / limit

	p := from
	doneX, doneY := 0, 0
	for i := 1; i <= n; i++ {
		sx := dx*i/n - doneX
		sy := dy*i/n - doneY
		doneX += sx
		doneY += sy
		p = ResolveWalls(g, p.Add(float64(sx), float64(sy)), box, in)
	}
	return p
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
