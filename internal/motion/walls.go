package motion

import (
	"github.com/swarmgrid/swarmcore/internal/geom"
	"github.com/swarmgrid/swarmcore/internal/tilegrid"
)

// ResolveWalls pushes a box centred on p out of the walls next to its tile,
// checking only the directions in the intent. Besides the four primary
// neighbours, the corner neighbours are tested whenever the box's far edge
// spills into the adjacent row or column. A blocked box ends up one pixel clear
// of the wall edge.
//
// The box must be smaller than a tile, and p must have been reached from a
// clear position by less than the box's half extent (see ResolveMove).
func ResolveWalls(g *tilegrid.Grid, p geom.Point, box geom.Box, in Intent) geom.Point {
	row, col := g.CellOf(p)
	d := g.Deltas(p)
	hw, hh := box.HalfWidth, box.HalfHeight

	// Corner tie-breaks compare the distances to the tile boundaries.
	// Left and right skip their clamp on <=, up and down on >, which makes
	// each pair of corner checks pick exactly one axis to clamp.
	if in.Left {
		hitsLeft := func(w *tilegrid.Wall) bool { return w != nil && p.X-hw <= w.Rect.MaxX }
		if w := g.WallAt(row, col-1); hitsLeft(w) {
			p.X = w.Rect.MaxX + hw + 1
		}
		if sw := g.RowOf(p.Y + hh - 1); sw != row {
			if w := g.WallAt(sw, col-1); hitsLeft(w) && !(in.Down && d.DyTop <= d.DxRight) {
				p.X = w.Rect.MaxX + hw + 1
			}
		}
		if nw := g.RowOf(p.Y - hh); nw != row {
			if w := g.WallAt(nw, col-1); hitsLeft(w) && !(in.Up && d.DyBottom <= d.DxRight) {
				p.X = w.Rect.MaxX + hw + 1
			}
		}
	}
	if in.Right {
		hitsRight := func(w *tilegrid.Wall) bool { return w != nil && p.X+hw >= w.Rect.MinX }
		if w := g.WallAt(row, col+1); hitsRight(w) {
			p.X = w.Rect.MinX - hw - 1
		}
		if se := g.RowOf(p.Y + hh - 1); se != row {
			if w := g.WallAt(se, col+1); hitsRight(w) && !(in.Down && d.DyTop <= d.DxLeft) {
				p.X = w.Rect.MinX - hw - 1
			}
		}
		if ne := g.RowOf(p.Y - hh); ne != row {
			if w := g.WallAt(ne, col+1); hitsRight(w) && !(in.Up && d.DyBottom <= d.DxLeft) {
				p.X = w.Rect.MinX - hw - 1
			}
		}
	}
	if in.Up {
		hitsUp := func(w *tilegrid.Wall) bool { return w != nil && p.Y-hh <= w.Rect.MaxY }
		if w := g.WallAt(row-1, col); hitsUp(w) {
			p.Y = w.Rect.MaxY + hh + 1
		}
		if ne := g.ColOf(p.X + hw - 1); ne != col {
			if w := g.WallAt(row-1, ne); hitsUp(w) && !(in.Right && d.DyBottom > d.DxLeft) {
				p.Y = w.Rect.MaxY + hh + 1
			}
		}
		if nw := g.ColOf(p.X - hw); nw != col {
			if w := g.WallAt(row-1, nw); hitsUp(w) && !(in.Left && d.DyBottom > d.DxRight) {
				p.Y = w.Rect.MaxY + hh + 1
			}
		}
	}
	if in.Down {
		hitsDown := func(w *tilegrid.Wall) bool { return w != nil && p.Y+hh >= w.Rect.MinY }
		if w := g.WallAt(row+1, col); hitsDown(w) {
			p.Y = w.Rect.MinY - hh - 1
		}
		if se := g.ColOf(p.X + hw - 1); se != col {
			if w := g.WallAt(row+1, se); hitsDown(w) && !(in.Right && d.DyTop > d.DxLeft) {
				p.Y = w.Rect.MinY - hh - 1
			}
		}
		if sw := g.ColOf(p.X - hw); sw != col {
			if w := g.WallAt(row+1, sw); hitsDown(w) && !(in.Left && d.DyTop > d.DxRight) {
				p.Y = w.Rect.MinY - hh - 1
			}
		}
	}
	return p
}
