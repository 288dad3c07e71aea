// Package raycast steps rays across tile boundaries to find the first wall
// they meet.
package raycast

import (
	"math"

	"github.com/swarmgrid/swarmcore/internal/geom"
	"github.com/swarmgrid/swarmcore/internal/tilegrid"
)

// Rays closer than this to an axis are treated as parallel to it.
const parallelEps = 1e-12

// distEps absorbs rounding when a hit lands exactly on the segment end.
const distEps = 1e-9

// Result is the outcome of one cast. HitPoint is always set: it is either
// where the ray meets Hit, or the point where the ray left the visible range
// when Hit is nil.
type Result struct {
	HitPoint geom.Point
	Hit      *tilegrid.Wall
	Distance float64
}

// Caster casts rays over a grid. RangeX and RangeY bound how far from the
// origin a ray is followed on each axis, usually half the view size.
type Caster struct {
	Grid   *tilegrid.Grid
	RangeX float64
	RangeY float64
}

// stop is where one stepping loop ended.
type stop struct {
	point geom.Point
	wall  *tilegrid.Wall
	dist  float64
	valid bool
}

// Cast follows the ray from origin at angle theta (screen space, y down).
// Two loops run independently, one across vertical tile boundaries and one
// across horizontal ones; the nearer hit wins. Without a hit, the nearer of
// the two range exits is returned.
func (c Caster) Cast(origin geom.Point, theta float64) Result {
	cos, sin := math.Cos(theta), math.Sin(theta)
	ox := c.octant(cos, sin)

	v := c.crossVertical(origin, cos, sin, ox)
	h := c.crossHorizontal(origin, cos, sin, ox)

	best := v
	switch {
	case v.wall != nil && h.wall != nil:
		if h.dist < v.dist {
			best = h
		}
	case h.wall != nil:
		best = h
	case v.wall != nil:
	case !v.valid || (h.valid && h.dist < v.dist):
		best = h
	}
	return Result{HitPoint: best.point, Hit: best.wall, Distance: best.dist}
}

// octant captures the stepping signs for one cast.
type octant struct {
	sx, sy int // -1, 0 or 1 per axis
}

func (Caster) octant(cos, sin float64) octant {
	var o octant
	switch {
	case cos > parallelEps:
		o.sx = 1
	case cos < -parallelEps:
		o.sx = -1
	}
	switch {
	case sin > parallelEps:
		o.sy = 1
	case sin < -parallelEps:
		o.sy = -1
	}
	return o
}

// crossVertical visits each vertical boundary x = k·T the ray crosses.
func (c Caster) crossVertical(p geom.Point, cos, sin float64, o octant) stop {
	if o.sx == 0 {
		return stop{}
	}
	t := c.Grid.TileSize()
	col := c.Grid.ColOf(p.X)
	bx := float64(col) * t
	if o.sx > 0 {
		bx += t
	}
	for i := 0; ; i++ {
		x := bx + float64(o.sx*i)*t
		dist := (x - p.X) / cos
		y := p.Y + dist*sin
		pt := geom.Point{X: x, Y: y}
		if math.Abs(x-p.X) > c.RangeX || math.Abs(y-p.Y) > c.RangeY {
			return stop{point: pt, dist: dist, valid: true}
		}
		tc := int(math.Round(x / t))
		if o.sx < 0 {
			tc--
		}
		tr := cellAlong(y, t, o.sy)
		if tc < 0 || tc >= c.Grid.Cols() || tr < 0 || tr >= c.Grid.Rows() {
			return stop{point: pt, dist: dist, valid: true}
		}
		if w := c.Grid.WallAt(tr, tc); w != nil {
			return stop{point: pt, wall: w, dist: dist, valid: true}
		}
	}
}

// crossHorizontal visits each horizontal boundary y = k·T the ray crosses.
func (c Caster) crossHorizontal(p geom.Point, cos, sin float64, o octant) stop {
	if o.sy == 0 {
		return stop{}
	}
	t := c.Grid.TileSize()
	row := c.Grid.RowOf(p.Y)
	by := float64(row) * t
	if o.sy > 0 {
		by += t
	}
	for j := 0; ; j++ {
		y := by + float64(o.sy*j)*t
		dist := (y - p.Y) / sin
		x := p.X + dist*cos
		pt := geom.Point{X: x, Y: y}
		if math.Abs(x-p.X) > c.RangeX || math.Abs(y-p.Y) > c.RangeY {
			return stop{point: pt, dist: dist, valid: true}
		}
		tr := int(math.Round(y / t))
		if o.sy < 0 {
			tr--
		}
		tc := cellAlong(x, t, o.sx)
		if tc < 0 || tc >= c.Grid.Cols() || tr < 0 || tr >= c.Grid.Rows() {
			return stop{point: pt, dist: dist, valid: true}
		}
		if w := c.Grid.WallAt(tr, tc); w != nil {
			return stop{point: pt, wall: w, dist: dist, valid: true}
		}
	}
}

// cellAlong picks the tile index containing v on an axis the ray travels
// along with sign s. A value sitting exactly on a boundary belongs to the tile
// the ray is heading into.
func cellAlong(v, t float64, s int) int {
	if s < 0 {
		return int(math.Ceil(v/t)) - 1
	}
	return int(math.Floor(v / t))
}

// Obstructed reports whether a wall lies on the segment between from and to.
func Obstructed(g *tilegrid.Grid, from, to geom.Point) bool {
	dist := geom.Distance(from, to)
	if dist == 0 {
		return false
	}
	// One tile of slack keeps near-axis rays from leaving a zero-width range.
	c := Caster{
		Grid:   g,
		RangeX: math.Abs(to.X-from.X) + g.TileSize(),
		RangeY: math.Abs(to.Y-from.Y) + g.TileSize(),
	}
	r := c.Cast(from, geom.Angle(from, to))
	return r.Hit != nil && r.Distance < dist-distEps
}
