package motion

import "github.com/swarmgrid/swarmcore/internal/geom"

// Projected is a creature's box at the position it intends to reach this frame.
type Projected struct {
	Pos geom.Point
	Box geom.Box
}

func (p Projected) Rect() geom.Rect { return p.Box.At(p.Pos) }

// BlockedBy decides which single direction of self is vetoed by other. Nothing
// is blocked when the projected boxes do not intersect. The axis with the
// smaller overlap depth wins; an undefined or not-smaller horizontal depth
// resolves vertically.
func BlockedBy(self, other Projected) Blocked {
	var b Blocked
	if !self.Rect().Intersects(other.Rect()) {
		return b
	}
	ix, xOK := depth(self.Pos.X, self.Box.HalfWidth, other.Pos.X, other.Box.HalfWidth)
	iy, yOK := depth(self.Pos.Y, self.Box.HalfHeight, other.Pos.Y, other.Box.HalfHeight)

	switch {
	case !xOK || (yOK && ix >= iy):
		if self.Pos.Y < other.Pos.Y {
			b.Down = true
		} else {
			b.Up = true
		}
	default:
		if self.Pos.X < other.Pos.X {
			b.Right = true
		} else {
			b.Left = true
		}
	}
	return b
}

// depth is the distance between the facing edges of two boxes on one axis.
// It is undefined when the centres coincide.
func depth(a, ha, b, hb float64) (float64, bool) {
	var v float64
	switch {
	case a < b:
		v = (a + ha) - (b - hb)
	case a > b:
		v = (b + hb) - (a - ha)
	default:
		return 0, false
	}
	return v, v != 0
}
