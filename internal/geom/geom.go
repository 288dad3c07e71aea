package geom

import (
	"fmt"
	"math"
)

// Point is a pixel position in level space. Y grows downward.
type Point struct {
	X, Y float64
}

func (p Point) Add(dx, dy float64) Point { return Point{X: p.X + dx, Y: p.Y + dy} }

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Angle returns the direction from a to b in radians, in (-π, π].
// Because Y grows downward, π/2 points down the screen.
func Angle(a, b Point) float64 {
	return math.Atan2(b.Y-a.Y, b.X-a.X)
}

func (p Point) String() string { return fmt.Sprintf("(%.1f,%.1f)", p.X, p.Y) }

// Box is an axis-aligned collision box centred on its owner's position.
type Box struct {
	HalfWidth  float64
	HalfHeight float64
}

// NewBox panics on a non-positive extent; a zero-sized box is a programming error.
func NewBox(width, height float64) Box {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("geom: invalid box size %vx%v", width, height))
	}
	return Box{HalfWidth: width / 2, HalfHeight: height / 2}
}

func (b Box) Width() float64  { return b.HalfWidth * 2 }
func (b Box) Height() float64 { return b.HalfHeight * 2 }

// HalfDiagonal is the distance from the centre to a corner.
func (b Box) HalfDiagonal() float64 { return math.Hypot(b.HalfWidth, b.HalfHeight) }

// At places the box at p.
func (b Box) At(p Point) Rect {
	return Rect{
		MinX: p.X - b.HalfWidth,
		MinY: p.Y - b.HalfHeight,
		MaxX: p.X + b.HalfWidth,
		MaxY: p.Y + b.HalfHeight,
	}
}

// Rect is an axis-aligned rectangle; Max edges are exclusive.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

func (r Rect) Width() float64  { return r.MaxX - r.MinX }
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

func (r Rect) Center() Point {
	return Point{X: (r.MinX + r.MaxX) / 2, Y: (r.MinY + r.MaxY) / 2}
}

// Intersects reports a strictly positive-area overlap. Touching edges do not count.
func (r Rect) Intersects(o Rect) bool {
	return r.MinX < o.MaxX && o.MinX < r.MaxX && r.MinY < o.MaxY && o.MinY < r.MaxY
}

// Overlap returns the penetration depth on each axis. Both are zero when the
// rectangles do not intersect.
func (r Rect) Overlap(o Rect) (ox, oy float64) {
	if !r.Intersects(o) {
		return 0, 0
	}
	ox = math.Min(r.MaxX, o.MaxX) - math.Max(r.MinX, o.MinX)
	oy = math.Min(r.MaxY, o.MaxY) - math.Max(r.MinY, o.MinY)
	return ox, oy
}

// Contains reports whether p lies inside r (Max edges exclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX && p.X < r.MaxX && p.Y >= r.MinY && p.Y < r.MaxY
}

// RayHit returns the distance from o along the ray at theta to the first
// point of r. A ray starting inside r hits at distance 0.
func (r Rect) RayHit(o Point, theta float64) (float64, bool) {
	near, far := 0.0, math.Inf(1)
	axes := [2][4]float64{
		{o.X, math.Cos(theta), r.MinX, r.MaxX},
		{o.Y, math.Sin(theta), r.MinY, r.MaxY},
	}
	for _, a := range axes {
		origin, d, lo, hi := a[0], a[1], a[2], a[3]
		if math.Abs(d) < 1e-12 {
			if origin < lo || origin > hi {
				return 0, false
			}
			continue
		}
		t1, t2 := (lo-origin)/d, (hi-origin)/d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		near, far = max(near, t1), min(far, t2)
		if near > far {
			return 0, false
		}
	}
	return near, true
}
