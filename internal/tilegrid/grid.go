// Package tilegrid holds the static wall layout of a level and answers
// point and neighbour lookups against it.
package tilegrid

import (
	"fmt"
	"math"

	"github.com/swarmgrid/swarmcore/internal/geom"
)

// Code is the tile value stored in level files.
type Code uint8

const (
	Empty     Code = 0
	WallGray  Code = 1 // indestructible
	WallGreen Code = 2
	WallBlue  Code = 3
	Exit      Code = 9
)

// IsWall reports whether the code produces a wall.
func (c Code) IsWall() bool {
	return c == WallGray || c == WallGreen || c == WallBlue
}

// Destructible reports whether a weapon can remove the wall.
func (c Code) Destructible() bool {
	return c == WallGreen || c == WallBlue
}

// Wall is one solid tile.
type Wall struct {
	Row, Col int
	Code     Code
	Rect     geom.Rect
}

func (w *Wall) Destructible() bool { return w.Code.Destructible() }

// Deltas are the distances from a point to the four edges of the tile that contains it.
type Deltas struct {
	DxLeft, DxRight, DyTop, DyBottom float64
}

// Grid is the wall layout of one level. Walls are mutated only through RemoveWall.
type Grid struct {
	rows, cols int
	tileSize   float64
	walls      []*Wall // flat [row*cols+col], nil for open tiles

	exitRow, exitCol int
	hasExit          bool
}

// New builds a grid from a rectangular matrix of tile codes.
func New(codes [][]Code, tileSize float64) (*Grid, error) {
	if tileSize <= 0 {
		return nil, fmt.Errorf("tilegrid: tile size must be positive, got %v", tileSize)
	}
	if len(codes) == 0 || len(codes[0]) == 0 {
		return nil, fmt.Errorf("tilegrid: empty tile matrix")
	}
	rows, cols := len(codes), len(codes[0])
	g := &Grid{
		rows:     rows,
		cols:     cols,
		tileSize: tileSize,
		walls:    make([]*Wall, rows*cols),
	}
	for r, line := range codes {
		if len(line) != cols {
			return nil, fmt.Errorf("tilegrid: row %d has %d columns, want %d", r, len(line), cols)
		}
		for c, code := range line {
			switch {
			case code.IsWall():
				g.walls[r*cols+c] = &Wall{Row: r, Col: c, Code: code, Rect: g.TileRect(r, c)}
			case code == Exit:
				if g.hasExit {
					return nil, fmt.Errorf("tilegrid: second exit at (%d,%d), first at (%d,%d)", r, c, g.exitRow, g.exitCol)
				}
				g.exitRow, g.exitCol, g.hasExit = r, c, true
			case code == Empty:
			default:
				return nil, fmt.Errorf("tilegrid: unknown tile code %d at (%d,%d)", code, r, c)
			}
		}
	}
	return g, nil
}

func (g *Grid) Rows() int         { return g.rows }
func (g *Grid) Cols() int         { return g.cols }
func (g *Grid) TileSize() float64 { return g.tileSize }
func (g *Grid) Width() float64    { return float64(g.cols) * g.tileSize }
func (g *Grid) Height() float64   { return float64(g.rows) * g.tileSize }

func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

// WallAt returns the wall at (row, col), or nil when open or out of range.
func (g *Grid) WallAt(row, col int) *Wall {
	if !g.InBounds(row, col) {
		return nil
	}
	return g.walls[row*g.cols+col]
}

// Solid reports whether (row, col) blocks movement.
func (g *Grid) Solid(row, col int) bool {
	return g.WallAt(row, col) != nil
}

// RemoveWall clears a destructible wall. Indestructible walls and open tiles
// are left alone and report false.
func (g *Grid) RemoveWall(row, col int) bool {
	w := g.WallAt(row, col)
	if w == nil || !w.Destructible() {
		return false
	}
	g.walls[row*g.cols+col] = nil
	return true
}

// Walls returns every remaining wall in row-major order.
func (g *Grid) Walls() []*Wall {
	out := make([]*Wall, 0, len(g.walls))
	for _, w := range g.walls {
		if w != nil {
			out = append(out, w)
		}
	}
	return out
}

// TileRect is the pixel rectangle of (row, col).
func (g *Grid) TileRect(row, col int) geom.Rect {
	x, y := float64(col)*g.tileSize, float64(row)*g.tileSize
	return geom.Rect{MinX: x, MinY: y, MaxX: x + g.tileSize, MaxY: y + g.tileSize}
}

// CellOf returns the tile containing p.
func (g *Grid) CellOf(p geom.Point) (row, col int) {
	return g.RowOf(p.Y), g.ColOf(p.X)
}

func (g *Grid) RowOf(y float64) int { return int(math.Floor(y / g.tileSize)) }
func (g *Grid) ColOf(x float64) int { return int(math.Floor(x / g.tileSize)) }

// Center returns the centre point of (row, col).
func (g *Grid) Center(row, col int) geom.Point {
	return geom.Point{
		X: (float64(col) + 0.5) * g.tileSize,
		Y: (float64(row) + 0.5) * g.tileSize,
	}
}

// Deltas returns the distances from p to the edges of its own tile.
func (g *Grid) Deltas(p geom.Point) Deltas {
	row, col := g.CellOf(p)
	return Deltas{
		DxLeft:   p.X - float64(col)*g.tileSize,
		DxRight:  float64(col+1)*g.tileSize - p.X,
		DyTop:    p.Y - float64(row)*g.tileSize,
		DyBottom: float64(row+1)*g.tileSize - p.Y,
	}
}

// Exit returns the exit portal cell if the level has one.
func (g *Grid) Exit() (row, col int, ok bool) {
	return g.exitRow, g.exitCol, g.hasExit
}

// Overlaps reports whether r intersects any solid tile.
func (g *Grid) Overlaps(r geom.Rect) bool {
	r0, r1 := g.RowOf(r.MinY), g.RowOf(math.Nextafter(r.MaxY, math.Inf(-1)))
	c0, c1 := g.ColOf(r.MinX), g.ColOf(math.Nextafter(r.MaxX, math.Inf(-1)))
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			if w := g.WallAt(row, col); w != nil && w.Rect.Intersects(r) {
				return true
			}
		}
	}
	return false
}
