// Package pathfind plans routes around walls when a creature cannot see its
// target, and steers creatures along them.
package pathfind

import (
	"math"

	"github.com/swarmgrid/swarmcore/internal/geom"
	"github.com/swarmgrid/swarmcore/internal/tilegrid"
)

// Node is a candidate waypoint at the centre of one tile.
type Node struct {
	X, Y     float64
	Row, Col int
	Walkable bool
	Visited  bool // expanded by the last search
}

func (n *Node) Point() geom.Point { return geom.Point{X: n.X, Y: n.Y} }

// Graph is a square window of nodes around a centre tile. It is rebuilt for
// every replan and never edited in place.
type Graph struct {
	row0, col0 int
	rows, cols int
	tileSize   float64
	nodes      []Node
}

// GenerateNodes builds the window of (2·radius+1)² tiles centred on
// (centerRow, centerCol), clipped to the grid. A node is walkable when box,
// centred on it, touches no solid tile.
func GenerateNodes(g *tilegrid.Grid, centerRow, centerCol, radius int, box geom.Box) *Graph {
	r0 := max(centerRow-radius, 0)
	c0 := max(centerCol-radius, 0)
	r1 := min(centerRow+radius, g.Rows()-1)
	c1 := min(centerCol+radius, g.Cols()-1)

	gr := &Graph{row0: r0, col0: c0, tileSize: g.TileSize()}
	if r1 < r0 || c1 < c0 {
		return gr
	}
	gr.rows, gr.cols = r1-r0+1, c1-c0+1
	gr.nodes = make([]Node, gr.rows*gr.cols)
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			c := g.Center(row, col)
			gr.nodes[(row-r0)*gr.cols+(col-c0)] = Node{
				X:        c.X,
				Y:        c.Y,
				Row:      row,
				Col:      col,
				Walkable: !g.Solid(row, col) && !g.Overlaps(box.At(c)),
			}
		}
	}
	return gr
}

// RadiusFor sizes the window so both endpoints fit with room to walk around
// obstacles: half the tile separation, plus a margin scaled by the box, and
// never less than minRadius.
func RadiusFor(g *tilegrid.Grid, from, to geom.Point, box geom.Box, minRadius int) int {
	fr, fc := g.CellOf(from)
	tr, tc := g.CellOf(to)
	span := max(abs(fr-tr), abs(fc-tc))
	extent := math.Max(box.Width(), box.Height())
	margin := 2 + int(math.Ceil(extent/g.TileSize()))
	return max(minRadius, (span+1)/2+margin)
}

// Midpoint returns the tile between two cells, rounding halves up.
func Midpoint(r1, c1, r2, c2 int) (row, col int) {
	return int(math.Round(float64(r1+r2) / 2)), int(math.Round(float64(c1+c2) / 2))
}

// Node returns the node at an absolute grid cell, or nil outside the window.
func (gr *Graph) Node(row, col int) *Node {
	r, c := row-gr.row0, col-gr.col0
	if r < 0 || c < 0 || r >= gr.rows || c >= gr.cols {
		return nil
	}
	return &gr.nodes[r*gr.cols+c]
}

// Locate returns the node whose tile contains p.
func (gr *Graph) Locate(p geom.Point) *Node {
	return gr.Node(int(math.Floor(p.Y/gr.tileSize)), int(math.Floor(p.X/gr.tileSize)))
}

// Len is the number of nodes in the window.
func (gr *Graph) Len() int { return len(gr.nodes) }

// Each visits every node in row-major order.
func (gr *Graph) Each(fn func(n *Node)) {
	for i := range gr.nodes {
		fn(&gr.nodes[i])
	}
}

func (gr *Graph) walkable(row, col int) bool {
	n := gr.Node(row, col)
	return n != nil && n.Walkable
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
