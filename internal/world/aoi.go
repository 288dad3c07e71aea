package world

import (
	"math"

	"github.com/swarmgrid/swarmcore/internal/core/ecs"
	"github.com/swarmgrid/swarmcore/internal/geom"
)

// AOIGrid is a cell-based spatial index over creature positions. A 3x3
// neighbourhood of cells covers every creature that can touch another one
// within a frame, so collision checks never scan the whole level.
// Accessed only from the game loop goroutine, no locks.
type AOIGrid struct {
	cellSize float64
	cells    map[cellKey]map[ecs.EntityID]struct{}
}

type cellKey struct {
	cx int32
	cy int32
}

func NewAOIGrid(cellSize float64) *AOIGrid {
	return &AOIGrid{
		cellSize: cellSize,
		cells:    make(map[cellKey]map[ecs.EntityID]struct{}),
	}
}

func (g *AOIGrid) key(p geom.Point) cellKey {
	return cellKey{
		cx: int32(math.Floor(p.X / g.cellSize)),
		cy: int32(math.Floor(p.Y / g.cellSize)),
	}
}

// Add places an entity into the grid.
func (g *AOIGrid) Add(id ecs.EntityID, p geom.Point) {
	k := g.key(p)
	cell := g.cells[k]
	if cell == nil {
		cell = make(map[ecs.EntityID]struct{})
		g.cells[k] = cell
	}
	cell[id] = struct{}{}
}

// Remove takes an entity out of the grid.
func (g *AOIGrid) Remove(id ecs.EntityID, p geom.Point) {
	k := g.key(p)
	cell := g.cells[k]
	if cell != nil {
		delete(cell, id)
		if len(cell) == 0 {
			delete(g.cells, k)
		}
	}
}

// Move updates an entity's cell when its position changes.
func (g *AOIGrid) Move(id ecs.EntityID, from, to geom.Point) {
	if g.key(from) == g.key(to) {
		return
	}
	g.Remove(id, from)
	g.Add(id, to)
}

// Nearby appends to dst every entity in the 3x3 neighbourhood of cells
// around p. Caller does fine-grained filtering.
func (g *AOIGrid) Nearby(dst []ecs.EntityID, p geom.Point) []ecs.EntityID {
	k := g.key(p)
	for dx := int32(-1); dx <= 1; dx++ {
		for dy := int32(-1); dy <= 1; dy++ {
			for id := range g.cells[cellKey{cx: k.cx + dx, cy: k.cy + dy}] {
				dst = append(dst, id)
			}
		}
	}
	return dst
}

// Clear empties the grid.
func (g *AOIGrid) Clear() {
	clear(g.cells)
}
