package world

import "github.com/swarmgrid/swarmcore/internal/geom"

// Exit is the level's exit marker. It opens once no hostile remains.
type Exit struct {
	Row  int
	Col  int
	Rect geom.Rect
	open bool
}

// Open opens the exit and reports whether it was closed before.
func (e *Exit) Open() bool {
	if e.open {
		return false
	}
	e.open = true
	return true
}

func (e *Exit) IsOpen() bool { return e.open }
