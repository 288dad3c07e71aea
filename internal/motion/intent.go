// Package motion turns movement intent into pixel displacement and resolves
// that displacement against walls and other creatures.
package motion

// Dir indexes the four cardinal movement directions.
type Dir uint8

const (
	DirUp Dir = iota
	DirDown
	DirLeft
	DirRight
)

// Intent is the set of directions a creature wants to move in this frame.
type Intent struct {
	Up, Down, Left, Right bool
}

// Axes returns the net step sign on each axis. Opposing flags cancel.
func (i Intent) Axes() (h, v int) {
	if i.Right {
		h++
	}
	if i.Left {
		h--
	}
	if i.Down {
		v++
	}
	if i.Up {
		v--
	}
	return h, v
}

// Any reports whether any direction is requested.
func (i Intent) Any() bool { return i.Up || i.Down || i.Left || i.Right }

// Without clears every direction set in b.
func (i Intent) Without(b Blocked) Intent {
	return Intent{
		Up:    i.Up && !b.Up,
		Down:  i.Down && !b.Down,
		Left:  i.Left && !b.Left,
		Right: i.Right && !b.Right,
	}
}

// Blocked records the directions vetoed by other creatures this frame.
type Blocked struct {
	Up, Down, Left, Right bool
}

func (b Blocked) Any() bool { return b.Up || b.Down || b.Left || b.Right }

// Merge ORs o into b.
func (b *Blocked) Merge(o Blocked) {
	b.Up = b.Up || o.Up
	b.Down = b.Down || o.Down
	b.Left = b.Left || o.Left
	b.Right = b.Right || o.Right
}

// Count returns how many directions are blocked.
func (b Blocked) Count() int {
	n := 0
	for _, v := range [...]bool{b.Up, b.Down, b.Left, b.Right} {
		if v {
			n++
		}
	}
	return n
}
