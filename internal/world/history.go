package world

import "github.com/swarmgrid/swarmcore/internal/geom"

// History is a fixed ring of the most recent committed positions.
type History struct {
	buf  []geom.Point
	next int
}

// NewHistory returns a ring of n samples, all set to p. n below 2 is raised
// to 2 so that "unchanged" always compares at least two frames.
func NewHistory(n int, p geom.Point) *History {
	h := &History{buf: make([]geom.Point, max(n, 2))}
	h.Reset(p)
	return h
}

// Push records a committed position, overwriting the oldest sample.
func (h *History) Push(p geom.Point) {
	h.buf[h.next] = p
	h.next = (h.next + 1) % len(h.buf)
}

// Reset fills every sample with p.
func (h *History) Reset(p geom.Point) {
	for i := range h.buf {
		h.buf[i] = p
	}
	h.next = 0
}

// Still reports whether every sample is the same position.
func (h *History) Still() bool {
	first := h.buf[0]
	for _, p := range h.buf[1:] {
		if p != first {
			return false
		}
	}
	return true
}

// Latest returns the most recently pushed sample.
func (h *History) Latest() geom.Point {
	return h.buf[(h.next+len(h.buf)-1)%len(h.buf)]
}

// Len returns the ring size.
func (h *History) Len() int { return len(h.buf) }
