package system

import (
	"time"

	"github.com/swarmgrid/swarmcore/internal/core/ecs"
	coresys "github.com/swarmgrid/swarmcore/internal/core/system"
	"github.com/swarmgrid/swarmcore/internal/geom"
	"github.com/swarmgrid/swarmcore/internal/motion"
	"github.com/swarmgrid/swarmcore/internal/world"
)

// MovementSystem integrates every active creature's intent, resolves
// collisions against other creatures and walls, and commits the result.
// Phase 4 (Move).
//
// All creatures are projected from the same start-of-frame positions, so a
// creature's blocked flags depend only on where its neighbours would go,
// not on who moved first. The commit guard then keeps two boxes that did
// not overlap at the start of the frame from overlapping at its end.
type MovementSystem struct {
	world     *world.State
	projected map[ecs.EntityID]motion.Projected
	start     map[ecs.EntityID]geom.Rect
	buf       []*world.Creature
}

func NewMovementSystem(ws *world.State) *MovementSystem {
	return &MovementSystem{
		world:     ws,
		projected: make(map[ecs.EntityID]motion.Projected, 64),
		start:     make(map[ecs.EntityID]geom.Rect, 64),
	}
}

func (s *MovementSystem) Phase() coresys.Phase { return coresys.PhaseMove }

func (s *MovementSystem) Update(dt time.Duration) {
	if s.world.Grid == nil {
		return
	}
	f := s.world.Frame(dt)
	creatures := s.world.Creatures()

	clear(s.projected)
	clear(s.start)
	for _, c := range creatures {
		if !c.Active() {
			continue
		}
		s.projected[c.ID] = c.Project(f.Factor)
		s.start[c.ID] = c.Rect()
	}

	for _, c := range creatures {
		if !c.Active() {
			continue
		}
		s.move(c, f)
	}
}

func (s *MovementSystem) move(c *world.Creature, f world.Frame) {
	g := s.world.Grid
	s.buf = s.world.Blockers(s.buf[:0], c)

	self := s.projected[c.ID]
	var blocked motion.Blocked
	for _, o := range s.buf {
		blocked.Merge(motion.BlockedBy(self, s.projected[o.ID]))
	}
	c.Blocked = blocked

	in := c.Intent.Without(blocked)
	dx, dy := c.Acc.Step(in, c.Speed, f.Factor)
	from := c.Pos
	next := motion.ResolveMove(g, from, dx, dy, c.Box, in)
	next = s.guard(c, from, next, dx, dy, in)

	c.Commit(next, g)
	s.world.Moved(c, from)

	if c.Hostile {
		if d, ok := geom.DirectionFromAxes(sign(next.X-from.X), sign(next.Y-from.Y)); ok {
			c.Facing = d
		}
	}

	still := c.History().Still()
	switch c.State() {
	case world.Idling:
		if !still {
			c.SetState(world.Moving)
		}
	case world.Moving:
		if still {
			c.SetState(world.Idling)
		}
	case world.MovingCooldown:
		if still {
			c.SetState(world.Idling)
		} else {
			c.SetState(world.Moving)
		}
	}
}

// guard falls back to single-axis moves, then to staying put, when next
// would push c into a creature it was clear of at the start of the frame.
func (s *MovementSystem) guard(c *world.Creature, from, next geom.Point, dx, dy int, in motion.Intent) geom.Point {
	if next == from || !s.collides(c, next) {
		return next
	}
	if dx != 0 {
		p := motion.ResolveMove(s.world.Grid, from, dx, 0, c.Box, motion.Intent{Left: in.Left, Right: in.Right})
		if p != from && !s.collides(c, p) {
			return p
		}
	}
	if dy != 0 {
		p := motion.ResolveMove(s.world.Grid, from, 0, dy, c.Box, motion.Intent{Up: in.Up, Down: in.Down})
		if p != from && !s.collides(c, p) {
			return p
		}
	}
	return from
}

func (s *MovementSystem) collides(c *world.Creature, p geom.Point) bool {
	r := c.Box.At(p)
	start := s.start[c.ID]
	for _, o := range s.buf {
		if start.Intersects(s.start[o.ID]) {
			continue
		}
		if r.Intersects(o.Rect()) {
			return true
		}
	}
	return false
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
