package pathfind

import (
	"math"

	"github.com/swarmgrid/swarmcore/internal/geom"
	"github.com/swarmgrid/swarmcore/internal/motion"
	"github.com/swarmgrid/swarmcore/internal/tilegrid"
)

// Situation is what a navigator needs to know about its agent this frame.
type Situation struct {
	Grid       *tilegrid.Grid
	Pos        geom.Point
	Target     geom.Point
	Box        geom.Box
	Obstructed bool    // no line of sight to Target
	Stuck      bool    // no displacement over the whole position history
	Elapsed    float64 // game-ms since the last frame
	Arrive     float64 // direct pursuit stops inside this distance
}

// Navigator owns one agent's replanning timer and current route.
type Navigator struct {
	Interval  float64 // game-ms between graph rebuilds
	Threshold float64 // a waypoint counts as reached inside this many px on both axes
	MinRadius int     // smallest node window, in tiles

	timer float64
	graph *Graph
	path  Path
}

// NewNavigator returns a navigator whose first replan waits stagger game-ms,
// so a wave of agents does not rebuild graphs on the same frame.
func NewNavigator(interval, threshold float64, minRadius int, stagger float64) *Navigator {
	return &Navigator{
		Interval:  interval,
		Threshold: threshold,
		MinRadius: minRadius,
		timer:     stagger,
	}
}

// Stagger spreads first replans over the interval by spawn index.
func Stagger(index int, interval float64) float64 {
	if interval <= 0 {
		return 0
	}
	return math.Mod(float64(9*index), interval)
}

// Steer returns the movement intent for this frame. With the target in sight
// it drops any route and heads straight for it. Otherwise it replans when the
// timer has run out (or at once when stuck) and follows the route.
func (n *Navigator) Steer(s Situation) motion.Intent {
	if !s.Obstructed {
		n.graph = nil
		n.path.Clear()
		if geom.Distance(s.Pos, s.Target) > s.Arrive {
			return SteerTowards(s.Pos, s.Target)
		}
		return motion.Intent{}
	}

	// A stuck agent replans early, but not more than four times per interval.
	if s.Stuck && n.timer < n.Interval*3/4 {
		n.timer = 0
	}
	if n.timer <= 0 {
		n.Replan(s.Grid, s.Pos, s.Target, s.Box)
		n.timer = n.Interval
	}
	n.timer -= s.Elapsed

	next := n.path.Peek()
	if next == nil {
		return motion.Intent{}
	}
	if n.path.Len() > 1 && n.reached(s.Pos, next) {
		n.path.Pop()
		next = n.path.Peek()
	}
	return SteerTowards(s.Pos, next.Point())
}

// Replan rebuilds the node window around the midpoint of pos and target and
// searches it.
func (n *Navigator) Replan(g *tilegrid.Grid, pos, target geom.Point, box geom.Box) {
	pr, pc := g.CellOf(pos)
	tr, tc := g.CellOf(target)
	row, col := Midpoint(pr, pc, tr, tc)
	radius := RadiusFor(g, pos, target, box, n.MinRadius)
	n.graph = GenerateNodes(g, row, col, radius, box)
	n.path = FindShortestPath(n.graph, pos, target)
}

func (n *Navigator) reached(p geom.Point, node *Node) bool {
	dx, dy := node.X-p.X, node.Y-p.Y
	return dx < n.Threshold && dx > -n.Threshold && dy < n.Threshold && dy > -n.Threshold
}

// Path returns the current route. It is empty while the target is in sight.
func (n *Navigator) Path() *Path { return &n.path }

// Graph returns the most recent node window, or nil.
func (n *Navigator) Graph() *Graph { return n.graph }

// Timer returns the game-ms left before the next replan.
func (n *Navigator) Timer() float64 { return n.timer }

// SteerTowards sets the flags that move from toward to. An axis that is
// already aligned gets no flag.
func SteerTowards(from, to geom.Point) motion.Intent {
	return motion.Intent{
		Up:    from.Y > to.Y,
		Down:  from.Y < to.Y,
		Left:  from.X > to.X,
		Right: from.X < to.X,
	}
}
