package pathfind

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swarmgrid/swarmcore/internal/geom"
	"github.com/swarmgrid/swarmcore/internal/motion"
	"github.com/swarmgrid/swarmcore/internal/tilegrid"
)

var hostileBox = geom.NewBox(14, 14)

func parse(t *testing.T, rows ...string) *tilegrid.Grid {
	t.Helper()
	codes := make([][]tilegrid.Code, len(rows))
	for r, line := range rows {
		codes[r] = make([]tilegrid.Code, len(line))
		for c, ch := range line {
			if ch == '#' {
				codes[r][c] = tilegrid.WallGray
			}
		}
	}
	g, err := tilegrid.New(codes, 16)
	require.NoError(t, err)
	return g
}

// divided has a wall down column 4 with a gap on row 8.
func divided(t *testing.T) *tilegrid.Grid {
	return parse(t,
		"##########",
		"#...#....#",
		"#...#....#",
		"#...#....#",
		"#...#....#",
		"#...#....#",
		"#...#....#",
		"#...#....#",
		"#........#",
		"##########",
	)
}

func plan(g *tilegrid.Grid, from, to geom.Point) (*Graph, Path) {
	fr, fc := g.CellOf(from)
	tr, tc := g.CellOf(to)
	row, col := Midpoint(fr, fc, tr, tc)
	gr := GenerateNodes(g, row, col, RadiusFor(g, from, to, hostileBox, 4), hostileBox)
	return gr, FindShortestPath(gr, from, to)
}

func TestFindShortestPathConnected(t *testing.T) {
	g := divided(t)
	from, to := g.Center(4, 2), g.Center(4, 6)

	gr, path := plan(g, from, to)
	require.False(t, path.Empty())

	nodes := path.Nodes()
	assert.Equal(t, [2]int{4, 6}, [2]int{nodes[0].Row, nodes[0].Col}, "bottom of the stack is the target tile")
	last := nodes[len(nodes)-1]
	assert.Equal(t, [2]int{4, 2}, [2]int{last.Row, last.Col}, "top of the stack is the agent tile")

	sawGap := false
	for i, n := range nodes {
		assert.True(t, n.Walkable)
		assert.False(t, g.Solid(n.Row, n.Col))
		if n.Row == 8 && n.Col == 4 {
			sawGap = true
		}
		if i == 0 {
			continue
		}
		prev := nodes[i-1]
		dr, dc := n.Row-prev.Row, n.Col-prev.Col
		require.LessOrEqual(t, abs(dr), 1)
		require.LessOrEqual(t, abs(dc), 1)
		if dr != 0 && dc != 0 {
			assert.True(t, gr.walkable(prev.Row, n.Col) && gr.walkable(n.Row, prev.Col), "corner cut at %d,%d", n.Row, n.Col)
		}
	}
	assert.True(t, sawGap, "route must pass the gap")
}

func TestFindShortestPathRinged(t *testing.T) {
	g := parse(t,
		"##########",
		"#........#",
		"#........#",
		"#....###.#",
		"#....#.#.#",
		"#....###.#",
		"#........#",
		"#........#",
		"#........#",
		"##########",
	)
	_, path := plan(g, g.Center(4, 2), g.Center(4, 6))
	assert.True(t, path.Empty())
	assert.Equal(t, 0, path.Len())
}

func TestFindShortestPathOutsideWindow(t *testing.T) {
	g := divided(t)
	gr := GenerateNodes(g, 1, 1, 1, hostileBox)
	path := FindShortestPath(gr, g.Center(1, 1), g.Center(8, 8))
	assert.True(t, path.Empty())
}

func TestGenerateNodes(t *testing.T) {
	g := divided(t)
	gr := GenerateNodes(g, 0, 0, 2, hostileBox)
	assert.Equal(t, 9, gr.Len(), "window is clipped to the grid")
	assert.Nil(t, gr.Node(3, 0))

	n := gr.Node(1, 1)
	require.NotNil(t, n)
	assert.True(t, n.Walkable)
	assert.Equal(t, 24.0, n.X)
	assert.Equal(t, 24.0, n.Y)
	assert.False(t, gr.Node(0, 1).Walkable)

	// A box wider than a tile cannot stand next to a wall.
	fat := GenerateNodes(g, 2, 2, 1, geom.NewBox(20, 20))
	assert.False(t, fat.Node(2, 1).Walkable)
	assert.True(t, fat.Node(2, 2).Walkable)
}

func TestPathPopEmptyPanics(t *testing.T) {
	var p Path
	assert.Nil(t, p.Peek())
	assert.Panics(t, func() { p.Pop() })
}

func TestSteerTowards(t *testing.T) {
	assert.Equal(t, motion.Intent{Right: true, Up: true}, SteerTowards(geom.Point{X: 0, Y: 10}, geom.Point{X: 5, Y: 0}))
	assert.Equal(t, motion.Intent{Left: true}, SteerTowards(geom.Point{X: 10, Y: 10}, geom.Point{X: 5, Y: 10}))
	assert.Equal(t, motion.Intent{}, SteerTowards(geom.Point{X: 3, Y: 3}, geom.Point{X: 3, Y: 3}))
}

func TestNavigatorReplansOnTimer(t *testing.T) {
	g := divided(t)
	nav := NewNavigator(500, 3, 4, 0)
	s := Situation{
		Grid:       g,
		Pos:        g.Center(4, 2),
		Target:     g.Center(4, 6),
		Box:        hostileBox,
		Obstructed: true,
		Elapsed:    16,
		Arrive:     14,
	}

	in := nav.Steer(s)
	require.NotNil(t, nav.Graph())
	require.False(t, nav.Path().Empty())
	assert.InDelta(t, 484, nav.Timer(), 1e-9)
	assert.True(t, in.Any())

	// The agent stood on its own node, so that waypoint was consumed.
	next := nav.Path().Peek()
	assert.False(t, next.Row == 4 && next.Col == 2)
	assert.Equal(t, SteerTowards(s.Pos, next.Point()), in)

	before := nav.Graph()
	nav.Steer(s)
	assert.Same(t, before, nav.Graph(), "no rebuild before the interval")
	assert.InDelta(t, 468, nav.Timer(), 1e-9)
}

func TestNavigatorDirectPursuit(t *testing.T) {
	g := divided(t)
	nav := NewNavigator(500, 3, 4, 0)
	s := Situation{Grid: g, Pos: g.Center(4, 2), Target: g.Center(4, 6), Box: hostileBox, Obstructed: true, Elapsed: 16, Arrive: 14}
	nav.Steer(s)
	require.False(t, nav.Path().Empty())

	s.Obstructed = false
	s.Target = geom.Point{X: 100, Y: s.Pos.Y}
	assert.Equal(t, motion.Intent{Right: true}, nav.Steer(s))
	assert.True(t, nav.Path().Empty())
	assert.Nil(t, nav.Graph())

	s.Target = s.Pos.Add(10, 0)
	assert.Equal(t, motion.Intent{}, nav.Steer(s), "close enough to stop")
}

func TestNavigatorUnreachableIdles(t *testing.T) {
	g := parse(t,
		"#######",
		"#.....#",
		"#.###.#",
		"#.#.#.#",
		"#.###.#",
		"#######",
	)
	nav := NewNavigator(500, 3, 4, 0)
	in := nav.Steer(Situation{Grid: g, Pos: g.Center(1, 1), Target: g.Center(3, 3), Box: hostileBox, Obstructed: true, Elapsed: 16})
	assert.Equal(t, motion.Intent{}, in)
	assert.True(t, nav.Path().Empty())
}

func TestStagger(t *testing.T) {
	assert.Equal(t, 0.0, Stagger(0, 500))
	assert.Equal(t, 27.0, Stagger(3, 500))
	assert.Equal(t, 400.0, Stagger(100, 500))
	assert.Equal(t, 0.0, Stagger(5, 0))
}
