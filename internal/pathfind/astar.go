package pathfind

import (
	"container/heap"
	"math"

	"github.com/swarmgrid/swarmcore/internal/geom"
)

type neighbor struct {
	dr, dc   int
	cost     float64
	diagonal bool
}

var neighborOffsets = [...]neighbor{
	{dr: -1, dc: 0, cost: 1},
	{dr: 0, dc: 1, cost: 1},
	{dr: 1, dc: 0, cost: 1},
	{dr: 0, dc: -1, cost: 1},
	{dr: -1, dc: 1, cost: math.Sqrt2, diagonal: true},
	{dr: 1, dc: 1, cost: math.Sqrt2, diagonal: true},
	{dr: 1, dc: -1, cost: math.Sqrt2, diagonal: true},
	{dr: -1, dc: -1, cost: math.Sqrt2, diagonal: true},
}

// octile distance in tiles.
func heuristic(a, b *Node) float64 {
	dx := math.Abs(float64(a.Col - b.Col))
	dy := math.Abs(float64(a.Row - b.Row))
	if dx > dy {
		return dx + (math.Sqrt2-1)*dy
	}
	return dy + (math.Sqrt2-1)*dx
}

type searchNode struct {
	node   *Node
	g, f   float64
	seq    int
	index  int
	parent *searchNode
}

type openQueue []*searchNode

func (q openQueue) Len() int { return len(q) }

func (q openQueue) Less(i, j int) bool {
	if q[i].f != q[j].f {
		return q[i].f < q[j].f
	}
	return q[i].seq < q[j].seq
}

func (q openQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *openQueue) Push(x any) {
	item := x.(*searchNode)
	item.index = len(*q)
	*q = append(*q, item)
}

func (q *openQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*q = old[:n-1]
	return item
}

// FindShortestPath searches gr from the node under from to the node under to.
// It moves in eight directions but never cuts a corner past a blocked
// orthogonal neighbour. The path is empty when either end is outside the
// window or no route exists.
func FindShortestPath(gr *Graph, from, to geom.Point) Path {
	start := gr.Locate(from)
	goal := gr.Locate(to)
	if start == nil || goal == nil {
		return Path{}
	}
	if !start.Walkable {
		if start = gr.closestWalkable(start); start == nil {
			return Path{}
		}
	}
	if !goal.Walkable {
		if goal = gr.closestWalkable(goal); goal == nil {
			return Path{}
		}
	}

	open := &openQueue{}
	seq := 0
	heap.Push(open, &searchNode{node: start, f: heuristic(start, goal)})
	gScore := map[*Node]float64{start: 0}
	closed := make(map[*Node]struct{})

	for open.Len() > 0 {
		current := heap.Pop(open).(*searchNode)
		if _, seen := closed[current.node]; seen {
			continue
		}
		closed[current.node] = struct{}{}
		current.node.Visited = true
		if current.node == goal {
			return reconstruct(current)
		}

		for _, d := range neighborOffsets {
			row, col := current.node.Row+d.dr, current.node.Col+d.dc
			if !gr.walkable(row, col) {
				continue
			}
			if d.diagonal && !(gr.walkable(current.node.Row, col) && gr.walkable(row, current.node.Col)) {
				continue
			}
			next := gr.Node(row, col)
			if _, seen := closed[next]; seen {
				continue
			}
			tentative := current.g + d.cost
			if prev, ok := gScore[next]; ok && tentative >= prev {
				continue
			}
			gScore[next] = tentative
			seq++
			heap.Push(open, &searchNode{
				node:   next,
				g:      tentative,
				f:      tentative + heuristic(next, goal),
				seq:    seq,
				parent: current,
			})
		}
	}
	return Path{}
}

// reconstruct walks parents from the goal, which leaves the goal first and the
// agent's own node last.
func reconstruct(end *searchNode) Path {
	var nodes []*Node
	for n := end; n != nil; n = n.parent {
		nodes = append(nodes, n.node)
	}
	return Path{nodes: nodes}
}

// closestWalkable finds the nearest walkable node by breadth-first search over
// the window.
func (gr *Graph) closestWalkable(from *Node) *Node {
	visited := map[*Node]struct{}{from: {}}
	queue := []*Node{from}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current.Walkable {
			return current
		}
		for _, d := range neighborOffsets {
			next := gr.Node(current.Row+d.dr, current.Col+d.dc)
			if next == nil {
				continue
			}
			if _, seen := visited[next]; seen {
				continue
			}
			visited[next] = struct{}{}
			queue = append(queue, next)
		}
	}
	return nil
}
