package pathfind

// Path is a stack of waypoints: the node next to the target sits at the
// bottom and the next node to walk to sits on top.
type Path struct {
	nodes []*Node
}

func (p *Path) Len() int       { return len(p.nodes) }
func (p *Path) Empty() bool    { return len(p.nodes) == 0 }
func (p *Path) Clear()         { p.nodes = nil }
func (p *Path) Nodes() []*Node { return p.nodes }

// Peek returns the next waypoint, or nil when the path is empty.
func (p *Path) Peek() *Node {
	if len(p.nodes) == 0 {
		return nil
	}
	return p.nodes[len(p.nodes)-1]
}

// Pop removes and returns the next waypoint. Popping an empty path is a bug
// in the caller.
func (p *Path) Pop() *Node {
	if len(p.nodes) == 0 {
		panic("pathfind: pop from empty path")
	}
	n := p.nodes[len(p.nodes)-1]
	p.nodes = p.nodes[:len(p.nodes)-1]
	return n
}
