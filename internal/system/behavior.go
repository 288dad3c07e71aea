package system

import (
	"github.com/swarmgrid/swarmcore/internal/core/ecs"
	"github.com/swarmgrid/swarmcore/internal/geom"
	"github.com/swarmgrid/swarmcore/internal/motion"
	"github.com/swarmgrid/swarmcore/internal/pathfind"
	"github.com/swarmgrid/swarmcore/internal/scripting"
	"github.com/swarmgrid/swarmcore/internal/world"
)

// InputMapper is the player's Behavior: the latest command becomes the
// movement intent and the aim becomes the facing.
type InputMapper struct {
	cmd  world.Command
	fire bool // latched until the weapon consumes it
}

func NewInputMapper() *InputMapper { return &InputMapper{} }

// Apply replaces the current command. A fire request survives later
// commands until consumed.
func (m *InputMapper) Apply(cmd world.Command) {
	m.cmd = cmd
	if cmd.Fire {
		m.fire = true
	}
}

// Reset forgets all held controls, used when a level loads.
func (m *InputMapper) Reset() { *m = InputMapper{} }

// Aim returns the requested aim angle, if the client sent one.
func (m *InputMapper) Aim() (float64, bool) { return m.cmd.Aim, m.cmd.HasAim }

// ConsumeFire reports and clears a pending fire request.
func (m *InputMapper) ConsumeFire() bool {
	f := m.fire
	m.fire = false
	return f
}

func (m *InputMapper) Plan(_ *world.State, c *world.Creature, _ world.Frame) {
	in := motion.Intent{Up: m.cmd.Up, Down: m.cmd.Down, Left: m.cmd.Left, Right: m.cmd.Right}
	c.SetIntent(in)
	if m.cmd.HasAim {
		c.Facing = geom.DirectionOf(m.cmd.Aim)
	} else if d, ok := geom.DirectionFromAxes(in.Axes()); ok {
		c.Facing = d
	}
}

// Decider picks what a hostile does this frame.
type Decider interface {
	DecideHostile(ctx scripting.HostileContext) scripting.Decision
}

// PathSettings configure every hostile's navigator.
type PathSettings struct {
	IntervalMS        float64
	WaypointThreshold float64
	MinRadius         int
}

// HostilePlanner is the Behavior shared by all hostiles. Navigators live in
// a component store keyed by entity so they go away with the creature.
type HostilePlanner struct {
	navs    *ecs.PtrComponentStore[pathfind.Navigator]
	set     PathSettings
	decider Decider
}

// NewHostilePlanner registers the navigator store with reg. decider may be
// nil, in which case every hostile chases.
func NewHostilePlanner(reg *ecs.Registry, set PathSettings, decider Decider) *HostilePlanner {
	p := &HostilePlanner{
		navs:    ecs.NewPtrComponentStore[pathfind.Navigator](),
		set:     set,
		decider: decider,
	}
	reg.Register(p.navs)
	return p
}

// Attach gives c a navigator whose replan timer is staggered by spawn order.
func (p *HostilePlanner) Attach(c *world.Creature) {
	stagger := pathfind.Stagger(c.Index, p.set.IntervalMS)
	p.navs.Set(c.ID, pathfind.NewNavigator(p.set.IntervalMS, p.set.WaypointThreshold, p.set.MinRadius, stagger))
	c.Behavior = p
}

// Navigator returns the navigator of c, if attached.
func (p *HostilePlanner) Navigator(c *world.Creature) (*pathfind.Navigator, bool) {
	return p.navs.Get(c.ID)
}

// Navigators returns how many hostiles currently own a navigator.
func (p *HostilePlanner) Navigators() int { return p.navs.Len() }

func (p *HostilePlanner) Plan(s *world.State, c *world.Creature, f world.Frame) {
	target := s.Player()
	if target == nil || !target.Active() {
		c.Distance, c.InRange, c.Obstructed = 0, false, false
		c.SetIntent(motion.Intent{})
		return
	}
	c.Distance = geom.Distance(c.Pos, target.Pos)
	c.InRange = s.TargetInRange(c, target)
	c.Obstructed = s.LineOfSightObstructed(c, target)

	switch c.State() {
	case world.Attacking, world.AttackingCooldown:
		c.SetIntent(motion.Intent{})
		return
	}

	decision := scripting.Chase
	if p.decider != nil {
		decision = p.decider.DecideHostile(p.context(s, c, target))
	}
	switch decision {
	case scripting.Hold:
		c.SetIntent(motion.Intent{})
	case scripting.Flee:
		c.SetIntent(pathfind.SteerTowards(target.Pos, c.Pos))
	default:
		nav, ok := p.navs.Get(c.ID)
		if !ok {
			p.Attach(c)
			nav, _ = p.navs.Get(c.ID)
		}
		c.SetIntent(nav.Steer(pathfind.Situation{
			Grid:       s.Grid,
			Pos:        c.Pos,
			Target:     target.Pos,
			Box:        c.Box,
			Obstructed: c.Obstructed,
			Stuck:      c.Stuck(),
			Elapsed:    f.Factor,
			Arrive:     c.Box.Width(),
		}))
	}
}

func (p *HostilePlanner) context(s *world.State, c, target *world.Creature) scripting.HostileContext {
	return scripting.HostileContext{
		ID:          uint64(c.ID),
		Kind:        c.Kind.Name,
		Index:       c.Index,
		X:           c.Pos.X,
		Y:           c.Pos.Y,
		Health:      c.Health,
		MaxHealth:   c.MaxHealth,
		State:       c.State().String(),
		TargetAlive: target.Active(),
		TargetX:     target.Pos.X,
		TargetY:     target.Pos.Y,
		TargetDist:  c.Distance,
		InRange:     c.InRange,
		Obstructed:  c.Obstructed,
		Stuck:       c.Stuck(),
		LevelTimeMS: s.LevelTime(),
	}
}

// AttachBehaviors installs the spawn hook that gives the player the input
// mapper and every hostile the planner.
func AttachBehaviors(ws *world.State, planner *HostilePlanner, mapper *InputMapper) {
	ws.OnSpawn = func(c *world.Creature) {
		if c.Hostile {
			planner.Attach(c)
			return
		}
		c.Behavior = mapper
	}
}
