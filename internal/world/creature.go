package world

import (
	"fmt"

	"github.com/swarmgrid/swarmcore/internal/core/ecs"
	"github.com/swarmgrid/swarmcore/internal/data"
	"github.com/swarmgrid/swarmcore/internal/geom"
	"github.com/swarmgrid/swarmcore/internal/motion"
	"github.com/swarmgrid/swarmcore/internal/tilegrid"
)

// Behavior decides a creature's intent for the frame. Hostiles get an AI
// planner, the player gets an input mapper.
type Behavior interface {
	Plan(s *State, c *Creature, f Frame)
}

// Attack tracks the windup and cooldown timers of a melee attack, in game-ms.
type Attack struct {
	Damage      float64
	WindupMax   float64
	CooldownMax float64

	windup   float64
	cooldown float64
}

func newAttack(spec data.AttackSpec) Attack {
	return Attack{
		Damage:      spec.Damage,
		WindupMax:   spec.WindupMS,
		CooldownMax: spec.CooldownMS,
		windup:      spec.WindupMS,
		cooldown:    spec.CooldownMS,
	}
}

// InProgress reports whether a windup has started.
func (a *Attack) InProgress() bool { return a.windup < a.WindupMax }

// Cool runs the cooldown down while no windup is in progress.
func (a *Attack) Cool(factor float64) {
	if !a.InProgress() {
		a.cooldown = max(0, a.cooldown-factor)
	}
}

// WindUp advances the windup once the cooldown has fully elapsed.
func (a *Attack) WindUp(factor float64) {
	if a.cooldown == 0 && a.windup > 0 {
		a.windup -= factor
	}
}

// Ready reports whether the attack executes this frame.
func (a *Attack) Ready() bool { return a.windup <= 0 && a.cooldown <= 0 }

// Execute resets both timers.
func (a *Attack) Execute() {
	a.windup = a.WindupMax
	a.cooldown = a.CooldownMax
}

// Windup and Cooldown return the remaining game-ms of each timer.
func (a *Attack) Windup() float64   { return a.windup }
func (a *Attack) Cooldown() float64 { return a.cooldown }

// Creature is the single record shared by the player and every hostile.
// Accessed only from the game loop goroutine.
type Creature struct {
	ID      ecs.EntityID
	Kind    *data.Kind
	Hostile bool
	Index   int // spawn order, 0 for the player

	Pos    geom.Point
	Row    int
	Col    int
	Deltas tilegrid.Deltas
	Box    geom.Box
	Speed  motion.Speed
	Facing geom.Direction

	Intent  motion.Intent
	Blocked motion.Blocked
	Acc     motion.Accumulator

	Health    float64
	MaxHealth float64
	Attack    Attack

	// Planning results of the current frame.
	Distance   float64
	InRange    bool
	Obstructed bool

	Behavior Behavior

	state   CreatureState
	anims   AnimationSet
	anim    Animation
	history *History
}

func newCreature(id ecs.EntityID, kind *data.Kind, anims AnimationSet, pos geom.Point, health float64, historySize int) *Creature {
	c := &Creature{
		ID:        id,
		Kind:      kind,
		Hostile:   kind.Hostile,
		Pos:       pos,
		Box:       geom.NewBox(kind.Width, kind.Height),
		Speed:     motion.NewSpeed(kind.Speed),
		Facing:    geom.Down,
		Health:    min(health, kind.MaxHealth),
		MaxHealth: kind.MaxHealth,
		Attack:    newAttack(kind.Attack),
		anims:     anims,
		history:   NewHistory(historySize, pos),
	}
	c.anim = anims.For(Idling)
	return c
}

// State returns the lifecycle state.
func (c *Creature) State() CreatureState { return c.state }

// Active reports whether the creature still moves, attacks and blocks.
func (c *Creature) Active() bool { return c.state.Active() }

// Animation returns the animation of the current state.
func (c *Creature) Animation() *Animation { return &c.anim }

// History returns the committed position ring.
func (c *Creature) History() *History { return c.history }

// Stuck reports whether the creature wants to move but has not moved over
// the whole history.
func (c *Creature) Stuck() bool { return c.Intent.Any() && c.history.Still() }

// Rect returns the collision rectangle at the committed position.
func (c *Creature) Rect() geom.Rect { return c.Box.At(c.Pos) }

// SetState moves the creature along one edge of the lifecycle graph and
// resets the new state's sub-timers. Setting the current state is a no-op.
// An illegal edge is a bug in the caller and panics.
func (c *Creature) SetState(next CreatureState) {
	if c.state == next {
		return
	}
	if !CanTransition(c.state, next) {
		panic(fmt.Sprintf("world: creature %d: illegal transition %s -> %s", c.ID, c.state, next))
	}
	c.state = next
	c.anim = c.anims.For(next)
	switch next {
	case Attacking:
		c.Attack.windup = c.Attack.WindupMax
	case AttackingCooldown:
		c.Attack.cooldown = c.Attack.CooldownMax
	case Dying:
		c.Intent = motion.Intent{}
		c.Blocked = motion.Blocked{}
	}
}

// SetIntent replaces the movement intent. Intents of dying and decaying
// creatures are ignored.
func (c *Creature) SetIntent(in motion.Intent) {
	c.mustNotBeRemoved("set intent")
	if !c.Active() {
		return
	}
	c.Intent = in
}

// TakeDamage subtracts amount from health and reports whether this hit
// killed the creature. Hits on dying or decaying creatures are ignored.
func (c *Creature) TakeDamage(amount float64) bool {
	c.mustNotBeRemoved("take damage")
	if !c.Active() {
		return false
	}
	c.Health = max(0, c.Health-amount)
	if c.Health <= 0 {
		c.SetState(Dying)
		return true
	}
	return false
}

// Project returns where the creature would be after this frame's
// integration, ignoring collisions, without consuming the accumulator.
func (c *Creature) Project(factor float64) motion.Projected {
	c.mustNotBeRemoved("project")
	dx, dy := c.Acc.Peek(c.Intent, c.Speed, factor)
	return motion.Projected{Pos: c.Pos.Add(float64(dx), float64(dy)), Box: c.Box}
}

// Place sets the committed position and refreshes the derived grid fields.
func (c *Creature) Place(p geom.Point, g *tilegrid.Grid) {
	c.mustNotBeRemoved("move")
	c.Pos = p
	c.Row, c.Col = g.CellOf(p)
	c.Deltas = g.Deltas(p)
}

// Commit places the creature and records the position in its history.
func (c *Creature) Commit(p geom.Point, g *tilegrid.Grid) {
	c.Place(p, g)
	c.history.Push(p)
}

func (c *Creature) mustNotBeRemoved(op string) {
	if c.state == Removed {
		panic(fmt.Sprintf("world: %s on removed creature %d", op, c.ID))
	}
}
