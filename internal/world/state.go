package world

import (
	"fmt"
	"time"

	"github.com/swarmgrid/swarmcore/internal/core/ecs"
	"github.com/swarmgrid/swarmcore/internal/core/event"
	"github.com/swarmgrid/swarmcore/internal/data"
	"github.com/swarmgrid/swarmcore/internal/geom"
	"github.com/swarmgrid/swarmcore/internal/raycast"
	"github.com/swarmgrid/swarmcore/internal/tilegrid"
)

// Settings are the simulation parameters the world needs from config.
type Settings struct {
	TileSize    float64
	GameSpeed   float64
	HistorySize int
	ViewWidth   float64 // visible area around the player, px
	ViewHeight  float64
}

// State owns the tile grid and every creature of the current level.
// Accessed only from the game loop goroutine, no locks needed.
type State struct {
	Grid *tilegrid.Grid
	Exit *Exit

	// OnSpawn runs for every new creature, typically to attach its Behavior.
	OnSpawn func(c *Creature)

	set   Settings
	ents  *ecs.World
	bus   *event.Bus
	kinds *data.KindTable
	anims map[string]AnimationSet

	levelID   string
	levelName string
	creatures []*Creature
	byID      map[ecs.EntityID]*Creature
	player    *Creature
	aoi       *AOIGrid

	removedWalls [][2]int
	elapsed      float64
	tick         uint64
}

func NewState(ents *ecs.World, bus *event.Bus, kinds *data.KindTable, set Settings) *State {
	if set.HistorySize <= 0 {
		set.HistorySize = 5
	}
	if set.GameSpeed <= 0 {
		set.GameSpeed = 1
	}
	return &State{
		set:   set,
		ents:  ents,
		bus:   bus,
		kinds: kinds,
		anims: make(map[string]AnimationSet),
		byID:  make(map[ecs.EntityID]*Creature),
		aoi:   NewAOIGrid(set.TileSize * 4),
	}
}

// Settings returns the simulation parameters.
func (s *State) Settings() Settings { return s.set }

// Frame converts a real tick delta into game time.
func (s *State) Frame(dt time.Duration) Frame { return NewFrame(dt, s.set.GameSpeed) }

// Load replaces the current level: the grid is rebuilt, every creature of
// the previous level is destroyed and the level's spawns are created.
func (s *State) Load(lvl *data.Level) error {
	grid, err := tilegrid.New(lvl.Codes, s.set.TileSize)
	if err != nil {
		return fmt.Errorf("level %s: %w", lvl.ID, err)
	}
	playerKind := s.kinds.Player()
	if err := s.checkKind(playerKind); err != nil {
		return fmt.Errorf("level %s: %w", lvl.ID, err)
	}
	hostileKinds := make([]*data.Kind, len(lvl.Hostiles))
	for i, sp := range lvl.Hostiles {
		k := s.kinds.Hostile(sp.Kind)
		if k == nil {
			return fmt.Errorf("level %s: hostile #%d: unknown kind %q", lvl.ID, i, sp.Kind)
		}
		if err := s.checkKind(k); err != nil {
			return fmt.Errorf("level %s: %w", lvl.ID, err)
		}
		hostileKinds[i] = k
	}

	s.reset()
	s.Grid = grid
	s.levelID, s.levelName = lvl.ID, lvl.Name
	if row, col, ok := grid.Exit(); ok {
		s.Exit = &Exit{Row: row, Col: col, Rect: grid.TileRect(row, col)}
	}

	s.player = s.Spawn(playerKind, geom.Point{X: lvl.Player.X, Y: lvl.Player.Y}, 1, 0)
	for i, sp := range lvl.Hostiles {
		s.Spawn(hostileKinds[i], geom.Point{X: sp.X, Y: sp.Y}, data.HealthFraction(sp.Health), i+1)
	}
	event.Emit(s.bus, event.LevelLoaded{LevelID: lvl.ID, Hostiles: len(lvl.Hostiles)})
	return nil
}

// checkKind rejects boxes that cannot sit in a single tile with the 1 px
// clearance wall resolution keeps on each side.
func (s *State) checkKind(k *data.Kind) error {
	if limit := s.set.TileSize - 2; k.Width > limit || k.Height > limit {
		return fmt.Errorf("kind %q: box %vx%v too large for a %v px tile (max %v)", k.Name, k.Width, k.Height, s.set.TileSize, limit)
	}
	if _, err := s.animationsOf(k); err != nil {
		return err
	}
	return nil
}

func (s *State) animationsOf(k *data.Kind) (AnimationSet, error) {
	if set, ok := s.anims[k.Name]; ok {
		return set, nil
	}
	set := make(AnimationSet, len(k.Animations))
	for name, spec := range k.Animations {
		st, ok := ParseState(name)
		if !ok {
			return nil, fmt.Errorf("kind %q: animation for unknown state %q", k.Name, name)
		}
		set[st] = spec
	}
	s.anims[k.Name] = set
	return set, nil
}

func (s *State) reset() {
	for _, c := range s.creatures {
		s.ents.MarkForDestruction(c.ID)
	}
	s.ents.FlushDestroyQueue()
	s.creatures = s.creatures[:0]
	clear(s.byID)
	s.aoi.Clear()
	s.player = nil
	s.Exit = nil
	s.removedWalls = nil
	s.elapsed = 0
}

// Spawn creates a creature of kind at p with the given share of its max
// health. A creature spawned without health goes straight to Dying.
func (s *State) Spawn(kind *data.Kind, p geom.Point, healthFraction float64, index int) *Creature {
	anims, err := s.animationsOf(kind)
	if err != nil {
		panic(fmt.Sprintf("world: spawn: %v", err))
	}
	c := newCreature(s.ents.CreateEntity(), kind, anims, p, kind.MaxHealth*healthFraction, s.set.HistorySize)
	c.Index = index
	c.Place(p, s.Grid)
	s.creatures = append(s.creatures, c)
	s.byID[c.ID] = c
	s.aoi.Add(c.ID, p)
	if s.OnSpawn != nil {
		s.OnSpawn(c)
	}
	if c.Health <= 0 {
		c.SetState(Dying)
	}
	return c
}

// Creatures returns every creature of the level in spawn order, including
// those removed this frame until the next Compact.
func (s *State) Creatures() []*Creature { return s.creatures }

// Player returns the player creature, or nil before the first Load.
func (s *State) Player() *Creature { return s.player }

// Get returns a creature by entity ID, or nil.
func (s *State) Get(id ecs.EntityID) *Creature { return s.byID[id] }

// Entities returns the entity world creature IDs are allocated from.
func (s *State) Entities() *ecs.World { return s.ents }

// Bus returns the event bus the world emits on.
func (s *State) Bus() *event.Bus { return s.bus }

// LevelID returns the ID of the loaded level.
func (s *State) LevelID() string { return s.levelID }

// LevelName returns the display name of the loaded level.
func (s *State) LevelName() string { return s.levelName }

// LevelTime returns the game-ms spent on the current level.
func (s *State) LevelTime() float64 { return s.elapsed }

// Tick returns the number of frames advanced since start.
func (s *State) Tick() uint64 { return s.tick }

// Advance moves the level clock forward by one frame.
func (s *State) Advance(f Frame) {
	s.elapsed += f.Factor
	s.tick++
}

// HostilesRemaining counts hostiles that have not reached Removed.
func (s *State) HostilesRemaining() int {
	n := 0
	for _, c := range s.creatures {
		if c.Hostile && c.State() != Removed {
			n++
		}
	}
	return n
}

// Damage applies a hit to c and reports whether it killed it.
func (s *State) Damage(c *Creature, amount float64) bool {
	killed := c.TakeDamage(amount)
	if killed {
		event.Emit(s.bus, event.CreatureDied{EntityID: c.ID, Hostile: c.Hostile})
	}
	return killed
}

// DamageWall destroys the wall at (row, col) if it is destructible.
func (s *State) DamageWall(row, col int) bool {
	if !s.Grid.RemoveWall(row, col) {
		return false
	}
	s.removedWalls = append(s.removedWalls, [2]int{row, col})
	event.Emit(s.bus, event.WallRemoved{Row: row, Col: col})
	return true
}

// MarkRemoved finishes a creature's lifecycle. It stays in Creatures until
// the next Compact but no longer counts anywhere else.
func (s *State) MarkRemoved(c *Creature) {
	c.SetState(Removed)
	event.Emit(s.bus, event.CreatureRemoved{EntityID: c.ID, Hostile: c.Hostile})
}

// Compact drops removed creatures from every collection and queues their
// entities for destruction. Returns how many were dropped.
func (s *State) Compact() int {
	kept := s.creatures[:0]
	dropped := 0
	for _, c := range s.creatures {
		if c.State() != Removed {
			kept = append(kept, c)
			continue
		}
		dropped++
		delete(s.byID, c.ID)
		s.aoi.Remove(c.ID, c.Pos)
		s.ents.MarkForDestruction(c.ID)
	}
	for i := len(kept); i < len(s.creatures); i++ {
		s.creatures[i] = nil
	}
	s.creatures = kept
	return dropped
}

// Moved keeps the spatial index in step with a committed position.
func (s *State) Moved(c *Creature, from geom.Point) {
	s.aoi.Move(c.ID, from, c.Pos)
}

// TargetInRange reports whether b is within a's weapon range: closer than
// the sum of both boxes' half diagonals.
func (s *State) TargetInRange(a, b *Creature) bool {
	return geom.Distance(a.Pos, b.Pos) < a.Box.HalfDiagonal()+b.Box.HalfDiagonal()
}

// LineOfSightObstructed reports whether a solid tile lies between a and b.
func (s *State) LineOfSightObstructed(a, b *Creature) bool {
	return raycast.Obstructed(s.Grid, a.Pos, b.Pos)
}

// PlayerSight casts the player's vision ray at theta, limited to the view.
// Before the first Load there is no player and nothing is seen.
func (s *State) PlayerSight(theta float64) raycast.Result {
	if s.player == nil || s.Grid == nil {
		return raycast.Result{}
	}
	c := raycast.Caster{Grid: s.Grid, RangeX: s.set.ViewWidth / 2, RangeY: s.set.ViewHeight / 2}
	return c.Cast(s.player.Pos, theta)
}

// PlayerAtOpenExit reports whether the player stands on the open exit.
func (s *State) PlayerAtOpenExit() bool {
	if s.Exit == nil || !s.Exit.IsOpen() || s.player == nil || !s.player.Active() {
		return false
	}
	return s.player.Rect().Intersects(s.Exit.Rect)
}

// OnScreen reports whether c lies within the player's view plus a two-tile
// margin.
func (s *State) OnScreen(c *Creature) bool {
	if s.player == nil {
		return false
	}
	margin := 2 * s.set.TileSize
	dx, dy := c.Pos.X-s.player.Pos.X, c.Pos.Y-s.player.Pos.Y
	hw, hh := s.set.ViewWidth/2+margin, s.set.ViewHeight/2+margin
	return dx >= -hw && dx <= hw && dy >= -hh && dy <= hh
}

// Blockers appends to dst the creatures c can collide with this frame:
// active, on screen and close enough to touch. Off-screen creatures only
// collide with walls.
func (s *State) Blockers(dst []*Creature, c *Creature) []*Creature {
	c.mustNotBeRemoved("collide")
	if !s.OnScreen(c) {
		return dst
	}
	var ids [32]ecs.EntityID
	for _, id := range s.aoi.Nearby(ids[:0], c.Pos) {
		o := s.byID[id]
		if o == nil || o == c || !o.Active() || !s.OnScreen(o) {
			continue
		}
		dst = append(dst, o)
	}
	return dst
}

// Nearby appends to dst the active creatures within radius px of p.
func (s *State) Nearby(dst []*Creature, p geom.Point, radius float64) []*Creature {
	for _, c := range s.creatures {
		if c.Active() && geom.Distance(c.Pos, p) <= radius {
			dst = append(dst, c)
		}
	}
	return dst
}

// RemovedWalls returns the cells of walls destroyed since the level loaded.
func (s *State) RemovedWalls() [][2]int { return s.removedWalls }
