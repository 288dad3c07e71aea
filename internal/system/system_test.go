package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/swarmgrid/swarmcore/internal/core/ecs"
	"github.com/swarmgrid/swarmcore/internal/core/event"
	"github.com/swarmgrid/swarmcore/internal/data"
	"github.com/swarmgrid/swarmcore/internal/geom"
	"github.com/swarmgrid/swarmcore/internal/motion"
	"github.com/swarmgrid/swarmcore/internal/scripting"
	"github.com/swarmgrid/swarmcore/internal/tilegrid"
	"github.com/swarmgrid/swarmcore/internal/world"
)

const tick = 16 * time.Millisecond

const testKinds = `
player: player
default_hostile: crawler
kinds:
  - name: player
    width: 12
    height: 12
    speed: 0.18
    max_health: 100
  - name: crawler
    hostile: true
    width: 14
    height: 14
    speed: 0.14
    max_health: 100
    attack: { damage: 40, windup_ms: 450, cooldown_ms: 400 }
    animations:
      attacking: { length_ms: 420, frames: 5 }
      attacking_cooldown: { length_ms: 100, frames: 2 }
      dying: { length_ms: 300, frames: 3, one_shot: true }
      decaying: { length_ms: 1000, frames: 3, one_shot: true }
`

// room is a rows x cols floor inside a gray border.
func room(rows, cols int) [][]tilegrid.Code {
	codes := make([][]tilegrid.Code, rows)
	for r := range codes {
		codes[r] = make([]tilegrid.Code, cols)
		for c := range codes[r] {
			if r == 0 || c == 0 || r == rows-1 || c == cols-1 {
				codes[r][c] = tilegrid.WallGray
			}
		}
	}
	return codes
}

func level(id string, codes [][]tilegrid.Code, hostiles ...data.Spawn) *data.Level {
	return &data.Level{
		LevelInfo: data.LevelInfo{ID: id, Name: "Level " + id, Player: data.Point{X: 40, Y: 40}, Hostiles: hostiles},
		Codes:     codes,
	}
}

type fixture struct {
	ws   *world.State
	ents *ecs.World
	p    *Pipeline
	pub  *recorder
}

type recorder struct{ snaps []world.Snapshot }

func (r *recorder) Publish(s world.Snapshot) { r.snaps = append(r.snaps, s) }

type fixed scripting.Decision

func (d fixed) DecideHostile(scripting.HostileContext) scripting.Decision { return scripting.Decision(d) }

func newFixture(t *testing.T, cfg PipelineConfig, levels ...*data.Level) *fixture {
	t.Helper()
	kinds, err := data.ParseKindTable([]byte(testKinds))
	require.NoError(t, err)
	table, err := data.NewLevelTable(levels...)
	require.NoError(t, err)

	ents := ecs.NewWorld()
	ws := world.NewState(ents, event.NewBus(), kinds, world.Settings{
		TileSize: 16, GameSpeed: 1, HistorySize: 5, ViewWidth: 320, ViewHeight: 240,
	})
	if cfg.Path.IntervalMS == 0 {
		cfg.Path = PathSettings{IntervalMS: 500, WaypointThreshold: 3, MinRadius: 4}
	}
	if cfg.Weapon.Damage == 0 {
		cfg.Weapon = WeaponSettings{Damage: 40, CooldownMS: 250}
	}
	rec := &recorder{}
	if cfg.SnapshotEvery > 0 {
		cfg.Publisher = rec
	}
	p := NewPipeline(ws, ents, table, cfg, zap.NewNop())
	require.True(t, p.Level.Load(table.First()))
	return &fixture{ws: ws, ents: ents, p: p, pub: rec}
}

func (f *fixture) run(n int) {
	for i := 0; i < n; i++ {
		f.p.Runner.Tick(tick)
	}
}

func (f *fixture) hostile(i int) *world.Creature {
	return f.ws.Creatures()[i+1]
}

func TestInputMapper(t *testing.T) {
	f := newFixture(t, PipelineConfig{}, level("1", room(12, 20)))
	player := f.ws.Player()
	require.Same(t, f.p.Mapper, player.Behavior)

	f.p.Mapper.Apply(world.Command{Right: true, Down: true})
	NewPlanSystem(f.ws).Update(tick)
	assert.Equal(t, motion.Intent{Right: true, Down: true}, player.Intent)
	assert.Equal(t, geom.DownRight, player.Facing)

	f.p.Mapper.Apply(world.Command{Left: true, HasAim: true, Aim: -1.6, Fire: true})
	NewPlanSystem(f.ws).Update(tick)
	assert.Equal(t, geom.Up, player.Facing, "aim wins over movement")

	f.p.Mapper.Apply(world.Command{})
	assert.True(t, f.p.Mapper.ConsumeFire(), "fire is latched")
	assert.False(t, f.p.Mapper.ConsumeFire())
}

func TestInputSystemDrainsQueue(t *testing.T) {
	cmds := make(chan world.Command, 4)
	mapper := NewInputMapper()
	s := NewInputSystem(cmds, mapper, 2, zap.NewNop())

	cmds <- world.Command{Up: true}
	cmds <- world.Command{Fire: true}
	cmds <- world.Command{Left: true}
	s.Update(tick)
	assert.Len(t, cmds, 1, "at most maxPerTick per update")
	assert.True(t, mapper.ConsumeFire())

	s.Update(tick)
	assert.Empty(t, cmds)
	assert.True(t, mapper.cmd.Left)
	assert.False(t, mapper.cmd.Up)
}

func TestPlannerComputesRangeAndSight(t *testing.T) {
	codes := room(12, 20)
	codes[2][6] = tilegrid.WallBlue
	f := newFixture(t, PipelineConfig{}, level("1", codes,
		data.Spawn{X: 56, Y: 40, Health: 1},
		data.Spawn{X: 140, Y: 40, Health: 1},
	))
	// The far hostile's first replan is staggered by its spawn index.
	plan := NewPlanSystem(f.ws)
	for i := 0; i < 3; i++ {
		plan.Update(tick)
	}

	near, far := f.hostile(0), f.hostile(1)
	assert.True(t, near.InRange)
	assert.False(t, near.Obstructed)
	assert.InDelta(t, 16, near.Distance, 1e-9)

	assert.False(t, far.InRange)
	assert.True(t, far.Obstructed, "blue wall between")
	assert.True(t, far.Intent.Any(), "chases around the wall")
	assert.Equal(t, 2, f.p.Planner.Navigators())
}

func TestPlannerDecisions(t *testing.T) {
	spawn := data.Spawn{X: 120, Y: 40, Health: 1}

	f := newFixture(t, PipelineConfig{Decider: fixed(scripting.Hold)}, level("1", room(12, 20), spawn))
	NewPlanSystem(f.ws).Update(tick)
	assert.False(t, f.hostile(0).Intent.Any())

	f = newFixture(t, PipelineConfig{Decider: fixed(scripting.Flee)}, level("1", room(12, 20), spawn))
	NewPlanSystem(f.ws).Update(tick)
	assert.Equal(t, motion.Intent{Right: true}, f.hostile(0).Intent)

	f = newFixture(t, PipelineConfig{Decider: fixed(scripting.Chase)}, level("1", room(12, 20), spawn))
	NewPlanSystem(f.ws).Update(tick)
	assert.True(t, f.hostile(0).Intent.Left)
}

func TestPlannerHoldsWhenPlayerDown(t *testing.T) {
	f := newFixture(t, PipelineConfig{}, level("1", room(12, 20), data.Spawn{X: 120, Y: 40, Health: 1}))
	f.ws.Damage(f.ws.Player(), 1000)
	NewPlanSystem(f.ws).Update(tick)

	h := f.hostile(0)
	assert.False(t, h.Intent.Any())
	assert.False(t, h.InRange)
}

func TestCombatKillsPlayerInThreeHits(t *testing.T) {
	f := newFixture(t, PipelineConfig{}, level("1", room(12, 20), data.Spawn{X: 56, Y: 40, Health: 1}))
	player := f.ws.Player()

	var healths []float64
	last := player.Health
	for i := 0; i < 1000 && player.Active(); i++ {
		f.run(1)
		if player.Health != last {
			last = player.Health
			healths = append(healths, last)
		}
	}
	assert.Equal(t, []float64{60, 20, 0}, healths)
	assert.False(t, player.Active())
}

func TestCombatMissesOutOfRange(t *testing.T) {
	f := newFixture(t, PipelineConfig{}, level("1", room(12, 20), data.Spawn{X: 56, Y: 40, Health: 1}))
	h := f.hostile(0)
	combat := NewCombatSystem(f.ws, zap.NewNop())

	h.InRange = true
	combat.Update(tick)
	require.Equal(t, world.Attacking, h.State())

	// Run the cooldown and most of the windup down, then step out of range.
	for h.Attack.Windup() > 20 {
		combat.Update(tick)
	}
	f.ws.Player().Place(geom.Point{X: 200, Y: 150}, f.ws.Grid)
	h.InRange = false
	combat.Update(tick)
	combat.Update(tick)

	assert.Equal(t, 100.0, f.ws.Player().Health)
	assert.Equal(t, world.AttackingCooldown, h.State())

	// Leaving range does not cut the cooldown short.
	combat.Update(tick)
	assert.Equal(t, world.AttackingCooldown, h.State())

	h.Animation().Advance(100)
	combat.Update(tick)
	assert.Equal(t, world.Moving, h.State())
}

func TestCombatCooldownReturnsToAttackInRange(t *testing.T) {
	f := newFixture(t, PipelineConfig{}, level("1", room(12, 20), data.Spawn{X: 56, Y: 40, Health: 1}))
	h := f.hostile(0)
	combat := NewCombatSystem(f.ws, zap.NewNop())

	h.InRange = true
	for i := 0; i < 200 && h.State() != world.AttackingCooldown; i++ {
		combat.Update(tick)
	}
	require.Equal(t, world.AttackingCooldown, h.State())
	assert.Equal(t, 60.0, f.ws.Player().Health)

	combat.Update(tick)
	assert.Equal(t, world.AttackingCooldown, h.State())

	h.Animation().Advance(100)
	combat.Update(tick)
	assert.Equal(t, world.Attacking, h.State())
}

func TestWeaponHitsNearestHostile(t *testing.T) {
	f := newFixture(t, PipelineConfig{}, level("1", room(12, 20),
		data.Spawn{X: 140, Y: 40, Health: 1},
		data.Spawn{X: 100, Y: 40, Health: 1},
	))
	far, near := f.hostile(0), f.hostile(1)

	f.p.Mapper.Apply(world.Command{HasAim: true, Aim: 0, Fire: true})
	f.p.Weapon.Update(tick)
	assert.Equal(t, 60.0, near.Health)
	assert.Equal(t, 100.0, far.Health)
	assert.Equal(t, 250.0, f.p.Weapon.Cooldown())

	f.p.Mapper.Apply(world.Command{HasAim: true, Aim: 0, Fire: true})
	f.p.Weapon.Update(tick)
	assert.Equal(t, 60.0, near.Health, "shot dropped during cooldown")
}

func TestWeaponBreaksDestructibleWall(t *testing.T) {
	codes := room(12, 20)
	codes[6][2] = tilegrid.WallGreen
	f := newFixture(t, PipelineConfig{}, level("1", codes))

	f.p.Mapper.Apply(world.Command{HasAim: true, Aim: 1.5707963267948966, Fire: true})
	f.p.Weapon.Update(tick)
	assert.False(t, f.ws.Grid.Solid(6, 2))
	assert.Equal(t, [][2]int{{6, 2}}, f.ws.RemovedWalls())

	// The border behind it is indestructible.
	for f.p.Weapon.Cooldown() > 0 {
		f.p.Weapon.Update(tick)
	}
	f.p.Mapper.Apply(world.Command{HasAim: true, Aim: 1.5707963267948966, Fire: true})
	f.p.Weapon.Update(tick)
	assert.Len(t, f.ws.RemovedWalls(), 1)
}

func TestMovementHeadOnNeverOverlaps(t *testing.T) {
	f := newFixture(t, PipelineConfig{Decider: fixed(scripting.Hold)}, level("1", room(12, 20), data.Spawn{X: 62, Y: 40, Health: 1}))
	player, h := f.ws.Player(), f.hostile(0)
	move := NewMovementSystem(f.ws)

	for i := 0; i < 30; i++ {
		player.SetIntent(motion.Intent{Right: true})
		h.SetIntent(motion.Intent{Left: true})
		move.Update(tick)
		require.False(t, player.Rect().Intersects(h.Rect()), "tick %d", i)
	}
	assert.Greater(t, player.Pos.X, 40.0)
	assert.Less(t, h.Pos.X, 62.0)
	assert.True(t, player.Blocked.Right)
	assert.True(t, h.Blocked.Left)
	assert.Equal(t, geom.Left, h.Facing)
}

func TestMovementStateFollowsDisplacement(t *testing.T) {
	f := newFixture(t, PipelineConfig{}, level("1", room(12, 20)))
	player := f.ws.Player()
	move := NewMovementSystem(f.ws)

	player.SetIntent(motion.Intent{Down: true})
	move.Update(tick)
	assert.Equal(t, world.Moving, player.State())

	player.SetIntent(motion.Intent{})
	for i := 0; i < 3; i++ {
		move.Update(tick)
		assert.Equal(t, world.Moving, player.State())
	}
	move.Update(tick)
	assert.Equal(t, world.Idling, player.State())
}

func TestMovementStaysInsideWalls(t *testing.T) {
	f := newFixture(t, PipelineConfig{}, level("1", room(12, 20)))
	player := f.ws.Player()
	move := NewMovementSystem(f.ws)

	for i := 0; i < 60; i++ {
		player.SetIntent(motion.Intent{Up: true, Left: true})
		move.Update(tick)
	}
	r := player.Rect()
	assert.GreaterOrEqual(t, r.MinX, 16.0)
	assert.GreaterOrEqual(t, r.MinY, 16.0)
	assert.True(t, player.Stuck())
}

func TestDeadHostileDecaysAndOpensExit(t *testing.T) {
	codes := room(12, 20)
	codes[9][17] = tilegrid.Exit
	f := newFixture(t, PipelineConfig{Rules: LevelRules{AutoAdvance: true}}, level("1", codes, data.Spawn{X: 200, Y: 120, Health: 0.5}))

	var opened []event.ExitOpened
	event.Subscribe(f.ws.Bus(), func(e event.ExitOpened) { opened = append(opened, e) })

	h := f.hostile(0)
	f.ws.Damage(h, 1000)
	require.Equal(t, world.Dying, h.State())

	seen := []world.CreatureState{h.State()}
	for i := 0; i < 200 && h.State() != world.Removed; i++ {
		f.run(1)
		if s := h.State(); s != seen[len(seen)-1] {
			seen = append(seen, s)
		}
	}
	assert.Equal(t, []world.CreatureState{world.Dying, world.Decaying, world.Removed}, seen)
	assert.Len(t, f.ws.Creatures(), 1, "compacted")
	assert.Zero(t, f.p.Planner.Navigators(), "navigator destroyed with the entity")

	f.run(2)
	assert.True(t, f.ws.Exit.IsOpen())
	require.Len(t, opened, 1)
	assert.Equal(t, event.ExitOpened{Row: 9, Col: 17}, opened[0])
}

func TestLevelAdvancesAtOpenExit(t *testing.T) {
	first := room(12, 20)
	first[2][2] = tilegrid.Exit // under the player spawn
	second := room(12, 20)
	second[9][17] = tilegrid.Exit
	f := newFixture(t, PipelineConfig{Rules: LevelRules{AutoAdvance: true}},
		level("1", first),
		level("2", second, data.Spawn{X: 200, Y: 120, Health: 1}),
	)

	f.run(2)
	assert.Equal(t, "2", f.ws.LevelID())
	assert.Len(t, f.ws.Creatures(), 2)
	assert.False(t, f.ws.Exit.IsOpen())
	assert.False(t, f.p.Level.Finished())
}

func TestLevelFinishesAfterLast(t *testing.T) {
	codes := room(12, 20)
	codes[2][2] = tilegrid.Exit
	f := newFixture(t, PipelineConfig{Rules: LevelRules{AutoAdvance: true}}, level("1", codes))
	f.run(3)
	assert.True(t, f.p.Level.Finished())
	assert.Equal(t, "1", f.ws.LevelID())
}

func TestLevelRestartsAfterPlayerDeath(t *testing.T) {
	f := newFixture(t, PipelineConfig{Rules: LevelRules{RestartOnDeath: true}}, level("1", room(12, 20), data.Spawn{X: 200, Y: 120, Health: 1}))
	old := f.ws.Player()
	f.ws.Damage(old, 1000)

	f.run(3)
	require.Equal(t, world.Removed, old.State())
	fresh := f.ws.Player()
	require.NotSame(t, old, fresh)
	assert.True(t, fresh.Active())
	assert.Equal(t, 100.0, fresh.Health)
	assert.Equal(t, geom.Point{X: 40, Y: 40}, fresh.Pos)
}

func TestPublishEvery(t *testing.T) {
	f := newFixture(t, PipelineConfig{SnapshotEvery: 3}, level("1", room(12, 20), data.Spawn{X: 200, Y: 120, Health: 1}))
	f.run(9)
	require.Len(t, f.pub.snaps, 3)
	last := f.pub.snaps[2]
	assert.Equal(t, "1", last.Level)
	assert.Len(t, last.Creatures, 2)
	assert.Greater(t, last.Tick, f.pub.snaps[0].Tick)
}
