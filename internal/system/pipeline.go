package system

import (
	"github.com/swarmgrid/swarmcore/internal/core/ecs"
	coresys "github.com/swarmgrid/swarmcore/internal/core/system"
	"github.com/swarmgrid/swarmcore/internal/data"
	"github.com/swarmgrid/swarmcore/internal/world"
	"go.uber.org/zap"
)

// PipelineConfig collects what the per-frame systems need beyond the world.
type PipelineConfig struct {
	Commands      <-chan world.Command
	MaxCommands   int
	Path          PathSettings
	Weapon        WeaponSettings
	Rules         LevelRules
	Decider       Decider   // nil: every hostile chases
	Publisher     Publisher // nil: no snapshots
	SnapshotEvery int
}

// Pipeline is the full frame: every system registered on one runner in
// phase order.
type Pipeline struct {
	Runner  *coresys.Runner
	Mapper  *InputMapper
	Planner *HostilePlanner
	Weapon  *WeaponSystem
	Level   *LevelSystem
}

// NewPipeline registers every system for ws and installs the spawn hook.
// Load the first level through Pipeline.Level so behaviors attach.
func NewPipeline(ws *world.State, ents *ecs.World, levels *data.LevelTable, cfg PipelineConfig, log *zap.Logger) *Pipeline {
	mapper := NewInputMapper()
	planner := NewHostilePlanner(ents.Registry(), cfg.Path, cfg.Decider)
	AttachBehaviors(ws, planner, mapper)

	p := &Pipeline{
		Runner:  coresys.NewRunner(),
		Mapper:  mapper,
		Planner: planner,
		Weapon:  NewWeaponSystem(ws, mapper, cfg.Weapon, log),
		Level:   NewLevelSystem(ws, levels, mapper, cfg.Rules, log),
	}

	r := p.Runner
	if cfg.Commands != nil {
		r.Register(NewInputSystem(cfg.Commands, mapper, cfg.MaxCommands, log))
	}
	r.Register(NewEventDispatchSystem(ws.Bus()))
	r.Register(NewExitSystem(ws, ws.Bus(), log))
	r.Register(NewPlanSystem(ws))
	r.Register(p.Weapon)
	r.Register(NewCombatSystem(ws, log))
	r.Register(NewMovementSystem(ws))
	r.Register(NewAnimationSystem(ws, log))
	if cfg.Publisher != nil {
		r.Register(NewPublishSystem(ws, cfg.Publisher, cfg.SnapshotEvery))
	}
	r.Register(NewCleanupSystem(ws, ents))
	r.Register(p.Level)
	return p
}
