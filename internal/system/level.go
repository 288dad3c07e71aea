package system

import (
	"time"

	coresys "github.com/swarmgrid/swarmcore/internal/core/system"
	"github.com/swarmgrid/swarmcore/internal/data"
	"github.com/swarmgrid/swarmcore/internal/world"
	"go.uber.org/zap"
)

// LevelRules decide when the level changes on its own.
type LevelRules struct {
	AutoAdvance    bool // load the next level when the player reaches the open exit
	RestartOnDeath bool // reload the level once the player has been removed
}

// LevelSystem handles level progression: advance on the open exit, restart
// after the player's death. Registered after CleanupSystem so a new level
// starts from a flushed entity world. Phase 7 (Cleanup).
type LevelSystem struct {
	world    *world.State
	levels   *data.LevelTable
	mapper   *InputMapper
	rules    LevelRules
	finished bool
	log      *zap.Logger
}

func NewLevelSystem(ws *world.State, levels *data.LevelTable, mapper *InputMapper, rules LevelRules, log *zap.Logger) *LevelSystem {
	return &LevelSystem{world: ws, levels: levels, mapper: mapper, rules: rules, log: log}
}

func (s *LevelSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

// Finished reports whether the player has cleared the last level.
func (s *LevelSystem) Finished() bool { return s.finished }

func (s *LevelSystem) Update(_ time.Duration) {
	if s.finished {
		return
	}
	current := s.levels.Get(s.world.LevelID())
	if current == nil {
		return
	}

	if s.rules.AutoAdvance && s.world.PlayerAtOpenExit() {
		next := s.levels.Next(current.ID)
		if next == nil {
			s.finished = true
			s.log.Info("final level cleared", zap.String("level", current.ID))
			return
		}
		s.log.Info("level cleared",
			zap.String("level", current.ID),
			zap.String("next", next.ID),
			zap.Float64("time_ms", s.world.LevelTime()),
		)
		s.Load(next)
		return
	}

	if p := s.world.Player(); s.rules.RestartOnDeath && p != nil && p.State() == world.Removed {
		s.log.Info("player dead, restarting level", zap.String("level", current.ID))
		s.Load(current)
	}
}

// Load switches the world to lvl and clears held controls. A level that
// fails to load leaves the previous one in place.
func (s *LevelSystem) Load(lvl *data.Level) bool {
	if err := s.world.Load(lvl); err != nil {
		s.log.Error("load level", zap.String("level", lvl.ID), zap.Error(err))
		return false
	}
	if s.mapper != nil {
		s.mapper.Reset()
	}
	s.finished = false
	s.log.Info("level loaded",
		zap.String("level", lvl.ID),
		zap.String("name", lvl.Name),
		zap.Int("hostiles", len(lvl.Hostiles)),
	)
	return true
}
