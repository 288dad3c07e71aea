package system

import (
	"time"

	"github.com/swarmgrid/swarmcore/internal/core/event"
	coresys "github.com/swarmgrid/swarmcore/internal/core/system"
	"github.com/swarmgrid/swarmcore/internal/world"
	"go.uber.org/zap"
)

// ExitSystem opens the level exit once every hostile has been removed.
// It reacts to removal and level-load events, so it must run after
// EventDispatchSystem. Phase 1 (PreUpdate).
type ExitSystem struct {
	world *world.State
	dirty bool
	log   *zap.Logger
}

func NewExitSystem(ws *world.State, bus *event.Bus, log *zap.Logger) *ExitSystem {
	s := &ExitSystem{world: ws, log: log}
	event.Subscribe(bus, func(e event.CreatureRemoved) {
		if e.Hostile {
			s.dirty = true
		}
	})
	event.Subscribe(bus, func(event.LevelLoaded) { s.dirty = true })
	return s
}

func (s *ExitSystem) Phase() coresys.Phase { return coresys.PhasePreUpdate }

func (s *ExitSystem) Update(_ time.Duration) {
	if !s.dirty {
		return
	}
	s.dirty = false
	exit := s.world.Exit
	if exit == nil || exit.IsOpen() || s.world.HostilesRemaining() > 0 {
		return
	}
	if exit.Open() {
		event.Emit(s.world.Bus(), event.ExitOpened{Row: exit.Row, Col: exit.Col})
		s.log.Info("exit opened",
			zap.String("level", s.world.LevelID()),
			zap.Int("row", exit.Row),
			zap.Int("col", exit.Col),
		)
	}
}
