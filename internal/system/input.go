package system

import (
	"time"

	coresys "github.com/swarmgrid/swarmcore/internal/core/system"
	"github.com/swarmgrid/swarmcore/internal/world"
	"go.uber.org/zap"
)

// InputSystem drains queued player commands into the input mapper.
// Phase 0 (Input).
type InputSystem struct {
	cmds       <-chan world.Command
	mapper     *InputMapper
	maxPerTick int
	log        *zap.Logger
}

func NewInputSystem(cmds <-chan world.Command, mapper *InputMapper, maxPerTick int, log *zap.Logger) *InputSystem {
	if maxPerTick <= 0 {
		maxPerTick = 64
	}
	return &InputSystem{cmds: cmds, mapper: mapper, maxPerTick: maxPerTick, log: log}
}

func (s *InputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *InputSystem) Update(_ time.Duration) {
	for i := 0; i < s.maxPerTick; i++ {
		select {
		case cmd := <-s.cmds:
			s.mapper.Apply(cmd)
		default:
			return
		}
	}
	s.log.Debug("command queue not drained this tick", zap.Int("max_per_tick", s.maxPerTick))
}
