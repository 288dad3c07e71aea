package system

import (
	"time"

	coresys "github.com/swarmgrid/swarmcore/internal/core/system"
	"github.com/swarmgrid/swarmcore/internal/world"
	"go.uber.org/zap"
)

// AnimationSystem advances every creature's animation and the level clock,
// and walks dead creatures through Dying and Decaying to Removed once
// each one-shot animation has played out. Phase 5 (Animate).
type AnimationSystem struct {
	world *world.State
	log   *zap.Logger
}

func NewAnimationSystem(ws *world.State, log *zap.Logger) *AnimationSystem {
	return &AnimationSystem{world: ws, log: log}
}

func (s *AnimationSystem) Phase() coresys.Phase { return coresys.PhaseAnimate }

func (s *AnimationSystem) Update(dt time.Duration) {
	f := s.world.Frame(dt)
	s.world.Advance(f)
	for _, c := range s.world.Creatures() {
		if c.State() == world.Removed {
			continue
		}
		anim := c.Animation()
		anim.Advance(f.Factor)
		if !anim.Finished() {
			continue
		}
		switch c.State() {
		case world.Dying:
			c.SetState(world.Decaying)
		case world.Decaying:
			s.world.MarkRemoved(c)
			s.log.Debug("creature removed",
				zap.Uint64("creature", uint64(c.ID)),
				zap.String("kind", c.Kind.Name),
			)
		}
	}
}
