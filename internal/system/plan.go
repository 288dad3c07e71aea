package system

import (
	"time"

	coresys "github.com/swarmgrid/swarmcore/internal/core/system"
	"github.com/swarmgrid/swarmcore/internal/world"
)

// PlanSystem runs every active creature's Behavior to set its intent.
// Phase 2 (Plan).
type PlanSystem struct {
	world *world.State
}

func NewPlanSystem(ws *world.State) *PlanSystem {
	return &PlanSystem{world: ws}
}

func (s *PlanSystem) Phase() coresys.Phase { return coresys.PhasePlan }

func (s *PlanSystem) Update(dt time.Duration) {
	f := s.world.Frame(dt)
	for _, c := range s.world.Creatures() {
		if !c.Active() || c.Behavior == nil {
			continue
		}
		c.Behavior.Plan(s.world, c, f)
	}
}
