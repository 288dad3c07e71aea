package system

import (
	"time"

	"github.com/swarmgrid/swarmcore/internal/core/ecs"
	coresys "github.com/swarmgrid/swarmcore/internal/core/system"
	"github.com/swarmgrid/swarmcore/internal/world"
)

// CleanupSystem drops removed creatures from the world and flushes the
// deferred entity destruction queue at tick end. Phase 7 (Cleanup).
type CleanupSystem struct {
	world *world.State
	ents  *ecs.World
}

func NewCleanupSystem(ws *world.State, ents *ecs.World) *CleanupSystem {
	return &CleanupSystem{world: ws, ents: ents}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	s.world.Compact()
	s.ents.FlushDestroyQueue()
}
