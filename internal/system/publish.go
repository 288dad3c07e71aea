package system

import (
	"time"

	coresys "github.com/swarmgrid/swarmcore/internal/core/system"
	"github.com/swarmgrid/swarmcore/internal/world"
)

// Publisher receives world snapshots. Implementations must not block the
// game loop.
type Publisher interface {
	Publish(snap world.Snapshot)
}

// PublishSystem hands a snapshot to the publisher every `every` ticks.
// Phase 6 (Output).
type PublishSystem struct {
	world *world.State
	pub   Publisher
	every int
	ticks int
}

func NewPublishSystem(ws *world.State, pub Publisher, every int) *PublishSystem {
	return &PublishSystem{world: ws, pub: pub, every: max(1, every)}
}

func (s *PublishSystem) Phase() coresys.Phase { return coresys.PhaseOutput }

func (s *PublishSystem) Update(_ time.Duration) {
	s.ticks++
	if s.ticks%s.every != 0 {
		return
	}
	s.pub.Publish(s.world.Snapshot())
}
