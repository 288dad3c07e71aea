package system

import (
	"time"

	"github.com/swarmgrid/swarmcore/internal/core/event"
	coresys "github.com/swarmgrid/swarmcore/internal/core/system"
)

// EventDispatchSystem delivers last tick's events to their subscribers.
// Phase 1 (PreUpdate), registered before every other PreUpdate system.
type EventDispatchSystem struct {
	bus *event.Bus
}

func NewEventDispatchSystem(bus *event.Bus) *EventDispatchSystem {
	return &EventDispatchSystem{bus: bus}
}

func (s *EventDispatchSystem) Phase() coresys.Phase { return coresys.PhasePreUpdate }

func (s *EventDispatchSystem) Update(_ time.Duration) {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}
