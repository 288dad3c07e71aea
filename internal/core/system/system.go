package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput     Phase = iota // 0: drain command queues into player intents
	PhasePreUpdate              // 1: dispatch last tick's events
	PhasePlan                   // 2: behaviors set intents, line of sight, path following
	PhaseCombat                 // 3: attack windup/cooldown, weapon fire
	PhaseMove                   // 4: integrate, resolve collisions, commit positions
	PhaseAnimate                // 5: advance animations, death/decay transitions
	PhaseOutput                 // 6: build + publish snapshots
	PhaseCleanup                // 7: compact removed creatures, destroy queued entities
)

// System is the interface every simulation system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}

func (p Phase) String() string {
	switch p {
	case PhaseInput:
		return "input"
	case PhasePreUpdate:
		return "pre-update"
	case PhasePlan:
		return "plan"
	case PhaseCombat:
		return "combat"
	case PhaseMove:
		return "move"
	case PhaseAnimate:
		return "animate"
	case PhaseOutput:
		return "output"
	case PhaseCleanup:
		return "cleanup"
	}
	return "unknown"
}
