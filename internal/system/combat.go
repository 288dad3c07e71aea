package system

import (
	"time"

	coresys "github.com/swarmgrid/swarmcore/internal/core/system"
	"github.com/swarmgrid/swarmcore/internal/world"
	"go.uber.org/zap"
)

// CombatSystem drives hostile melee attacks against the player: windup,
// execution and cooldown. Phase 3 (Combat).
type CombatSystem struct {
	world *world.State
	log   *zap.Logger
}

func NewCombatSystem(ws *world.State, log *zap.Logger) *CombatSystem {
	return &CombatSystem{world: ws, log: log}
}

func (s *CombatSystem) Phase() coresys.Phase { return coresys.PhaseCombat }

func (s *CombatSystem) Update(dt time.Duration) {
	f := s.world.Frame(dt)
	target := s.world.Player()
	for _, c := range s.world.Creatures() {
		if !c.Hostile || !c.Active() {
			continue
		}
		s.tick(c, target, f)
	}
}

func (s *CombatSystem) tick(c, target *world.Creature, f world.Frame) {
	c.Attack.Cool(f.Factor)

	switch c.State() {
	case world.Idling, world.Moving:
		if c.InRange {
			c.SetState(world.Attacking)
		}

	case world.Attacking:
		if !c.InRange && !c.Attack.InProgress() {
			c.SetState(world.Moving)
			return
		}
		c.Attack.WindUp(f.Factor)
		if !c.Attack.Ready() {
			return
		}
		c.Attack.Execute()
		// Out of range at the moment of release is a miss.
		if target != nil && target.Active() && s.world.TargetInRange(c, target) {
			if s.world.Damage(target, c.Attack.Damage) {
				s.log.Info("player killed",
					zap.Uint64("by", uint64(c.ID)),
					zap.String("kind", c.Kind.Name),
					zap.String("level", s.world.LevelID()),
				)
			}
		}
		c.SetState(world.AttackingCooldown)

	case world.AttackingCooldown:
		// The cooldown animation always plays out before the next decision.
		if !c.Animation().Finished() {
			return
		}
		if c.InRange {
			c.SetState(world.Attacking)
		} else {
			c.SetState(world.Moving)
		}
	}
}
