package system

import (
	"math"
	"time"

	coresys "github.com/swarmgrid/swarmcore/internal/core/system"
	"github.com/swarmgrid/swarmcore/internal/world"
	"go.uber.org/zap"
)

// WeaponSettings configure the player's hitscan weapon.
type WeaponSettings struct {
	Damage     float64
	CooldownMS float64
}

// WeaponSystem fires the player's hitscan weapon along the aim. The shot
// stops at the first wall of the player's sight ray; the nearest active
// hostile before it takes the hit, otherwise a destructible wall breaks.
// Phase 3 (Combat).
type WeaponSystem struct {
	world    *world.State
	input    *InputMapper
	set      WeaponSettings
	cooldown float64
	buf      []*world.Creature
	log      *zap.Logger
}

func NewWeaponSystem(ws *world.State, input *InputMapper, set WeaponSettings, log *zap.Logger) *WeaponSystem {
	return &WeaponSystem{world: ws, input: input, set: set, log: log}
}

func (s *WeaponSystem) Phase() coresys.Phase { return coresys.PhaseCombat }

// Cooldown returns the game-ms until the weapon can fire again.
func (s *WeaponSystem) Cooldown() float64 { return s.cooldown }

func (s *WeaponSystem) Update(dt time.Duration) {
	f := s.world.Frame(dt)
	s.cooldown = max(0, s.cooldown-f.Factor)

	// Requests made during cooldown are dropped, not queued.
	if !s.input.ConsumeFire() || s.cooldown > 0 {
		return
	}
	p := s.world.Player()
	if p == nil || !p.Active() {
		return
	}
	aim, ok := s.input.Aim()
	if !ok {
		aim = p.Facing.Angle()
	}
	s.fire(p, aim)
	s.cooldown = s.set.CooldownMS
}

func (s *WeaponSystem) fire(p *world.Creature, aim float64) {
	sight := s.world.PlayerSight(aim)

	var (
		target *world.Creature
		best   = math.Inf(1)
	)
	s.buf = s.world.Nearby(s.buf[:0], p.Pos, sight.Distance+s.world.Settings().TileSize)
	for _, c := range s.buf {
		if !c.Hostile {
			continue
		}
		d, hit := c.Rect().RayHit(p.Pos, aim)
		if hit && d <= sight.Distance && d < best {
			target, best = c, d
		}
	}

	switch {
	case target != nil:
		killed := s.world.Damage(target, s.set.Damage)
		s.log.Debug("shot hit",
			zap.Uint64("creature", uint64(target.ID)),
			zap.Float64("health", target.Health),
			zap.Bool("killed", killed),
		)
	case sight.Hit != nil && sight.Hit.Destructible():
		if s.world.DamageWall(sight.Hit.Row, sight.Hit.Col) {
			s.log.Debug("wall destroyed", zap.Int("row", sight.Hit.Row), zap.Int("col", sight.Hit.Col))
		}
	}
}
