// Fire control: cooldown-gated, facing-gated shot decisions with
// probabilistic aim.
package squadron

import (
	"time"

	"github.com/google/uuid"

	"spacecombat-sim/internal/geom"
)

func (s *Squadron) evaluateFire(e *Entity, now time.Time, player PlayerState) {
	if !s.fireEnabled || e.Approaching() {
		return
	}
	if now.Sub(e.LastShot).Seconds() < e.FireDelay {
		return
	}
	toPlayer, ok := player.Position.Sub(e.Position).Normalized()
	if !ok {
		return
	}
	// Only fire when substantially facing the target.
	if e.Forward.Dot(toPlayer) < s.tuning.FacingThreshold {
		return
	}

	e.LastShot = now
	e.FireDelay = s.uniform(e.Archetype.FireDelayMin, e.Archetype.FireDelayMax)

	for _, m := range e.Archetype.Muzzles {
		muzzle := geom.LocalToWorld(e.Position, e.Forward, m)
		dir, ok := s.aimPoint(e, player).Sub(muzzle).Normalized()
		if !ok {
			dir = e.Forward
		}
		s.hostile = append(s.hostile, &Projectile{
			ID:       uuid.New().String(),
			Position: muzzle,
			Velocity: dir.Scale(e.Archetype.ProjectileSpeed),
			Lifetime: e.Archetype.ProjectileLifetime,
		})
		s.Stats.ShotsFired++
	}
}

// aimPoint decides per shot between a deliberate miss (target displaced by a
// random direction and radius) and an aimed shot with per-axis jitter. The
// split produces human-feeling marksmanship instead of uniform accuracy.
func (s *Squadron) aimPoint(e *Entity, player PlayerState) geom.Vec3 {
	if s.randFloat() < s.tuning.DeliberateMissChance {
		s.Stats.DeliberateMisses++
		radius := s.uniform(s.tuning.MissRadiusMin, s.tuning.MissRadiusMax)
		return player.Position.Add(geom.RandUnit(s.rand).Scale(radius))
	}
	spread := e.Archetype.AimSpread
	jitter := geom.Vec3{
		X: s.symmetric(spread),
		Y: s.symmetric(spread),
		Z: s.symmetric(spread),
	}
	return player.Position.Add(jitter)
}
