// Projectile advancement and sphere-sphere collision resolution.
package squadron

import "spacecombat-sim/internal/geom"

// Projectile is a live shot owned by whichever side fired it.
type Projectile struct {
	ID       string
	Position geom.Vec3
	Velocity geom.Vec3
	Lifetime float64 // seconds remaining
}

// advanceProjectiles moves every projectile, expires spent ones, and resolves
// hits. All loops scan back-to-front so in-loop removal neither skips nor
// double-processes elements. Broad-phase is omitted deliberately: all-pairs
// checks are fine at this entity count.
func (s *Squadron) advanceProjectiles(dt float64, player PlayerState) {
	playerRadius := player.Radius + s.tuning.PlayerHitMarginM

	for i := len(s.hostile) - 1; i >= 0; i-- {
		p := s.hostile[i]
		p.Position = p.Position.Add(p.Velocity.Scale(dt))
		p.Lifetime -= dt
		if p.Lifetime <= 0 {
			s.hostile = append(s.hostile[:i], s.hostile[i+1:]...)
			continue
		}
		if p.Position.Sub(player.Position).LenSq() <= playerRadius*playerRadius {
			s.hostile = append(s.hostile[:i], s.hostile[i+1:]...)
			if s.callbacks.PlayerHit != nil {
				s.callbacks.PlayerHit()
			}
		}
	}

	for i := len(s.playerShots) - 1; i >= 0; i-- {
		p := s.playerShots[i]
		p.Position = p.Position.Add(p.Velocity.Scale(dt))
		p.Lifetime -= dt
		if p.Lifetime <= 0 {
			s.playerShots = append(s.playerShots[:i], s.playerShots[i+1:]...)
			continue
		}
		for j := len(s.Entities) - 1; j >= 0; j-- {
			e := s.Entities[j]
			r := e.BoundingRadius * (1 + s.tuning.HitboxMargin)
			if p.Position.Sub(e.Position).LenSq() > r*r {
				continue
			}
			s.playerShots = append(s.playerShots[:i], s.playerShots[i+1:]...)
			s.applyHit(e, j)
			// First match wins: a projectile damages at most one adversary.
			break
		}
	}
}

// applyHit decrements health by exactly one, refreshes the hit flash, and
// destroys the entity when health reaches zero.
func (s *Squadron) applyHit(e *Entity, idx int) {
	if e.Health > 0 {
		e.Health--
	}
	e.HitFlash = s.tuning.HitFlashS
	if s.callbacks.EnemyHit != nil {
		s.callbacks.EnemyHit(e.Archetype.Class, e.ID, e.Health)
	}
	if e.Health == 0 {
		s.removeEntity(idx)
	}
}

// removeEntity deletes the entity at idx and propagates destruction: the
// external explosion collaborator first, then the destroyed callback with the
// archetype tag. Each entity is destroyed at most once.
func (s *Squadron) removeEntity(idx int) {
	e := s.Entities[idx]
	s.Entities = append(s.Entities[:idx], s.Entities[idx+1:]...)
	if s.callbacks.Explosion != nil {
		s.callbacks.Explosion(e.Position)
	}
	if s.callbacks.EnemyDestroyed != nil {
		s.callbacks.EnemyDestroyed(e.Archetype.Class)
	}
}
