// Per-tick steering: scripted approach, orbiting pursuit, avoidance,
// integration, and orientation.
package squadron

import (
	"math"

	"spacecombat-sim/internal/geom"
)

func (s *Squadron) steer(e *Entity, dt float64, player PlayerState, obstacles []Obstacle) {
	e.clock += dt
	if e.HitFlash > 0 {
		e.HitFlash = math.Max(0, e.HitFlash-dt)
	}

	// The orbit target is recomputed continuously, also during approach, so
	// the arrival blends into the moving orbit instead of a stale point.
	target := s.orbitTarget(e, dt, player)

	if e.Approaching() {
		eased := e.advanceApproach(dt)
		e.Position = geom.Lerp(e.ApproachStart, target, eased)
		e.Velocity = geom.Vec3{}
		s.orient(e, dt, player)
		return
	}

	var desiredVel geom.Vec3
	if dir, ok := target.Sub(e.Position).Normalized(); ok {
		desiredVel = dir.Scale(e.Archetype.CruiseSpeed)
	}

	steer := desiredVel.
		Add(s.avoidance(e, obstacles)).
		Sub(e.Velocity).
		ClampLen(e.Archetype.MaxAccel * dt)
	e.Velocity = e.Velocity.Add(steer).ClampLen(e.Archetype.MaxSpeed)
	e.Position = e.Position.Add(e.Velocity.Scale(dt))

	s.orient(e, dt, player)
}

// orbitTarget computes the desired position: a slowly rotating point around
// the player, modulated sinusoidally on the vertical axis so the orbit is not
// a flat circle, plus the entity's formation slot and wander term.
func (s *Squadron) orbitTarget(e *Entity, dt float64, player PlayerState) geom.Vec3 {
	e.OrbitAngle += s.tuning.OrbitRateRadS * dt
	ring, _ := geom.Vec3{
		X: math.Cos(e.OrbitAngle),
		Y: 0.4 * math.Sin(e.OrbitAngle*1.3),
		Z: math.Sin(e.OrbitAngle),
	}.Normalized()
	radius := s.tuning.OrbitRadiusM + e.OrbitJitter

	wander := geom.Vec3{
		X: math.Sin(e.WanderPhase[0] + e.WanderSpeed[0]*e.clock),
		Y: math.Sin(e.WanderPhase[1] + e.WanderSpeed[1]*e.clock),
		Z: math.Sin(e.WanderPhase[2] + e.WanderSpeed[2]*e.clock),
	}.Scale(s.tuning.WanderAmplitudeM)

	return player.Position.
		Add(ring.Scale(radius)).
		Add(e.FormationOffset).
		Add(wander)
}

// avoidance sums inverse-distance-weighted repulsion from neighbors and
// obstacles. Near an obstacle, a per-archetype chance attenuates the push
// sharply, so some craft clip dangerously close.
func (s *Squadron) avoidance(e *Entity, obstacles []Obstacle) geom.Vec3 {
	var push geom.Vec3

	for _, other := range s.Entities {
		if other == e {
			continue
		}
		delta := e.Position.Sub(other.Position)
		dist := delta.Len()
		if dist >= s.tuning.AvoidRadiusM {
			continue
		}
		dir, ok := delta.Normalized()
		if !ok {
			continue
		}
		push = push.Add(dir.Scale(s.tuning.AvoidStrength / math.Max(dist, 1)))
	}

	for _, o := range obstacles {
		clearance := o.Radius + s.tuning.ObstacleBufferM
		delta := e.Position.Sub(o.Position)
		dist := delta.Len()
		if dist >= clearance {
			continue
		}
		dir, ok := delta.Normalized()
		if !ok {
			dir = geom.Vec3{Y: 1}
		}
		strength := s.tuning.AvoidStrength / math.Max(dist, 1)
		if s.randFloat() < e.Archetype.CollisionFailChance {
			strength *= s.tuning.AvoidFailScale
		}
		push = push.Add(dir.Scale(strength))
	}

	return push
}

// orient blends velocity direction with direction-to-player and rotates the
// facing toward the blend at a capped rate. A near-zero velocity falls back
// fully to the player direction; fully degenerate geometry holds the current
// facing instead of producing NaNs.
func (s *Squadron) orient(e *Entity, dt float64, player PlayerState) {
	toPlayer, ok := player.Position.Sub(e.Position).Normalized()
	if !ok {
		toPlayer = e.Forward
		if toPlayer == (geom.Vec3{}) {
			toPlayer = geom.Vec3{Z: 1}
		}
	}

	target := toPlayer
	if velDir, moving := e.Velocity.Normalized(); moving {
		w := s.tuning.VelocityFacingWeight
		if blended, ok := velDir.Scale(w).Add(toPlayer.Scale(1 - w)).Normalized(); ok {
			target = blended
		}
	}

	e.Forward = geom.RotateToward(e.Forward, target, s.tuning.TurnRateRadS*dt)
}
