package sim

import (
	"math"
	"math/rand"
	"time"

	"spacecombat-sim/internal/config"
	"spacecombat-sim/internal/geom"
	"spacecombat-sim/internal/squadron"
)

// Autopilot is a scripted player stand-in for headless runs: it weaves
// through the arena on a closed evasive path and returns fire at the nearest
// adversary, with configurable marksmanship.
type Autopilot struct {
	session *Session
	player  config.Player

	pos      geom.Vec3
	clock    float64
	lastShot time.Time

	rand      *rand.Rand
	randFloat func() float64 // injectable for tests
}

// NewAutopilot builds an autopilot for the session. A nil rand falls back to
// a time-seeded one.
func NewAutopilot(session *Session, player config.Player, r *rand.Rand) *Autopilot {
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	a := &Autopilot{
		session: session,
		player:  player,
		rand:    r,
	}
	a.randFloat = r.Float64
	return a
}

// Step advances the autopilot by dt seconds and returns the player snapshot
// for this tick. Firing goes straight into the session.
func (a *Autopilot) Step(dt float64, now time.Time) squadron.PlayerState {
	a.clock += dt

	// Closed weave around the arena center. The incommensurate frequencies
	// keep the path from settling into a repeating circle.
	speed := a.player.CruiseSpeed
	target := geom.Vec3{
		X: math.Sin(a.clock*0.31) * speed * 3,
		Y: math.Sin(a.clock*0.53) * speed,
		Z: math.Cos(a.clock*0.41) * speed * 3,
	}
	a.pos = geom.Lerp(a.pos, target, math.Min(1, dt*0.8))

	a.fire(now)

	return squadron.PlayerState{Position: a.pos, Radius: a.player.CollisionRadiusM}
}

// fire shoots at the nearest adversary when the cooldown has elapsed. A roll
// against the accuracy setting decides between a true aim and a jittered one.
func (a *Autopilot) fire(now time.Time) {
	if now.Sub(a.lastShot).Seconds() < a.player.FireCooldownS {
		return
	}
	transforms := a.session.Transforms()
	if len(transforms) == 0 {
		return
	}

	nearest := transforms[0]
	best := nearest.Position.Sub(a.pos).LenSq()
	for _, tr := range transforms[1:] {
		if d := tr.Position.Sub(a.pos).LenSq(); d < best {
			nearest, best = tr, d
		}
	}

	aim := nearest.Position
	if a.randFloat() > a.player.Accuracy {
		jitter := geom.RandUnit(a.rand).Scale(4 + a.randFloat()*8)
		aim = aim.Add(jitter)
	}
	dir, ok := aim.Sub(a.pos).Normalized()
	if !ok {
		return
	}

	a.lastShot = now
	a.session.AddPlayerShot(
		a.pos.Add(dir.Scale(a.player.CollisionRadiusM+1)),
		dir.Scale(a.player.ProjectileSpeed),
		a.player.ProjectileLifetimeS,
	)
}
