package squadron

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"spacecombat-sim/internal/archetype"
	"spacecombat-sim/internal/geom"
)

// newApproachTween builds the ease-in/ease-out curve used for the scripted
// arrival between spawn point and orbit target.
func newApproachTween(duration float64) *gween.Tween {
	return gween.New(0, 1, float32(duration), ease.InOutQuint)
}

// Entity is one live adversary. Its transform is owned exclusively by the
// squadron: only the steering controller mutates position/orientation and
// only collision resolution mutates health.
type Entity struct {
	ID        string
	Archetype *archetype.Archetype

	Position geom.Vec3
	Forward  geom.Vec3 // unit facing vector
	Velocity geom.Vec3

	// Procedural orbit parameters.
	OrbitAngle      float64
	OrbitJitter     float64 // per-entity offset on the base orbit radius
	WanderPhase     [3]float64
	WanderSpeed     [3]float64
	FormationOffset geom.Vec3

	// Scripted arrival. Progress is the raw fraction of the approach
	// duration, monotonically non-decreasing and clamped to [0,1]; the
	// tween supplies the eased interpolation parameter.
	ApproachStart    geom.Vec3
	Progress         float64
	approach         *gween.Tween
	approachDuration float64

	Health    int
	LastShot  time.Time
	FireDelay float64 // seconds until the next shot is allowed
	HitFlash  float64 // seconds of hit flash remaining

	BoundingRadius float64

	clock float64 // local time base for the wander oscillators
}

// Approaching reports whether the entity is still in its scripted arrival.
func (e *Entity) Approaching() bool {
	return e.Progress < 1
}

// advanceApproach moves the scripted arrival forward by dt and returns the
// eased interpolation parameter in [0,1].
func (e *Entity) advanceApproach(dt float64) float64 {
	eased, finished := e.approach.Update(float32(dt))
	if p := e.Progress + dt/e.approachDuration; p < 1 {
		e.Progress = p
	} else {
		e.Progress = 1
	}
	if finished {
		e.Progress = 1
	}
	return float64(eased)
}
