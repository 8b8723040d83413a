// Static per-class tuning data for adversary craft.
package archetype

import (
	"fmt"
	"sort"

	"spacecombat-sim/internal/config"
	"spacecombat-sim/internal/geom"
)

// Class identifies one visual/behavioral adversary class.
type Class string

const (
	ClassFighter     Class = "fighter"
	ClassInterceptor Class = "interceptor"
)

// Archetype is the immutable tuning profile shared by all adversaries of one
// class. Classes are data, not types: a single entity struct is parametrized
// by a registry lookup at spawn time.
type Archetype struct {
	Class Class

	// Weapons. Muzzle offsets are local-space (x=right, y=up, z=forward).
	Muzzles            []geom.Vec3
	ProjectileSpeed    float64 // m/s
	ProjectileLifetime float64 // seconds
	FireDelayMin       float64 // seconds
	FireDelayMax       float64 // seconds
	AimSpread          float64 // per-axis jitter on aimed shots, meters

	// Flight.
	CruiseSpeed    float64 // m/s
	MaxSpeed       float64 // m/s
	MaxAccel       float64 // m/s^2
	WanderSpeedMin float64 // rad/s
	WanderSpeedMax float64 // rad/s

	// Imperfect AI: chance per obstacle-proximity tick that avoidance is
	// sharply attenuated.
	CollisionFailChance float64

	MaxHealth   int
	SilhouetteM float64
	HitboxScale float64
}

// BoundingRadius is the collision sphere radius derived from the silhouette.
func (a *Archetype) BoundingRadius() float64 {
	return a.SilhouetteM * a.HitboxScale
}

func defaultFighter() *Archetype {
	return &Archetype{
		Class: ClassFighter,
		Muzzles: []geom.Vec3{
			{X: -1.8, Y: -0.4, Z: 2.2},
			{X: 1.8, Y: -0.4, Z: 2.2},
		},
		ProjectileSpeed:     180,
		ProjectileLifetime:  2.5,
		FireDelayMin:        1.2,
		FireDelayMax:        2.8,
		AimSpread:           3.5,
		CruiseSpeed:         38,
		MaxSpeed:            55,
		MaxAccel:            60,
		WanderSpeedMin:      0.4,
		WanderSpeedMax:      1.1,
		CollisionFailChance: 0.08,
		MaxHealth:           3,
		SilhouetteM:         3.2,
		HitboxScale:         1.0,
	}
}

func defaultInterceptor() *Archetype {
	return &Archetype{
		Class: ClassInterceptor,
		Muzzles: []geom.Vec3{
			{Y: -0.6, Z: 2.8},
		},
		ProjectileSpeed:     240,
		ProjectileLifetime:  2.0,
		FireDelayMin:        0.8,
		FireDelayMax:        1.8,
		AimSpread:           2.2,
		CruiseSpeed:         55,
		MaxSpeed:            80,
		MaxAccel:            95,
		WanderSpeedMin:      0.6,
		WanderSpeedMax:      1.6,
		CollisionFailChance: 0.04,
		MaxHealth:           2,
		SilhouetteM:         2.4,
		HitboxScale:         1.0,
	}
}

// Registry holds the known archetypes keyed by class.
type Registry struct {
	classes map[Class]*Archetype
}

// NewRegistry returns a registry with the built-in fighter and interceptor
// profiles.
func NewRegistry() *Registry {
	return &Registry{classes: map[Class]*Archetype{
		ClassFighter:     defaultFighter(),
		ClassInterceptor: defaultInterceptor(),
	}}
}

// Get returns the archetype for class, or false when the class is unknown.
func (r *Registry) Get(c Class) (*Archetype, bool) {
	a, ok := r.classes[c]
	return a, ok
}

// Classes lists the registered classes in stable order.
func (r *Registry) Classes() []Class {
	out := make([]Class, 0, len(r.classes))
	for c := range r.classes {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Apply overlays config overrides onto the built-in profiles. Zero values in
// the config keep the default for that field.
func (r *Registry) Apply(overrides []config.Archetype) error {
	for _, o := range overrides {
		a, ok := r.classes[Class(o.Class)]
		if !ok {
			return fmt.Errorf("archetype: unknown class %q", o.Class)
		}
		if o.Health > 0 {
			a.MaxHealth = o.Health
		}
		if o.CruiseSpeed > 0 {
			a.CruiseSpeed = o.CruiseSpeed
		}
		if o.MaxSpeed > 0 {
			a.MaxSpeed = o.MaxSpeed
		}
		if o.MaxAccel > 0 {
			a.MaxAccel = o.MaxAccel
		}
		if o.FireDelayMinS > 0 {
			a.FireDelayMin = o.FireDelayMinS
		}
		if o.FireDelayMaxS > 0 {
			a.FireDelayMax = o.FireDelayMaxS
		}
		if o.AimSpread > 0 {
			a.AimSpread = o.AimSpread
		}
		if o.ProjectileSpeed > 0 {
			a.ProjectileSpeed = o.ProjectileSpeed
		}
		if o.ProjectileLifetimeS > 0 {
			a.ProjectileLifetime = o.ProjectileLifetimeS
		}
		if o.WanderSpeedMin > 0 {
			a.WanderSpeedMin = o.WanderSpeedMin
		}
		if o.WanderSpeedMax > 0 {
			a.WanderSpeedMax = o.WanderSpeedMax
		}
		if o.CollisionFailChance > 0 {
			a.CollisionFailChance = o.CollisionFailChance
		}
		if o.SilhouetteM > 0 {
			a.SilhouetteM = o.SilhouetteM
		}
		if o.HitboxScale > 0 {
			a.HitboxScale = o.HitboxScale
		}
		if len(o.Muzzles) > 0 {
			muzzles := make([]geom.Vec3, len(o.Muzzles))
			for i, m := range o.Muzzles {
				muzzles[i] = geom.Vec3{X: m.X, Y: m.Y, Z: m.Z}
			}
			a.Muzzles = muzzles
		}
		if a.FireDelayMax < a.FireDelayMin {
			return fmt.Errorf("archetype %q: fire delay max below min", o.Class)
		}
	}
	return nil
}
