// Squadron owns the live adversary instances and their combat state.
package squadron

import (
	"log/slog"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"

	"spacecombat-sim/internal/archetype"
	"spacecombat-sim/internal/config"
	"spacecombat-sim/internal/geom"
)

// PlayerState is the per-tick snapshot of the player craft supplied by the
// host loop. The squadron never mutates it.
type PlayerState struct {
	Position geom.Vec3
	Radius   float64
}

// Obstacle is a read-only hazard snapshot used for avoidance only.
type Obstacle struct {
	Position geom.Vec3
	Radius   float64
}

// Transform is an adversary world transform exposed to collaborators
// (camera framing, external collision checks).
type Transform struct {
	ID        string
	Archetype archetype.Class
	Position  geom.Vec3
	Forward   geom.Vec3
}

// Composition maps adversary classes to spawn counts.
type Composition map[archetype.Class]int

// Total returns the summed spawn count.
func (c Composition) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// Callbacks propagate combat outcomes to the host. Nil members are skipped.
type Callbacks struct {
	PlayerHit      func()
	EnemyHit       func(class archetype.Class, id string, health int)
	EnemyDestroyed func(class archetype.Class)
	Explosion      func(pos geom.Vec3)
}

// Stats counts fire-control decisions, mainly for observability and tests.
type Stats struct {
	ShotsFired       int
	DeliberateMisses int
}

// Squadron is the engagement entity store plus the per-tick combat pipeline:
// steering for all entities, then fire control, then projectile advancement
// and collision resolution.
type Squadron struct {
	registry  *archetype.Registry
	tuning    config.Tuning
	callbacks Callbacks
	log       *slog.Logger

	Entities    []*Entity
	hostile     []*Projectile
	playerShots []*Projectile

	fireEnabled bool
	Stats       Stats

	rand      *rand.Rand
	randFloat func() float64 // injectable for tests

	spawnFailures map[archetype.Class]bool // report missing archetypes once
}

// New creates an empty squadron. A nil rand falls back to a time-seeded one.
func New(reg *archetype.Registry, tuning config.Tuning, cb Callbacks, r *rand.Rand) *Squadron {
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s := &Squadron{
		registry:      reg,
		tuning:        tuning,
		callbacks:     cb,
		log:           slog.Default(),
		fireEnabled:   true,
		rand:          r,
		spawnFailures: make(map[archetype.Class]bool),
	}
	s.randFloat = r.Float64
	return s
}

// SetLogger replaces the squadron logger.
func (s *Squadron) SetLogger(l *slog.Logger) {
	if l != nil {
		s.log = l
	}
}

// Spawn populates the squadron with the requested composition. Every entity
// starts in its scripted approach phase from a point on a shell around the
// player. Unknown classes are reported once and skipped so a missing asset
// never aborts the encounter.
func (s *Squadron) Spawn(comp Composition, player PlayerState, now time.Time) {
	classes := make([]archetype.Class, 0, len(comp))
	for c := range comp {
		classes = append(classes, c)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i] < classes[j] })

	total := comp.Total()
	slot := 0
	for _, class := range classes {
		arch, ok := s.registry.Get(class)
		if !ok {
			if !s.spawnFailures[class] {
				s.log.Error("archetype unavailable, spawning none", "class", class)
				s.spawnFailures[class] = true
			}
			slot += comp[class]
			continue
		}
		for i := 0; i < comp[class]; i++ {
			s.Entities = append(s.Entities, s.newEntity(arch, player, slot, total, now))
			slot++
		}
	}
}

func (s *Squadron) newEntity(arch *archetype.Archetype, player PlayerState, slot, total int, now time.Time) *Entity {
	spawnDir := geom.RandUnit(s.rand)
	spawn := player.Position.Add(spawnDir.Scale(s.tuning.OrbitRadiusM * 3))

	slotAngle := 2 * math.Pi * float64(slot) / float64(max(total, 1))
	formation := geom.Vec3{
		X: math.Cos(slotAngle),
		Y: 0.3 * math.Sin(slotAngle*2),
		Z: math.Sin(slotAngle),
	}.Scale(s.tuning.FormationRadiusM)

	forward, ok := player.Position.Sub(spawn).Normalized()
	if !ok {
		forward = geom.Vec3{Z: 1}
	}

	e := &Entity{
		ID:               uuid.New().String(),
		Archetype:        arch,
		Position:         spawn,
		Forward:          forward,
		OrbitAngle:       s.randFloat() * 2 * math.Pi,
		OrbitJitter:      s.symmetric(s.tuning.OrbitJitterM),
		FormationOffset:  formation,
		ApproachStart:    spawn,
		approachDuration: s.tuning.ApproachDurationS,
		Health:           arch.MaxHealth,
		LastShot:         now,
		FireDelay:        s.uniform(arch.FireDelayMin, arch.FireDelayMax),
		BoundingRadius:   arch.BoundingRadius(),
	}
	e.approach = newApproachTween(s.tuning.ApproachDurationS)
	for axis := 0; axis < 3; axis++ {
		e.WanderPhase[axis] = s.randFloat() * 2 * math.Pi
		e.WanderSpeed[axis] = s.uniform(arch.WanderSpeedMin, arch.WanderSpeedMax)
	}
	return e
}

// Reset is the bulk teardown: all entities and projectiles are discarded.
func (s *Squadron) Reset() {
	s.Entities = nil
	s.hostile = nil
	s.playerShots = nil
}

// Update runs one simulation tick. Steering for all entities completes before
// any fire-control decision, and all fire decisions complete before
// projectile advancement, so fresh projectiles are not moved twice.
func (s *Squadron) Update(dt float64, now time.Time, player PlayerState, obstacles []Obstacle) {
	if dt <= 0 {
		return
	}
	for _, e := range s.Entities {
		s.steer(e, dt, player, obstacles)
	}
	for _, e := range s.Entities {
		s.evaluateFire(e, now, player)
	}
	s.advanceProjectiles(dt, player)
}

// Count returns the number of live adversaries.
func (s *Squadron) Count() int {
	return len(s.Entities)
}

// Classes lists the archetype tags of all live adversaries, in entity order.
func (s *Squadron) Classes() []archetype.Class {
	out := make([]archetype.Class, len(s.Entities))
	for i, e := range s.Entities {
		out[i] = e.Archetype.Class
	}
	return out
}

// Transforms snapshots all live adversary world transforms.
func (s *Squadron) Transforms() []Transform {
	out := make([]Transform, len(s.Entities))
	for i, e := range s.Entities {
		out[i] = Transform{
			ID:        e.ID,
			Archetype: e.Archetype.Class,
			Position:  e.Position,
			Forward:   e.Forward,
		}
	}
	return out
}

// SetFireEnabled gates all fire-control decisions.
func (s *Squadron) SetFireEnabled(enabled bool) {
	s.fireEnabled = enabled
}

// FireEnabled reports whether adversaries may fire.
func (s *Squadron) FireEnabled() bool {
	return s.fireEnabled
}

// Destroy removes the referenced adversary and returns its archetype tag.
// Destroying an unknown reference is a no-op returning false.
func (s *Squadron) Destroy(id string) (archetype.Class, bool) {
	for i, e := range s.Entities {
		if e.ID == id {
			class := e.Archetype.Class
			s.removeEntity(i)
			return class, true
		}
	}
	return "", false
}

// DestroyOne removes an arbitrary adversary (developer tooling). On an empty
// squadron it is a no-op returning false.
func (s *Squadron) DestroyOne() (archetype.Class, bool) {
	if len(s.Entities) == 0 {
		return "", false
	}
	i := len(s.Entities) - 1
	class := s.Entities[i].Archetype.Class
	s.removeEntity(i)
	return class, true
}

// AddPlayerShot registers a projectile fired by the player.
func (s *Squadron) AddPlayerShot(pos, vel geom.Vec3, lifetime float64) {
	s.playerShots = append(s.playerShots, &Projectile{
		ID:       uuid.New().String(),
		Position: pos,
		Velocity: vel,
		Lifetime: lifetime,
	})
}

// HostileProjectiles returns the number of live adversary projectiles.
func (s *Squadron) HostileProjectiles() int {
	return len(s.hostile)
}

// PlayerProjectiles returns the number of live player projectiles.
func (s *Squadron) PlayerProjectiles() int {
	return len(s.playerShots)
}

func (s *Squadron) uniform(min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + s.randFloat()*(max-min)
}

func (s *Squadron) symmetric(r float64) float64 {
	return (s.randFloat()*2 - 1) * r
}
