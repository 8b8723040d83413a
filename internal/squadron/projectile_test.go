package squadron

import (
	"testing"

	"spacecombat-sim/internal/archetype"
	"spacecombat-sim/internal/geom"
)

func TestProjectile_ExpiresAfterLifetime(t *testing.T) {
	s := testSquadron(Callbacks{})
	s.hostile = append(s.hostile, &Projectile{
		ID:       "h1",
		Position: geom.Vec3{X: 500},
		Velocity: geom.Vec3{Z: 100},
		Lifetime: 0.04,
	})

	s.advanceProjectiles(0.05, testPlayer())

	if s.HostileProjectiles() != 0 {
		t.Error("expired projectile should be removed")
	}
}

func TestProjectile_HitsPlayer(t *testing.T) {
	hits := 0
	s := testSquadron(Callbacks{PlayerHit: func() { hits++ }})
	s.hostile = append(s.hostile, &Projectile{
		ID:       "h1",
		Position: geom.Vec3{Z: -5},
		Velocity: geom.Vec3{Z: 100},
		Lifetime: 2,
	})

	s.advanceProjectiles(0.05, testPlayer())

	if hits != 1 {
		t.Errorf("expected 1 player hit, got %d", hits)
	}
	if s.HostileProjectiles() != 0 {
		t.Error("projectile should be consumed on impact")
	}
}

func TestPlayerShot_FirstMatchWins(t *testing.T) {
	hits := 0
	s := testSquadron(Callbacks{
		EnemyHit: func(archetype.Class, string, int) { hits++ },
	})
	arch, _ := archetype.NewRegistry().Get(archetype.ClassFighter)
	// Two overlapping adversaries; one projectile may damage only one.
	for _, id := range []string{"a", "b"} {
		s.Entities = append(s.Entities, &Entity{
			ID:             id,
			Archetype:      arch,
			Position:       geom.Vec3{Z: 50},
			Forward:        geom.Vec3{Z: -1},
			Progress:       1,
			Health:         arch.MaxHealth,
			BoundingRadius: arch.BoundingRadius(),
		})
	}
	s.AddPlayerShot(geom.Vec3{Z: 48}, geom.Vec3{Z: 40}, 2)

	s.advanceProjectiles(0.05, testPlayer())

	if hits != 1 {
		t.Errorf("expected exactly 1 enemy hit, got %d", hits)
	}
	if s.PlayerProjectiles() != 0 {
		t.Error("projectile should be consumed on impact")
	}
	total := s.Entities[0].Health + s.Entities[1].Health
	if total != 2*arch.MaxHealth-1 {
		t.Errorf("expected one point of damage total, healths sum to %d", total)
	}
}

func TestPlayerShot_DestroysAtZeroHealth(t *testing.T) {
	var destroyed []archetype.Class
	var lastHealth int
	s := testSquadron(Callbacks{
		EnemyHit:       func(_ archetype.Class, _ string, h int) { lastHealth = h },
		EnemyDestroyed: func(c archetype.Class) { destroyed = append(destroyed, c) },
	})
	arch, _ := archetype.NewRegistry().Get(archetype.ClassInterceptor)
	s.Entities = append(s.Entities, &Entity{
		ID:             "last",
		Archetype:      arch,
		Position:       geom.Vec3{Z: 30},
		Forward:        geom.Vec3{Z: -1},
		Progress:       1,
		Health:         1,
		BoundingRadius: arch.BoundingRadius(),
	})
	s.AddPlayerShot(geom.Vec3{Z: 29}, geom.Vec3{Z: 20}, 2)

	s.advanceProjectiles(0.05, testPlayer())

	if lastHealth != 0 {
		t.Errorf("hit callback should report 0 health, got %d", lastHealth)
	}
	if len(destroyed) != 1 || destroyed[0] != archetype.ClassInterceptor {
		t.Errorf("expected one interceptor destruction, got %v", destroyed)
	}
	if s.Count() != 0 {
		t.Errorf("destroyed entity still present, count=%d", s.Count())
	}
}

func TestPlayerShot_ThreeHitsDestroyOnce(t *testing.T) {
	var destroyed []archetype.Class
	hits := 0
	s := testSquadron(Callbacks{
		EnemyHit:       func(archetype.Class, string, int) { hits++ },
		EnemyDestroyed: func(c archetype.Class) { destroyed = append(destroyed, c) },
	})
	arch, _ := archetype.NewRegistry().Get(archetype.ClassFighter)
	s.Entities = append(s.Entities, &Entity{
		ID:             "tough",
		Archetype:      arch,
		Position:       geom.Vec3{Z: 30},
		Forward:        geom.Vec3{Z: -1},
		Progress:       1,
		Health:         3,
		BoundingRadius: arch.BoundingRadius(),
	})

	for i := 0; i < 3; i++ {
		s.AddPlayerShot(geom.Vec3{Z: 29}, geom.Vec3{Z: 20}, 2)
		s.advanceProjectiles(0.05, testPlayer())
	}

	if hits != 3 {
		t.Errorf("expected 3 confirmed hits, got %d", hits)
	}
	if len(destroyed) != 1 || destroyed[0] != archetype.ClassFighter {
		t.Errorf("expected exactly one fighter destruction, got %v", destroyed)
	}
	if s.Count() != 0 {
		t.Errorf("entity should be removed at zero health, count=%d", s.Count())
	}
}

func TestProjectile_MidSliceRemovalKeepsOthers(t *testing.T) {
	s := testSquadron(Callbacks{})
	for i, life := range []float64{2, 0.01, 2} {
		s.hostile = append(s.hostile, &Projectile{
			ID:       string(rune('a' + i)),
			Position: geom.Vec3{X: 500, Y: float64(i) * 10},
			Lifetime: life,
		})
	}

	s.advanceProjectiles(0.05, testPlayer())

	if s.HostileProjectiles() != 2 {
		t.Fatalf("expected 2 survivors, got %d", s.HostileProjectiles())
	}
	for _, p := range s.hostile {
		if p.ID == "b" {
			t.Error("expired middle projectile survived")
		}
	}
}
