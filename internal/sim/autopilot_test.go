package sim

import (
	"math/rand"
	"testing"
	"time"

	"spacecombat-sim/internal/squadron"
)

func TestAutopilotMovesAndStaysBounded(t *testing.T) {
	cfg := testConfig()
	s, _, _, _, _ := testSession(cfg)
	pilot := NewAutopilot(s, cfg.Player, rand.New(rand.NewSource(3)))

	now := time.Unix(0, 0)
	first := pilot.Step(0.05, now)
	var moved bool
	for i := 0; i < 100; i++ {
		now = now.Add(50 * time.Millisecond)
		p := pilot.Step(0.05, now)
		if p.Position != first.Position {
			moved = true
		}
		if p.Position.Len() > cfg.Arena.RadiusM {
			t.Fatalf("autopilot left the arena: %v", p.Position)
		}
		if p.Radius != cfg.Player.CollisionRadiusM {
			t.Fatalf("unexpected player radius %f", p.Radius)
		}
	}
	if !moved {
		t.Error("autopilot never moved")
	}
}

func TestAutopilotFiresAtTargets(t *testing.T) {
	cfg := testConfig()
	s, _, _, _, _ := testSession(cfg)
	pilot := NewAutopilot(s, cfg.Player, rand.New(rand.NewSource(3)))

	now := time.Unix(0, 0)
	// No targets yet, no shots.
	pilot.Step(0.05, now.Add(time.Second))
	if s.Squadron().PlayerProjectiles() != 0 {
		t.Fatal("autopilot fired with no targets")
	}

	s.Tick(0.05, squadron.PlayerState{Radius: cfg.Player.CollisionRadiusM})
	pilot.Step(0.05, now.Add(2*time.Second))
	if s.Squadron().PlayerProjectiles() == 0 {
		t.Fatal("autopilot should fire at a live target")
	}
}

func TestAutopilotRespectsCooldown(t *testing.T) {
	cfg := testConfig()
	s, _, _, _, _ := testSession(cfg)
	pilot := NewAutopilot(s, cfg.Player, rand.New(rand.NewSource(3)))

	now := time.Unix(10, 0)
	s.Tick(0.05, squadron.PlayerState{Radius: cfg.Player.CollisionRadiusM})

	pilot.Step(0.05, now)
	shots := s.Squadron().PlayerProjectiles()
	pilot.Step(0.05, now.Add(10*time.Millisecond))
	if s.Squadron().PlayerProjectiles() != shots {
		t.Error("second shot fired before the cooldown elapsed")
	}
	pilot.Step(0.05, now.Add(time.Second))
	if s.Squadron().PlayerProjectiles() == shots {
		t.Error("shot should fire once the cooldown elapses")
	}
}
