// Session orchestrating waves, combat ticks, and telemetry writes.
package sim

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"spacecombat-sim/internal/archetype"
	"spacecombat-sim/internal/config"
	"spacecombat-sim/internal/geom"
	"spacecombat-sim/internal/squadron"
	"spacecombat-sim/internal/telemetry"
)

// TelemetryWriter is an interface to support different output writers.
type TelemetryWriter interface {
	Write(telemetry.EntityRow) error
}

// Optional: writers can also support batch mode.
type batchWriter interface {
	WriteBatch([]telemetry.EntityRow) error
}

// EventWriter handles discrete combat events.
type EventWriter interface {
	WriteEvent(telemetry.EventRow) error
}

// Optional: event writers may support batch mode.
type batchEventWriter interface {
	WriteEvents([]telemetry.EventRow) error
}

// StateWriter handles per-tick session state rows.
type StateWriter interface {
	WriteState(telemetry.SessionStateRow) error
}

// State is the wave-orchestration state.
type State string

const (
	StateIdle       State = "idle"
	StateWaveActive State = "wave_active"
	StateInterWave  State = "inter_wave"
	StateVictory    State = "victory"
	StateDefeat     State = "defeat"
)

// Hooks let the host react to combat outcomes. Nil members are skipped.
type Hooks struct {
	Explosion           func(pos geom.Vec3)
	RestorePlayerHealth func()
}

// Session drives one combat encounter: the scripted wave sequence, the
// adversary squadron, player health accounting, and telemetry output.
type Session struct {
	sessionID    string
	cfg          *config.CombatConfig
	squad        *squadron.Squadron
	writer       TelemetryWriter
	eventWriter  EventWriter
	stateWriter  StateWriter
	hooks        Hooks
	log          *slog.Logger
	tickInterval time.Duration

	state        State
	wave         int // 1-based, 0 before the first wave
	playerHealth int

	// Inter-wave scheduling is deadline-based: the next wave starts on the
	// first tick at or past nextWaveAt. No timers, so a paused host clock
	// pauses the countdown with it.
	nextWaveAt      time.Time
	nextWavePending bool

	lastPlayer squadron.PlayerState
	obstacles  []squadron.Obstacle
	events     []telemetry.EventRow

	now func() time.Time
	mu  sync.Mutex
}

// NewSession builds a session from config. A nil rand falls back to a
// time-seeded one; an empty sessionID gets a generated UUID.
func NewSession(sessionID string, cfg *config.CombatConfig, reg *archetype.Registry,
	writer TelemetryWriter, eventWriter EventWriter, stateWriter StateWriter,
	tickInterval time.Duration, hooks Hooks, r *rand.Rand) *Session {

	if sessionID == "" {
		sessionID = uuid.New().String()
	}
	s := &Session{
		sessionID:    sessionID,
		cfg:          cfg,
		writer:       writer,
		eventWriter:  eventWriter,
		stateWriter:  stateWriter,
		hooks:        hooks,
		log:          slog.Default(),
		tickInterval: tickInterval,
		state:        StateIdle,
		playerHealth: cfg.Player.Health,
		now:          time.Now,
	}
	for _, o := range cfg.Arena.Obstacles {
		s.obstacles = append(s.obstacles, squadron.Obstacle{
			Position: geom.Vec3{X: o.Position.X, Y: o.Position.Y, Z: o.Position.Z},
			Radius:   o.Radius,
		})
	}
	s.squad = squadron.New(reg, cfg.Tuning, squadron.Callbacks{
		PlayerHit:      s.onPlayerHit,
		EnemyHit:       s.onEnemyHit,
		EnemyDestroyed: s.onEnemyDestroyed,
		Explosion:      s.onExplosion,
	}, r)
	return s
}

// SetLogger replaces the session logger and propagates it to the squadron.
func (s *Session) SetLogger(l *slog.Logger) {
	if l != nil {
		s.log = l
		s.squad.SetLogger(l)
	}
}

// SessionID returns the session identifier tagged onto all telemetry.
func (s *Session) SessionID() string { return s.sessionID }

// State returns the current orchestration state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Wave returns the current wave number, 0 before the first wave.
func (s *Session) Wave() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wave
}

// PlayerHealth returns the remaining player health.
func (s *Session) PlayerHealth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playerHealth
}

// Squadron exposes the adversary store for collaborators (autopilot, admin).
func (s *Session) Squadron() *squadron.Squadron { return s.squad }

func composition(w config.Wave) squadron.Composition {
	comp := squadron.Composition{}
	if w.Fighters > 0 {
		comp[archetype.ClassFighter] = w.Fighters
	}
	if w.Interceptors > 0 {
		comp[archetype.ClassInterceptor] = w.Interceptors
	}
	return comp
}

// StartWave spawns wave n (1-based) and enters wave_active. Out-of-range
// numbers are rejected.
func (s *Session) StartWave(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startWaveLocked(n)
}

func (s *Session) startWaveLocked(n int) {
	if n < 1 || n > len(s.cfg.Waves) {
		s.log.Error("wave out of range", "wave", n, "waves", len(s.cfg.Waves))
		return
	}
	s.wave = n
	s.state = StateWaveActive
	s.nextWavePending = false
	s.squad.Reset()
	s.playerHealth = s.cfg.Player.Health
	if s.hooks.RestorePlayerHealth != nil {
		s.hooks.RestorePlayerHealth()
	}
	s.squad.Spawn(composition(s.cfg.Waves[n-1]), s.lastPlayer, s.now())
	s.recordEvent(telemetry.EventRow{Type: telemetry.EventWaveStarted})
	s.log.Info("wave started", "wave", n, "entities", s.squad.Count())
}

// Reset returns the session to idle: squadron cleared, player health restored,
// fire re-enabled. Wave numbering restarts from the beginning.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.squad.Reset()
	s.squad.SetFireEnabled(true)
	s.state = StateIdle
	s.wave = 0
	s.nextWavePending = false
	s.playerHealth = s.cfg.Player.Health
	if s.hooks.RestorePlayerHealth != nil {
		s.hooks.RestorePlayerHealth()
	}
	s.log.Info("session reset")
}

// OnPlayerDestroyed forces defeat from an external cause (ramming an
// obstacle). Adversaries stay alive but stop firing.
func (s *Session) OnPlayerDestroyed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defeatLocked()
}

func (s *Session) defeatLocked() {
	if s.state == StateDefeat {
		return
	}
	s.state = StateDefeat
	s.squad.SetFireEnabled(false)
	if s.hooks.Explosion != nil {
		s.hooks.Explosion(s.lastPlayer.Position)
	}
	s.recordEvent(telemetry.EventRow{Type: telemetry.EventDefeat})
	s.log.Info("defeat", "wave", s.wave)
}

// Tick advances the session by dt seconds with the given player snapshot:
// squadron update, wave transitions, then telemetry output. Idle sessions
// start wave 1 on their first tick.
func (s *Session) Tick(dt float64, player squadron.PlayerState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.lastPlayer = player

	if s.state == StateIdle {
		s.startWaveLocked(1)
	}

	s.squad.Update(dt, now, player, s.obstacles)

	switch s.state {
	case StateWaveActive:
		if s.squad.Count() == 0 {
			s.recordEvent(telemetry.EventRow{Type: telemetry.EventWaveCleared})
			if s.wave >= len(s.cfg.Waves) {
				s.state = StateVictory
				s.recordEvent(telemetry.EventRow{Type: telemetry.EventVictory})
				s.log.Info("victory", "waves", s.wave)
			} else {
				s.state = StateInterWave
				s.nextWaveAt = now.Add(time.Duration(s.cfg.Tuning.InterWaveDelayS * float64(time.Second)))
				s.nextWavePending = true
				s.log.Info("wave cleared", "wave", s.wave)
			}
		}
	case StateInterWave:
		if s.nextWavePending && !now.Before(s.nextWaveAt) {
			s.startWaveLocked(s.wave + 1)
		}
	}

	s.flush(now)
}

// onPlayerHit runs inside the squadron update under the session lock.
func (s *Session) onPlayerHit() {
	s.recordEvent(telemetry.EventRow{
		Type: telemetry.EventPlayerHit,
		X:    s.lastPlayer.Position.X,
		Y:    s.lastPlayer.Position.Y,
		Z:    s.lastPlayer.Position.Z,
	})
	if s.playerHealth > 0 {
		s.playerHealth--
	}
	if s.playerHealth == 0 {
		s.defeatLocked()
	}
}

func (s *Session) onEnemyHit(class archetype.Class, id string, health int) {
	s.recordEvent(telemetry.EventRow{
		Type:      telemetry.EventEnemyHit,
		EntityID:  id,
		Archetype: string(class),
	})
}

func (s *Session) onEnemyDestroyed(class archetype.Class) {
	s.recordEvent(telemetry.EventRow{
		Type:      telemetry.EventEnemyDestroyed,
		Archetype: string(class),
	})
}

func (s *Session) onExplosion(pos geom.Vec3) {
	if s.hooks.Explosion != nil {
		s.hooks.Explosion(pos)
	}
}

func (s *Session) recordEvent(row telemetry.EventRow) {
	row.SessionID = s.sessionID
	row.Wave = s.wave
	row.Timestamp = s.now().UTC()
	s.events = append(s.events, row)
}

// flush writes the per-tick entity rows, the queued events, and the session
// state row. Write failures are logged, never fatal.
func (s *Session) flush(now time.Time) {
	if s.writer != nil {
		batch := s.entityRowsLocked(now)
		if bw, ok := s.writer.(batchWriter); ok {
			if err := bw.WriteBatch(batch); err != nil {
				s.log.Error("batch write failed", "error", err)
			}
		} else {
			for _, row := range batch {
				if err := s.writer.Write(row); err != nil {
					s.log.Error("write failed", "entity", row.EntityID, "error", err)
				}
			}
		}
	}

	if len(s.events) > 0 && s.eventWriter != nil {
		if bw, ok := s.eventWriter.(batchEventWriter); ok {
			if err := bw.WriteEvents(s.events); err != nil {
				s.log.Error("event batch write failed", "error", err)
			}
		} else {
			for _, e := range s.events {
				if err := s.eventWriter.WriteEvent(e); err != nil {
					s.log.Error("event write failed", "type", e.Type, "error", err)
				}
			}
		}
	}
	s.events = nil

	if s.stateWriter != nil {
		if err := s.stateWriter.WriteState(s.stateRowLocked(now)); err != nil {
			s.log.Error("state write failed", "error", err)
		}
	}
}

func (s *Session) entityRowsLocked(now time.Time) []telemetry.EntityRow {
	rows := make([]telemetry.EntityRow, 0, s.squad.Count())
	for _, e := range s.squad.Entities {
		phase := telemetry.PhaseCombat
		if e.Approaching() {
			phase = telemetry.PhaseApproach
		}
		rows = append(rows, telemetry.EntityRow{
			SessionID: s.sessionID,
			EntityID:  e.ID,
			Archetype: string(e.Archetype.Class),
			Wave:      s.wave,
			X:         e.Position.X,
			Y:         e.Position.Y,
			Z:         e.Position.Z,
			Health:    e.Health,
			Phase:     phase,
			Timestamp: now.UTC(),
		})
	}
	return rows
}

func (s *Session) stateRowLocked(now time.Time) telemetry.SessionStateRow {
	return telemetry.SessionStateRow{
		SessionID:          s.sessionID,
		Wave:               s.wave,
		State:              string(s.state),
		LiveEntities:       s.squad.Count(),
		HostileProjectiles: s.squad.HostileProjectiles(),
		PlayerProjectiles:  s.squad.PlayerProjectiles(),
		FireEnabled:        s.squad.FireEnabled(),
		PlayerHealth:       s.playerHealth,
		Timestamp:          now.UTC(),
	}
}

// AddPlayerShot registers a player projectile under the session lock.
func (s *Session) AddPlayerShot(pos, vel geom.Vec3, lifetime float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.squad.AddPlayerShot(pos, vel, lifetime)
}

// Transforms snapshots the adversary transforms under the session lock.
func (s *Session) Transforms() []squadron.Transform {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.squad.Transforms()
}

// DestroyOne removes an arbitrary adversary (developer tooling).
func (s *Session) DestroyOne() (archetype.Class, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	class, ok := s.squad.DestroyOne()
	if ok {
		s.log.Info("adversary removed via debug op", "class", string(class))
	}
	return class, ok
}

// StateSnapshot returns the current session state row for status endpoints.
func (s *Session) StateSnapshot() telemetry.SessionStateRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateRowLocked(s.now())
}

// TelemetrySnapshot returns the latest entity rows for status endpoints.
func (s *Session) TelemetrySnapshot() []telemetry.EntityRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entityRowsLocked(s.now())
}

// Run drives the session with the built-in autopilot until the context is
// canceled (blocking). Terminal states stop the loop.
func (s *Session) Run(ctx context.Context, pilot *Autopilot) {
	s.log.Info("session starting", "session", s.sessionID, "tick", s.tickInterval)
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	dt := s.tickInterval.Seconds()
	for {
		select {
		case <-ticker.C:
			player := pilot.Step(dt, s.now())
			s.Tick(dt, player)
			if st := s.State(); st == StateVictory || st == StateDefeat {
				s.log.Info("session finished", "state", string(st))
				return
			}
		case <-ctx.Done():
			s.log.Info("session stopping")
			return
		}
	}
}
