package telemetry

import "time"

// Combat event types.
const (
	EventPlayerHit      = "player_hit"
	EventEnemyHit       = "enemy_hit"
	EventEnemyDestroyed = "enemy_destroyed"
	EventWaveStarted    = "wave_started"
	EventWaveCleared    = "wave_cleared"
	EventVictory        = "victory"
	EventDefeat         = "defeat"
)

// EventRow describes one discrete combat event.
type EventRow struct {
	SessionID string    `json:"session_id"`
	Type      string    `json:"type"`
	EntityID  string    `json:"entity_id,omitempty"`
	Archetype string    `json:"archetype,omitempty"`
	Wave      int       `json:"wave"`
	X         float64   `json:"x,omitempty"`
	Y         float64   `json:"y,omitempty"`
	Z         float64   `json:"z,omitempty"`
	Timestamp time.Time `json:"ts"`
}
