package telemetry

import "time"

// SessionStateRow captures per-tick session state metrics.
type SessionStateRow struct {
	SessionID          string    `json:"session_id"`
	Wave               int       `json:"wave"`
	State              string    `json:"state"`
	LiveEntities       int       `json:"live_entities"`
	HostileProjectiles int       `json:"hostile_projectiles"`
	PlayerProjectiles  int       `json:"player_projectiles"`
	FireEnabled        bool      `json:"fire_enabled"`
	PlayerHealth       int       `json:"player_health"`
	Timestamp          time.Time `json:"ts"`
}
