// Telemetry row types with greptime tags
package telemetry

import (
	"os"
	"time"
)

// Entity phase values reported in telemetry.
const (
	PhaseApproach = "approach"
	PhaseCombat   = "combat"
)

// EntityRow represents one adversary state sample per tick.
type EntityRow struct {
	SessionID string    `json:"session_id"` // TAG
	EntityID  string    `json:"entity_id"`  // TAG
	Archetype string    `json:"archetype"`  // TAG
	Wave      int       `json:"wave"`       // FIELD
	X         float64   `json:"x"`          // FIELD
	Y         float64   `json:"y"`          // FIELD
	Z         float64   `json:"z"`          // FIELD
	Health    int       `json:"health"`     // FIELD
	Phase     string    `json:"phase"`      // FIELD
	Timestamp time.Time `json:"ts"`         // TIME INDEX
}

// EntityTableName holds the table name used when writing to GreptimeDB.
// It defaults to "combat_entities" but can be overridden via the
// GREPTIMEDB_TABLE environment variable.
var EntityTableName = func() string {
	if env := os.Getenv("GREPTIMEDB_TABLE"); env != "" {
		return env
	}
	return "combat_entities"
}()

func (EntityRow) TableName() string {
	return EntityTableName
}
