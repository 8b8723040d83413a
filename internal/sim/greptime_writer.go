package sim

import (
	"context"
	"log/slog"
	"net"
	"strconv"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"

	"spacecombat-sim/internal/telemetry"
)

// greptimeClient abstracts the ingester client for testing.
type greptimeClient interface {
	Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error)
}

// GreptimeDBWriter writes combat telemetry to GreptimeDB via the ingester client.
type GreptimeDBWriter struct {
	client      greptimeClient
	entityTable string
	eventTable  string
	stateTable  string
	log         *slog.Logger
}

// NewGreptimeDBWriter creates a GreptimeDB writer. The endpoint is host or
// host:port; the port defaults to the gRPC ingest port 4001.
func NewGreptimeDBWriter(endpoint, database string) (*GreptimeDBWriter, error) {
	host, portStr, err := net.SplitHostPort(endpoint)
	if err != nil {
		host, portStr = endpoint, "4001"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		port = 4001
	}

	client, err := greptime.NewClient(greptime.NewConfig(host).
		WithPort(port).
		WithDatabase(database))
	if err != nil {
		return nil, err
	}

	return &GreptimeDBWriter{
		client:      client,
		entityTable: telemetry.EntityTableName,
		eventTable:  "combat_events",
		stateTable:  "combat_session_state",
		log:         slog.Default(),
	}, nil
}

// Write inserts a single entity row.
func (w *GreptimeDBWriter) Write(row telemetry.EntityRow) error {
	return w.WriteBatch([]telemetry.EntityRow{row})
}

// WriteBatch inserts multiple entity rows.
func (w *GreptimeDBWriter) WriteBatch(rows []telemetry.EntityRow) error {
	if len(rows) == 0 {
		return nil
	}

	tbl, err := table.New(w.entityTable)
	if err != nil {
		return err
	}
	tbl.AddTagColumn("session_id", types.STRING)
	tbl.AddTagColumn("entity_id", types.STRING)
	tbl.AddTagColumn("archetype", types.STRING)
	tbl.AddFieldColumn("wave", types.INT64)
	tbl.AddFieldColumn("x", types.FLOAT64)
	tbl.AddFieldColumn("y", types.FLOAT64)
	tbl.AddFieldColumn("z", types.FLOAT64)
	tbl.AddFieldColumn("health", types.INT64)
	tbl.AddFieldColumn("phase", types.STRING)
	tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND)

	for _, r := range rows {
		if err := tbl.AddRow(r.SessionID, r.EntityID, r.Archetype,
			int64(r.Wave), r.X, r.Y, r.Z, int64(r.Health), r.Phase, r.Timestamp); err != nil {
			return err
		}
	}

	if _, err := w.client.Write(context.Background(), tbl); err != nil {
		w.log.Error("entity write failed", "error", err)
		return err
	}
	return nil
}

// WriteEvent inserts a single event row.
func (w *GreptimeDBWriter) WriteEvent(row telemetry.EventRow) error {
	return w.WriteEvents([]telemetry.EventRow{row})
}

// WriteEvents inserts multiple event rows.
func (w *GreptimeDBWriter) WriteEvents(rows []telemetry.EventRow) error {
	if len(rows) == 0 {
		return nil
	}

	tbl, err := table.New(w.eventTable)
	if err != nil {
		return err
	}
	tbl.AddTagColumn("session_id", types.STRING)
	tbl.AddTagColumn("type", types.STRING)
	tbl.AddFieldColumn("entity_id", types.STRING)
	tbl.AddFieldColumn("archetype", types.STRING)
	tbl.AddFieldColumn("wave", types.INT64)
	tbl.AddFieldColumn("x", types.FLOAT64)
	tbl.AddFieldColumn("y", types.FLOAT64)
	tbl.AddFieldColumn("z", types.FLOAT64)
	tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND)

	for _, r := range rows {
		if err := tbl.AddRow(r.SessionID, r.Type, r.EntityID, r.Archetype,
			int64(r.Wave), r.X, r.Y, r.Z, r.Timestamp); err != nil {
			return err
		}
	}

	if _, err := w.client.Write(context.Background(), tbl); err != nil {
		w.log.Error("event write failed", "error", err)
		return err
	}
	return nil
}

// WriteState inserts a session state row.
func (w *GreptimeDBWriter) WriteState(row telemetry.SessionStateRow) error {
	tbl, err := table.New(w.stateTable)
	if err != nil {
		return err
	}
	tbl.AddTagColumn("session_id", types.STRING)
	tbl.AddFieldColumn("wave", types.INT64)
	tbl.AddFieldColumn("state", types.STRING)
	tbl.AddFieldColumn("live_entities", types.INT64)
	tbl.AddFieldColumn("hostile_projectiles", types.INT64)
	tbl.AddFieldColumn("player_projectiles", types.INT64)
	tbl.AddFieldColumn("fire_enabled", types.BOOLEAN)
	tbl.AddFieldColumn("player_health", types.INT64)
	tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND)

	if err := tbl.AddRow(row.SessionID, int64(row.Wave), row.State,
		int64(row.LiveEntities), int64(row.HostileProjectiles), int64(row.PlayerProjectiles),
		row.FireEnabled, int64(row.PlayerHealth), row.Timestamp); err != nil {
		return err
	}

	if _, err := w.client.Write(context.Background(), tbl); err != nil {
		w.log.Error("state write failed", "error", err)
		return err
	}
	return nil
}
