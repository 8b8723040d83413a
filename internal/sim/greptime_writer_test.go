package sim

import (
	"context"
	"testing"
	"time"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"

	"spacecombat-sim/internal/telemetry"
)

type mockGreptimeClient struct {
	table *table.Table
}

func (m *mockGreptimeClient) Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error) {
	if len(tables) > 0 {
		m.table = tables[0]
	}
	return &gpb.GreptimeResponse{}, nil
}

func TestGreptimeWriterEntityBatch(t *testing.T) {
	ts := time.Unix(0, 0).UTC()
	rows := []telemetry.EntityRow{
		{
			SessionID: "s1",
			EntityID:  "e1",
			Archetype: "fighter",
			Wave:      2,
			X:         1.5,
			Health:    3,
			Phase:     telemetry.PhaseCombat,
			Timestamp: ts,
		},
	}

	m := &mockGreptimeClient{}
	w := &GreptimeDBWriter{client: m, entityTable: "combat_entities"}

	if err := w.WriteBatch(rows); err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}
	if m.table == nil {
		t.Fatalf("expected table to be captured")
	}

	schema := m.table.GetRows().Schema
	if len(schema) != 10 {
		t.Fatalf("unexpected schema length: %d", len(schema))
	}
	values := m.table.GetRows().Rows[0].Values
	if got := values[0].GetStringValue(); got != "s1" {
		t.Fatalf("session_id = %s, want s1", got)
	}
	if got := values[2].GetStringValue(); got != "fighter" {
		t.Fatalf("archetype = %s, want fighter", got)
	}
	if got := values[3].GetI64Value(); got != 2 {
		t.Fatalf("wave = %d, want 2", got)
	}
}

func TestGreptimeWriterEvents(t *testing.T) {
	rows := []telemetry.EventRow{{
		SessionID: "s1",
		Type:      telemetry.EventEnemyDestroyed,
		Archetype: "interceptor",
		Wave:      1,
		Timestamp: time.Unix(0, 0).UTC(),
	}}

	m := &mockGreptimeClient{}
	w := &GreptimeDBWriter{client: m, eventTable: "combat_events"}

	if err := w.WriteEvents(rows); err != nil {
		t.Fatalf("WriteEvents: %v", err)
	}
	if m.table == nil {
		t.Fatalf("expected table to be captured")
	}
	if got := m.table.GetRows().Rows[0].Values[1].GetStringValue(); got != telemetry.EventEnemyDestroyed {
		t.Fatalf("type = %s, want %s", got, telemetry.EventEnemyDestroyed)
	}
}

func TestGreptimeWriterState(t *testing.T) {
	m := &mockGreptimeClient{}
	w := &GreptimeDBWriter{client: m, stateTable: "combat_session_state"}

	row := telemetry.SessionStateRow{
		SessionID:    "s1",
		Wave:         3,
		State:        "inter_wave",
		FireEnabled:  true,
		PlayerHealth: 7,
		Timestamp:    time.Unix(0, 0).UTC(),
	}
	if err := w.WriteState(row); err != nil {
		t.Fatalf("WriteState: %v", err)
	}
	if m.table == nil {
		t.Fatalf("expected table to be captured")
	}
	if got := m.table.GetRows().Rows[0].Values[2].GetStringValue(); got != "inter_wave" {
		t.Fatalf("state = %s, want inter_wave", got)
	}
}
