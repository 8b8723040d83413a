package sim

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"spacecombat-sim/internal/config"
	"spacecombat-sim/internal/telemetry"
)

func TestJSONStdoutWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	w := &JSONStdoutWriter{out: buf}
	row := telemetry.EntityRow{SessionID: "s1", EntityID: "e1", Timestamp: time.Unix(0, 0)}
	if err := w.Write(row); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if !strings.HasPrefix(strings.TrimSpace(buf.String()), "{") {
		t.Fatalf("expected JSON output, got %q", buf.String())
	}
}

func TestColorStdoutWriterOverviewOnce(t *testing.T) {
	buf := &bytes.Buffer{}
	w := &ColorStdoutWriter{cfg: config.Default(), out: buf}
	row := telemetry.EntityRow{
		SessionID: "s1", EntityID: "e1", Archetype: "fighter",
		Wave: 1, Health: 3, Phase: telemetry.PhaseCombat, Timestamp: time.Unix(0, 0),
	}
	if err := w.Write(row); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	output := buf.String()
	if !strings.Contains(output, "Encounter Configuration:") || !strings.Contains(output, "Waves:") {
		t.Fatalf("overview not printed: %q", output)
	}
	if !strings.Contains(output, "\x1b[") {
		t.Fatalf("expected color codes in output: %q", output)
	}

	buf.Reset()
	if err := w.Write(row); err != nil {
		t.Fatalf("second write failed: %v", err)
	}
	if strings.Contains(buf.String(), "Encounter Configuration:") {
		t.Fatalf("overview printed more than once")
	}
}

func TestColorStdoutWriterEventAndState(t *testing.T) {
	buf := &bytes.Buffer{}
	w := &ColorStdoutWriter{cfg: config.Default(), out: buf}
	if err := w.WriteEvent(telemetry.EventRow{Type: telemetry.EventEnemyDestroyed, Archetype: "fighter", Wave: 2, Timestamp: time.Unix(0, 0)}); err != nil {
		t.Fatalf("event write failed: %v", err)
	}
	if !strings.Contains(buf.String(), "enemy_destroyed") {
		t.Fatalf("event type missing from output: %q", buf.String())
	}
	buf.Reset()
	if err := w.WriteState(telemetry.SessionStateRow{State: "wave_active", Wave: 2, Timestamp: time.Unix(0, 0)}); err != nil {
		t.Fatalf("state write failed: %v", err)
	}
	if !strings.Contains(buf.String(), "wave_active") {
		t.Fatalf("state missing from output: %q", buf.String())
	}
}
