package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"spacecombat-sim/internal/config"
	"spacecombat-sim/internal/sim"
	"spacecombat-sim/internal/telemetry"
)

func TestNewWritersPrintOnly(t *testing.T) {
	t.Setenv("GREPTIMEDB_ENDPOINT", "greptime:4001")

	w, ew, sw, cleanup, err := newWriters(config.Default(), true, "json", "")
	if err != nil {
		t.Fatalf("newWriters failed: %v", err)
	}
	defer cleanup()

	if _, ok := w.(*sim.JSONStdoutWriter); !ok {
		t.Errorf("expected JSON stdout writer with --print-only, got %T", w)
	}
	if ew == nil || sw == nil {
		t.Error("expected event and state writers to be set")
	}
}

func TestNewWritersConsoleFallback(t *testing.T) {
	t.Setenv("GREPTIMEDB_ENDPOINT", "")

	w, _, _, cleanup, err := newWriters(config.Default(), false, "color", "")
	if err != nil {
		t.Fatalf("newWriters failed: %v", err)
	}
	defer cleanup()

	if _, ok := w.(*sim.ColorStdoutWriter); !ok {
		t.Errorf("expected color stdout writer without DB endpoint, got %T", w)
	}
}

func TestNewWritersLogFile(t *testing.T) {
	t.Setenv("GREPTIMEDB_ENDPOINT", "")
	logPath := filepath.Join(t.TempDir(), "combat.log")

	w, _, sw, cleanup, err := newWriters(config.Default(), true, "json", logPath)
	if err != nil {
		t.Fatalf("newWriters failed: %v", err)
	}

	if _, ok := w.(*sim.MultiWriter); !ok {
		t.Errorf("expected multi writer with --log-file, got %T", w)
	}

	now := time.Now()
	if err := w.Write(telemetry.EntityRow{
		SessionID: "s", EntityID: "e1", Archetype: "fighter", Timestamp: now,
	}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := sw.WriteState(telemetry.SessionStateRow{
		SessionID: "s", State: "wave_active", Wave: 1, Timestamp: now,
	}); err != nil {
		t.Fatalf("write state failed: %v", err)
	}
	cleanup()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected entity rows in log file")
	}
	state, err := os.ReadFile(logPath + ".state")
	if err != nil {
		t.Fatalf("reading state file: %v", err)
	}
	if len(state) == 0 {
		t.Error("expected state rows in state file")
	}
}

func TestConsoleModeExplicit(t *testing.T) {
	for _, mode := range []string{"json", "color", "tui"} {
		if got := consoleMode(mode); got != mode {
			t.Errorf("consoleMode(%q) = %q", mode, got)
		}
	}
}

func TestGreptimeDatabaseDefault(t *testing.T) {
	t.Setenv("GREPTIMEDB_DATABASE", "")
	if got := greptimeDatabase(); got != "public" {
		t.Errorf("expected default database public, got %q", got)
	}
	t.Setenv("GREPTIMEDB_DATABASE", "combat")
	if got := greptimeDatabase(); got != "combat" {
		t.Errorf("expected combat, got %q", got)
	}
}
