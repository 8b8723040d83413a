package main

import (
	"os"

	"golang.org/x/term"

	"spacecombat-sim/internal/config"
	"spacecombat-sim/internal/sim"
)

// newWriters sets up entity, event, and state writers based on flags and env
// vars. It returns the writers and a cleanup function to close any resources.
func newWriters(cfg *config.CombatConfig, printOnly bool, output, logFile string) (sim.TelemetryWriter, sim.EventWriter, sim.StateWriter, func(), error) {
	cleanup := func() {}

	writer, eventWriter, stateWriter, closer, err := baseWriters(cfg, printOnly, output)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	if logFile == "" {
		return writer, eventWriter, stateWriter, closer, nil
	}

	fw, err := sim.NewFileWriter(logFile, logFile+".events", logFile+".state")
	if err != nil {
		closer()
		return nil, nil, nil, nil, err
	}
	mw := sim.NewMultiWriter(
		[]sim.TelemetryWriter{writer, fw},
		[]sim.EventWriter{eventWriter, fw},
		[]sim.StateWriter{stateWriter, fw},
	)
	cleanup = func() {
		fw.Close()
		closer()
	}
	return mw, mw, mw, cleanup, nil
}

// baseWriters chooses the underlying writers: GreptimeDB when an endpoint is
// configured, otherwise a console writer picked by the output mode.
func baseWriters(cfg *config.CombatConfig, printOnly bool, output string) (sim.TelemetryWriter, sim.EventWriter, sim.StateWriter, func(), error) {
	noop := func() {}

	if !printOnly && os.Getenv("GREPTIMEDB_ENDPOINT") != "" {
		w, err := sim.NewGreptimeDBWriter(os.Getenv("GREPTIMEDB_ENDPOINT"), greptimeDatabase())
		if err != nil {
			return nil, nil, nil, nil, err
		}
		return w, w, w, noop, nil
	}

	switch consoleMode(output) {
	case "tui":
		w := sim.NewTUIWriter(cfg)
		return w, w, w, func() { w.Close() }, nil
	case "color":
		w := sim.NewColorStdoutWriter(cfg)
		return w, w, w, noop, nil
	default:
		w := sim.NewJSONStdoutWriter()
		return w, w, w, noop, nil
	}
}

// consoleMode resolves "auto" against the terminal: colorized output on a
// TTY, plain JSON lines when piped.
func consoleMode(output string) string {
	if output != "auto" && output != "" {
		return output
	}
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return "color"
	}
	return "json"
}

func greptimeDatabase() string {
	if db := os.Getenv("GREPTIMEDB_DATABASE"); db != "" {
		return db
	}
	return "public"
}

// newTelemetryWriter creates an entity-row writer without event or state
// handling, used by replay.
func newTelemetryWriter(cfg *config.CombatConfig, printOnly bool, output string) (sim.TelemetryWriter, func(), error) {
	w, _, _, cleanup, err := newWriters(cfg, printOnly, output, "")
	return w, cleanup, err
}
