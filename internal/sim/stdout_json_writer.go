package sim

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"spacecombat-sim/internal/telemetry"
)

// JSONStdoutWriter prints entity, event, and state rows as JSON lines.
type JSONStdoutWriter struct {
	out io.Writer
}

// NewJSONStdoutWriter creates a JSONStdoutWriter writing to os.Stdout.
func NewJSONStdoutWriter() *JSONStdoutWriter {
	return &JSONStdoutWriter{out: os.Stdout}
}

// Write outputs an entity row in JSON format.
func (w *JSONStdoutWriter) Write(row telemetry.EntityRow) error {
	data, _ := json.Marshal(row)
	fmt.Fprintln(w.out, string(data))
	return nil
}

// WriteBatch outputs multiple entity rows in JSON format.
func (w *JSONStdoutWriter) WriteBatch(rows []telemetry.EntityRow) error {
	for _, r := range rows {
		_ = w.Write(r)
	}
	return nil
}

// WriteEvent outputs an event row in JSON format.
func (w *JSONStdoutWriter) WriteEvent(row telemetry.EventRow) error {
	data, _ := json.Marshal(row)
	fmt.Fprintln(w.out, string(data))
	return nil
}

// WriteEvents outputs multiple event rows in JSON format.
func (w *JSONStdoutWriter) WriteEvents(rows []telemetry.EventRow) error {
	for _, r := range rows {
		_ = w.WriteEvent(r)
	}
	return nil
}

// WriteState outputs a session state row in JSON format.
func (w *JSONStdoutWriter) WriteState(row telemetry.SessionStateRow) error {
	data, _ := json.Marshal(row)
	fmt.Fprintln(w.out, string(data))
	return nil
}
