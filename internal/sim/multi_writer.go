package sim

import "spacecombat-sim/internal/telemetry"

// MultiWriter fans out telemetry, event, and state rows to multiple writers.
type MultiWriter struct {
	telewriters  []TelemetryWriter
	eventwriters []EventWriter
	statewriters []StateWriter
}

// NewMultiWriter creates a new MultiWriter.
func NewMultiWriter(tws []TelemetryWriter, ews []EventWriter, sws []StateWriter) *MultiWriter {
	return &MultiWriter{telewriters: tws, eventwriters: ews, statewriters: sws}
}

// Write sends an entity row to all writers.
func (mw *MultiWriter) Write(row telemetry.EntityRow) error {
	for _, w := range mw.telewriters {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteBatch sends multiple entity rows to all writers, using batch if supported.
func (mw *MultiWriter) WriteBatch(rows []telemetry.EntityRow) error {
	for _, w := range mw.telewriters {
		if bw, ok := w.(batchWriter); ok {
			if err := bw.WriteBatch(rows); err != nil {
				return err
			}
			continue
		}
		for _, r := range rows {
			if err := w.Write(r); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteEvent sends an event row to all event writers.
func (mw *MultiWriter) WriteEvent(row telemetry.EventRow) error {
	for _, w := range mw.eventwriters {
		if err := w.WriteEvent(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteEvents sends multiple events to all event writers, using batch if supported.
func (mw *MultiWriter) WriteEvents(rows []telemetry.EventRow) error {
	for _, w := range mw.eventwriters {
		if bw, ok := w.(batchEventWriter); ok {
			if err := bw.WriteEvents(rows); err != nil {
				return err
			}
			continue
		}
		for _, r := range rows {
			if err := w.WriteEvent(r); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteState sends a session state row to all state writers.
func (mw *MultiWriter) WriteState(row telemetry.SessionStateRow) error {
	for _, w := range mw.statewriters {
		if err := w.WriteState(row); err != nil {
			return err
		}
	}
	return nil
}
