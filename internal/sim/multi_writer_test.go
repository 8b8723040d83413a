package sim

import (
	"testing"
	"time"

	"spacecombat-sim/internal/telemetry"
)

// batchMockWriter records whether the batch path was used.
type batchMockWriter struct {
	MockWriter
	batches int
}

func (w *batchMockWriter) WriteBatch(rows []telemetry.EntityRow) error {
	w.batches++
	w.Rows = append(w.Rows, rows...)
	return nil
}

func TestMultiWriterFanOut(t *testing.T) {
	w1 := &MockWriter{}
	w2 := &batchMockWriter{}
	ew := &MockEventWriter{}
	sw := &MockStateWriter{}
	mw := NewMultiWriter(
		[]TelemetryWriter{w1, w2},
		[]EventWriter{ew},
		[]StateWriter{sw},
	)

	rows := []telemetry.EntityRow{
		{SessionID: "s", EntityID: "e1", Timestamp: time.Unix(0, 0)},
		{SessionID: "s", EntityID: "e2", Timestamp: time.Unix(0, 0)},
	}
	if err := mw.WriteBatch(rows); err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}
	if len(w1.Rows) != 2 || len(w2.Rows) != 2 {
		t.Errorf("rows not fanned out: %d and %d", len(w1.Rows), len(w2.Rows))
	}
	if w2.batches != 1 {
		t.Errorf("batch-capable writer should receive one batch, got %d", w2.batches)
	}

	if err := mw.WriteEvent(telemetry.EventRow{Type: telemetry.EventVictory}); err != nil {
		t.Fatalf("WriteEvent: %v", err)
	}
	if len(ew.Events) != 1 {
		t.Errorf("event not fanned out")
	}

	if err := mw.WriteState(telemetry.SessionStateRow{Wave: 3}); err != nil {
		t.Fatalf("WriteState: %v", err)
	}
	if len(sw.States) != 1 || sw.States[0].Wave != 3 {
		t.Errorf("state not fanned out: %+v", sw.States)
	}
}
