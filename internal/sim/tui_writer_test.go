package sim

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"spacecombat-sim/internal/config"
	"spacecombat-sim/internal/telemetry"
)

type fakeProgram struct{ msgs []tea.Msg }

func (f *fakeProgram) Send(msg tea.Msg) { f.msgs = append(f.msgs, msg) }

func TestTUIWriterMessages(t *testing.T) {
	p := &fakeProgram{}
	w := &TUIWriter{program: p}

	row := telemetry.EntityRow{SessionID: "s", EntityID: "e1", Archetype: "fighter", Timestamp: time.Unix(0, 0).UTC()}
	if err := w.Write(row); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, ok := p.msgs[0].(logMsg); !ok {
		t.Fatalf("expected logMsg, got %T", p.msgs[0])
	}
	if _, ok := p.msgs[1].(entityMsg); !ok {
		t.Fatalf("expected entityMsg, got %T", p.msgs[1])
	}

	if err := w.WriteEvent(telemetry.EventRow{Type: telemetry.EventWaveStarted, Timestamp: time.Unix(0, 0).UTC()}); err != nil {
		t.Fatalf("event: %v", err)
	}
	if _, ok := p.msgs[2].(eventMsg); !ok {
		t.Fatalf("expected eventMsg, got %T", p.msgs[2])
	}

	if err := w.WriteState(telemetry.SessionStateRow{Wave: 1}); err != nil {
		t.Fatalf("state: %v", err)
	}
	if _, ok := p.msgs[3].(stateMsg); !ok {
		t.Fatalf("expected stateMsg, got %T", p.msgs[3])
	}

	w.SetAdminStatus(true)
	if _, ok := p.msgs[4].(adminMsg); !ok {
		t.Fatalf("expected adminMsg, got %T", p.msgs[4])
	}
}

func TestTUIModelScrollToggle(t *testing.T) {
	m := newTUIModel(config.Default())
	m.vp.Height = 1
	m.vp.Width = 20
	mi, _ := m.Update(logMsg{line: "l1"})
	m = mi.(tuiModel)
	mi, _ = m.Update(logMsg{line: "l2"})
	m = mi.(tuiModel)
	if m.vp.YOffset != 1 {
		t.Fatalf("expected YOffset 1, got %d", m.vp.YOffset)
	}
	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	m = mi.(tuiModel)
	if m.autoscroll {
		t.Fatalf("autoscroll should be off")
	}
	mi, _ = m.Update(logMsg{line: "l3"})
	m = mi.(tuiModel)
	if m.vp.YOffset != 1 {
		t.Fatalf("expected YOffset unchanged, got %d", m.vp.YOffset)
	}
}

func TestTUIModelRadarView(t *testing.T) {
	m := newTUIModel(config.Default())
	mi, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 20})
	m = mi.(tuiModel)

	row := telemetry.EntityRow{EntityID: "e1", Archetype: "interceptor", X: 50, Z: 50, Phase: telemetry.PhaseCombat, Timestamp: time.Unix(0, 0)}
	mi, _ = m.Update(entityMsg{row})
	m = mi.(tuiModel)
	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m = mi.(tuiModel)
	if !m.showRadar {
		t.Fatalf("radar not toggled")
	}
	view := m.View()
	if !strings.Contains(view, "radar") {
		t.Fatalf("radar header missing: %q", view)
	}
	if !strings.Contains(view, "I") {
		t.Fatalf("interceptor blip missing from radar view")
	}
}

func TestTUIModelDestroyKey(t *testing.T) {
	m := newTUIModel(config.Default())
	called := make(chan struct{}, 1)
	mi, _ := m.Update(setDestroyMsg{fn: func() { called <- struct{}{} }})
	m = mi.(tuiModel)
	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	_ = mi
	select {
	case <-called:
	case <-time.After(time.Second):
		t.Fatal("destroy callback not invoked")
	}
}
