package sim

import (
	"fmt"
	"math"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"spacecombat-sim/internal/config"
	"spacecombat-sim/internal/telemetry"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// logMsg carries a telemetry log line for the viewport.
type logMsg struct{ line string }

// eventMsg carries a combat event log line.
type eventMsg struct{ line string }

// stateMsg carries a session state update.
type stateMsg struct{ telemetry.SessionStateRow }

// adminMsg reports admin server status.
type adminMsg struct{ active bool }

// entityMsg updates the radar position of one adversary.
type entityMsg struct{ telemetry.EntityRow }

type setDestroyMsg struct{ fn func() }

const maxSectionHeightPct = 0.25

// TUIWriter renders combat telemetry using a bubbletea TUI.
type TUIWriter struct {
	program    teaProgram
	done       chan struct{}
	sendSignal atomic.Bool
}

// NewTUIWriter starts a bubbletea program and returns a TUIWriter.
func NewTUIWriter(cfg *config.CombatConfig) *TUIWriter {
	w := &TUIWriter{done: make(chan struct{})}
	w.sendSignal.Store(true)
	p := tea.NewProgram(newTUIModel(cfg), tea.WithAltScreen())
	w.program = p
	go func() {
		_ = p.Start()
		close(w.done)
		if w.sendSignal.Load() {
			if proc, err := os.FindProcess(os.Getpid()); err == nil {
				_ = proc.Signal(os.Interrupt)
			}
		}
	}()
	return w
}

// Write implements TelemetryWriter.
func (w *TUIWriter) Write(row telemetry.EntityRow) error {
	phaseColor := colorGreen
	if row.Phase == telemetry.PhaseApproach {
		phaseColor = colorYellow
	}
	line := fmt.Sprintf("%s[%s]%s %swave=%d%s %s%s%s %sid=%s%s %spos=(%.1f,%.1f,%.1f)%s %shp=%d%s %s%s%s",
		colorGray, row.Timestamp.Format(time.RFC3339), colorReset,
		colorWhite(), row.Wave, colorReset,
		archetypeColor(row.Archetype), row.Archetype, colorReset,
		colorBlue, row.EntityID, colorReset,
		colorGreen, row.X, row.Y, row.Z, colorReset,
		colorRed, row.Health, colorReset,
		phaseColor, row.Phase, colorReset,
	)
	w.program.Send(logMsg{line: line})
	w.program.Send(entityMsg{row})
	return nil
}

// WriteBatch outputs multiple entity rows.
func (w *TUIWriter) WriteBatch(rows []telemetry.EntityRow) error {
	for _, r := range rows {
		_ = w.Write(r)
	}
	return nil
}

// WriteEvent implements EventWriter.
func (w *TUIWriter) WriteEvent(row telemetry.EventRow) error {
	line := fmt.Sprintf("%s[%s]%s %s%s%s wave=%d",
		colorGray, row.Timestamp.Format(time.RFC3339), colorReset,
		eventColor(row.Type), strings.ToUpper(row.Type), colorReset, row.Wave)
	if row.Archetype != "" {
		line += fmt.Sprintf(" archetype=%s", row.Archetype)
	}
	w.program.Send(eventMsg{line: line})
	return nil
}

// WriteEvents outputs multiple event rows.
func (w *TUIWriter) WriteEvents(rows []telemetry.EventRow) error {
	for _, r := range rows {
		_ = w.WriteEvent(r)
	}
	return nil
}

// WriteState implements StateWriter.
func (w *TUIWriter) WriteState(row telemetry.SessionStateRow) error {
	w.program.Send(stateMsg{SessionStateRow: row})
	return nil
}

// SetAdminStatus updates the admin server indicator.
func (w *TUIWriter) SetAdminStatus(active bool) {
	w.program.Send(adminMsg{active: active})
}

// SetDestroyer registers a callback bound to the destroy-one key.
func (w *TUIWriter) SetDestroyer(fn func()) {
	w.program.Send(setDestroyMsg{fn: fn})
}

// Close shuts down the TUI program and waits for cleanup.
func (w *TUIWriter) Close() error {
	w.sendSignal.Store(false)
	if w.program != nil {
		w.program.Send(tea.Quit())
	}
	if w.done != nil {
		<-w.done
	}
	return nil
}

type radarBlip struct {
	x, z      float64
	archetype string
	phase     string
}

type tuiModel struct {
	cfg          *config.CombatConfig
	table        table.Model
	vp           viewport.Model
	eventVP      viewport.Model
	logs         []string
	eventLogs    []string
	state        telemetry.SessionStateRow
	blips        map[string]radarBlip
	blipSeen     map[string]time.Time
	admin        bool
	wrap         bool
	autoscroll   bool
	help         bool
	showRadar    bool
	destroy      func()
	header       string
	headerHeight int
	height       int
}

func newTUIModel(cfg *config.CombatConfig) tuiModel {
	cols := []table.Column{
		{Title: "Config", Width: 22},
		{Title: "Value", Width: 10},
		{Title: "Config", Width: 22},
		{Title: "Value", Width: 10},
	}
	rows := []table.Row{
		{"Arena Radius (m)", fmt.Sprintf("%.0f", cfg.Arena.RadiusM), "Player Health", fmt.Sprintf("%d", cfg.Player.Health)},
		{"Orbit Radius (m)", fmt.Sprintf("%.0f", cfg.Tuning.OrbitRadiusM), "Deliberate Miss", fmt.Sprintf("%.2f", cfg.Tuning.DeliberateMissChance)},
		{"Approach (s)", fmt.Sprintf("%.1f", cfg.Tuning.ApproachDurationS), "Inter-Wave Delay (s)", fmt.Sprintf("%.1f", cfg.Tuning.InterWaveDelayS)},
		{"Waves", fmt.Sprintf("%d", len(cfg.Waves)), "Obstacles", fmt.Sprintf("%d", len(cfg.Arena.Obstacles))},
	}
	t := table.New(table.WithColumns(cols), table.WithRows(rows), table.WithHeight(len(rows)+1))
	return tuiModel{
		cfg:        cfg,
		table:      t,
		vp:         viewport.New(0, 0),
		eventVP:    viewport.New(0, 0),
		blips:      make(map[string]radarBlip),
		blipSeen:   make(map[string]time.Time),
		autoscroll: true,
	}
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.table.SetWidth(msg.Width)
		m.vp.Width = msg.Width
		m.eventVP.Width = msg.Width
		m.height = msg.Height
		m.header = m.table.View()
		m.headerHeight = lipgloss.Height(m.header)
		m.updateViewportHeight()
		m.refreshViewport()
		m.refreshEvents()
	case tea.KeyMsg:
		if m.help {
			switch msg.String() {
			case "?", "h", "esc":
				m.help = false
				m.updateViewportHeight()
			}
			return m, nil
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "w":
			m.wrap = !m.wrap
			m.refreshViewport()
			return m, nil
		case "s":
			m.autoscroll = !m.autoscroll
			if m.autoscroll {
				m.vp.GotoBottom()
				m.eventVP.GotoBottom()
			}
			return m, nil
		case "r":
			m.showRadar = !m.showRadar
			m.updateViewportHeight()
			return m, nil
		case "x":
			if m.destroy != nil {
				go m.destroy()
			}
			return m, nil
		case "h", "?":
			m.help = !m.help
			m.updateViewportHeight()
			return m, nil
		}
		if !m.autoscroll {
			switch msg.String() {
			case "j", "down":
				m.vp.LineDown(1)
				m.eventVP.LineDown(1)
			case "k", "up":
				m.vp.LineUp(1)
				m.eventVP.LineUp(1)
			case "pgdown", "ctrl+n":
				m.vp.LineDown(10)
				m.eventVP.LineDown(10)
			case "pgup", "ctrl+p":
				m.vp.LineUp(10)
				m.eventVP.LineUp(10)
			default:
				var cmd tea.Cmd
				m.vp, cmd = m.vp.Update(msg)
				m.eventVP, _ = m.eventVP.Update(msg)
				return m, cmd
			}
			return m, nil
		}
		return m, nil
	case logMsg:
		m.logs = append(m.logs, msg.line)
		if len(m.logs) > 1000 {
			m.logs = m.logs[len(m.logs)-1000:]
		}
		m.refreshViewport()
	case eventMsg:
		m.eventLogs = append(m.eventLogs, msg.line)
		if len(m.eventLogs) > 1000 {
			m.eventLogs = m.eventLogs[len(m.eventLogs)-1000:]
		}
		m.updateViewportHeight()
		m.refreshEvents()
		m.refreshViewport()
	case entityMsg:
		m.blips[msg.EntityID] = radarBlip{x: msg.X, z: msg.Z, archetype: msg.Archetype, phase: msg.Phase}
		m.blipSeen[msg.EntityID] = msg.Timestamp
		m.pruneBlips(msg.Timestamp)
	case stateMsg:
		m.state = msg.SessionStateRow
	case adminMsg:
		m.admin = msg.active
	case setDestroyMsg:
		m.destroy = msg.fn
	}
	return m, nil
}

// pruneBlips drops adversaries that stopped reporting (destroyed).
func (m *tuiModel) pruneBlips(now time.Time) {
	for id, seen := range m.blipSeen {
		if now.Sub(seen) > 2*time.Second {
			delete(m.blips, id)
			delete(m.blipSeen, id)
		}
	}
}

func (m tuiModel) maxSectionLines() int {
	h := int(float64(m.height) * maxSectionHeightPct)
	if h < 1 {
		h = 1
	}
	return h
}

func (m *tuiModel) updateViewportHeight() {
	bottomHeight := lipgloss.Height(m.renderBottom())

	eventLines := len(m.eventLogs)
	if eventLines == 0 {
		eventLines = 1
	}
	if max := m.maxSectionLines(); eventLines > max {
		eventLines = max
	}
	m.eventVP.Height = eventLines

	h := m.height - m.headerHeight - bottomHeight - m.eventVP.Height - 5
	if h < 0 {
		h = 0
	}
	m.vp.Height = h
	if m.autoscroll {
		m.vp.GotoBottom()
		m.eventVP.GotoBottom()
	}
}

func (m *tuiModel) refreshViewport() {
	var lines []string
	for _, l := range m.logs {
		if m.wrap {
			lines = append(lines, wordwrap.String(l, m.vp.Width))
		} else {
			lines = append(lines, l)
		}
	}
	m.vp.SetContent(strings.Join(lines, "\n"))
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

func (m *tuiModel) refreshEvents() {
	content := "none"
	if len(m.eventLogs) > 0 {
		content = strings.Join(m.eventLogs, "\n")
	}
	m.eventVP.SetContent(content)
	if m.autoscroll {
		m.eventVP.GotoBottom()
	}
}

func (m tuiModel) View() string {
	if m.help {
		return m.renderHelp()
	}
	divider := strings.Repeat("─", m.vp.Width)
	if m.showRadar {
		return strings.Join([]string{
			m.header,
			divider,
			m.renderRadar(),
			divider,
			m.renderBottom(),
		}, "\n")
	}
	return strings.Join([]string{
		m.header,
		divider,
		m.vp.View(),
		divider,
		"Events:",
		m.eventVP.View(),
		divider,
		m.renderBottom(),
	}, "\n")
}

// renderRadar draws a top-down X/Z view: player at center, obstacles as o,
// adversaries as archetype-colored blips.
func (m tuiModel) renderRadar() string {
	width := m.vp.Width
	height := m.height - m.headerHeight - lipgloss.Height(m.renderBottom()) - 4
	if height < 1 {
		height = 1
	}
	span := m.cfg.Arena.RadiusM
	if span <= 0 {
		span = 300
	}

	grid := make([][]string, height)
	for i := range grid {
		row := make([]string, width)
		for j := range row {
			row[j] = "."
		}
		grid[i] = row
	}
	place := func(x, z float64, cell string) {
		col := int((x + span) / (2 * span) * float64(width-1))
		rowIdx := int((span - z) / (2 * span) * float64(height-1))
		if rowIdx >= 0 && rowIdx < height && col >= 0 && col < width {
			grid[rowIdx][col] = cell
		}
	}

	for _, o := range m.cfg.Arena.Obstacles {
		place(o.Position.X, o.Position.Z, fmt.Sprintf("%so%s", colorGray, colorReset))
	}
	for _, b := range m.blips {
		sym := "F"
		if b.archetype == "interceptor" {
			sym = "I"
		}
		col := archetypeColor(b.archetype)
		if b.phase == telemetry.PhaseApproach {
			col = colorYellow
		}
		place(b.x, b.z, fmt.Sprintf("%s%s%s", col, sym, colorReset))
	}
	place(0, 0, fmt.Sprintf("%s@%s", colorGreen, colorReset))

	var b strings.Builder
	b.WriteString(fmt.Sprintf("radar ±%.0fm (top-down X/Z)\n", span))
	for _, row := range grid {
		b.WriteString(strings.Join(row, ""))
		b.WriteByte('\n')
	}
	scale := 2 * span / float64(width) * math.Min(10, float64(width)/3)
	b.WriteString(fmt.Sprintf("Scale: |%s| %.0fm  %s@%s=player %sF%s=fighter %sI%s=interceptor %so%s=obstacle",
		strings.Repeat("-", int(math.Min(10, float64(width)/3))), scale,
		colorGreen, colorReset, colorCyan, colorReset, colorMagenta, colorReset, colorGray, colorReset))
	return b.String()
}

func (m tuiModel) renderBottom() string {
	indicator := func(on bool) string {
		c := lipgloss.Color("9")
		if on {
			c = lipgloss.Color("10")
		}
		return lipgloss.NewStyle().Foreground(c).Render("●")
	}
	state := fmt.Sprintf("%sSTATE%s %s%s%s %swave=%d%s %sentities=%d%s %shostile=%d%s %sshots=%d%s %shp=%d%s",
		colorBlue, colorReset,
		colorWhite(), m.state.State, colorReset,
		colorYellow, m.state.Wave, colorReset,
		colorCyan, m.state.LiveEntities, colorReset,
		colorRed, m.state.HostileProjectiles, colorReset,
		colorGreen, m.state.PlayerProjectiles, colorReset,
		colorMagenta, m.state.PlayerHealth, colorReset)
	return fmt.Sprintf("%s | Admin %s | Wrap %s | Scroll %s | Radar %s | Help %s",
		state, indicator(m.admin), indicator(m.wrap), indicator(m.autoscroll),
		indicator(m.showRadar), indicator(m.help))
}

func (m tuiModel) renderHelp() string {
	lines := []string{
		"Key Bindings:",
		" q  quit",
		" w  toggle log wrapping",
		" s  toggle auto-scroll",
		" r  toggle radar view",
		" x  destroy one adversary",
		" h/? toggle this help view",
		"",
		"When auto-scroll is disabled:",
		" j/k or up/down    scroll one line",
		" pgdown/pgup       scroll a page",
	}
	return strings.Join(lines, "\n")
}
