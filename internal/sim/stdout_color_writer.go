// ColorStdoutWriter prints human-friendly, colorized combat telemetry.
package sim

import (
	"fmt"
	"io"
	"os"
	"sync"
	"text/tabwriter"
	"time"

	"spacecombat-sim/internal/config"
	"spacecombat-sim/internal/telemetry"
)

const (
	colorReset   = "\x1b[0m"
	colorRed     = "\x1b[31m"
	colorGreen   = "\x1b[32m"
	colorYellow  = "\x1b[33m"
	colorBlue    = "\x1b[34m"
	colorMagenta = "\x1b[35m"
	colorCyan    = "\x1b[36m"
	colorGray    = "\x1b[90m"
)

func colorWhite() string { return "\x1b[37m" }

// ColorStdoutWriter prints rows using ANSI colors, with a one-time encounter
// overview before the first row.
type ColorStdoutWriter struct {
	cfg  *config.CombatConfig
	out  io.Writer
	once sync.Once
}

// NewColorStdoutWriter creates a ColorStdoutWriter writing to os.Stdout.
func NewColorStdoutWriter(cfg *config.CombatConfig) *ColorStdoutWriter {
	return &ColorStdoutWriter{cfg: cfg, out: os.Stdout}
}

func (w *ColorStdoutWriter) printOverview() {
	if w.cfg == nil {
		return
	}

	fmt.Fprintln(w.out, "Encounter Configuration:")
	tw := tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Arena Radius (m):\t%.0f\n", w.cfg.Arena.RadiusM)
	fmt.Fprintf(tw, "Obstacles:\t%d\n", len(w.cfg.Arena.Obstacles))
	fmt.Fprintf(tw, "Player Health:\t%d\n", w.cfg.Player.Health)
	fmt.Fprintf(tw, "Orbit Radius (m):\t%.0f\n", w.cfg.Tuning.OrbitRadiusM)
	fmt.Fprintf(tw, "Deliberate Miss:\t%.2f\n", w.cfg.Tuning.DeliberateMissChance)
	fmt.Fprintf(tw, "Inter-Wave Delay (s):\t%.1f\n", w.cfg.Tuning.InterWaveDelayS)
	tw.Flush()

	fmt.Fprintln(w.out, "\nWaves:")
	tw = tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "#\tFighters\tInterceptors\n")
	for i, wv := range w.cfg.Waves {
		fmt.Fprintf(tw, "%d\t%d\t%d\n", i+1, wv.Fighters, wv.Interceptors)
	}
	tw.Flush()
	fmt.Fprintln(w.out)
}

func archetypeColor(a string) string {
	if a == "interceptor" {
		return colorMagenta
	}
	return colorCyan
}

// Write outputs a single entity row in colorized format.
func (w *ColorStdoutWriter) Write(row telemetry.EntityRow) error {
	w.once.Do(w.printOverview)

	phaseColor := colorGreen
	if row.Phase == telemetry.PhaseApproach {
		phaseColor = colorYellow
	}

	fmt.Fprintf(w.out, "%s[%s]%s ", colorGray, row.Timestamp.Format(time.RFC3339), colorReset)
	fmt.Fprintf(w.out, "%ssession=%s%s ", colorBlue, row.SessionID, colorReset)
	fmt.Fprintf(w.out, "%swave=%d%s ", colorWhite(), row.Wave, colorReset)
	fmt.Fprintf(w.out, "%s%s%s ", archetypeColor(row.Archetype), row.Archetype, colorReset)
	fmt.Fprintf(w.out, "%sid=%s%s ", colorWhite(), row.EntityID, colorReset)
	fmt.Fprintf(w.out, "%spos=(%.1f,%.1f,%.1f)%s ", colorGreen, row.X, row.Y, row.Z, colorReset)
	fmt.Fprintf(w.out, "%shp=%d%s ", colorRed, row.Health, colorReset)
	fmt.Fprintf(w.out, "%sphase=%s%s", phaseColor, row.Phase, colorReset)
	fmt.Fprintln(w.out)
	return nil
}

// WriteBatch outputs multiple entity rows.
func (w *ColorStdoutWriter) WriteBatch(rows []telemetry.EntityRow) error {
	for _, r := range rows {
		_ = w.Write(r)
	}
	return nil
}

func eventColor(typ string) string {
	switch typ {
	case telemetry.EventPlayerHit, telemetry.EventDefeat:
		return colorRed
	case telemetry.EventEnemyDestroyed, telemetry.EventVictory, telemetry.EventWaveCleared:
		return colorGreen
	case telemetry.EventWaveStarted:
		return colorBlue
	default:
		return colorYellow
	}
}

// WriteEvent prints a combat event to STDOUT.
func (w *ColorStdoutWriter) WriteEvent(row telemetry.EventRow) error {
	w.once.Do(w.printOverview)
	fmt.Fprintf(w.out, "%s[%s]%s %sEVENT%s type=%s wave=%d",
		colorGray, row.Timestamp.Format(time.RFC3339), colorReset,
		eventColor(row.Type), colorReset, row.Type, row.Wave)
	if row.EntityID != "" {
		fmt.Fprintf(w.out, " entity=%s", row.EntityID)
	}
	if row.Archetype != "" {
		fmt.Fprintf(w.out, " archetype=%s", row.Archetype)
	}
	fmt.Fprintln(w.out)
	return nil
}

// WriteEvents prints multiple combat events.
func (w *ColorStdoutWriter) WriteEvents(rows []telemetry.EventRow) error {
	for _, r := range rows {
		_ = w.WriteEvent(r)
	}
	return nil
}

// WriteState prints session state metrics to STDOUT.
func (w *ColorStdoutWriter) WriteState(row telemetry.SessionStateRow) error {
	w.once.Do(w.printOverview)
	fmt.Fprintf(w.out, "%s[%s]%s %sSTATE%s state=%s wave=%d entities=%d hostile=%d player_shots=%d fire=%t hp=%d\n",
		colorGray, row.Timestamp.Format(time.RFC3339), colorReset,
		colorBlue, colorReset, row.State, row.Wave, row.LiveEntities,
		row.HostileProjectiles, row.PlayerProjectiles, row.FireEnabled, row.PlayerHealth)
	return nil
}
