package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"spacecombat-sim/internal/config"
	"spacecombat-sim/internal/sim"
)

var (
	replayInput     string
	replaySpeed     float64
	replayPrintOnly bool
	replayOutput    string
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a recorded entity telemetry log",
	Long:  "replay feeds entity rows from a JSONL log back into GreptimeDB or the console, preserving the original pacing.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if replayInput == "" {
			return fmt.Errorf("input file required")
		}
		writer, cleanup, err := newTelemetryWriter(config.Default(), replayPrintOnly, replayOutput)
		if err != nil {
			return err
		}
		defer cleanup()
		return sim.ReplayLogFile(replayInput, writer, replaySpeed)
	},
}

func init() {
	replayCmd.Flags().StringVar(&replayInput, "input", "", "Path to entity telemetry log file")
	replayCmd.Flags().Float64Var(&replaySpeed, "speed", 1.0, "Playback speed multiplier")
	replayCmd.Flags().BoolVar(&replayPrintOnly, "print-only", false, "Print telemetry to STDOUT instead of writing to DB")
	replayCmd.Flags().StringVar(&replayOutput, "output", "json", "Console output mode: json or color")
	replayCmd.MarkFlagRequired("input")
}
