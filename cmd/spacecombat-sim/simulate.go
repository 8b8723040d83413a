package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"spacecombat-sim/internal/admin"
	"spacecombat-sim/internal/archetype"
	"spacecombat-sim/internal/config"
	"spacecombat-sim/internal/logging"
	"spacecombat-sim/internal/sim"
)

var (
	simPrintOnly  bool
	simConfigPath string
	simSchemaPath string
	simOutput     string
	simTick       time.Duration
	simLogFile    string
	simAdminAddr  string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a headless combat encounter",
	Long:  "simulate drives the scripted wave sequence with the built-in autopilot, emitting entity telemetry, combat events, and session state.",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logging.New()

		cfg, err := config.Load(simConfigPath, simSchemaPath)
		if err != nil {
			return err
		}
		registry := archetype.NewRegistry()
		if err := registry.Apply(cfg.Archetypes); err != nil {
			return err
		}

		writer, eventWriter, stateWriter, cleanup, err := newWriters(cfg, simPrintOnly, simOutput, simLogFile)
		if err != nil {
			return err
		}
		defer cleanup()

		tickInterval := simTick
		if envTick := os.Getenv("TICK_INTERVAL"); envTick != "" {
			d, err := time.ParseDuration(envTick)
			if err != nil {
				return err
			}
			tickInterval = d
		}

		session := sim.NewSession(os.Getenv("SESSION_ID"), cfg, registry,
			writer, eventWriter, stateWriter, tickInterval, sim.Hooks{}, nil)
		session.SetLogger(log)
		pilot := sim.NewAutopilot(session, cfg.Player, nil)

		srv := admin.NewServer(session)
		go func() {
			log.Info("admin server listening", "addr", simAdminAddr)
			if err := srv.Start(simAdminAddr); err != nil {
				log.Error("admin server failed", "error", err)
			}
		}()
		if tui, ok := writer.(*sim.TUIWriter); ok {
			tui.SetAdminStatus(true)
			tui.SetDestroyer(func() { session.DestroyOne() })
		}

		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		session.Run(ctx, pilot)
		log.Info("simulation stopped", "state", string(session.State()))
		return nil
	},
}

func init() {
	simulateCmd.Flags().BoolVar(&simPrintOnly, "print-only", false, "Print telemetry to STDOUT instead of writing to DB")
	simulateCmd.Flags().StringVar(&simConfigPath, "config", "config/combat.yaml", "Path to combat configuration YAML")
	simulateCmd.Flags().StringVar(&simSchemaPath, "schema", "schemas/combat.cue", "Path to CUE schema file")
	simulateCmd.Flags().StringVar(&simOutput, "output", "auto", "Console output mode: auto, json, color, tui")
	simulateCmd.Flags().DurationVar(&simTick, "tick", 50*time.Millisecond, "Simulation tick interval (e.g. 50ms, 100ms)")
	simulateCmd.Flags().StringVar(&simLogFile, "log-file", "", "Path to export entity/event/state logs (JSONL)")
	simulateCmd.Flags().StringVar(&simAdminAddr, "admin-addr", ":8080", "Admin debug server listen address")
}
