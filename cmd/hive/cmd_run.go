package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/emergentmind/hive/internal/config"
	"github.com/emergentmind/hive/internal/engine"
	"github.com/emergentmind/hive/internal/logging"
	"github.com/emergentmind/hive/internal/store"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the swarm simulation",
		Long: `Run the swarm.

Without flags the swarm ticks on a wall-clock interval until
interrupted, persisting a snapshot every tick and a final one on
shutdown. With --ticks the engine is driven directly on a virtual
clock, which together with --seed gives reproducible runs.

Examples:
  hive run                          # Run until Ctrl-C
  hive run --interval 250ms        # Faster ticks
  hive run --ticks 500 --seed 42   # Deterministic 500-tick replay`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, _ := cmd.Flags().GetString("root")
			ticks, _ := cmd.Flags().GetInt("ticks")
			seed, _ := cmd.Flags().GetInt64("seed")
			interval, _ := cmd.Flags().GetDuration("interval")

			cfg, err := config.Load(root)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if seed != 0 {
				cfg.Seed = seed
			}
			if interval > 0 {
				cfg.TickInterval = interval
			}

			logger := logging.NewLogger(cfg.Logging.Level, os.Stderr)
			trace := logging.NewTraceLogger(filepath.Join(root, ".hive"), cfg.Logging.Level)
			defer trace.Close()

			snaps, err := store.NewSQLiteStore(root, cfg.Retention.Snapshots)
			if err != nil {
				return fmt.Errorf("opening snapshot store: %w", err)
			}
			defer snaps.Close()

			ctx := cmd.Context()
			swarm, err := engine.New(ctx, cfg,
				engine.WithStore(snaps),
				engine.WithLogger(logger),
				engine.WithTraceLogger(trace),
				engine.WithObserver(consoleObserver(logger)),
			)
			if err != nil {
				return fmt.Errorf("building swarm: %w", err)
			}

			if ticks > 0 {
				return runVirtual(ctx, swarm, ticks, cfg.TickInterval)
			}
			return runRealtime(ctx, swarm)
		},
	}

	cmd.Flags().Int("ticks", 0, "Run exactly N virtual ticks, then exit")
	cmd.Flags().Int64("seed", 0, "Seed the random source (0 = from config or clock)")
	cmd.Flags().Duration("interval", 0, "Tick interval override")
	return cmd
}

// runVirtual drives the engine directly on a virtual clock: no waiting,
// fully reproducible with a fixed seed.
func runVirtual(ctx context.Context, swarm *engine.Swarm, ticks int, interval time.Duration) error {
	now := time.Now().UTC()
	for i := 0; i < ticks; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		now = now.Add(interval)
		if err := swarm.Step(ctx, now); err != nil {
			return fmt.Errorf("tick %d: %w", i+1, err)
		}
	}

	fmt.Printf("Completed %d ticks. Consciousness %.3f, coherence %.3f, %d emergent behaviors.\n",
		ticks, swarm.ConsciousnessLevel(), swarm.Shared().CoherenceLevel, len(swarm.Behaviors()))
	return nil
}

// runRealtime starts the scheduler and blocks until a signal or context
// cancellation, then stops cleanly (final snapshot included).
func runRealtime(ctx context.Context, swarm *engine.Swarm) error {
	sigCh := make(chan os.Signal, 1)
	notifySignals(sigCh)

	swarm.Start(ctx)
	select {
	case <-ctx.Done():
	case <-sigCh:
	}
	swarm.Stop()
	return nil
}

// consoleObserver surfaces the interesting events on the operational log.
func consoleObserver(logger *slog.Logger) engine.Observer {
	return func(ev engine.Event) {
		switch ev.Type {
		case engine.EventBehaviorDetected:
			logger.Info("emergent behavior detected",
				"type", ev.Behavior.Type,
				"description", ev.Behavior.Description,
				"participants", len(ev.Behavior.Participants))
		case engine.EventGoalResolved:
			logger.Info("goal resolved",
				"agent", ev.AgentID,
				"status", string(ev.Goal.Status),
				"description", ev.Goal.Description)
		}
	}
}
