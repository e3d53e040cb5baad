package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/emergentmind/hive/internal/store"
)

func newSnapshotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot",
		Short: "Show the latest persisted swarm snapshot",
		Long: `Show the latest snapshot from the project's snapshot store.

Examples:
  hive snapshot           # Human-readable summary
  hive snapshot --json    # Full snapshot as JSON`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, _ := cmd.Flags().GetString("root")
			jsonOut, _ := cmd.Flags().GetBool("json")

			s, err := store.NewSQLiteStore(root, 0)
			if err != nil {
				return fmt.Errorf("opening snapshot store: %w", err)
			}
			defer s.Close()

			snap, err := s.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("loading snapshot: %w", err)
			}
			if snap == nil {
				if jsonOut {
					return json.NewEncoder(os.Stdout).Encode(nil)
				}
				fmt.Println("No snapshot recorded yet. Run `hive run` first.")
				return nil
			}

			if jsonOut {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(snap)
			}

			fmt.Print(snapshotSummary(snap))
			return nil
		},
	}
}

// snapshotSummary renders the human-readable snapshot view.
func snapshotSummary(snap *store.Snapshot) string {
	out := fmt.Sprintf("Snapshot at tick %d (%s)\n", snap.Tick, snap.TakenAt.Format("2006-01-02 15:04:05 MST"))
	out += fmt.Sprintf("  Consciousness: %.3f\n", snap.Consciousness)
	out += fmt.Sprintf("  Coherence:     %.3f\n", snap.Shared.CoherenceLevel)
	out += fmt.Sprintf("  Agents:        %d\n", len(snap.Agents))
	out += fmt.Sprintf("  Messages:      %d in history\n", len(snap.Messages))
	out += fmt.Sprintf("  Behaviors:     %d emergent\n", len(snap.Behaviors))

	if len(snap.Behaviors) > 0 {
		out += "\nRecent emergent behavior:\n"
		last := snap.Behaviors[len(snap.Behaviors)-1]
		out += fmt.Sprintf("  [%s] %s (level %.2f, %d participants)\n",
			last.Type, last.Description, last.EmergenceLevel, len(last.Participants))
	}
	return out
}
