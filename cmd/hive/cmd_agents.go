package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/emergentmind/hive/internal/models"
	"github.com/emergentmind/hive/internal/store"
)

func newAgentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "agents",
		Short: "List agents from the latest snapshot",
		Long: `List the swarm's agents with their cognitive and social state,
read from the latest persisted snapshot.

Examples:
  hive agents           # Table view
  hive agents --json    # Full agent state as JSON`,
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
					return json.NewEncoder(os.Stdout).Encode([]*models.Agent{})
				}
				fmt.Println("No snapshot recorded yet. Run `hive run` first.")
				return nil
			}

			if jsonOut {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(snap.Agents)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tARCHETYPE\tMOOD\tBELIEFS\tGOALS\tMETA")
			for _, a := range snap.Agents {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%.2f\n",
					a.ID, a.Name, a.Archetype, a.Emotional.Mood,
					len(a.Beliefs), len(a.ActiveGoals()), a.MetaAwareness)
			}
			return w.Flush()
		},
	}
}
