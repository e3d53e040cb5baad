package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// A .env in the working directory seeds provider credentials; absence
	// is not an error.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "hive",
		Short: "Hive - emergent swarm consciousness simulation",
		Long: `hive runs a swarm of autonomous agents that predict, reflect,
remember, and negotiate a shared picture of reality through a typed
message protocol.

Agents maintain beliefs, emotional state, self-models, and trust in
their peers. The engine aggregates their reality frames each tick,
measures collective consciousness, and watches for emergent behavior
no single agent was programmed to produce.`,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON (for machine consumption)")
	rootCmd.PersistentFlags().String("root", ".", "Project root directory")

	rootCmd.AddCommand(
		newVersionCmd(),
		newInitCmd(),
		newRunCmd(),
		newSnapshotCmd(),
		newAgentsCmd(),
		newConfigCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
