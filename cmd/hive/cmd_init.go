package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/emergentmind/hive/internal/config"
	"github.com/emergentmind/hive/internal/store"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a hive project in the current directory",
		Long: `Initialize a hive project.

This command creates the .hive/ directory, writes a default config.yaml
(unless one exists), and creates the snapshot database.

Examples:
  hive init                 # Initialize in the current directory
  hive init --root ./sim    # Initialize elsewhere`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, _ := cmd.Flags().GetString("root")
			jsonOut, _ := cmd.Flags().GetBool("json")

			hiveDir := filepath.Join(root, ".hive")
			configPath := filepath.Join(hiveDir, "config.yaml")

			wroteConfig := false
			if _, err := os.Stat(configPath); os.IsNotExist(err) {
				if err := config.Default().WriteFile(configPath); err != nil {
					return fmt.Errorf("writing default config: %w", err)
				}
				wroteConfig = true
			}

			s, err := store.NewSQLiteStore(root, 0)
			if err != nil {
				return fmt.Errorf("creating snapshot store: %w", err)
			}
			defer s.Close()

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(map[string]any{
					"hive_dir":       hiveDir,
					"config_written": wroteConfig,
				})
			}

			fmt.Printf("Initialized hive project in %s\n", hiveDir)
			if wroteConfig {
				fmt.Printf("Wrote default configuration to %s\n", configPath)
			} else {
				fmt.Printf("Kept existing configuration at %s\n", configPath)
			}
			return nil
		},
	}
}
