package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/emergentmind/hive/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage hive configuration",
		Long: `View hive configuration settings.

Configuration is stored in <root>/.hive/config.yaml and can be
overridden with HIVE_* environment variables.

Examples:
  hive config list             # Show the effective configuration
  hive config list --json      # As JSON`,
	}

	cmd.AddCommand(newConfigListCmd())
	return cmd
}

func newConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, _ := cmd.Flags().GetString("root")
			jsonOut, _ := cmd.Flags().GetBool("json")

			cfg, err := config.Load(root)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			// Never print credentials, in either format.
			redacted := *cfg
			redacted.Gen.APIKey = redactKey(cfg.Gen.APIKey)

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(redacted)
			}

			data, err := yaml.Marshal(redacted)
			if err != nil {
				return fmt.Errorf("rendering config: %w", err)
			}
			fmt.Printf("Effective configuration (%s/.hive/config.yaml + env):\n\n", root)
			os.Stdout.Write(data)
			return nil
		},
	}
}

// redactKey masks most of an API key. It returns "" for empty keys and
// "(set)" for keys too short to safely excerpt.
func redactKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) < 12 {
		return "(set)"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
