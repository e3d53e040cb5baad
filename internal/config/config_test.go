package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	config := Default()

	if config.TickInterval != time.Second {
		t.Errorf("expected TickInterval 1s, got %v", config.TickInterval)
	}
	if config.Agents.Count != 5 {
		t.Errorf("expected Agents.Count 5, got %d", config.Agents.Count)
	}
	if config.Protocol.TrustEMAWeight != 0.05 {
		t.Errorf("expected TrustEMAWeight 0.05, got %f", config.Protocol.TrustEMAWeight)
	}
	if config.Protocol.RejectionPenalty != 0.95 {
		t.Errorf("expected RejectionPenalty 0.95, got %f", config.Protocol.RejectionPenalty)
	}
	if config.Retention.Messages != 256 || config.Retention.Behaviors != 128 {
		t.Errorf("expected retention caps 256/128, got %d/%d",
			config.Retention.Messages, config.Retention.Behaviors)
	}
	if config.Gen.Provider != "template" {
		t.Errorf("expected Gen.Provider 'template', got '%s'", config.Gen.Provider)
	}
	if config.Logging.Level != "info" {
		t.Errorf("expected Logging.Level 'info', got '%s'", config.Logging.Level)
	}

	if err := config.Validate(); err != nil {
		t.Errorf("Default() config failed validation: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
seed: 42
tick_interval: 250ms

agents:
  count: 3
  archetypes: [explorer, skeptic, harmonizer]

probabilities:
  message: 0.9

gen:
  provider: anthropic
  api_key: test-key
  model: claude-3-haiku
  timeout: 3s
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	config, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if config.Seed != 42 {
		t.Errorf("expected Seed 42, got %d", config.Seed)
	}
	if config.TickInterval != 250*time.Millisecond {
		t.Errorf("expected TickInterval 250ms, got %v", config.TickInterval)
	}
	if len(config.Agents.Archetypes) != 3 || config.Agents.Archetypes[1] != "skeptic" {
		t.Errorf("unexpected Archetypes: %v", config.Agents.Archetypes)
	}
	if config.Probabilities.Message != 0.9 {
		t.Errorf("expected Probabilities.Message 0.9, got %f", config.Probabilities.Message)
	}
	// Unset file fields keep defaults.
	if config.Probabilities.Prediction != 0.3 {
		t.Errorf("expected default Probabilities.Prediction 0.3, got %f", config.Probabilities.Prediction)
	}
	if config.Gen.Provider != "anthropic" || config.Gen.APIKey != "test-key" {
		t.Errorf("unexpected Gen config: %+v", config.Gen)
	}
	if config.Gen.Timeout != 3*time.Second {
		t.Errorf("expected Gen.Timeout 3s, got %v", config.Gen.Timeout)
	}
}

func TestLoadFromFile_EnvExpansion(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
gen:
  provider: anthropic
  api_key: ${TEST_HIVE_KEY}
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	t.Setenv("TEST_HIVE_KEY", "expanded-secret")

	config, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if config.Gen.APIKey != "expanded-secret" {
		t.Errorf("expected expanded API key, got '%s'", config.Gen.APIKey)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HIVE_SEED", "99")
	t.Setenv("HIVE_AGENT_COUNT", "7")
	t.Setenv("HIVE_LOG_LEVEL", "debug")
	t.Setenv("HIVE_GEN_PROVIDER", "openai")

	config, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if config.Seed != 99 {
		t.Errorf("expected Seed 99, got %d", config.Seed)
	}
	if config.Agents.Count != 7 {
		t.Errorf("expected Agents.Count 7, got %d", config.Agents.Count)
	}
	if config.Logging.Level != "debug" {
		t.Errorf("expected Logging.Level 'debug', got '%s'", config.Logging.Level)
	}
	if config.Gen.Provider != "openai" {
		t.Errorf("expected Gen.Provider 'openai', got '%s'", config.Gen.Provider)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	config, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if config.Agents.Count != 5 {
		t.Errorf("expected default Agents.Count 5, got %d", config.Agents.Count)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid defaults",
			mutate: func(c *Config) {},
		},
		{
			name:    "zero agents",
			mutate:  func(c *Config) { c.Agents.Count = 0 },
			wantErr: "agents.count",
		},
		{
			name:    "zero tick interval",
			mutate:  func(c *Config) { c.TickInterval = 0 },
			wantErr: "tick_interval",
		},
		{
			name:    "inverted learning-rate bounds",
			mutate:  func(c *Config) { c.Bounds.LearningRateMin = 0.9; c.Bounds.LearningRateMax = 0.5 },
			wantErr: "learning-rate bounds",
		},
		{
			name:    "probability out of range",
			mutate:  func(c *Config) { c.Probabilities.Message = 1.5 },
			wantErr: "probabilities.message",
		},
		{
			name:    "bad gen provider",
			mutate:  func(c *Config) { c.Gen.Provider = "ollama" },
			wantErr: "invalid gen provider",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "invalid log level",
		},
		{
			name:    "negative retention",
			mutate:  func(c *Config) { c.Retention.Behaviors = -1 },
			wantErr: "retention caps",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := Default()
			tt.mutate(config)
			err := config.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestWriteFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".hive", "config.yaml")

	config := Default()
	config.Seed = 7
	config.Agents.Count = 2
	if err := config.WriteFile(path); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if loaded.Seed != 7 || loaded.Agents.Count != 2 {
		t.Errorf("round-trip mismatch: seed=%d count=%d", loaded.Seed, loaded.Agents.Count)
	}
}
