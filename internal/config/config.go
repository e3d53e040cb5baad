// Package config provides unified configuration loading for hive.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/emergentmind/hive/internal/gen"
)

// Config contains all hive configuration settings.
type Config struct {
	// Seed seeds the swarm's random source. Zero means derive from the
	// wall clock at startup; any other value gives reproducible runs.
	Seed int64 `json:"seed" yaml:"seed" env:"HIVE_SEED"`

	// TickInterval is the scheduler's tick period.
	TickInterval time.Duration `json:"tick_interval" yaml:"tick_interval" env:"HIVE_TICK_INTERVAL"`

	// Agents configures swarm population.
	Agents AgentsConfig `json:"agents" yaml:"agents"`

	// Bounds clamp the cognitive parameters agents are sampled into.
	Bounds BoundsConfig `json:"bounds" yaml:"bounds"`

	// Probabilities are the per-tick chances of stochastic agent actions.
	Probabilities ProbabilitiesConfig `json:"probabilities" yaml:"probabilities"`

	// Protocol holds the message-processing constants.
	Protocol ProtocolConfig `json:"protocol" yaml:"protocol"`

	// Goals holds the goal-outcome simulation constants.
	Goals GoalsConfig `json:"goals" yaml:"goals"`

	// Retention bounds the engine's in-memory rings and the stores.
	Retention RetentionConfig `json:"retention" yaml:"retention"`

	// Gen configures the content-generation collaborator.
	Gen gen.Config `json:"gen" yaml:"gen"`

	// RateLimit caps generation calls per agent.
	RateLimit RateLimitConfig `json:"rate_limit" yaml:"rate_limit"`

	// Logging configures operational and trace logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// AgentsConfig configures the swarm population created at initialization.
type AgentsConfig struct {
	// Count is the number of agents to create when no explicit
	// archetype list is given.
	Count int `json:"count" yaml:"count" env:"HIVE_AGENT_COUNT"`

	// Archetypes, when non-empty, pins the population: one agent per
	// entry. Unknown names fall back to the harmonizer profile.
	Archetypes []string `json:"archetypes,omitempty" yaml:"archetypes,omitempty" env:"HIVE_ARCHETYPES" envSeparator:","`
}

// BoundsConfig clamps sampled and adjusted cognitive parameters.
type BoundsConfig struct {
	LearningRateMin        float64 `json:"learning_rate_min" yaml:"learning_rate_min"`
	LearningRateMax        float64 `json:"learning_rate_max" yaml:"learning_rate_max"`
	ReflectionThresholdMin float64 `json:"reflection_threshold_min" yaml:"reflection_threshold_min"`
	ReflectionThresholdMax float64 `json:"reflection_threshold_max" yaml:"reflection_threshold_max"`
}

// ProbabilitiesConfig holds per-tick chances for stochastic actions.
// All values are in [0, 1].
type ProbabilitiesConfig struct {
	// Prediction is the chance an agent records a new prediction.
	Prediction float64 `json:"prediction" yaml:"prediction"`

	// Resolution is the chance an outstanding prediction resolves.
	Resolution float64 `json:"resolution" yaml:"resolution"`

	// Message is the chance an agent broadcasts a message.
	Message float64 `json:"message" yaml:"message"`

	// SelfModel is the chance an agent mutates its self-model.
	SelfModel float64 `json:"self_model" yaml:"self_model"`
}

// ProtocolConfig holds the message-processing constants.
type ProtocolConfig struct {
	// TrustEMAWeight is the exponential-moving-average weight applied to
	// trust and success-rate updates.
	TrustEMAWeight float64 `json:"trust_ema_weight" yaml:"trust_ema_weight"`

	// RejectionPenalty scales the motivating belief's confidence when a
	// goal proposal is rejected.
	RejectionPenalty float64 `json:"rejection_penalty" yaml:"rejection_penalty"`

	// BeliefFloor is the lowest confidence penalties can reach.
	BeliefFloor float64 `json:"belief_floor" yaml:"belief_floor"`

	// InsightSignificance is the minimum scaled confidence at which an
	// adopted insight is also recorded as a knowledge item.
	InsightSignificance float64 `json:"insight_significance" yaml:"insight_significance"`
}

// GoalsConfig holds the goal-outcome simulation constants.
type GoalsConfig struct {
	// ResolveProbability is the per-tick chance an active goal resolves.
	ResolveProbability float64 `json:"resolve_probability" yaml:"resolve_probability"`

	// AbandonDecay scales the motivating belief when a goal is abandoned.
	AbandonDecay float64 `json:"abandon_decay" yaml:"abandon_decay"`
}

// RetentionConfig bounds in-memory rings and persisted snapshots.
type RetentionConfig struct {
	// Messages caps the delivered-message history ring.
	Messages int `json:"messages" yaml:"messages"`

	// Behaviors caps the emergent-behavior log ring.
	Behaviors int `json:"behaviors" yaml:"behaviors"`

	// Snapshots caps rows kept by the snapshot store.
	Snapshots int `json:"snapshots" yaml:"snapshots" env:"HIVE_SNAPSHOT_RETENTION"`

	// Predictions is how long resolved predictions are kept.
	Predictions time.Duration `json:"predictions" yaml:"predictions"`
}

// RateLimitConfig caps generation-collaborator calls.
type RateLimitConfig struct {
	// PerAgent is the number of generation calls each agent may make
	// per window.
	PerAgent int `json:"per_agent" yaml:"per_agent"`

	// Window is the refill period.
	Window time.Duration `json:"window" yaml:"window"`
}

// LoggingConfig configures hive's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "debug" enables trace logging to .hive/trace.jsonl.
	// "trace" additionally includes full generation prompt/response content.
	Level string `json:"level" yaml:"level" env:"HIVE_LOG_LEVEL"`
}

// Default returns a Config with the simulation's baseline parameters.
func Default() *Config {
	return &Config{
		TickInterval: time.Second,
		Agents: AgentsConfig{
			Count: 5,
		},
		Bounds: BoundsConfig{
			LearningRateMin:        0.01,
			LearningRateMax:        1.0,
			ReflectionThresholdMin: 0.01,
			ReflectionThresholdMax: 1.0,
		},
		Probabilities: ProbabilitiesConfig{
			Prediction: 0.3,
			Resolution: 0.4,
			Message:    0.4,
			SelfModel:  0.05,
		},
		Protocol: ProtocolConfig{
			TrustEMAWeight:      0.05,
			RejectionPenalty:    0.95,
			BeliefFloor:         0.1,
			InsightSignificance: 0.3,
		},
		Goals: GoalsConfig{
			ResolveProbability: 0.2,
			AbandonDecay:       0.9,
		},
		Retention: RetentionConfig{
			Messages:    256,
			Behaviors:   128,
			Snapshots:   20,
			Predictions: 5 * time.Minute,
		},
		Gen: gen.DefaultConfig(),
		RateLimit: RateLimitConfig{
			PerAgent: 10,
			Window:   time.Minute,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration for a project root. Order: defaults ->
// <root>/.hive/config.yaml (if present) -> environment variables.
func Load(root string) (*Config, error) {
	config := Default()

	configPath := filepath.Join(root, ".hive", "config.yaml")
	if _, err := os.Stat(configPath); err == nil {
		fileConfig, loadErr := LoadFromFile(configPath)
		if loadErr != nil {
			return nil, fmt.Errorf("loading config file: %w", loadErr)
		}
		config = fileConfig
	}

	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("applying env overrides: %w", err)
	}

	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	config.Gen.APIKey = expandEnvVars(config.Gen.APIKey)

	return config, nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Agents.Count <= 0 && len(c.Agents.Archetypes) == 0 {
		return fmt.Errorf("agents.count must be positive, got %d", c.Agents.Count)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick_interval must be positive, got %v", c.TickInterval)
	}
	if c.Bounds.LearningRateMin <= 0 || c.Bounds.LearningRateMax > 1 ||
		c.Bounds.LearningRateMin >= c.Bounds.LearningRateMax {
		return fmt.Errorf("learning-rate bounds must satisfy 0 < min < max <= 1, got [%v, %v]",
			c.Bounds.LearningRateMin, c.Bounds.LearningRateMax)
	}
	if c.Bounds.ReflectionThresholdMin <= 0 || c.Bounds.ReflectionThresholdMax > 1 ||
		c.Bounds.ReflectionThresholdMin >= c.Bounds.ReflectionThresholdMax {
		return fmt.Errorf("reflection-threshold bounds must satisfy 0 < min < max <= 1, got [%v, %v]",
			c.Bounds.ReflectionThresholdMin, c.Bounds.ReflectionThresholdMax)
	}

	probs := map[string]float64{
		"probabilities.prediction":      c.Probabilities.Prediction,
		"probabilities.resolution":      c.Probabilities.Resolution,
		"probabilities.message":         c.Probabilities.Message,
		"probabilities.self_model":      c.Probabilities.SelfModel,
		"protocol.trust_ema_weight":     c.Protocol.TrustEMAWeight,
		"protocol.rejection_penalty":    c.Protocol.RejectionPenalty,
		"protocol.belief_floor":         c.Protocol.BeliefFloor,
		"protocol.insight_significance": c.Protocol.InsightSignificance,
		"goals.resolve_probability":     c.Goals.ResolveProbability,
		"goals.abandon_decay":           c.Goals.AbandonDecay,
	}
	for name, v := range probs {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be between 0 and 1, got %v", name, v)
		}
	}

	if c.Retention.Messages <= 0 || c.Retention.Behaviors <= 0 || c.Retention.Snapshots <= 0 {
		return fmt.Errorf("retention caps must be positive")
	}
	if c.Gen.Timeout < 0 {
		return fmt.Errorf("gen.timeout must be non-negative, got %v", c.Gen.Timeout)
	}

	validProviders := map[string]bool{"": true, "template": true, "anthropic": true, "openai": true}
	if !validProviders[c.Gen.Provider] {
		return fmt.Errorf("invalid gen provider: %s (valid: anthropic, openai, template, or empty)", c.Gen.Provider)
	}

	validLevels := map[string]bool{"": true, "info": true, "debug": true, "trace": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}

	return nil
}

// WriteFile marshals the configuration to YAML at path, creating parent
// directories as needed.
func (c *Config) WriteFile(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// expandEnvVars expands ${VAR} patterns in a string with environment
// variable values.
func expandEnvVars(s string) string {
	if !strings.Contains(s, "${") {
		return s
	}
	return os.Expand(s, os.Getenv)
}
