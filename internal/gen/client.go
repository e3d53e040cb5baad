// Package gen provides the content-generation collaborator: free-text
// synthesis for reflections, message bodies, and self-model narratives.
// It supports Anthropic and OpenAI-compatible backends and a deterministic
// template backend used both standalone and as the fallback when a remote
// backend is unavailable.
package gen

import (
	"context"
	"errors"
	"time"

	"github.com/emergentmind/hive/internal/models"
)

// ErrUnavailable is returned when generation cannot complete: missing
// credentials, transport errors, timeouts, or a malformed backend reply.
// Callers recover by falling back to the template backend; it never
// surfaces as a simulation error.
var ErrUnavailable = errors.New("generation unavailable")

// PromptKind selects the shape of the requested text.
type PromptKind string

const (
	// KindReflection requests a structured belief-revision response with
	// BELIEFS and REASONS sections.
	KindReflection PromptKind = "reflection"

	// KindMessageBody requests a short free-text message body.
	KindMessageBody PromptKind = "message_body"

	// KindNarrative requests a one-line self-model narrative.
	KindNarrative PromptKind = "narrative"
)

// BeliefSeed is a prior belief included in a prompt.
type BeliefSeed struct {
	Key        string
	Hypothesis string
	Confidence float64
}

// Prompt carries the agent state and context string a generation request
// is built from.
type Prompt struct {
	Kind       PromptKind
	AgentID    string
	AgentName  string
	Archetype  string
	Mood       models.Mood
	Context    string
	Beliefs    []BeliefSeed
	ErrorLevel float64
}

// Config configures a generation client.
type Config struct {
	// Provider identifies the backend: "anthropic", "openai", or
	// "template" (the default; no remote calls).
	Provider string `json:"provider" yaml:"provider" env:"HIVE_GEN_PROVIDER"`

	// APIKey is the backend credential. Unused by the template provider.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" env:"HIVE_GEN_API_KEY"`

	// BaseURL overrides the API endpoint for OpenAI-compatible servers.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" env:"HIVE_GEN_BASE_URL"`

	// Model is the model identifier to request.
	Model string `json:"model,omitempty" yaml:"model,omitempty" env:"HIVE_GEN_MODEL"`

	// Timeout bounds each generation call. The engine never waits longer
	// than this before falling back to templates.
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty" env:"HIVE_GEN_TIMEOUT"`
}

// DefaultConfig returns a Config using the template provider.
func DefaultConfig() Config {
	return Config{
		Provider: "template",
		Timeout:  10 * time.Second,
	}
}

// Client generates free text from a prompt context.
type Client interface {
	// Generate returns generated text, or an error wrapping ErrUnavailable
	// when the backend cannot answer in time.
	Generate(ctx context.Context, prompt Prompt) (string, error)

	// Available reports whether the client is configured for real requests.
	Available() bool
}

// NewClient builds the client for the configured provider. Unknown or
// empty providers resolve to the template client.
func NewClient(cfg Config) Client {
	switch cfg.Provider {
	case "anthropic":
		return NewAnthropicClient(cfg)
	case "openai":
		return NewOpenAIClient(cfg)
	default:
		return NewTemplateClient()
	}
}
