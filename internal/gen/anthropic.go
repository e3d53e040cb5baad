package gen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	anthropicAPIURL       = "https://api.anthropic.com/v1/messages"
	anthropicAPIVersion   = "2023-06-01"
	anthropicDefaultModel = "claude-3-haiku-20240307"
	anthropicMaxTokens    = 512
)

// AnthropicClient implements Client using the Anthropic Messages API.
type AnthropicClient struct {
	apiKey     string
	model      string
	timeout    time.Duration
	httpClient *http.Client
}

// NewAnthropicClient creates an AnthropicClient. An empty APIKey falls
// back to the ANTHROPIC_API_KEY environment variable; an empty model and
// timeout get defaults.
func NewAnthropicClient(cfg Config) *AnthropicClient {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}

	model := cfg.Model
	if model == "" {
		model = anthropicDefaultModel
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &AnthropicClient{
		apiKey:  apiKey,
		model:   model,
		timeout: timeout,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Generate sends the rendered prompt to the Messages API and returns the
// text content. Any transport or API failure wraps ErrUnavailable.
func (c *AnthropicClient) Generate(ctx context.Context, prompt Prompt) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("%w: missing API key", ErrUnavailable)
	}

	reqBody := anthropicRequest{
		Model:     c.model,
		MaxTokens: anthropicMaxTokens,
		Messages: []anthropicMessage{
			{Role: "user", Content: renderPrompt(prompt)},
		},
	}

	data, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%w: marshal request: %v", ErrUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, anthropicAPIURL, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicAPIVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("%w: api error %s: %s", ErrUnavailable, parsed.Error.Type, parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var text strings.Builder
	for _, block := range parsed.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("%w: empty response", ErrUnavailable)
	}
	return text.String(), nil
}

// Available reports whether an API key is configured.
func (c *AnthropicClient) Available() bool {
	return c.apiKey != ""
}

// renderPrompt turns a Prompt into the instruction text sent to remote
// backends. Reflection prompts pin the structured output format so the
// response stays parseable.
func renderPrompt(prompt Prompt) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s, a %s agent in a swarm simulation. Current mood: %s.\n",
		prompt.AgentName, prompt.Archetype, prompt.Mood)

	switch prompt.Kind {
	case KindReflection:
		fmt.Fprintf(&b, "Your recent prediction error is %.2f. Revise your beliefs.\n", prompt.ErrorLevel)
		if len(prompt.Beliefs) > 0 {
			b.WriteString("Current beliefs:\n")
			for _, seed := range prompt.Beliefs {
				fmt.Fprintf(&b, "- %s: %s (confidence %.2f)\n", seed.Key, seed.Hypothesis, seed.Confidence)
			}
		}
		b.WriteString("\nRespond with exactly this structure:\n")
		b.WriteString("BELIEFS:\n- key: <belief_key>\n  hypothesis: <one line>\n  confidence: <0..1>\nREASONS:\n- <one line per reason>\n")
	case KindNarrative:
		b.WriteString("Write a single-sentence first-person narrative of who you are becoming.\n")
	default:
		fmt.Fprintf(&b, "Write one short message to the swarm. Context: %s\n", prompt.Context)
	}
	return b.String()
}
