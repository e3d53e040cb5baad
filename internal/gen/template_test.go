package gen

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/emergentmind/hive/internal/models"
)

func TestTemplateClient_ReflectionStructure(t *testing.T) {
	client := NewTemplateClient()
	text, err := client.Generate(context.Background(), Prompt{
		Kind:       KindReflection,
		AgentName:  "iris",
		Archetype:  "analyst",
		Mood:       models.MoodAnalytical,
		ErrorLevel: 0.85,
		Beliefs: []BeliefSeed{
			{Key: "swarm_stability", Hypothesis: "the swarm is settling", Confidence: 0.7},
		},
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if !strings.Contains(text, "BELIEFS:") || !strings.Contains(text, "REASONS:") {
		t.Fatalf("reflection template missing sections:\n%s", text)
	}
	if !strings.Contains(text, "key: swarm_stability") {
		t.Errorf("reflection template missing seeded belief key:\n%s", text)
	}
}

func TestTemplateClient_Deterministic(t *testing.T) {
	client := NewTemplateClient()
	prompt := Prompt{Kind: KindReflection, AgentName: "iris", ErrorLevel: 0.9}

	a, _ := client.Generate(context.Background(), prompt)
	b, _ := client.Generate(context.Background(), prompt)
	if a != b {
		t.Error("template output is not deterministic for identical prompts")
	}
}

func TestTemplateClient_NoBeliefsIntroducesSelfAssessment(t *testing.T) {
	client := NewTemplateClient()
	text, _ := client.Generate(context.Background(), Prompt{Kind: KindReflection, ErrorLevel: 0.8})
	if !strings.Contains(text, "key: self_assessment") {
		t.Errorf("empty-belief reflection should introduce self_assessment:\n%s", text)
	}
}

func TestWithFallback_RecoversFromFailure(t *testing.T) {
	failing := NewMockClient().WithError(ErrUnavailable)
	client := WithFallback(failing)

	text, err := client.Generate(context.Background(), Prompt{Kind: KindNarrative, AgentName: "iris", Archetype: "skeptic"})
	if err != nil {
		t.Fatalf("fallback surfaced an error: %v", err)
	}
	if text == "" {
		t.Fatal("fallback produced no text")
	}
}

func TestWithFallback_PrefersPrimary(t *testing.T) {
	primary := NewMockClient().WithResponses("primary text")
	client := WithFallback(primary)

	text, err := client.Generate(context.Background(), Prompt{Kind: KindMessageBody})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != "primary text" {
		t.Errorf("text = %q, want primary text", text)
	}
}

func TestWithFallback_SkipsUnavailablePrimary(t *testing.T) {
	primary := NewMockClient().WithResponses("should not be used").WithAvailable(false)
	client := WithFallback(primary)

	text, _ := client.Generate(context.Background(), Prompt{Kind: KindMessageBody, AgentName: "iris", Mood: models.MoodNeutral})
	if text == "should not be used" {
		t.Error("unavailable primary was still consulted")
	}
	if len(primary.Calls) != 0 {
		t.Error("unavailable primary received a Generate call")
	}
}

func TestNewClient_ProviderSelection(t *testing.T) {
	tests := []struct {
		provider string
		want     string
	}{
		{"anthropic", "*gen.AnthropicClient"},
		{"openai", "*gen.OpenAIClient"},
		{"template", "*gen.TemplateClient"},
		{"", "*gen.TemplateClient"},
		{"unknown", "*gen.TemplateClient"},
	}
	for _, tt := range tests {
		client := NewClient(Config{Provider: tt.provider})
		if got := typeName(client); got != tt.want {
			t.Errorf("NewClient(%q) = %s, want %s", tt.provider, got, tt.want)
		}
	}
}

func typeName(v any) string {
	switch v.(type) {
	case *AnthropicClient:
		return "*gen.AnthropicClient"
	case *OpenAIClient:
		return "*gen.OpenAIClient"
	case *TemplateClient:
		return "*gen.TemplateClient"
	default:
		return "unknown"
	}
}

func TestAnthropicClient_NoKeyUnavailable(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	client := NewAnthropicClient(Config{})
	if client.Available() {
		t.Error("client with no key reports available")
	}
	_, err := client.Generate(context.Background(), Prompt{Kind: KindMessageBody})
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}
