package gen

import (
	"context"
	"fmt"
	"strings"

	"github.com/emergentmind/hive/internal/models"
)

// TemplateClient produces deterministic local text. It serves as both a
// standalone provider and the fallback when a remote backend fails, so
// simulation output degrades to templated text instead of halting.
type TemplateClient struct{}

// NewTemplateClient creates a TemplateClient.
func NewTemplateClient() *TemplateClient {
	return &TemplateClient{}
}

// Generate renders a deterministic template for the prompt. It never fails.
func (c *TemplateClient) Generate(ctx context.Context, prompt Prompt) (string, error) {
	switch prompt.Kind {
	case KindReflection:
		return reflectionTemplate(prompt), nil
	case KindNarrative:
		return narrativeTemplate(prompt), nil
	default:
		return messageTemplate(prompt), nil
	}
}

// Available returns false: the template client signals that a remote
// provider should be preferred when one is configured.
func (c *TemplateClient) Available() bool {
	return false
}

// reflectionTemplate renders the structured BELIEFS/REASONS form the
// reflection parser expects. Existing beliefs are re-estimated against the
// triggering error level; with no prior beliefs a self-assessment belief
// is introduced.
func reflectionTemplate(prompt Prompt) string {
	var b strings.Builder
	b.WriteString("BELIEFS:\n")

	if len(prompt.Beliefs) == 0 {
		fmt.Fprintf(&b, "- key: self_assessment\n")
		fmt.Fprintf(&b, "  hypothesis: My predictions about the swarm are less reliable than assumed\n")
		fmt.Fprintf(&b, "  confidence: %.2f\n", models.Clamp01(1-prompt.ErrorLevel))
	}
	for _, seed := range prompt.Beliefs {
		// High error pulls confidence down toward the evidence.
		revised := models.Clamp01(seed.Confidence*(1-prompt.ErrorLevel) + 0.1)
		fmt.Fprintf(&b, "- key: %s\n", seed.Key)
		fmt.Fprintf(&b, "  hypothesis: %s (revised after prediction error)\n", seed.Hypothesis)
		fmt.Fprintf(&b, "  confidence: %.2f\n", revised)
	}

	b.WriteString("REASONS:\n")
	fmt.Fprintf(&b, "- prediction error %.2f exceeded the reflection threshold\n", prompt.ErrorLevel)
	fmt.Fprintf(&b, "- current mood %s colored the reassessment\n", prompt.Mood)
	return b.String()
}

func narrativeTemplate(prompt Prompt) string {
	return fmt.Sprintf("%s the %s keeps watching the swarm, %s about what comes next.",
		prompt.AgentName, prompt.Archetype, moodAdverb(prompt.Mood))
}

func messageTemplate(prompt Prompt) string {
	if prompt.Context != "" {
		return fmt.Sprintf("%s reports: %s", prompt.AgentName, prompt.Context)
	}
	return fmt.Sprintf("%s shares a %s observation with the swarm.",
		prompt.AgentName, prompt.Mood)
}

func moodAdverb(mood models.Mood) string {
	switch mood {
	case models.MoodOptimistic:
		return "hopeful"
	case models.MoodPessimistic:
		return "doubtful"
	case models.MoodAnalytical:
		return "deliberate"
	case models.MoodIrritable:
		return "restless"
	case models.MoodFocused:
		return "intent"
	default:
		return "undecided"
	}
}
