// Package reflection implements the triggered belief-revision cycle.
// An agent reflects when its current prediction error exceeds the
// emotionally biased reflection threshold; the cycle synthesizes belief
// adjustments through the content-generation collaborator and records the
// outcome as a long-term knowledge item.
package reflection

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/emergentmind/hive/internal/agentmem"
	"github.com/emergentmind/hive/internal/emotion"
	"github.com/emergentmind/hive/internal/gen"
	"github.com/emergentmind/hive/internal/models"
)

const (
	// maxSeedBeliefs bounds how many prior beliefs feed a reflection prompt.
	maxSeedBeliefs = 3

	// errorWeight weights the triggering error against the mean confidence
	// of newly formed beliefs when scoring the resulting knowledge item.
	errorWeight = 0.6
)

// Adjustment is one applied belief change.
type Adjustment struct {
	Key        string
	Hypothesis string
	Confidence float64
	Created    bool
}

// Result summarizes a completed reflection cycle.
type Result struct {
	Adjustments []Adjustment
	Reasons     []string
	Importance  float64
}

// ShouldReflect reports whether the agent's current error level exceeds
// its effective (bias-adjusted) reflection threshold.
func ShouldReflect(agent *models.Agent, errorLevel float64) bool {
	return errorLevel > emotion.EffectiveReflectionThreshold(agent)
}

// Run executes one reflection cycle: synthesize belief adjustments from a
// sample of prior beliefs plus the triggering error level, apply them, and
// record a reflection-insight knowledge item.
//
// Malformed or partial response entries are skipped. Run fails only when
// synthesis produces nothing applicable; the caller emits a diagnostic
// event and the agent's beliefs stay untouched.
func Run(ctx context.Context, client gen.Client, agent *models.Agent, errorLevel float64, lrMin, lrMax float64, now time.Time) (*Result, error) {
	prompt := gen.Prompt{
		Kind:       gen.KindReflection,
		AgentID:    agent.ID,
		AgentName:  agent.Name,
		Archetype:  agent.Archetype,
		Mood:       agent.Emotional.Mood,
		ErrorLevel: errorLevel,
		Beliefs:    seedBeliefs(agent),
	}

	text, err := client.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("reflection synthesis: %w", err)
	}

	parsed := Parse(text)
	if len(parsed.Beliefs) == 0 {
		return nil, fmt.Errorf("reflection synthesis: no usable belief adjustments in response")
	}

	rate := emotion.EffectiveLearningRate(agent, lrMin, lrMax)
	result := &Result{Reasons: parsed.Reasons}

	var newConfSum float64
	var newConfCount int
	for _, entry := range parsed.Beliefs {
		existing := agent.Belief(entry.Key)
		if existing != nil {
			// Move the held confidence toward the synthesized one at
			// the agent's learning rate.
			blended := existing.Confidence + (entry.Confidence-existing.Confidence)*rate
			agent.SetBelief(entry.Key, entry.Hypothesis, blended, now)
			result.Adjustments = append(result.Adjustments, Adjustment{
				Key: entry.Key, Hypothesis: entry.Hypothesis, Confidence: models.Clamp01(blended),
			})
			continue
		}

		agent.SetBelief(entry.Key, entry.Hypothesis, entry.Confidence, now)
		result.Adjustments = append(result.Adjustments, Adjustment{
			Key: entry.Key, Hypothesis: entry.Hypothesis, Confidence: entry.Confidence, Created: true,
		})
		newConfSum += entry.Confidence
		newConfCount++
	}

	meanNewConf := 0.5
	if newConfCount > 0 {
		meanNewConf = newConfSum / float64(newConfCount)
	}
	result.Importance = models.Clamp01(errorWeight*errorLevel + (1-errorWeight)*meanNewConf)

	agent.Memory.AddKnowledge(agentmem.KnowledgeItem{
		Kind:       agentmem.KnowledgeReflectionInsight,
		Content:    knowledgeSummary(result),
		Importance: result.Importance,
		CreatedAt:  now,
	})

	return result, nil
}

// seedBeliefs samples up to maxSeedBeliefs of the agent's beliefs for the
// prompt, most recently updated first for a stable, relevant selection.
func seedBeliefs(agent *models.Agent) []gen.BeliefSeed {
	keys := agent.BeliefKeys()
	sort.Slice(keys, func(i, j int) bool {
		bi, bj := agent.Beliefs[keys[i]], agent.Beliefs[keys[j]]
		if !bi.UpdatedAt.Equal(bj.UpdatedAt) {
			return bi.UpdatedAt.After(bj.UpdatedAt)
		}
		return keys[i] < keys[j]
	})
	if len(keys) > maxSeedBeliefs {
		keys = keys[:maxSeedBeliefs]
	}

	seeds := make([]gen.BeliefSeed, 0, len(keys))
	for _, k := range keys {
		b := agent.Beliefs[k]
		seeds = append(seeds, gen.BeliefSeed{Key: k, Hypothesis: b.Hypothesis, Confidence: b.Confidence})
	}
	return seeds
}

func knowledgeSummary(result *Result) string {
	if len(result.Adjustments) == 1 {
		return fmt.Sprintf("reflection revised belief %q", result.Adjustments[0].Key)
	}
	return fmt.Sprintf("reflection revised %d beliefs", len(result.Adjustments))
}
