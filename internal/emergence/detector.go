// Package emergence scans aggregate agent state for collective patterns
// no single agent was programmed to produce. The rule set is open: new
// rules register without touching existing ones.
package emergence

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/emergentmind/hive/internal/models"
)

// DefaultDedupWindow suppresses repeat detections of the same behavior
// type within this much simulated time.
const DefaultDedupWindow = 30 * time.Second

// Detection is a rule's positive finding before it becomes a record.
type Detection struct {
	Type           string
	Description    string
	Participants   []string
	EmergenceLevel float64
	Stability      float64
}

// Rule inspects the full population and reports a detection, or nil.
type Rule func(agents []*models.Agent, shared models.SharedReality) *Detection

// Detector runs registered rules each tick and de-duplicates findings.
type Detector struct {
	rules      []Rule
	lastByType map[string]time.Time
	window     time.Duration
}

// NewDetector creates a detector with the built-in rules and the given
// de-duplication window (DefaultDedupWindow when non-positive).
func NewDetector(window time.Duration) *Detector {
	if window <= 0 {
		window = DefaultDedupWindow
	}
	d := &Detector{
		lastByType: make(map[string]time.Time),
		window:     window,
	}
	d.Register(sharedMoodRule)
	d.Register(beliefConvergenceRule)
	d.Register(goalAlignmentRule)
	d.Register(trustWebRule)
	return d
}

// Register appends a rule to the open rule set.
func (d *Detector) Register(rule Rule) {
	d.rules = append(d.rules, rule)
}

// Detect runs every rule and returns new behavior records. A detection is
// dropped when an equivalent record of the same type was created within
// the de-duplication window.
func (d *Detector) Detect(agents []*models.Agent, shared models.SharedReality, now time.Time) []models.EmergentBehavior {
	var found []models.EmergentBehavior
	for _, rule := range d.rules {
		det := rule(agents, shared)
		if det == nil {
			continue
		}
		if last, ok := d.lastByType[det.Type]; ok && now.Sub(last) < d.window {
			continue
		}
		d.lastByType[det.Type] = now
		found = append(found, models.EmergentBehavior{
			ID:             uuid.NewString(),
			Type:           det.Type,
			Description:    det.Description,
			Participants:   det.Participants,
			EmergenceLevel: models.Clamp01(det.EmergenceLevel),
			Stability:      models.Clamp01(det.Stability),
			CreatedAt:      now,
		})
	}
	return found
}

// sharedMoodRule fires when more than 75% of agents share an optimistic
// or focused mood at intensity above 0.7.
func sharedMoodRule(agents []*models.Agent, _ models.SharedReality) *Detection {
	if len(agents) == 0 {
		return nil
	}

	var participants []string
	for _, a := range agents {
		mood := a.Emotional.Mood
		if (mood == models.MoodOptimistic || mood == models.MoodFocused) && a.Emotional.MoodIntensity > 0.7 {
			participants = append(participants, a.ID)
		}
	}

	share := float64(len(participants)) / float64(len(agents))
	if share <= 0.75 {
		return nil
	}
	return &Detection{
		Type:           "collective_mood",
		Description:    fmt.Sprintf("%d of %d agents share a high-intensity positive mood", len(participants), len(agents)),
		Participants:   participants,
		EmergenceLevel: share,
		Stability:      0.5,
	}
}

// beliefConvergenceRule fires when over 60% of agents hold the same
// belief key with confidence above 0.6.
func beliefConvergenceRule(agents []*models.Agent, _ models.SharedReality) *Detection {
	if len(agents) < 2 {
		return nil
	}

	holders := make(map[string][]string)
	for _, a := range agents {
		for key, b := range a.Beliefs {
			if b.Confidence > 0.6 {
				holders[key] = append(holders[key], a.ID)
			}
		}
	}

	var bestKey string
	var best []string
	for key, ids := range holders {
		if len(ids) > len(best) || (len(ids) == len(best) && key < bestKey) {
			bestKey, best = key, ids
		}
	}

	share := float64(len(best)) / float64(len(agents))
	if share <= 0.6 {
		return nil
	}
	return &Detection{
		Type:           "belief_convergence",
		Description:    fmt.Sprintf("belief %q converged across %d agents", bestKey, len(best)),
		Participants:   best,
		EmergenceLevel: share,
		Stability:      0.6,
	}
}

// goalAlignmentRule fires when three or more agents hold accepted goals
// from the same proposal.
func goalAlignmentRule(agents []*models.Agent, _ models.SharedReality) *Detection {
	byProposal := make(map[string][]string)
	for _, a := range agents {
		for _, g := range a.Goals {
			if g.Status == models.GoalAccepted && g.ProposalID != "" {
				byProposal[g.ProposalID] = append(byProposal[g.ProposalID], a.ID)
			}
		}
	}

	var bestID string
	var best []string
	for id, ids := range byProposal {
		if len(ids) > len(best) || (len(ids) == len(best) && id < bestID) {
			bestID, best = id, ids
		}
	}

	if len(best) < 3 {
		return nil
	}
	return &Detection{
		Type:           "goal_alignment",
		Description:    fmt.Sprintf("%d agents committed to the same collaborative goal", len(best)),
		Participants:   best,
		EmergenceLevel: float64(len(best)) / float64(max(len(agents), 1)),
		Stability:      0.7,
	}
}

// trustWebRule fires when the mean pairwise trust across the population
// exceeds 0.7.
func trustWebRule(agents []*models.Agent, _ models.SharedReality) *Detection {
	if len(agents) < 2 {
		return nil
	}

	var sum float64
	var count int
	var participants []string
	for _, a := range agents {
		participants = append(participants, a.ID)
		for _, b := range agents {
			if a.ID == b.ID {
				continue
			}
			sum += a.Profile.TrustIn(b.ID)
			count++
		}
	}

	mean := sum / float64(count)
	if mean <= 0.7 {
		return nil
	}
	return &Detection{
		Type:           "trust_web",
		Description:    fmt.Sprintf("mean pairwise trust reached %.2f", mean),
		Participants:   participants,
		EmergenceLevel: mean,
		Stability:      0.8,
	}
}
