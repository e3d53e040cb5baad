// Package emotion derives agent mood and cognitive-bias modifiers from
// recent prediction-error trends. The modifiers it computes are the only
// channel through which emotion affects cognition.
package emotion

import (
	"math/rand"

	"github.com/emergentmind/hive/internal/models"
)

const (
	// trendWindow is how many resolved predictions feed the trailing
	// error average.
	trendWindow = 3

	// intensityFloor is where mood intensity settles absent a trend.
	intensityFloor = 0.1

	// BiasLimit bounds each cognitive bias to [-BiasLimit, +BiasLimit].
	BiasLimit = 0.2
)

// moodProfile is the deterministic modifier mapping for one mood.
type moodProfile struct {
	learningRateBias float64
	thresholdBias    float64
	decision         models.DecisionStyle
	perception       models.PerceptionFilter
}

var moodProfiles = map[models.Mood]moodProfile{
	models.MoodOptimistic:  {learningRateBias: 0.05, thresholdBias: 0.05, decision: models.DecisionDefault, perception: models.PerceptionOptimisticBias},
	models.MoodPessimistic: {learningRateBias: -0.05, thresholdBias: -0.1, decision: models.DecisionCautious, perception: models.PerceptionPessimisticBias},
	models.MoodAnalytical:  {learningRateBias: 0.1, thresholdBias: -0.05, decision: models.DecisionAnalytical, perception: models.PerceptionNeutral},
	models.MoodIrritable:   {learningRateBias: -0.1, thresholdBias: 0.1, decision: models.DecisionImpulsive, perception: models.PerceptionPessimisticBias},
	models.MoodFocused:     {learningRateBias: 0.1, thresholdBias: 0, decision: models.DecisionAnalytical, perception: models.PerceptionNeutral},
	models.MoodNeutral:     {learningRateBias: 0, thresholdBias: 0, decision: models.DecisionDefault, perception: models.PerceptionNeutral},
}

// Update advances the agent's mood state machine one tick and recomputes
// its cognitive modifiers.
//
// The trailing average of the last three resolved prediction errors drives
// the transition: below 0.3 the mood trends optimistic, above 0.7
// pessimistic, in the 0.5-0.7 band analytical or irritable (stochastic
// tie-break), and back under 0.5 it recovers toward neutral. Without a
// resolvable trend, mood intensity decays toward the floor.
func Update(agent *models.Agent, rng *rand.Rand) {
	st := &agent.Emotional
	errs := agent.Ledger.RecentErrors(trendWindow)

	if len(errs) < trendWindow {
		st.MoodIntensity = decay(st.MoodIntensity)
		st.Intensity = decay(st.Intensity)
		recompute(st)
		return
	}

	var sum float64
	for _, e := range errs {
		sum += e
	}
	avg := sum / float64(len(errs))

	var target models.Mood
	switch {
	case avg < 0.3:
		target = models.MoodOptimistic
	case avg > 0.7:
		target = models.MoodPessimistic
	case avg >= 0.5:
		if rng.Float64() < 0.5 {
			target = models.MoodAnalytical
		} else {
			target = models.MoodIrritable
		}
	default:
		target = models.MoodNeutral
	}

	if st.Mood == target {
		st.MoodIntensity = models.Clamp01(st.MoodIntensity + 0.1)
	} else {
		st.Mood = target
		st.MoodIntensity = models.Clamp(st.MoodIntensity*0.5+0.3, intensityFloor, 1)
	}
	st.Intensity = decay(st.Intensity)
	recompute(st)
}

// Excite raises the agent's primary emotion in response to an event
// (reflection, goal resolution, insight adoption).
func Excite(agent *models.Agent, primary models.Emotion, intensity float64) {
	st := &agent.Emotional
	st.Primary = primary
	st.Intensity = models.Clamp01(intensity)
	recompute(st)
}

func decay(v float64) float64 {
	return models.Clamp(v*0.9, intensityFloor, 1)
}

// recompute rebuilds the cognitive modifiers from the current mood and
// primary emotion. Mood biases scale with mood intensity; high-intensity
// primary emotions add a fixed overlay. Both biases stay in
// [-BiasLimit, +BiasLimit].
func recompute(st *models.EmotionalState) {
	profile, ok := moodProfiles[st.Mood]
	if !ok {
		profile = moodProfiles[models.MoodNeutral]
	}

	m := models.CognitiveModifiers{
		LearningRateBias:        profile.learningRateBias * st.MoodIntensity,
		ReflectionThresholdBias: profile.thresholdBias * st.MoodIntensity,
		DecisionStyle:           profile.decision,
		PerceptionFilter:        profile.perception,
	}

	if st.Intensity > 0.6 {
		switch st.Primary {
		case models.EmotionAnxiety:
			m.ReflectionThresholdBias -= 0.05
			m.DecisionStyle = models.DecisionCautious
		case models.EmotionCuriosity:
			m.LearningRateBias += 0.05
		case models.EmotionFrustration:
			m.ReflectionThresholdBias += 0.05
			m.DecisionStyle = models.DecisionImpulsive
		}
	}

	m.LearningRateBias = models.Clamp(m.LearningRateBias, -BiasLimit, BiasLimit)
	m.ReflectionThresholdBias = models.Clamp(m.ReflectionThresholdBias, -BiasLimit, BiasLimit)
	st.Modifiers = m
}

// EffectiveLearningRate applies the emotional bias to the agent's base
// learning rate, clamped to the configured bounds.
func EffectiveLearningRate(agent *models.Agent, min, max float64) float64 {
	return models.Clamp(agent.LearningRate+agent.Emotional.Modifiers.LearningRateBias, min, max)
}

// EffectiveReflectionThreshold applies the emotional bias to the agent's
// reflection threshold, clamped to [0.01, 1.0].
func EffectiveReflectionThreshold(agent *models.Agent) float64 {
	return models.Clamp(agent.ReflectionThreshold+agent.Emotional.Modifiers.ReflectionThresholdBias, 0.01, 1.0)
}
