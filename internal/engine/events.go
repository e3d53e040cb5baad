package engine

import (
	"time"

	"github.com/emergentmind/hive/internal/models"
)

// EventType labels the notifications the engine fans out to observers.
type EventType string

const (
	// EventStateUpdate fires once per completed tick with the swarm's
	// aggregate state.
	EventStateUpdate EventType = "state_update"

	// EventMessageEmitted fires when an agent broadcasts a message.
	EventMessageEmitted EventType = "message_emitted"

	// EventBehaviorDetected fires when the emergence detector records a
	// new collective behavior.
	EventBehaviorDetected EventType = "emergent_behavior_detected"

	// EventGoalResolved fires when an agent's goal completes or is
	// abandoned.
	EventGoalResolved EventType = "goal_resolved"

	// EventReflectionCompleted fires after a successful reflection cycle.
	EventReflectionCompleted EventType = "reflection_completed"

	// EventReflectionError fires when a reflection cycle fails. It is
	// diagnostic: the simulation continues regardless.
	EventReflectionError EventType = "reflection_error"
)

// Event is one engine notification. Only the fields relevant to the
// event's type are populated.
type Event struct {
	Type EventType
	Tick uint64
	Time time.Time

	AgentID       string
	Message       *models.Message
	Behavior      *models.EmergentBehavior
	Goal          *models.Goal
	Consciousness float64
	Err           error
}

// Observer receives engine events. Observers are invoked synchronously
// on the tick goroutine and must not block.
type Observer func(Event)
