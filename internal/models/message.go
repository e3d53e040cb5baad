package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// MessageType identifies the protocol-level kind of a message.
type MessageType string

const (
	MessageRealityShare     MessageType = "reality_share"
	MessageMemoryQuery      MessageType = "memory_query"
	MessageConsensusRequest MessageType = "consensus_request"
	MessageSelfModelUpdate  MessageType = "self_model_update"
	MessageGoalProposal     MessageType = "propose_collaborative_goal"
	MessageLearningInsight  MessageType = "share_learning_insight"
)

// AllMessageTypes lists every protocol message type, in emission order.
var AllMessageTypes = []MessageType{
	MessageRealityShare,
	MessageMemoryQuery,
	MessageConsensusRequest,
	MessageSelfModelUpdate,
	MessageGoalProposal,
	MessageLearningInsight,
}

// Payload is the type-specific body of a message. Each message type has
// exactly one payload variant; the union is closed.
type Payload interface {
	MessageType() MessageType
}

// RealityShare carries the sender's current reality frame.
type RealityShare struct {
	Frame RealityFrame `json:"frame" yaml:"frame"`
}

func (RealityShare) MessageType() MessageType { return MessageRealityShare }

// MemoryQuery asks peers what they remember about a topic.
type MemoryQuery struct {
	Topic string `json:"topic" yaml:"topic"`
}

func (MemoryQuery) MessageType() MessageType { return MessageMemoryQuery }

// ConsensusRequest asks peers to weigh in on a statement.
type ConsensusRequest struct {
	Statement string `json:"statement" yaml:"statement"`
}

func (ConsensusRequest) MessageType() MessageType { return MessageConsensusRequest }

// SelfModelUpdate announces a change in the sender's self-model.
type SelfModelUpdate struct {
	Narrative string   `json:"narrative" yaml:"narrative"`
	Traits    []string `json:"traits,omitempty" yaml:"traits,omitempty"`
}

func (SelfModelUpdate) MessageType() MessageType { return MessageSelfModelUpdate }

// GoalProposal invites peers to commit to a collaborative goal. Each
// recipient decides acceptance independently.
type GoalProposal struct {
	Description         string  `json:"description" yaml:"description"`
	MotivatingBeliefKey string  `json:"motivating_belief_key,omitempty" yaml:"motivating_belief_key,omitempty"`
	ProposerConfidence  float64 `json:"proposer_confidence" yaml:"proposer_confidence"`
}

func (GoalProposal) MessageType() MessageType { return MessageGoalProposal }

// LearningInsight shares a belief the sender considers worth adopting.
type LearningInsight struct {
	BeliefKey  string  `json:"belief_key" yaml:"belief_key"`
	Hypothesis string  `json:"hypothesis" yaml:"hypothesis"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

func (LearningInsight) MessageType() MessageType { return MessageLearningInsight }

// Message is an immutable protocol message. It is produced within a tick
// and consumed exactly once by each recipient in the same or following tick.
type Message struct {
	ID         string      `json:"id" yaml:"id"`
	SenderID   string      `json:"sender_id" yaml:"sender_id"`
	Recipients []string    `json:"recipients" yaml:"recipients"`
	Type       MessageType `json:"type" yaml:"type"`
	Payload    Payload     `json:"payload" yaml:"payload"`
	Confidence float64     `json:"confidence" yaml:"confidence"`
	Timestamp  time.Time   `json:"timestamp" yaml:"timestamp"`
}

// messageEnvelope is the JSON wire form: the payload is decoded according
// to the type tag.
type messageEnvelope struct {
	ID         string          `json:"id"`
	SenderID   string          `json:"sender_id"`
	Recipients []string        `json:"recipients"`
	Type       MessageType     `json:"type"`
	Payload    json.RawMessage `json:"payload"`
	Confidence float64         `json:"confidence"`
	Timestamp  time.Time       `json:"timestamp"`
}

// MarshalJSON encodes the message with its payload inline.
func (m Message) MarshalJSON() ([]byte, error) {
	var raw json.RawMessage
	if m.Payload != nil {
		data, err := json.Marshal(m.Payload)
		if err != nil {
			return nil, fmt.Errorf("marshal %s payload: %w", m.Type, err)
		}
		raw = data
	}
	return json.Marshal(messageEnvelope{
		ID:         m.ID,
		SenderID:   m.SenderID,
		Recipients: m.Recipients,
		Type:       m.Type,
		Payload:    raw,
		Confidence: m.Confidence,
		Timestamp:  m.Timestamp,
	})
}

// UnmarshalJSON decodes the envelope and dispatches the payload on the
// message type tag.
func (m *Message) UnmarshalJSON(data []byte) error {
	var env messageEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}

	payload, err := decodePayload(env.Type, env.Payload)
	if err != nil {
		return err
	}

	*m = Message{
		ID:         env.ID,
		SenderID:   env.SenderID,
		Recipients: env.Recipients,
		Type:       env.Type,
		Payload:    payload,
		Confidence: env.Confidence,
		Timestamp:  env.Timestamp,
	}
	return nil
}

func decodePayload(t MessageType, raw json.RawMessage) (Payload, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var payload Payload
	switch t {
	case MessageRealityShare:
		payload = &RealityShare{}
	case MessageMemoryQuery:
		payload = &MemoryQuery{}
	case MessageConsensusRequest:
		payload = &ConsensusRequest{}
	case MessageSelfModelUpdate:
		payload = &SelfModelUpdate{}
	case MessageGoalProposal:
		payload = &GoalProposal{}
	case MessageLearningInsight:
		payload = &LearningInsight{}
	default:
		return nil, fmt.Errorf("unknown message type: %s", t)
	}

	if err := json.Unmarshal(raw, payload); err != nil {
		return nil, fmt.Errorf("unmarshal %s payload: %w", t, err)
	}
	return payload, nil
}
