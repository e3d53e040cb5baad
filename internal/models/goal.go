package models

import "time"

// GoalStatus tracks a goal through its lifecycle:
// proposed → accepted|rejected → completed|abandoned.
type GoalStatus string

const (
	GoalProposed  GoalStatus = "proposed"
	GoalAccepted  GoalStatus = "accepted"
	GoalRejected  GoalStatus = "rejected"
	GoalActive    GoalStatus = "active"
	GoalCompleted GoalStatus = "completed"
	GoalAbandoned GoalStatus = "abandoned"
)

// Goal is a collaborative objective an agent committed to after accepting
// a proposal from a peer.
type Goal struct {
	ID          string     `json:"id" yaml:"id"`
	Description string     `json:"description" yaml:"description"`
	ProposerID  string     `json:"proposer_id" yaml:"proposer_id"`
	ProposalID  string     `json:"proposal_id" yaml:"proposal_id"`
	Status      GoalStatus `json:"status" yaml:"status"`

	// Commitment is the evaluation confidence at acceptance time and the
	// success probability when the goal resolves.
	Commitment float64 `json:"commitment" yaml:"commitment"`

	// MotivatingBeliefKey records the belief that drove the proposer, when
	// known. Goal outcomes feed back into that belief's confidence.
	MotivatingBeliefKey string `json:"motivating_belief_key,omitempty" yaml:"motivating_belief_key,omitempty"`

	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
	ResolvedAt time.Time `json:"resolved_at,omitzero" yaml:"resolved_at,omitempty"`
}
