package core

import "time"

// Priority orders tasks and messages. Higher values are more urgent.
type Priority int

const (
	// PriorityLow marks background work.
	PriorityLow Priority = iota
	// PriorityNormal is the default priority.
	PriorityNormal
	// PriorityHigh marks time-sensitive work.
	PriorityHigh
	// PriorityCritical is reserved for emergency alerts.
	PriorityCritical
)

// String returns the string representation of the priority.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityNormal:
		return "normal"
	case PriorityHigh:
		return "high"
	case PriorityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// MessageType categorizes messages exchanged over the collaboration channel.
type MessageType string

const (
	// MessageTaskAssignment notifies an agent of delegated work.
	MessageTaskAssignment MessageType = "task_assignment"
	// MessageStatusUpdate reports task or agent progress.
	MessageStatusUpdate MessageType = "status_update"
	// MessageInfoShare carries knowledge shared between agents.
	MessageInfoShare MessageType = "info_share"
	// MessageDecisionProposal opens a decision for voting.
	MessageDecisionProposal MessageType = "decision_proposal"
	// MessageVote records a cast vote on a decision.
	MessageVote MessageType = "vote"
	// MessageEmergencyAlert is a maximum-priority advisory broadcast.
	MessageEmergencyAlert MessageType = "emergency_alert"
	// MessageResponse answers an earlier message via CorrelationID.
	MessageResponse MessageType = "response"
)

// Message is the unit of in-memory communication between agents. A message
// with an empty To field is a broadcast. Delivery is FIFO per mailbox; no
// ordering holds across mailboxes.
type Message struct {
	ID               string         `json:"id"`
	Type             MessageType    `json:"type"`
	From             string         `json:"from"`
	To               string         `json:"to,omitempty"`
	Priority         Priority       `json:"priority"`
	Content          string         `json:"content"`
	Payload          map[string]any `json:"payload,omitempty"`
	RequiresResponse bool           `json:"requires_response"`
	CorrelationID    string         `json:"correlation_id,omitempty"`
	Timestamp        time.Time      `json:"timestamp"`
}

// NewMessage creates a message with a generated id and UTC timestamp.
func NewMessage(msgType MessageType, from, to, content string) Message {
	return Message{
		ID:        NewID(),
		Type:      msgType,
		From:      from,
		To:        to,
		Priority:  PriorityNormal,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}

// AgentResponse is the per-turn result returned to the caller.
type AgentResponse struct {
	Content          string         `json:"content"`
	Confidence       float64        `json:"confidence"`
	SuggestedActions []string       `json:"suggested_actions,omitempty"`
	ToolsUsed        []string       `json:"tools_used,omitempty"`
	NeedsFollowUp    bool           `json:"needs_follow_up"`
	Metadata         map[string]any `json:"metadata,omitempty"`
}
