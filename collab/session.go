package collab

import (
	"fmt"
	"time"

	"github.com/hupe1980/agenthive/core"
)

// Decision is a proposal under vote inside a session. Votes maps agent id to
// approval; each agent's entry is upserted, so the last vote wins. No quorum
// or majority rule is applied here.
type Decision struct {
	ID         string          `json:"id"`
	Topic      string          `json:"topic"`
	ProposedBy string          `json:"proposed_by"`
	Votes      map[string]bool `json:"votes"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Session groups participants under a shared objective and collects their
// decisions and artifacts.
type Session struct {
	ID           string            `json:"id"`
	Objective    string            `json:"objective"`
	Participants []string          `json:"participants"`
	Decisions    []*Decision       `json:"decisions"`
	Artifacts    map[string]string `json:"artifacts"`
	CreatedAt    time.Time         `json:"created_at"`
}

func (s *Session) hasParticipant(agentID string) bool {
	for _, p := range s.Participants {
		if p == agentID {
			return true
		}
	}
	return false
}

func (s *Session) findDecision(decisionID string) *Decision {
	for _, d := range s.Decisions {
		if d.ID == decisionID {
			return d
		}
	}
	return nil
}

// CreateSession opens a collaboration session over the given participants.
func (c *Channel) CreateSession(objective string, participants ...string) *Session {
	sess := &Session{
		ID:           core.NewID(),
		Objective:    objective,
		Participants: participants,
		Artifacts:    map[string]string{},
		CreatedAt:    time.Now().UTC(),
	}
	c.mu.Lock()
	c.sessions[sess.ID] = sess
	c.mu.Unlock()
	c.LogInfo("collaboration session created", "session_id", sess.ID, "participants", len(participants))
	return sess
}

// GetSession returns the session with the given id.
func (c *Channel) GetSession(sessionID string) (*Session, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	sess, ok := c.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("session %q: %w", sessionID, core.ErrNotFound)
	}
	return sess, nil
}

// ProposeDecision opens a decision in the session and notifies the other
// participants with a decision proposal message.
func (c *Channel) ProposeDecision(sessionID, agentID, topic string) (*Decision, error) {
	c.mu.Lock()
	sess, ok := c.sessions[sessionID]
	if !ok {
		c.mu.Unlock()
		return nil, fmt.Errorf("session %q: %w", sessionID, core.ErrNotFound)
	}
	decision := &Decision{
		ID:         core.NewID(),
		Topic:      topic,
		ProposedBy: agentID,
		Votes:      map[string]bool{},
		CreatedAt:  time.Now().UTC(),
	}
	sess.Decisions = append(sess.Decisions, decision)
	participants := append([]string(nil), sess.Participants...)
	c.mu.Unlock()

	c.notifyParticipants(participants, agentID, func() core.Message {
		msg := core.NewMessage(core.MessageDecisionProposal, agentID, "", topic)
		msg.Payload = map[string]any{"session_id": sessionID, "decision_id": decision.ID}
		msg.RequiresResponse = true
		return msg
	})
	return decision, nil
}

// VoteOnDecision upserts the caller's own vote (idempotent per caller, last
// write wins) and broadcasts a vote event to the other participants.
func (c *Channel) VoteOnDecision(sessionID, decisionID, agentID string, approve bool) error {
	c.mu.Lock()
	sess, ok := c.sessions[sessionID]
	if !ok {
		c.mu.Unlock()
		return fmt.Errorf("session %q: %w", sessionID, core.ErrNotFound)
	}
	if !sess.hasParticipant(agentID) {
		c.mu.Unlock()
		return fmt.Errorf("agent %q not in session %q: %w", agentID, sessionID, core.ErrNotFound)
	}
	decision := sess.findDecision(decisionID)
	if decision == nil {
		c.mu.Unlock()
		return fmt.Errorf("decision %q: %w", decisionID, core.ErrNotFound)
	}
	decision.Votes[agentID] = approve
	participants := append([]string(nil), sess.Participants...)
	c.mu.Unlock()

	c.notifyParticipants(participants, agentID, func() core.Message {
		msg := core.NewMessage(core.MessageVote, agentID, "", decision.Topic)
		msg.Payload = map[string]any{"session_id": sessionID, "decision_id": decisionID, "approve": approve}
		return msg
	})
	return nil
}

// AddArtifact attaches a named artifact to the session, overwriting any
// previous value under the same name.
func (c *Channel) AddArtifact(sessionID, name, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	sess, ok := c.sessions[sessionID]
	if !ok {
		return fmt.Errorf("session %q: %w", sessionID, core.ErrNotFound)
	}
	sess.Artifacts[name] = value
	return nil
}

// notifyParticipants delivers a freshly built message to every participant
// except the actor. Missing mailboxes are skipped silently; session
// membership does not require a registered mailbox.
func (c *Channel) notifyParticipants(participants []string, actor string, build func() core.Message) {
	for _, p := range participants {
		if p == actor {
			continue
		}
		msg := build()
		msg.To = p
		if err := c.Send(msg); err != nil {
			c.LogDebug("participant unreachable", "participant", p)
		}
	}
}
