package collab

import (
	"fmt"
	"sort"
	"sync"

	"github.com/hupe1980/agenthive/core"
	"github.com/hupe1980/agenthive/logging"
)

// mailbox is one agent's ordered message queue. Each mailbox carries its own
// lock so unrelated agents never contend.
type mailbox struct {
	mu       sync.Mutex
	messages []core.Message
}

func (m *mailbox) append(msg core.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
}

func (m *mailbox) drain() []core.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.messages
	m.messages = nil
	return out
}

func (m *mailbox) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages)
}

// Channel is the in-memory message exchange between agents. The mailbox map
// is guarded by a read-write mutex; individual deliveries only take the
// target mailbox's lock.
type Channel struct {
	mu        sync.RWMutex
	mailboxes map[string]*mailbox
	sessions  map[string]*Session

	*core.LoggerAdapter
}

// NewChannel creates an empty channel. A nil logger disables logging.
func NewChannel(logger logging.Logger) *Channel {
	return &Channel{
		mailboxes:     map[string]*mailbox{},
		sessions:      map[string]*Session{},
		LoggerAdapter: core.NewLoggerAdapter(logger),
	}
}

// Register creates a mailbox for the agent. Registering an existing agent
// keeps its mailbox.
func (c *Channel) Register(agentID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.mailboxes[agentID]; !ok {
		c.mailboxes[agentID] = &mailbox{}
	}
}

// Unregister removes the agent's mailbox, dropping undelivered messages.
func (c *Channel) Unregister(agentID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.mailboxes, agentID)
}

// Send appends the message to the named recipient's mailbox. An unknown
// recipient returns a NotFound failure.
func (c *Channel) Send(msg core.Message) error {
	if msg.To == "" {
		c.Broadcast(msg)
		return nil
	}
	c.mu.RLock()
	box, ok := c.mailboxes[msg.To]
	c.mu.RUnlock()
	if !ok {
		return fmt.Errorf("send to %q: %w", msg.To, core.ErrNotFound)
	}
	box.append(msg)
	c.LogDebug("message delivered", "from", msg.From, "to", msg.To, "type", string(msg.Type))
	return nil
}

// Broadcast appends the message to every mailbox except the sender's and
// returns the number of recipients. Recipient order is unspecified.
func (c *Channel) Broadcast(msg core.Message) int {
	c.mu.RLock()
	targets := make([]*mailbox, 0, len(c.mailboxes))
	for id, box := range c.mailboxes {
		if id == msg.From {
			continue
		}
		targets = append(targets, box)
	}
	c.mu.RUnlock()
	for _, box := range targets {
		box.append(msg)
	}
	c.LogDebug("message broadcast", "from", msg.From, "type", string(msg.Type), "recipients", len(targets))
	return len(targets)
}

// Drain reads and clears the agent's mailbox (read-once semantics). An
// unknown agent yields no messages.
func (c *Channel) Drain(agentID string) []core.Message {
	c.mu.RLock()
	box, ok := c.mailboxes[agentID]
	c.mu.RUnlock()
	if !ok {
		return nil
	}
	return box.drain()
}

// MailboxLen returns the number of undrained messages for the agent.
func (c *Channel) MailboxLen(agentID string) int {
	c.mu.RLock()
	box, ok := c.mailboxes[agentID]
	c.mu.RUnlock()
	if !ok {
		return 0
	}
	return box.len()
}

// Agents returns the ids with a mailbox, sorted.
func (c *Channel) Agents() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.mailboxes))
	for id := range c.mailboxes {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// EmergencyAlert broadcasts at maximum priority with RequiresResponse set.
// The alert is advisory: nothing enforces acknowledgment or escalation.
func (c *Channel) EmergencyAlert(from, content string) int {
	msg := core.NewMessage(core.MessageEmergencyAlert, from, "", content)
	msg.Priority = core.PriorityCritical
	msg.RequiresResponse = true
	n := c.Broadcast(msg)
	c.LogWarn("emergency alert broadcast", "from", from, "recipients", n)
	return n
}
