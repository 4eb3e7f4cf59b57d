package core

import "time"

// PersonalityTraits tunes how an agent phrases and approaches work. The
// numeric traits are normalized to [0,1] and consumed by the content
// generator as steering hints; they carry no scheduling weight.
type PersonalityTraits struct {
	Tone          string  `json:"tone"`
	Creativity    float64 `json:"creativity"`
	RiskTolerance float64 `json:"risk_tolerance"`
	Collaboration float64 `json:"collaboration"`
}

// PerformanceMetrics aggregates delivery statistics for an agent. The
// orchestrator updates them after every completed or failed task and the
// delegation scorer reads them.
type PerformanceMetrics struct {
	SuccessRate     float64       `json:"success_rate"` // completed / (completed + failed), 1.0 when untried
	AvgResponseTime time.Duration `json:"avg_response_time"`
	TasksCompleted  int           `json:"tasks_completed"`
	TasksFailed     int           `json:"tasks_failed"`
}

// AgentProfile describes a stateful persona that receives tasks and messages.
// Capabilities are free-form tags matched against task descriptions during
// delegation. Exactly one profile exists per active agent; the orchestrator
// owns all mutation.
type AgentProfile struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Description  string             `json:"description,omitempty"`
	Capabilities []string           `json:"capabilities"`
	Personality  PersonalityTraits  `json:"personality"`
	Metrics      PerformanceMetrics `json:"metrics"`
	Active       bool               `json:"active"`
	CreatedAt    time.Time          `json:"created_at"`
}

// NewAgentProfile constructs an active profile with neutral metrics.
func NewAgentProfile(id, name string, capabilities ...string) *AgentProfile {
	return &AgentProfile{
		ID:           id,
		Name:         name,
		Capabilities: capabilities,
		Metrics:      PerformanceMetrics{SuccessRate: 1.0},
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	}
}

// HasCapability reports whether the profile carries the given capability tag.
func (p *AgentProfile) HasCapability(tag string) bool {
	for _, c := range p.Capabilities {
		if c == tag {
			return true
		}
	}
	return false
}

// RecordOutcome folds a task outcome into the performance metrics. Response
// time is tracked as an exponential moving average so a single slow task does
// not dominate the delegation score.
func (m *PerformanceMetrics) RecordOutcome(success bool, responseTime time.Duration) {
	if success {
		m.TasksCompleted++
	} else {
		m.TasksFailed++
	}
	total := m.TasksCompleted + m.TasksFailed
	m.SuccessRate = float64(m.TasksCompleted) / float64(total)
	if m.AvgResponseTime == 0 {
		m.AvgResponseTime = responseTime
		return
	}
	// EWMA with alpha 0.3
	m.AvgResponseTime = time.Duration(0.7*float64(m.AvgResponseTime) + 0.3*float64(responseTime))
}
