package core

import "time"

// TaskStatus enumerates the lifecycle states of a Task. Completed, failed and
// cancelled are terminal; a task never leaves a terminal state.
type TaskStatus string

const (
	// TaskPending means the task has been created but not yet assigned.
	TaskPending TaskStatus = "pending"
	// TaskInProgress means the task is assigned and being worked on.
	TaskInProgress TaskStatus = "in_progress"
	// TaskCompleted means the task finished successfully.
	TaskCompleted TaskStatus = "completed"
	// TaskFailed means the task finished unsuccessfully.
	TaskFailed TaskStatus = "failed"
	// TaskCancelled means the task was cancelled before completion.
	TaskCancelled TaskStatus = "cancelled"
)

// Terminal reports whether the status is final.
func (s TaskStatus) Terminal() bool {
	return s == TaskCompleted || s == TaskFailed || s == TaskCancelled
}

// Task is a unit of delegable work. AssignedTo always names a currently
// active AgentProfile once the task leaves pending.
type Task struct {
	ID           string            `json:"id"`
	Description  string            `json:"description"`
	Priority     Priority          `json:"priority"`
	Status       TaskStatus        `json:"status"`
	AssignedTo   string            `json:"assigned_to,omitempty"`
	Deliverables []string          `json:"deliverables,omitempty"`
	Result       string            `json:"result,omitempty"`
	FailureCause string            `json:"failure_cause,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// NewTask creates a pending task with a generated id.
func NewTask(description string, priority Priority) *Task {
	now := time.Now().UTC()
	return &Task{
		ID:          NewID(),
		Description: description,
		Priority:    priority,
		Status:      TaskPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Transition moves the task to the given status. Transitions out of a
// terminal state are ignored, keeping terminal states final.
func (t *Task) Transition(status TaskStatus) {
	if t.Status.Terminal() {
		return
	}
	t.Status = status
	t.UpdatedAt = time.Now().UTC()
}

// Goal tracks an objective a conversation flow works toward. Progress is a
// percentage in [0,100]; completing all sub goals completes the goal.
type Goal struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
	Progress    float64  `json:"progress"`
	SubGoals    []*Goal  `json:"sub_goals,omitempty"`
}

// NewGoal creates a goal with zero progress.
func NewGoal(goalType, description string, priority Priority) *Goal {
	return &Goal{ID: NewID(), Type: goalType, Description: description, Priority: priority}
}

// Advance increases progress by delta, clamped to [0,100].
func (g *Goal) Advance(delta float64) {
	g.Progress += delta
	if g.Progress > 100 {
		g.Progress = 100
	}
	if g.Progress < 0 {
		g.Progress = 0
	}
}

// Completed reports whether the goal has reached full progress.
func (g *Goal) Completed() bool { return g.Progress >= 100 }
