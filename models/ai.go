package models

// AssistantRequest is a chat message sent to the embedded assistant.
type AssistantRequest struct {
	UserID string `json:"-"`
	Text   string `json:"text" binding:"required"`
}

// AssistantAction labels what the client should do with an assistant reply.
const (
	AssistantActionAddTask = "add_task"
)

// AssistantResponse is the assistant's reply. When Action is "add_task" the
// TaskData payload carries the fields of the task to create.
type AssistantResponse struct {
	Text     string `json:"text"`
	Action   string `json:"action,omitempty"`
	TaskData *Task  `json:"taskData,omitempty"`
}

// AssistantContext is the per-user conversation state kept in Redis between
// assistant turns.
type AssistantContext struct {
	History []AssistantTurn `json:"history,omitempty"`
}

// AssistantTurn is one prior exchange in the conversation.
type AssistantTurn struct {
	Role string `json:"role"` // "user" or "model"
	Text string `json:"text"`
}

// PlanResult is the outcome of one schedule generation.
type PlanResult struct {
	Schedule           []CalendarEvent `json:"schedule"`
	UnscheduledTaskIDs []string        `json:"unscheduledTaskIds,omitempty"`
}

// EnginePlan is the raw JSON object the scheduling engine must return.
// Error "overflow" signals that the tasks cannot fit into the free slots;
// CulpritTaskIDs and FailureReason explain the bottleneck.
type EnginePlan struct {
	Schedule       []EngineSegment `json:"schedule"`
	Error          string          `json:"error,omitempty"`
	CulpritTaskIDs []string        `json:"culpritTaskIds,omitempty"`
	FailureReason  string          `json:"failureReason,omitempty"`
}

// EngineSegment is one scheduled block proposed by the engine. A split task
// appears as several segments sharing the same TaskID.
type EngineSegment struct {
	ID        string `json:"id,omitempty"`
	TaskID    string `json:"taskId,omitempty"`
	Title     string `json:"title"`
	Start     string `json:"start"`
	End       string `json:"end"`
	Reasoning string `json:"reasoning,omitempty"`
	Quadrant  string `json:"quadrant,omitempty"`
}
