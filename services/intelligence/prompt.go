// File: services/intelligence/prompt.go
package ai

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"eisenflow/models"
	"eisenflow/services/planner"
)

// engineTask is the task shape serialized into the scheduling prompt.
type engineTask struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	PriorityScore  int     `json:"priority_score"`
	Importance     int     `json:"importance"`
	Urgency        int     `json:"urgency"`
	Deadline       string  `json:"deadline,omitempty"`
	EstimatedHours float64 `json:"estimatedHours"`
}

// engineSlot is the free-slot shape serialized into the scheduling prompt.
type engineSlot struct {
	Start           string `json:"start"`
	End             string `json:"end"`
	DurationMinutes int    `json:"durationMinutes"`
}

// RankTasks orders flexible tasks deadline-ascending first, then by combined
// priority score descending. Tasks with a deadline come before tasks without.
func RankTasks(tasks []models.Task) []models.Task {
	ranked := make([]models.Task, len(tasks))
	copy(ranked, tasks)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		switch {
		case a.Deadline != "" && b.Deadline != "":
			if a.Deadline != b.Deadline {
				return a.Deadline < b.Deadline
			}
		case a.Deadline != "":
			return true
		case b.Deadline != "":
			return false
		}
		return a.PriorityScore() > b.PriorityScore()
	})
	return ranked
}

// buildPlanPrompt renders the scheduling instruction with the free slots and
// ranked tasks inlined as JSON.
func buildPlanPrompt(slots []planner.FreeSlot, tasks []models.Task, windowStart string, days int) (string, error) {
	slotPayload := make([]engineSlot, 0, len(slots))
	for _, s := range slots {
		slotPayload = append(slotPayload, engineSlot{
			Start:           s.Start.Format("2006-01-02T15:04:05"),
			End:             s.End.Format("2006-01-02T15:04:05"),
			DurationMinutes: s.DurationMinutes,
		})
	}

	taskPayload := make([]engineTask, 0, len(tasks))
	for _, t := range RankTasks(tasks) {
		taskPayload = append(taskPayload, engineTask{
			ID:             t.ID,
			Title:          t.Title,
			PriorityScore:  t.PriorityScore(),
			Importance:     t.Relevance,
			Urgency:        t.Urgency,
			Deadline:       t.Deadline,
			EstimatedHours: t.EstimatedHours,
		})
	}

	slotsJSON, err := json.Marshal(slotPayload)
	if err != nil {
		return "", err
	}
	tasksJSON, err := json.Marshal(taskPayload)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(planPromptTemplate, windowStart, days, slotsJSON, tasksJSON), nil
}

const planPromptTemplate = `Role: You are the Smart Scheduling Algorithm for a productivity application. Your goal is to generate a feasible, optimized plan based on task data, user availability, and fixed constraints.

Planning window: starts %s, spans %d days.

1. INPUT DATA:
- **Free Time Slots**: These are the ONLY available times for the user, derived from their Settings and Fixed Events.
  %s

- **Tasks to Schedule**: (Sorted by EARLIEST DEADLINE first to assist with constraint satisfaction)
  %s

2. CORE SCHEDULING LOGIC (The Algorithm):

**Priority 1: Fixed Events.**
- (Already handled: The 'Free Time Slots' provided above are what remains *after* placing fixed events).

**Priority 2: Task Ranking.**
- The tasks are pre-sorted by Deadline (for constraint reasons) and Urgency/Importance.
- **CRITICAL**: Verify this ranking. The most urgent and important tasks (Q1) with imminent deadlines must be scheduled FIRST.

**Priority 3: Time Allocation.**
- Fill the provided Free Time Slots with the sorted tasks.
- **Consistency**: The total hours scheduled for a task must exactly match its "estimatedHours".
- **Task Splitting**: If a task requires more hours than are available in a single day/slot, YOU MUST split the task across multiple days.
- **Deadline Adherence**: Ensure the *final segment* of any split task is scheduled BEFORE its deadline.

**Priority 4: Intelligent Load Levelling.**
- **Do NOT front-load flexible tasks.**
- If a task has a distant deadline, do NOT schedule it "Today" if "Today" is crowded or if it blocks urgent work.
- Spread flexible tasks deeper into the week to keep the immediate schedule clean for urgent focus.

3. ERROR HANDLING (Capacity Overflow):
   - If the tasks physically cannot fit into the available Free Time Slots:
   - **ACTION**: Do not generate a partial or broken plan.
   - **OUTPUT**: Return a special JSON property "error": "overflow".
   - **CRITICAL**: In the case of overflow, also populate:
      - "culpritTaskIds": IDs of the specific tasks causing the bottleneck.
      - "failureReason": A concise, one-sentence explanation of WHY it failed.

4. OUTPUT FORMAT:
   Return a valid JSON object:
   {
      "schedule": [
          {
              "taskId": "string",
              "title": "string",
              "start": "ISO_STRING",
              "end": "ISO_STRING",
              "reasoning": "string",
              "quadrant": "Q1" | "Q2" | "Q3" | "Q4"
          }
      ],
      "error": "overflow" | null,
      "culpritTaskIds": ["taskId1", "taskId2"],
      "failureReason": "string"
   }

   Note: If "error": "overflow" is returned, the "schedule" array can be empty.
   IMPORTANT: Use all available days. Do not error out just because "Today" is full. Check Tomorrow, Day 3, etc.`

const assistantPromptTemplate = `You are an embedded AI productivity assistant in "EisenFlow", a task management app.

Capabilities:
1. Answer questions about the user's tasks.
2. CREATE tasks if the user explicitly asks.

Current Tasks: %s

TODAY'S DATE: %s
IMPORTANT: If the user says "tomorrow", calculate the date based on TODAY.

RESPONSE FORMAT:
You MUST return a JSON object.

Type 1: Chat Response (No action)
{
    "text": "Your helpful response here..."
}

Type 2: Add Task Action
{
    "text": "Sure, I've added that task for you.",
    "action": "add_task",
    "taskData": {
        "title": "Title of task",
        "description": "Optional description",
        "urgency": 3,
        "relevance": 3,
        "deadline": "YYYY-MM-DD",
        "estimatedHours": 1
    }
}

Keep responses short and encouraging.`

// buildAssistantPrompt renders the assistant system prompt with the user's
// current tasks and today's date.
func buildAssistantPrompt(tasks []models.Task, now time.Time) (string, error) {
	type taskContext struct {
		ID         string `json:"id"`
		Title      string `json:"title"`
		Status     string `json:"status"`
		Urgency    int    `json:"urgency"`
		Importance int    `json:"importance"`
	}
	payload := make([]taskContext, 0, len(tasks))
	for _, t := range tasks {
		payload = append(payload, taskContext{
			ID:         t.ID,
			Title:      t.Title,
			Status:     t.Status,
			Urgency:    t.Urgency,
			Importance: t.Relevance,
		})
	}
	tasksJSON, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(assistantPromptTemplate, tasksJSON, now.Format("Monday, January 2, 2006")), nil
}
