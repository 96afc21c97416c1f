// Package workflow wires the planner and executor nodes into the
// analysis graph and routes between them until the run terminates.
package workflow

import "github.com/arjun/kubera/internal/plan"

// Stage values recorded in the state as the run progresses.
const (
	StagePlanning         = "planning"
	StagePlanningComplete = "planning_complete"
	StageExecuting        = "executing"
	StageComplete         = "complete"
	StageError            = "error"
)

// Message is one transcript entry produced during a run.
type Message struct {
	Role    string `json:"role"` // human, ai
	Content string `json:"content"`
}

// HistoryEntry records one executed task.
type HistoryEntry struct {
	TaskID   string `json:"task_id"`
	Name     string `json:"name"`
	Executor string `json:"executor"`
	Status   string `json:"status"`
}

// State is the shared record threaded through one graph run. Nodes
// receive it by value and return the updated copy.
type State struct {
	ChatID           string
	Query            string
	Messages         []Message
	Tree             *plan.TaskTree
	History          []HistoryEntry
	Stage            string
	Done             bool
	UsedFallbackPlan bool
}

// NewState seeds a run from a user query.
func NewState(chatID, query string) State {
	return State{
		ChatID: chatID,
		Query:  query,
		Messages: []Message{
			{Role: "human", Content: query},
		},
		Stage: StagePlanning,
	}
}

// LastMessage returns the content of the newest transcript entry, or
// empty when there is none.
func (s State) LastMessage() string {
	if len(s.Messages) == 0 {
		return ""
	}
	return s.Messages[len(s.Messages)-1].Content
}
