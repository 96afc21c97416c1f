// Package plan holds the task-tree model the planner produces and the
// executors consume.
package plan

// Task statuses.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Task is a single unit of analysis work.
type Task struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	ExecutorType string            `json:"executor_type"`
	Dependencies []string          `json:"dependencies,omitempty"`
	Parameters   map[string]string `json:"parameters,omitempty"`
	Status       string            `json:"status"` // pending, completed, failed
	Result       string            `json:"result,omitempty"`
}

// TaskTree is the full plan: a root task plus the flat list of tasks
// (the root included) ordered by the planner.
type TaskTree struct {
	Root  Task   `json:"root_task"`
	Tasks []Task `json:"tasks"`
}

// ReadyTasks returns the pending tasks whose dependencies have all
// completed. Tasks with no dependencies are always ready.
func (t *TaskTree) ReadyTasks() []*Task {
	var ready []*Task
	for i := range t.Tasks {
		task := &t.Tasks[i]
		if task.Status != StatusPending {
			continue
		}
		if t.depsCompleted(task) {
			ready = append(ready, task)
		}
	}
	return ready
}

func (t *TaskTree) depsCompleted(task *Task) bool {
	for _, dep := range task.Dependencies {
		done := false
		for i := range t.Tasks {
			if t.Tasks[i].ID == dep && t.Tasks[i].Status == StatusCompleted {
				done = true
				break
			}
		}
		if !done {
			return false
		}
	}
	return true
}

// UpdateStatus marks the task with the given ID. An empty result leaves
// the previous result untouched.
func (t *TaskTree) UpdateStatus(id, status, result string) bool {
	for i := range t.Tasks {
		if t.Tasks[i].ID == id {
			t.Tasks[i].Status = status
			if result != "" {
				t.Tasks[i].Result = result
			}
			return true
		}
	}
	return false
}

// Pending reports whether any task is still waiting to run.
func (t *TaskTree) Pending() bool {
	for i := range t.Tasks {
		if t.Tasks[i].Status == StatusPending {
			return true
		}
	}
	return false
}

// Completed returns the finished tasks that produced a result, in plan
// order, skipping the root.
func (t *TaskTree) Completed() []Task {
	var out []Task
	for _, task := range t.Tasks {
		if task.ID == t.Root.ID {
			continue
		}
		if task.Status == StatusCompleted && task.Result != "" {
			out = append(out, task)
		}
	}
	return out
}
