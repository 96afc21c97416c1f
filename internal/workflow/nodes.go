package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/arjun/kubera/internal/observability"
	"github.com/arjun/kubera/internal/plan"
)

// planningNode asks the planner for a task tree and records a planning
// summary in the transcript.
func (w *Workflow) planningNode(ctx context.Context, s State) (State, error) {
	query := s.Query
	if query == "" {
		query = s.LastMessage()
		s.Query = query
	}

	observability.SetStatus(observability.RolePlanner, query)
	fmt.Print(observability.Header("Task planning", 1))
	fmt.Println(observability.Info("Analyzing request: " + query))

	tree, fallback := w.Planner.CreateTaskTree(ctx, s.ChatID, query)
	s.Tree = tree
	s.UsedFallbackPlan = fallback
	s.Stage = StagePlanningComplete

	summary := fmt.Sprintf(
		"Plan ready: %d tasks under %q. Tasks run in dependency order.",
		len(tree.Tasks), tree.Root.Name,
	)
	s.Messages = append(s.Messages, Message{Role: "ai", Content: summary})

	fmt.Println(observability.Success(summary))
	return s, nil
}

// executionNode runs one wave of ready tasks. When the ready set is
// drained it assembles the final report and marks the run done.
func (w *Workflow) executionNode(ctx context.Context, s State) (State, error) {
	if s.Tree == nil {
		return s, fmt.Errorf("execution reached without a task tree")
	}

	s.Stage = StageExecuting
	fmt.Print(observability.Header("Executing tasks", 2))

	ready := s.Tree.ReadyTasks()
	for _, task := range ready {
		if task.ID == s.Tree.Root.ID {
			// The root is a grouping node, not real work.
			s.Tree.UpdateStatus(task.ID, plan.StatusCompleted, "")
			continue
		}

		observability.SetStatus(observability.RoleExecutor, task.Name)
		fmt.Println(observability.Info("Running: " + task.Name))

		status := plan.StatusCompleted
		result, err := w.Executors.ExecuteTask(ctx, s.ChatID, task)
		if err != nil {
			status = plan.StatusFailed
			result = fmt.Sprintf("Error: %v", err)
			fmt.Println(observability.Info("Task failed: " + task.Name))
		} else {
			fmt.Println(observability.Success("Task complete: " + task.Name))
		}

		s.Tree.UpdateStatus(task.ID, status, result)
		w.Logger.LogTask(s.ChatID, task.ID, task.Name, status)
		s.History = append(s.History, HistoryEntry{
			TaskID:   task.ID,
			Name:     task.Name,
			Executor: task.ExecutorType,
			Status:   status,
		})
	}

	// Tasks whose dependencies failed will never become ready; once
	// the ready set is empty the run is as complete as it can get.
	if len(s.Tree.ReadyTasks()) == 0 {
		s = w.finalize(s)
	}

	observability.SetStatus(observability.RoleIdle, "")
	return s, nil
}

func (w *Workflow) finalize(s State) State {
	completed := s.Tree.Completed()

	var results strings.Builder
	for _, task := range completed {
		fmt.Fprintf(&results, "**%s**:\n%s\n\n", task.Name, task.Result)
	}

	report := fmt.Sprintf(`# Investment Analysis Report

## Overview
- Subject: %s
- Completed tasks: %d
- Generated: %s

## Detailed Results
%s## Recommendations
Based on the analysis above, investors should:
1. Watch fundamental changes and technical signals
2. Mind risk control and position sizing
3. Track market sentiment and news flow
4. Set a clear investment strategy and horizon
`,
		s.Query,
		len(completed),
		time.Now().Format("2006-01-02 15:04:05"),
		results.String(),
	)

	s.Messages = append(s.Messages, Message{Role: "ai", Content: report})
	s.Stage = StageComplete
	s.Done = true

	fmt.Println(observability.Success("Analysis report complete"))
	return s
}
