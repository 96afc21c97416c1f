package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/arjun/kubera/internal/agent"
	"github.com/arjun/kubera/internal/graph"
	"github.com/arjun/kubera/internal/observability"
)

// Node names in the analysis graph.
const (
	NodePlanning  = "planning"
	NodeExecution = "execution"
)

// RunStore persists finished runs and their transcript.
type RunStore interface {
	AddMessage(chatID string, role string, content string) error
	SaveRun(chatID, query, report string, taskCount int) error
}

// Workflow owns the compiled analysis graph and its collaborators.
type Workflow struct {
	Planner   *agent.TaskPlanner
	Executors *agent.ExecutorManager
	Store     RunStore
	Logger    *observability.Logger

	runnable *graph.Runnable[State]
}

// New builds and compiles the planner/executor graph. maxIterations
// bounds the node steps of one run; values below one use the engine
// default.
func New(planner *agent.TaskPlanner, executors *agent.ExecutorManager, st RunStore, logger *observability.Logger, maxIterations int) (*Workflow, error) {
	w := &Workflow{
		Planner:   planner,
		Executors: executors,
		Store:     st,
		Logger:    logger,
	}

	g := graph.New[State]()
	g.AddNode(NodePlanning, w.planningNode)
	g.AddNode(NodeExecution, w.executionNode)
	g.SetEntryPoint(NodePlanning)

	paths := map[string]string{
		RoutePlanner:   NodePlanning,
		RouteExecutor:  NodeExecution,
		RouteTerminate: graph.End,
	}
	g.AddConditionalEdges(NodePlanning, Route, paths)
	g.AddConditionalEdges(NodeExecution, Route, paths)

	runnable, err := g.Compile()
	if err != nil {
		return nil, fmt.Errorf("failed to compile analysis graph: %w", err)
	}
	w.runnable = runnable.WithMaxSteps(maxIterations)

	return w, nil
}

// Run executes one full analysis and returns the final state.
func (w *Workflow) Run(ctx context.Context, chatID, query string) (State, error) {
	start := time.Now()

	final, err := w.runnable.Invoke(ctx, NewState(chatID, query))
	if err != nil {
		return final, err
	}

	taskCount := 0
	if final.Tree != nil {
		taskCount = len(final.Tree.Tasks)
	}
	w.Logger.LogRun(chatID, query, taskCount, time.Since(start))

	if w.Store != nil {
		report := final.LastMessage()
		if err := w.Store.AddMessage(chatID, "human", query); err != nil {
			return final, fmt.Errorf("failed to store query: %w", err)
		}
		if err := w.Store.AddMessage(chatID, "ai", report); err != nil {
			return final, fmt.Errorf("failed to store report: %w", err)
		}
		if err := w.Store.SaveRun(chatID, query, report, taskCount); err != nil {
			return final, fmt.Errorf("failed to store run: %w", err)
		}
	}

	return final, nil
}

// Analyze runs the workflow and returns just the final report text. It
// satisfies agent.Runner so the scheduler and gateways can share it.
func (w *Workflow) Analyze(ctx context.Context, chatID string, query string) (string, error) {
	final, err := w.Run(ctx, chatID, query)
	if err != nil {
		return "", err
	}
	return final.LastMessage(), nil
}
