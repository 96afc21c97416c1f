package workflow

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arjun/kubera/internal/agent"
	"github.com/arjun/kubera/internal/governance"
	"github.com/arjun/kubera/internal/observability"
	"github.com/arjun/kubera/internal/plan"
	"github.com/arjun/kubera/internal/tools"
	"github.com/tmc/langchaingo/llms"
)

// fakeModel replays scripted responses; once the script runs out it
// answers with plain text so executors always finish.
type fakeModel struct {
	script []any // string for text, error for failure
	calls  int
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	i := f.calls
	f.calls++
	if i < len(f.script) {
		switch v := f.script[i].(type) {
		case error:
			return nil, v
		case string:
			return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: v}}}, nil
		}
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: "Task analysis complete."}}}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return "Task analysis complete.", nil
}

type fakeRunStore struct {
	messages []string
	runs     int
}

func (s *fakeRunStore) AddMessage(chatID, role, content string) error {
	s.messages = append(s.messages, role+":"+content)
	return nil
}

func (s *fakeRunStore) SaveRun(chatID, query, report string, taskCount int) error {
	s.runs++
	return nil
}

func newTestWorkflow(t *testing.T, model llms.Model, st RunStore) *Workflow {
	t.Helper()
	logger := observability.NewLoggerAt(filepath.Join(t.TempDir(), "llm.jsonl"))
	prompts := agent.NewPromptManager("")
	policy := governance.NewDefaultPolicyEngine()
	planner := agent.NewTaskPlanner(model, prompts, nil, logger)
	executors := agent.NewExecutorManager(model, tools.NewRegistry(), prompts, policy, logger, 5)

	w, err := New(planner, executors, st, logger, 10)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return w
}

func TestRouteTerminatesWhenDone(t *testing.T) {
	s := State{Done: true, Tree: plan.DefaultTree("q")}
	if got := Route(context.Background(), s); got != RouteTerminate {
		t.Errorf("Done state must route to terminate, got %s", got)
	}
}

func TestRouteToPlannerWithoutPendingWork(t *testing.T) {
	ctx := context.Background()

	// No tree at all.
	if got := Route(ctx, State{}); got != RoutePlanner {
		t.Errorf("Stateless runs must route to the planner, got %s", got)
	}

	// A drained tree.
	tree := plan.DefaultTree("q")
	for _, task := range tree.Tasks {
		tree.UpdateStatus(task.ID, plan.StatusCompleted, "done")
	}
	if got := Route(ctx, State{Tree: tree}); got != RoutePlanner {
		t.Errorf("Drained trees must route to the planner, got %s", got)
	}
}

func TestRouteToExecutorWithPendingWork(t *testing.T) {
	s := State{Tree: plan.DefaultTree("q")}
	ctx := context.Background()
	first := Route(ctx, s)
	if first != RouteExecutor {
		t.Errorf("Pending work must route to the executor, got %s", first)
	}
	// Deterministic for the same state.
	if second := Route(ctx, s); second != first {
		t.Errorf("Router must be deterministic: %s then %s", first, second)
	}
}

func TestPlannerExecutorSingleCycle(t *testing.T) {
	// The planner output is unusable, so the deterministic fallback
	// plan drives the run.
	w := newTestWorkflow(t, &fakeModel{script: []any{"no plan from me"}}, nil)
	ctx := context.Background()

	s := NewState("chat", "sum 1..3")

	s, err := w.planningNode(ctx, s)
	if err != nil {
		t.Fatalf("planningNode failed: %v", err)
	}
	if Route(ctx, s) != RouteExecutor {
		t.Fatal("After planning, the router should pick the executor")
	}

	s, err = w.executionNode(ctx, s)
	if err != nil {
		t.Fatalf("executionNode failed: %v", err)
	}

	if s.Done {
		t.Error("done must stay false while tasks are still pending")
	}
	if len(s.Tree.Completed()) == 0 {
		t.Error("Expected at least one completed task after the first wave")
	}
	if Route(ctx, s) != RouteExecutor {
		t.Error("Remaining work should route back to the executor")
	}
}

func TestWorkflowRunToCompletion(t *testing.T) {
	st := &fakeRunStore{}
	w := newTestWorkflow(t, &fakeModel{script: []any{"garbage plan"}}, st)

	final, err := w.Run(context.Background(), "chat", "analyze 0700.HK")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !final.Done {
		t.Error("Run should finish done")
	}
	if final.Stage != StageComplete {
		t.Errorf("Expected stage %s, got %s", StageComplete, final.Stage)
	}
	if !strings.Contains(final.LastMessage(), "Investment Analysis Report") {
		t.Error("Final message should be the report")
	}
	// Five real tasks in the fallback plan.
	if len(final.History) != 5 {
		t.Errorf("Expected 5 history entries, got %d", len(final.History))
	}
	if st.runs != 1 {
		t.Errorf("Expected one stored run, got %d", st.runs)
	}
	if len(st.messages) != 2 {
		t.Errorf("Expected query and report stored, got %d messages", len(st.messages))
	}
}

func TestWorkflowContinuesPastFailedTask(t *testing.T) {
	// Script: planner garbage, then the first executed task fails.
	// Downstream tasks stay blocked but the run still finishes with
	// a report.
	model := &fakeModel{script: []any{
		"garbage plan",
		errors.New("model unavailable"),
	}}
	w := newTestWorkflow(t, model, nil)

	final, err := w.Run(context.Background(), "chat", "analyze 0700.HK")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !final.Done {
		t.Error("Run should finish even with a failed task")
	}

	failed := 0
	for _, h := range final.History {
		if h.Status == plan.StatusFailed {
			failed++
		}
	}
	if failed != 1 {
		t.Errorf("Expected exactly one failed task, got %d", failed)
	}
}

func TestAnalyzeReturnsReport(t *testing.T) {
	w := newTestWorkflow(t, &fakeModel{script: []any{"garbage plan"}}, nil)

	report, err := w.Analyze(context.Background(), "chat", "analyze 0700.HK")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if !strings.Contains(report, "Investment Analysis Report") {
		t.Errorf("Analyze should return the report, got %q", report)
	}
}
