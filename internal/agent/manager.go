package agent

import (
	"context"

	"github.com/arjun/kubera/internal/governance"
	"github.com/arjun/kubera/internal/observability"
	"github.com/arjun/kubera/internal/plan"
	"github.com/arjun/kubera/internal/tools"
	"github.com/tmc/langchaingo/llms"
)

// ExecutorManager holds the typed executors and routes each task to the
// one its executor_type names. Unknown types go to the data collector.
type ExecutorManager struct {
	executors map[string]*Executor
}

func NewExecutorManager(model llms.Model, registry *tools.Registry, prompts *PromptManager, policy governance.PolicyEngine, logger *observability.Logger, maxSteps int) *ExecutorManager {
	build := func(execType, name string, toolNames ...string) *Executor {
		return &Executor{
			Type:     execType,
			Name:     name,
			Model:    model,
			Tools:    registry.Subset(toolNames...),
			Prompt:   prompts.GetExecutorPrompt(execType),
			Policy:   policy,
			Logger:   logger,
			MaxSteps: maxSteps,
		}
	}

	return &ExecutorManager{
		executors: map[string]*Executor{
			"data_collector":    build("data_collector", "Data Collector", "stock_data", "search", "browser", "watchlist"),
			"technical_analyst": build("technical_analyst", "Technical Analyst", "technical_analysis", "stock_data"),
			"news_analyst":      build("news_analyst", "News Analyst", "financial_news", "search", "scraper"),
			"risk_assessor":     build("risk_assessor", "Risk Assessor", "risk_assessment"),
			"report_generator":  build("report_generator", "Report Generator", "reports"),
		},
	}
}

func (m *ExecutorManager) Get(executorType string) *Executor {
	if e, ok := m.executors[executorType]; ok {
		return e
	}
	return m.executors["data_collector"]
}

func (m *ExecutorManager) ExecuteTask(ctx context.Context, chatID string, task *plan.Task) (string, error) {
	return m.Get(task.ExecutorType).Execute(ctx, chatID, task)
}
