package agent

import (
	"os"
	"path/filepath"
)

// Built-in prompts. A file named <key>.md in the prompts directory
// overrides the default for that key, so the binary works with no
// prompts directory at all.

const defaultPlannerPrompt = `You are a professional financial investment analysis task planner.
Given the user's request, produce a layered task execution tree.

Return ONLY an XML task tree in this exact format:
<task_tree>
<root_task>
<id>root</id>
<name>Main task name</name>
<description>Main task description</description>
<executor_type>coordinator</executor_type>
</root_task>
<tasks>
<task>
<id>task_1</id>
<name>Task name</name>
<description>Task description</description>
<executor_type>executor type</executor_type>
<dependencies></dependencies>
<parameters>
<symbol>stock ticker</symbol>
</parameters>
</task>
</tasks>
</task_tree>

Available executor types: data_collector, technical_analyst, news_analyst, risk_assessor, report_generator.
List dependencies as comma-separated task IDs. The report_generator task should depend on every analysis task.`

var defaultExecutorPrompts = map[string]string{
	"data_collector":    "You are a professional financial data collector. You gather base stock data, market data, and related figures.",
	"technical_analyst": "You are a professional technical analyst. You analyze technical indicators, chart patterns, and trends.",
	"news_analyst":      "You are a professional news analyst. You gather and analyze financial news, market sentiment, and industry developments.",
	"risk_assessor":     "You are a professional risk assessor. You evaluate investment risk, compute risk metrics, and give risk-management advice.",
	"report_generator":  "You are a professional investment report writer. You consolidate analysis results into a complete investment report.",
}

type PromptManager struct {
	Directory string
}

func NewPromptManager(dir string) *PromptManager {
	return &PromptManager{Directory: dir}
}

func (pm *PromptManager) load(key, fallback string) string {
	if pm.Directory == "" {
		return fallback
	}
	data, err := os.ReadFile(filepath.Join(pm.Directory, key+".md"))
	if err != nil {
		return fallback
	}
	return string(data)
}

func (pm *PromptManager) GetPlannerPrompt() string {
	return pm.load("planner", defaultPlannerPrompt)
}

// GetExecutorPrompt returns the system prompt for an executor type,
// falling back to the data collector's for unknown types.
func (pm *PromptManager) GetExecutorPrompt(executorType string) string {
	fallback, ok := defaultExecutorPrompts[executorType]
	if !ok {
		fallback = defaultExecutorPrompts["data_collector"]
	}
	return pm.load(executorType, fallback)
}
