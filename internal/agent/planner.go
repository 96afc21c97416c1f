package agent

import (
	"context"
	"log"

	"github.com/arjun/kubera/internal/observability"
	"github.com/arjun/kubera/internal/plan"
	"github.com/tmc/langchaingo/llms"
)

// HistoryStore loads prior conversation turns for the planning context.
type HistoryStore interface {
	GetHistory(chatID string, limit int) ([]llms.MessageContent, error)
}

// TaskPlanner asks the model for an XML task tree. Any failure (call
// error, unparseable output) falls back to the deterministic default
// tree so a run always has a plan.
type TaskPlanner struct {
	Model   llms.Model
	Prompts *PromptManager
	History HistoryStore
	Logger  *observability.Logger
}

func NewTaskPlanner(model llms.Model, prompts *PromptManager, history HistoryStore, logger *observability.Logger) *TaskPlanner {
	return &TaskPlanner{
		Model:   model,
		Prompts: prompts,
		History: history,
		Logger:  logger,
	}
}

// CreateTaskTree plans the query. Recent chat history is loaded in front
// of the query so follow-up requests plan against earlier answers. The
// second return reports whether the fallback tree was used.
func (p *TaskPlanner) CreateTaskTree(ctx context.Context, chatID, query string) (*plan.TaskTree, bool) {
	messages := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(p.Prompts.GetPlannerPrompt())},
		},
	}

	if p.History != nil {
		history, err := p.History.GetHistory(chatID, 5)
		if err != nil {
			log.Printf("Failed to load chat history: %v", err)
		} else {
			messages = append(messages, history...)
		}
	}

	messages = append(messages, llms.MessageContent{
		Role:  llms.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{llms.TextPart(query)},
	})

	resp, err := p.Model.GenerateContent(ctx, messages)
	if err != nil {
		log.Printf("Planner call failed, using default task tree: %v", err)
		return p.fallback(chatID, query), true
	}
	if len(resp.Choices) == 0 {
		log.Printf("Planner returned an empty response, using default task tree")
		return p.fallback(chatID, query), true
	}

	raw := resp.Choices[0].Content
	p.Logger.LogLLM(chatID, "root", "plan:"+query, raw, nil)

	tree, err := plan.ParseTree(raw, query)
	if err != nil {
		log.Printf("Planner output unusable, using default task tree: %v", err)
		return p.fallback(chatID, query), true
	}

	p.Logger.LogPlan(chatID, len(tree.Tasks), false)
	return tree, false
}

func (p *TaskPlanner) fallback(chatID, query string) *plan.TaskTree {
	tree := plan.DefaultTree(query)
	p.Logger.LogPlan(chatID, len(tree.Tasks), true)
	return tree
}
