package tools

import (
	"context"
	"encoding/json"
	"fmt"
)

// WatchStore is the slice of the store the watchlist tool needs.
type WatchStore interface {
	AddWatch(chatID string, query string, intervalSeconds int) error
	ClearWatches(chatID string) error
}

// WatchlistTool lets the agent schedule recurring re-analysis of a
// query. The scheduler picks due entries up and runs the workflow.
type WatchlistTool struct {
	Store WatchStore
}

func NewWatchlistTool(store WatchStore) *WatchlistTool {
	return &WatchlistTool{Store: store}
}

func (w *WatchlistTool) Name() string {
	return "watchlist"
}

func (w *WatchlistTool) Description() string {
	return "Manage recurring analyses: 'schedule' a query to be re-analyzed on an interval, or 'clear' all watches for this chat."
}

func (w *WatchlistTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"action": map[string]any{
				"type":        "string",
				"enum":        []string{"schedule", "clear"},
				"description": "The operation to perform",
			},
			"query": map[string]any{
				"type":        "string",
				"description": "The analysis query to re-run (required for 'schedule')",
			},
			"interval_seconds": map[string]any{
				"type":        "integer",
				"description": "Seconds between runs; 0 means run once (for 'schedule')",
			},
		},
		"required": []string{"action"},
	}
}

func (w *WatchlistTool) Execute(ctx context.Context, input string) (string, error) {
	var args struct {
		Action          string `json:"action"`
		Query           string `json:"query"`
		IntervalSeconds int    `json:"interval_seconds"`
	}
	if err := json.Unmarshal([]byte(input), &args); err != nil {
		return "", fmt.Errorf("invalid input: %v", err)
	}

	chatID, _ := ctx.Value(ChatIDKey).(string)

	switch args.Action {
	case "schedule":
		if args.Query == "" {
			return "Error: query is required for schedule", nil
		}
		if err := w.Store.AddWatch(chatID, args.Query, args.IntervalSeconds); err != nil {
			return "", fmt.Errorf("failed to schedule watch: %w", err)
		}
		if args.IntervalSeconds > 0 {
			return fmt.Sprintf("Scheduled: %q every %d seconds", args.Query, args.IntervalSeconds), nil
		}
		return fmt.Sprintf("Scheduled one-time analysis: %q", args.Query), nil
	case "clear":
		if err := w.Store.ClearWatches(chatID); err != nil {
			return "", fmt.Errorf("failed to clear watches: %w", err)
		}
		return "Cleared all watches for this chat", nil
	default:
		return "Invalid action. Use 'schedule' or 'clear'", nil
	}
}
