package gateway

import (
	"fmt"
	"strings"

	"github.com/arjun/kubera/internal/store"
)

// Messenger defines the interface for communication gateways (Telegram, Discord, etc.)
type Messenger interface {
	// Start begins the message listening loop
	Start() error
	// Send sends a message to a specific chat
	Send(chatID string, text string) error
	// Stop gracefully shuts down the gateway
	Stop() error
}

// RunHistory lists past analysis runs for a chat, for the /recent
// command.
type RunHistory interface {
	RecentRuns(chatID string, limit int) ([]store.Run, error)
}

// isRecentCommand reports whether a message asks for the run history
// instead of a fresh analysis.
func isRecentCommand(text string) bool {
	return strings.TrimSpace(text) == "/recent"
}

// formatRuns renders stored runs as a short chat reply, newest first.
func formatRuns(runs []store.Run) string {
	if len(runs) == 0 {
		return "No stored analyses yet."
	}

	var b strings.Builder
	b.WriteString("Recent analyses:\n")
	for _, r := range runs {
		fmt.Fprintf(&b, "- [%s] %s (%d tasks)\n",
			r.CreatedAt.Format("2006-01-02 15:04"), r.Query, r.TaskCount)
	}
	return b.String()
}

// recentReply answers the /recent command from the run history. A nil
// history disables the command.
func recentReply(history RunHistory, chatID string) string {
	if history == nil {
		return "Run history is not available."
	}
	runs, err := history.RecentRuns(chatID, 5)
	if err != nil {
		return fmt.Sprintf("Failed to load run history: %v", err)
	}
	return formatRuns(runs)
}
