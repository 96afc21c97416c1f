package tools

type ctxKey string

// ChatIDKey carries the originating chat ID through tool executions so
// chat-scoped tools (like watchlist) know who asked.
const ChatIDKey ctxKey = "chatID"
