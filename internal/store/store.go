package store

import (
	"database/sql"
	"time"

	_ "github.com/glebarez/go-sqlite"
	"github.com/tmc/langchaingo/llms"
)

// Store persists chat transcripts, finished analysis runs, and the
// watchlist of recurring analyses.
type Store struct {
	DB *sql.DB
}

// WatchItem is one recurring analysis entry.
type WatchItem struct {
	ID              int
	ChatID          string
	Query           string
	IntervalSeconds int
	LastRun         time.Time
}

// Run is one completed workflow execution.
type Run struct {
	ID        int
	ChatID    string
	Query     string
	Report    string
	TaskCount int
	CreatedAt time.Time
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	queries := []string{
		`CREATE TABLE IF NOT EXISTS messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			chat_id TEXT,
			role TEXT,
			content TEXT,
			timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			chat_id TEXT,
			query TEXT,
			report TEXT,
			task_count INTEGER,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS watchlist (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			chat_id TEXT,
			query TEXT,
			interval_seconds INTEGER,
			last_run DATETIME,
			status TEXT DEFAULT 'active'
		);`,
	}
	for _, q := range queries {
		if _, err = db.Exec(q); err != nil {
			return nil, err
		}
	}

	return &Store{DB: db}, nil
}

func (s *Store) Close() error {
	return s.DB.Close()
}

// ----- messages -----

func (s *Store) AddMessage(chatID string, role string, content string) error {
	query := `INSERT INTO messages (chat_id, role, content) VALUES (?, ?, ?)`
	_, err := s.DB.Exec(query, chatID, role, content)
	return err
}

// GetHistory returns the last n messages for a chat in chronological
// order, converted to langchaingo message content.
func (s *Store) GetHistory(chatID string, limit int) ([]llms.MessageContent, error) {
	query := `SELECT role, content FROM messages WHERE chat_id = ? ORDER BY timestamp DESC LIMIT ?`
	rows, err := s.DB.Query(query, chatID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []llms.MessageContent
	for rows.Next() {
		var role, content string
		if err := rows.Scan(&role, &content); err != nil {
			return nil, err
		}

		var msgRole llms.ChatMessageType
		switch role {
		case "human":
			msgRole = llms.ChatMessageTypeHuman
		case "ai":
			msgRole = llms.ChatMessageTypeAI
		case "system":
			msgRole = llms.ChatMessageTypeSystem
		default:
			msgRole = llms.ChatMessageTypeHuman
		}

		history = append(history, llms.MessageContent{
			Role: msgRole,
			Parts: []llms.ContentPart{
				llms.TextPart(content),
			},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Reverse to get chronological order.
	for i, j := 0, len(history)-1; i < j; i, j = i+1, j-1 {
		history[i], history[j] = history[j], history[i]
	}

	return history, nil
}

// ----- runs -----

func (s *Store) SaveRun(chatID, query, report string, taskCount int) error {
	q := `INSERT INTO runs (chat_id, query, report, task_count) VALUES (?, ?, ?, ?)`
	_, err := s.DB.Exec(q, chatID, query, report, taskCount)
	return err
}

func (s *Store) RecentRuns(chatID string, limit int) ([]Run, error) {
	q := `SELECT id, chat_id, query, report, task_count, created_at
		FROM runs WHERE chat_id = ? ORDER BY created_at DESC LIMIT ?`
	rows, err := s.DB.Query(q, chatID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.ChatID, &r.Query, &r.Report, &r.TaskCount, &r.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// ----- watchlist -----

func (s *Store) AddWatch(chatID string, query string, intervalSeconds int) error {
	// Backdate last_run so the first poll picks the entry up.
	q := `INSERT INTO watchlist (chat_id, query, interval_seconds, last_run) VALUES (?, ?, ?, datetime('now', '-365 days'))`
	_, err := s.DB.Exec(q, chatID, query, intervalSeconds)
	return err
}

// DueWatches returns active entries whose interval has elapsed since
// their last run.
func (s *Store) DueWatches() ([]WatchItem, error) {
	q := `
		SELECT id, chat_id, query, interval_seconds
		FROM watchlist
		WHERE status = 'active'
		AND (last_run IS NULL OR (julianday('now') - julianday(last_run)) * 86400 >= interval_seconds)`
	rows, err := s.DB.Query(q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []WatchItem
	for rows.Next() {
		var item WatchItem
		if err := rows.Scan(&item.ID, &item.ChatID, &item.Query, &item.IntervalSeconds); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *Store) MarkWatchRun(id int) error {
	q := `UPDATE watchlist SET last_run = datetime('now') WHERE id = ?`
	_, err := s.DB.Exec(q, id)
	return err
}

func (s *Store) DeleteWatch(chatID string, id int) error {
	q := `DELETE FROM watchlist WHERE chat_id = ? AND id = ?`
	_, err := s.DB.Exec(q, chatID, id)
	return err
}

func (s *Store) ClearWatches(chatID string) error {
	q := `DELETE FROM watchlist WHERE chat_id = ?`
	_, err := s.DB.Exec(q, chatID)
	return err
}
