package agent

import (
	"context"
	"log"
	"time"

	"github.com/arjun/kubera/internal/store"
)

// Runner runs one full analysis and returns the final report.
type Runner interface {
	Analyze(ctx context.Context, chatID string, query string) (string, error)
}

// Messenger pushes results out to the chat that scheduled them.
type Messenger interface {
	Send(chatID string, text string) error
}

// WatchlistStore is the slice of the store the scheduler needs.
type WatchlistStore interface {
	DueWatches() ([]store.WatchItem, error)
	MarkWatchRun(id int) error
	DeleteWatch(chatID string, id int) error
}

// Scheduler polls the watchlist and re-runs due analyses, pushing each
// fresh report to the chat that scheduled it.
type Scheduler struct {
	Runner   Runner
	Store    WatchlistStore
	Gateway  Messenger
	Interval time.Duration
}

func NewScheduler(runner Runner, st WatchlistStore, gateway Messenger) *Scheduler {
	return &Scheduler{
		Runner:   runner,
		Store:    st,
		Gateway:  gateway,
		Interval: 30 * time.Second,
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	log.Println("Watchlist scheduler started...")

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.pollAndExecute(ctx)
		}
	}
}

func (s *Scheduler) pollAndExecute(ctx context.Context) {
	items, err := s.Store.DueWatches()
	if err != nil {
		log.Printf("Error polling watchlist: %v", err)
		return
	}

	for _, item := range items {
		log.Printf("Running scheduled analysis %d for chat %s: %s", item.ID, item.ChatID, item.Query)

		report, err := s.Runner.Analyze(ctx, item.ChatID, item.Query)
		if err != nil {
			log.Printf("Error running scheduled analysis %d: %v", item.ID, err)
			continue
		}

		if err := s.Store.MarkWatchRun(item.ID); err != nil {
			log.Printf("Error updating last run for watch %d: %v", item.ID, err)
		}

		// One-time entries (interval = 0) are removed after running.
		if item.IntervalSeconds == 0 {
			if err := s.Store.DeleteWatch(item.ChatID, item.ID); err != nil {
				log.Printf("Error deleting one-time watch %d: %v", item.ID, err)
			}
		}

		if s.Gateway != nil {
			s.Gateway.Send(item.ChatID, "⏰ *Scheduled Analysis*\n\n"+report)
		}
	}
}
