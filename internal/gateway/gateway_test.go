package gateway

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/arjun/kubera/internal/store"
)

func TestIsRecentCommand(t *testing.T) {
	if !isRecentCommand("/recent") || !isRecentCommand("  /recent \n") {
		t.Error("The /recent command should be recognized with surrounding whitespace")
	}
	if isRecentCommand("analyze 0700.HK") || isRecentCommand("/recently") {
		t.Error("Ordinary queries must not trigger the run-history reply")
	}
}

func TestFormatRuns(t *testing.T) {
	if got := formatRuns(nil); got != "No stored analyses yet." {
		t.Errorf("Unexpected empty reply: %q", got)
	}

	created := time.Date(2026, 8, 25, 10, 30, 0, 0, time.UTC)
	got := formatRuns([]store.Run{
		{Query: "analyze 0700.HK", TaskCount: 5, CreatedAt: created},
	})
	if !strings.Contains(got, "analyze 0700.HK") {
		t.Errorf("Reply should carry the query, got %q", got)
	}
	if !strings.Contains(got, "2026-08-25 10:30") {
		t.Errorf("Reply should carry the run time, got %q", got)
	}
	if !strings.Contains(got, "5 tasks") {
		t.Errorf("Reply should carry the task count, got %q", got)
	}
}

type fakeRunHistory struct {
	runs []store.Run
	err  error
}

func (f *fakeRunHistory) RecentRuns(chatID string, limit int) ([]store.Run, error) {
	return f.runs, f.err
}

func TestRecentReply(t *testing.T) {
	if got := recentReply(nil, "chat"); got != "Run history is not available." {
		t.Errorf("Unexpected reply without a history store: %q", got)
	}

	history := &fakeRunHistory{runs: []store.Run{{Query: "analyze 0700.HK", TaskCount: 5, CreatedAt: time.Now()}}}
	if got := recentReply(history, "chat"); !strings.Contains(got, "analyze 0700.HK") {
		t.Errorf("Reply should list the stored run, got %q", got)
	}

	broken := &fakeRunHistory{err: errors.New("db closed")}
	if got := recentReply(broken, "chat"); !strings.Contains(got, "db closed") {
		t.Errorf("Reply should surface the load error, got %q", got)
	}
}
