package tools

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRegistrySubset(t *testing.T) {
	r := NewRegistry()
	r.Register(NewMarketTool())
	r.Register(NewRiskTool())

	subset := r.Subset("risk_assessment", "no_such_tool", "stock_data")
	if len(subset) != 2 {
		t.Fatalf("Expected 2 tools, got %d", len(subset))
	}
	if subset[0].Name() != "risk_assessment" || subset[1].Name() != "stock_data" {
		t.Errorf("Subset should preserve the requested order, got %s, %s", subset[0].Name(), subset[1].Name())
	}

	names := r.Names()
	if len(names) != 2 || names[0] != "risk_assessment" || names[1] != "stock_data" {
		t.Errorf("Unexpected names: %v", names)
	}
}

func TestMarketToolDeterministic(t *testing.T) {
	tool := NewMarketTool()
	ctx := context.Background()

	first, err := tool.Execute(ctx, `{"symbol":"0700.hk"}`)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	second, err := tool.Execute(ctx, `{"symbol":"0700.hk"}`)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if first != second {
		t.Error("Market data must be deterministic for the same input")
	}
	if !strings.Contains(first, "0700.HK") {
		t.Error("Report should carry the uppercased symbol")
	}
	if !strings.Contains(first, "Period: 1y") {
		t.Error("Missing period should default to 1y")
	}

	if out, _ := tool.Execute(ctx, `{}`); !strings.Contains(out, "symbol is required") {
		t.Errorf("Missing symbol should be reported to the model, got %q", out)
	}
	if _, err := tool.Execute(ctx, `not json`); err == nil {
		t.Error("Malformed arguments should be an error")
	}
}

func TestTechnicalToolDefaults(t *testing.T) {
	tool := NewTechnicalTool()
	out, err := tool.Execute(context.Background(), `{"symbol":"9988.HK"}`)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !strings.Contains(out, "Primary indicator: MA") {
		t.Error("Missing indicator should default to MA")
	}
}

func TestNewsToolDefaults(t *testing.T) {
	tool := NewNewsTool()
	out, err := tool.Execute(context.Background(), `{"keyword":"Tencent"}`)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !strings.Contains(out, "last 7 days") {
		t.Error("Missing days should default to 7")
	}
	if !strings.Contains(out, "Tencent") {
		t.Error("Digest should carry the keyword")
	}
}

func TestRiskToolValidation(t *testing.T) {
	tool := NewRiskTool()
	out, err := tool.Execute(context.Background(), `{"position_size":"medium"}`)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !strings.Contains(out, "required") {
		t.Errorf("Missing market_cap should be reported to the model, got %q", out)
	}

	out, err = tool.Execute(context.Background(), `{"position_size":"medium","market_cap":"large"}`)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !strings.Contains(out, "Position size: medium") {
		t.Errorf("Unexpected report: %q", out)
	}
}

func TestReportsToolRoundTrip(t *testing.T) {
	dir := t.TempDir()
	tool := NewReportsTool(dir)
	ctx := context.Background()

	out, err := tool.Execute(ctx, `{"command":"list"}`)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, "No reports yet") {
		t.Errorf("Unexpected empty listing: %q", out)
	}

	if _, err := tool.Execute(ctx, `{"command":"write","filename":"0700.md","content":"# Report"}`); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	out, err = tool.Execute(ctx, `{"command":"read","filename":"0700.md"}`)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if out != "# Report" {
		t.Errorf("Unexpected content: %q", out)
	}

	out, err = tool.Execute(ctx, `{"command":"list"}`)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, "0700.md") {
		t.Errorf("Listing should show the report, got %q", out)
	}

	data, err := os.ReadFile(filepath.Join(dir, "0700.md"))
	if err != nil || string(data) != "# Report" {
		t.Errorf("Report not written to the workspace: %v", err)
	}
}

func TestReportsToolBlocksEscape(t *testing.T) {
	tool := NewReportsTool(t.TempDir())
	if _, err := tool.Execute(context.Background(), `{"command":"read","filename":"../../etc/passwd"}`); err == nil {
		t.Error("Path escape should be rejected")
	}
}

type fakeWatchStore struct {
	added   []string
	cleared []string
}

func (f *fakeWatchStore) AddWatch(chatID, query string, intervalSeconds int) error {
	f.added = append(f.added, chatID+":"+query)
	return nil
}

func (f *fakeWatchStore) ClearWatches(chatID string) error {
	f.cleared = append(f.cleared, chatID)
	return nil
}

func TestWatchlistTool(t *testing.T) {
	st := &fakeWatchStore{}
	tool := NewWatchlistTool(st)
	ctx := context.WithValue(context.Background(), ChatIDKey, "chat42")

	out, err := tool.Execute(ctx, `{"action":"schedule","query":"analyze 0700.HK","interval_seconds":3600}`)
	if err != nil {
		t.Fatalf("schedule failed: %v", err)
	}
	if !strings.Contains(out, "every 3600 seconds") {
		t.Errorf("Unexpected schedule reply: %q", out)
	}
	if len(st.added) != 1 || st.added[0] != "chat42:analyze 0700.HK" {
		t.Errorf("Watch not stored for the chat: %v", st.added)
	}

	if out, _ := tool.Execute(ctx, `{"action":"schedule"}`); !strings.Contains(out, "query is required") {
		t.Errorf("Missing query should be reported, got %q", out)
	}

	if _, err := tool.Execute(ctx, `{"action":"clear"}`); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if len(st.cleared) != 1 || st.cleared[0] != "chat42" {
		t.Errorf("Clear should target the chat: %v", st.cleared)
	}
}
