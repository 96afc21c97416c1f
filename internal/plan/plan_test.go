package plan

import (
	"strings"
	"testing"
)

func TestReadyTasksDependencyOrder(t *testing.T) {
	tree := DefaultTree("analyze 0700.HK")

	ready := tree.ReadyTasks()
	ids := make(map[string]bool)
	for _, task := range ready {
		ids[task.ID] = true
	}

	// Dependency-free tasks are ready immediately.
	for _, id := range []string{"root", "data_collection", "news_analysis"} {
		if !ids[id] {
			t.Errorf("Expected %s to be ready", id)
		}
	}
	// Dependent tasks are not.
	for _, id := range []string{"technical_analysis", "risk_assessment", "report_generation"} {
		if ids[id] {
			t.Errorf("Did not expect %s to be ready", id)
		}
	}

	tree.UpdateStatus("root", StatusCompleted, "")
	tree.UpdateStatus("data_collection", StatusCompleted, "data")
	tree.UpdateStatus("news_analysis", StatusCompleted, "news")

	ready = tree.ReadyTasks()
	if len(ready) != 2 {
		t.Fatalf("Expected 2 ready tasks after data collection, got %d", len(ready))
	}

	tree.UpdateStatus("technical_analysis", StatusCompleted, "ta")
	tree.UpdateStatus("risk_assessment", StatusCompleted, "risk")

	ready = tree.ReadyTasks()
	if len(ready) != 1 || ready[0].ID != "report_generation" {
		t.Fatalf("Expected only report_generation to be ready, got %v", ready)
	}
}

func TestFailedDependencyBlocksTask(t *testing.T) {
	tree := DefaultTree("analyze 0700.HK")
	tree.UpdateStatus("root", StatusCompleted, "")
	tree.UpdateStatus("data_collection", StatusFailed, "error")

	for _, task := range tree.ReadyTasks() {
		if task.ID == "technical_analysis" || task.ID == "risk_assessment" {
			t.Errorf("Task %s should be blocked by its failed dependency", task.ID)
		}
	}
	if !tree.Pending() {
		t.Error("Blocked tasks should still count as pending")
	}
}

func TestUpdateStatusKeepsResult(t *testing.T) {
	tree := DefaultTree("test")
	tree.UpdateStatus("data_collection", StatusCompleted, "original result")
	tree.UpdateStatus("data_collection", StatusFailed, "")

	for _, task := range tree.Tasks {
		if task.ID == "data_collection" {
			if task.Status != StatusFailed {
				t.Errorf("Expected failed status, got %s", task.Status)
			}
			if task.Result != "original result" {
				t.Errorf("Empty result should not overwrite, got %q", task.Result)
			}
		}
	}

	if tree.UpdateStatus("no_such_task", StatusCompleted, "") {
		t.Error("UpdateStatus should report false for an unknown ID")
	}
}

const sampleXML = `<task_tree>
<root_task>
<id>root</id>
<name>Tencent Analysis</name>
<description>Analyze Tencent</description>
<executor_type>coordinator</executor_type>
</root_task>
<tasks>
<task>
<id>collect</id>
<name>Collect data</name>
<description>Collect base data</description>
<executor_type>data_collector</executor_type>
<dependencies></dependencies>
<parameters>
<symbol>0700.HK</symbol>
<period>1y</period>
</parameters>
</task>
<task>
<id>technical</id>
<name>Technical analysis</name>
<description>Run indicators</description>
<executor_type>technical_analyst</executor_type>
<dependencies>collect</dependencies>
<parameters>
<symbol>0700.HK</symbol>
</parameters>
</task>
</tasks>
</task_tree>`

func TestParseTree(t *testing.T) {
	tree, err := ParseTree(sampleXML, "analyze tencent")
	if err != nil {
		t.Fatalf("ParseTree failed: %v", err)
	}

	if tree.Root.Name != "Tencent Analysis" {
		t.Errorf("Unexpected root name: %s", tree.Root.Name)
	}
	if tree.Root.Description != "analyze tencent" {
		t.Errorf("Root description should carry the query, got %q", tree.Root.Description)
	}
	// Root plus two tasks.
	if len(tree.Tasks) != 3 {
		t.Fatalf("Expected 3 tasks, got %d", len(tree.Tasks))
	}

	var technical *Task
	for i := range tree.Tasks {
		if tree.Tasks[i].ID == "technical" {
			technical = &tree.Tasks[i]
		}
	}
	if technical == nil {
		t.Fatal("Missing task 'technical'")
	}
	if len(technical.Dependencies) != 1 || technical.Dependencies[0] != "collect" {
		t.Errorf("Unexpected dependencies: %v", technical.Dependencies)
	}

	for _, task := range tree.Tasks {
		if task.Status != StatusPending {
			t.Errorf("Task %s should start pending, got %s", task.ID, task.Status)
		}
		if task.ID == "collect" && task.Parameters["symbol"] != "0700.HK" {
			t.Errorf("Unexpected parameters: %v", task.Parameters)
		}
	}
}

func TestParseTreeWithSurroundingProse(t *testing.T) {
	raw := "Sure! Here is the plan:\n\n" + sampleXML + "\n\nLet me know if you need changes."
	tree, err := ParseTree(raw, "analyze tencent")
	if err != nil {
		t.Fatalf("ParseTree failed on prose-wrapped XML: %v", err)
	}
	if len(tree.Tasks) != 3 {
		t.Errorf("Expected 3 tasks, got %d", len(tree.Tasks))
	}
}

func TestParseTreeRejectsGarbage(t *testing.T) {
	if _, err := ParseTree("no xml here", "q"); err == nil {
		t.Error("Expected an error for a response without XML")
	}
	if _, err := ParseTree("<task_tree><broken", "q"); err == nil {
		t.Error("Expected an error for unterminated XML")
	}
	if _, err := ParseTree("<task_tree><tasks></tasks></task_tree>", "q"); err == nil {
		t.Error("Expected an error for an empty task tree")
	}
}

func TestDefaultTreeSymbol(t *testing.T) {
	tree := DefaultTree("please analyze 9988.hk for me")
	found := false
	for _, task := range tree.Tasks {
		if strings.Contains(task.Description, "9988.HK") {
			found = true
		}
	}
	if !found {
		t.Error("Expected the ticker from the query to appear in the default tree")
	}

	// No ticker in the query falls back to the reference symbol.
	tree = DefaultTree("what should I buy")
	if sym := tree.Tasks[1].Parameters["symbol"]; sym != "0700.HK" {
		t.Errorf("Expected fallback symbol 0700.HK, got %s", sym)
	}
}

func TestCompletedSkipsRoot(t *testing.T) {
	tree := DefaultTree("q")
	tree.UpdateStatus("root", StatusCompleted, "root result")
	tree.UpdateStatus("data_collection", StatusCompleted, "data")

	completed := tree.Completed()
	if len(completed) != 1 || completed[0].ID != "data_collection" {
		t.Errorf("Completed should skip the root, got %v", completed)
	}
}
