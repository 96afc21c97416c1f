package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ReportsTool manages finished analysis reports in the workspace so the
// report generator can persist and recall them.
type ReportsTool struct {
	Root string
}

func NewReportsTool(root string) *ReportsTool {
	absRoot, _ := filepath.Abs(root)
	return &ReportsTool{Root: absRoot}
}

func (f *ReportsTool) Name() string {
	return "reports"
}

func (f *ReportsTool) Description() string {
	return "Save, read, and list analysis reports in the workspace: write, read, list."
}

func (f *ReportsTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"command": map[string]any{
				"type":        "string",
				"enum":        []string{"write", "read", "list"},
				"description": "The operation to perform",
			},
			"filename": map[string]any{
				"type":        "string",
				"description": "The report file name, e.g. 0700-hk-2026-08.md (not needed for 'list')",
			},
			"content": map[string]any{
				"type":        "string",
				"description": "The report content to write (only for 'write')",
			},
		},
		"required": []string{"command"},
	}
}

func (f *ReportsTool) Execute(ctx context.Context, input string) (string, error) {
	var args struct {
		Command  string `json:"command"`
		Filename string `json:"filename"`
		Content  string `json:"content"`
	}

	if err := json.Unmarshal([]byte(input), &args); err != nil {
		return "", fmt.Errorf("invalid input: %v", err)
	}

	if args.Command == "list" {
		entries, err := os.ReadDir(f.Root)
		if err != nil {
			if os.IsNotExist(err) {
				return "No reports yet", nil
			}
			return "", fmt.Errorf("failed to list reports: %w", err)
		}
		var output string
		for _, entry := range entries {
			if !entry.IsDir() {
				output += entry.Name() + "\n"
			}
		}
		if output == "" {
			return "No reports yet", nil
		}
		return output, nil
	}

	if args.Filename == "" {
		return "Error: filename is required", nil
	}

	targetPath := filepath.Join(f.Root, args.Filename)

	// Safety check: ensure targetPath stays within the workspace.
	rel, err := filepath.Rel(f.Root, targetPath)
	if err != nil || (len(rel) >= 2 && rel[:2] == "..") {
		return "", fmt.Errorf("unsafe path attempt: %s", args.Filename)
	}

	switch args.Command {
	case "read":
		data, err := os.ReadFile(targetPath)
		if err != nil {
			return "", fmt.Errorf("failed to read report: %w", err)
		}
		return string(data), nil
	case "write":
		if err := os.MkdirAll(f.Root, 0755); err != nil {
			return "", fmt.Errorf("failed to create workspace: %w", err)
		}
		if err := os.WriteFile(targetPath, []byte(args.Content), 0644); err != nil {
			return "", fmt.Errorf("failed to write report: %w", err)
		}
		return fmt.Sprintf("Saved report %s", args.Filename), nil
	default:
		return "Invalid command. Use 'write', 'read', or 'list'", nil
	}
}
