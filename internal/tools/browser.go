package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/chromedp"
	"github.com/microcosm-cc/bluemonday"
)

// BrowserTool drives a headless browser for quote and chart pages that
// render their numbers with JavaScript, where the plain scraper sees an
// empty shell. The browser stays open between calls until 'close'.
type BrowserTool struct {
	mu            sync.Mutex
	allocCtx      context.Context
	browserCtx    context.Context
	allocCancel   context.CancelFunc
	browserCancel context.CancelFunc
}

func NewBrowserTool() *BrowserTool {
	return &BrowserTool{}
}

func (b *BrowserTool) Name() string {
	return "browser"
}

func (b *BrowserTool) Description() string {
	return "Open JavaScript-rendered pages (quote boards, charts) in a headless browser. Actions: 'navigate', 'content', 'wait', 'close'."
}

func (b *BrowserTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"action": map[string]any{
				"type":        "string",
				"enum":        []string{"navigate", "content", "wait", "close"},
				"description": "The action to perform.",
			},
			"url": map[string]any{
				"type":        "string",
				"description": "The URL to navigate to (required for 'navigate')",
			},
			"wait_seconds": map[string]any{
				"type":        "integer",
				"description": "Time to wait in seconds (used with 'wait', default 2)",
			},
		},
		"required": []string{"action"},
	}
}

func (b *BrowserTool) initBrowser(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browserCtx != nil {
		select {
		case <-b.browserCtx.Done():
			b.cleanup()
		default:
			return nil
		}
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.Flag("headless", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("no-default-browser-check", true),
	)

	b.allocCtx, b.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	b.browserCtx, b.browserCancel = chromedp.NewContext(b.allocCtx)

	return chromedp.Run(b.browserCtx)
}

func (b *BrowserTool) cleanup() {
	if b.browserCancel != nil {
		b.browserCancel()
	}
	if b.allocCancel != nil {
		b.allocCancel()
	}
	b.browserCtx = nil
	b.allocCtx = nil
}

func (b *BrowserTool) Execute(ctx context.Context, input string) (string, error) {
	var args struct {
		Action      string `json:"action"`
		URL         string `json:"url"`
		WaitSeconds int    `json:"wait_seconds"`
	}

	if err := json.Unmarshal([]byte(input), &args); err != nil {
		return "", fmt.Errorf("invalid input: %v", err)
	}

	if args.Action == "close" {
		b.mu.Lock()
		b.cleanup()
		b.mu.Unlock()
		return "Browser closed", nil
	}

	if err := b.initBrowser(ctx); err != nil {
		return "", fmt.Errorf("failed to start browser: %v", err)
	}

	switch args.Action {
	case "navigate":
		if args.URL == "" {
			return "Error: url is required for navigate", nil
		}
		if err := chromedp.Run(b.browserCtx, chromedp.Navigate(args.URL)); err != nil {
			return "", fmt.Errorf("navigation failed: %v", err)
		}
		return fmt.Sprintf("Navigated to %s", args.URL), nil

	case "wait":
		secs := args.WaitSeconds
		if secs <= 0 {
			secs = 2
		}
		if err := chromedp.Run(b.browserCtx, chromedp.Sleep(time.Duration(secs)*time.Second)); err != nil {
			return "", fmt.Errorf("wait failed: %v", err)
		}
		return fmt.Sprintf("Waited %d seconds", secs), nil

	case "content":
		var html string
		err := chromedp.Run(b.browserCtx,
			chromedp.ActionFunc(func(ctx context.Context) error {
				node, err := dom.GetDocument().Do(ctx)
				if err != nil {
					return err
				}
				html, err = dom.GetOuterHTML().WithNodeID(node.NodeID).Do(ctx)
				return err
			}),
		)
		if err != nil {
			return "", fmt.Errorf("failed to read page content: %v", err)
		}

		text := bluemonday.StrictPolicy().Sanitize(html)
		if len(text) > 50000 {
			text = text[:50000] + "\n... (content truncated) ..."
		}
		return text, nil

	default:
		return "Invalid action. Use 'navigate', 'content', 'wait', or 'close'", nil
	}
}
