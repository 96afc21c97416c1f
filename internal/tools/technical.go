package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// TechnicalTool reports indicator readings for a symbol from the canned
// reference dataset.
type TechnicalTool struct{}

func NewTechnicalTool() *TechnicalTool {
	return &TechnicalTool{}
}

func (t *TechnicalTool) Name() string {
	return "technical_analysis"
}

func (t *TechnicalTool) Description() string {
	return "Analyze technical indicators for a stock: moving averages, MACD, RSI, support and resistance."
}

func (t *TechnicalTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"symbol": map[string]any{
				"type":        "string",
				"description": "The stock ticker, e.g. 0700.HK",
			},
			"indicator": map[string]any{
				"type":        "string",
				"description": "Primary indicator to focus on, e.g. MA (default), RSI, MACD",
			},
		},
		"required": []string{"symbol"},
	}
}

func (t *TechnicalTool) Execute(ctx context.Context, input string) (string, error) {
	var args struct {
		Symbol    string `json:"symbol"`
		Indicator string `json:"indicator"`
	}
	if err := json.Unmarshal([]byte(input), &args); err != nil {
		return "", fmt.Errorf("invalid input: %v", err)
	}
	if args.Symbol == "" {
		return "Error: symbol is required", nil
	}
	if args.Indicator == "" {
		args.Indicator = "MA"
	}

	return fmt.Sprintf(`%s technical analysis report
==============================
Primary indicator: %s

Moving averages:
- MA5: HK$123.45 (short-term support)
- MA20: HK$118.20 (solid mid-term support)
- MA60: HK$115.80 (long-term uptrend)

Indicators:
- MACD: golden cross formed, strong bullish signal
- RSI(14): 65 (moderately strong, not overbought)
- KDJ: K crossing above D, short-term bullish

Key levels:
- Strong support: HK$120.00, HK$115.00
- Strong resistance: HK$130.00, HK$135.00

Conclusion: multiple indicators point to an uptrend; accumulate on dips.`,
		strings.ToUpper(args.Symbol), args.Indicator), nil
}
