package tools

import (
	"context"
	"encoding/json"
	"fmt"
)

// RiskTool evaluates position risk from the canned reference dataset.
type RiskTool struct{}

func NewRiskTool() *RiskTool {
	return &RiskTool{}
}

func (r *RiskTool) Name() string {
	return "risk_assessment"
}

func (r *RiskTool) Description() string {
	return "Assess investment risk for a position: VaR, beta, drawdown history, and sizing advice."
}

func (r *RiskTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"position_size": map[string]any{
				"type":        "string",
				"description": "Intended position size: small, medium, or large",
			},
			"market_cap": map[string]any{
				"type":        "string",
				"description": "Market cap bucket of the stock: small, mid, or large",
			},
		},
		"required": []string{"position_size", "market_cap"},
	}
}

func (r *RiskTool) Execute(ctx context.Context, input string) (string, error) {
	var args struct {
		PositionSize string `json:"position_size"`
		MarketCap    string `json:"market_cap"`
	}
	if err := json.Unmarshal([]byte(input), &args); err != nil {
		return "", fmt.Errorf("invalid input: %v", err)
	}
	if args.PositionSize == "" || args.MarketCap == "" {
		return "Error: position_size and market_cap are required", nil
	}

	return fmt.Sprintf(`Risk assessment report
==============================
Position size: %s
Market cap: %s

Risk metrics:
- VaR (95%% confidence): max daily loss 2.8%%
- Beta: 1.15 (slightly above market)
- Historical max drawdown: 35%% (2022)
- Volatility: 28%% (annualized)

Risk factors:
- Regulatory risk: medium (policy sensitivity)
- FX risk: low (revenue in local currency)
- Liquidity risk: very low (large cap)

Recommendations:
1. Keep any single position under 10%% of the portfolio
2. Set a stop loss at -15%%
3. Review exposure on a regular schedule`, args.PositionSize, args.MarketCap), nil
}
