package tools

import (
	"context"
	"encoding/json"
	"fmt"
)

// NewsTool digests recent headlines and sentiment for a keyword from
// the canned reference dataset. Live coverage comes from search and
// scraper.
type NewsTool struct{}

func NewNewsTool() *NewsTool {
	return &NewsTool{}
}

func (n *NewsTool) Name() string {
	return "financial_news"
}

func (n *NewsTool) Description() string {
	return "Get recent financial news and market sentiment for a company or keyword."
}

func (n *NewsTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"keyword": map[string]any{
				"type":        "string",
				"description": "Company name or topic to look up",
			},
			"days": map[string]any{
				"type":        "integer",
				"description": "How many days back to cover (default 7)",
			},
		},
		"required": []string{"keyword"},
	}
}

func (n *NewsTool) Execute(ctx context.Context, input string) (string, error) {
	var args struct {
		Keyword string `json:"keyword"`
		Days    int    `json:"days"`
	}
	if err := json.Unmarshal([]byte(input), &args); err != nil {
		return "", fmt.Errorf("invalid input: %v", err)
	}
	if args.Keyword == "" {
		return "Error: keyword is required", nil
	}
	if args.Days <= 0 {
		args.Days = 7
	}

	return fmt.Sprintf(`%s news digest
==============================
Coverage: last %d days

Headlines:
1. [Earnings beat] Q3 revenue up 15%% YoY, net profit up 18%%
2. [Partnerships] Strategic agreements signed with several global tech firms
3. [Buyback] Board approves a HK$3bn share repurchase program
4. [Analyst upgrades] Multiple banks raise targets to HK$150-160

Market sentiment:
- Overall tone: constructive
- Analyst ratings: buy/strong buy (85%%)
- Institutional positioning: increasing

Catalysts to watch:
- Metaverse business progress
- Cloud services growth
- International expansion`, args.Keyword, args.Days), nil
}
