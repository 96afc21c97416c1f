package plan

import "strings"

// DefaultTree builds the fallback analysis plan used when the planner
// output cannot be parsed: collect data, then technical and risk work on
// top of it, news in parallel, and a final report over everything.
func DefaultTree(query string) *TaskTree {
	symbol := guessSymbol(query)

	root := Task{
		ID:           "root",
		Name:         "Investment Analysis",
		Description:  query,
		ExecutorType: "coordinator",
		Status:       StatusPending,
	}

	return &TaskTree{
		Root: root,
		Tasks: []Task{
			root,
			{
				ID:           "data_collection",
				Name:         "Collect fundamentals",
				Description:  "Collect base financial and market data for " + symbol,
				ExecutorType: "data_collector",
				Parameters:   map[string]string{"symbol": symbol, "period": "1y"},
				Status:       StatusPending,
			},
			{
				ID:           "technical_analysis",
				Name:         "Technical analysis",
				Description:  "Analyze technical indicators and chart patterns for " + symbol,
				ExecutorType: "technical_analyst",
				Dependencies: []string{"data_collection"},
				Parameters:   map[string]string{"symbol": symbol, "indicators": "MA,RSI,MACD"},
				Status:       StatusPending,
			},
			{
				ID:           "news_analysis",
				Name:         "News and sentiment",
				Description:  "Analyze recent news and market sentiment relevant to the query",
				ExecutorType: "news_analyst",
				Parameters:   map[string]string{"keyword": symbol, "days": "7"},
				Status:       StatusPending,
			},
			{
				ID:           "risk_assessment",
				Name:         "Risk assessment",
				Description:  "Assess investment risk and potential drawdown",
				ExecutorType: "risk_assessor",
				Dependencies: []string{"data_collection"},
				Parameters:   map[string]string{"position_size": "medium", "market_cap": "large"},
				Status:       StatusPending,
			},
			{
				ID:           "report_generation",
				Name:         "Investment report",
				Description:  "Consolidate all analysis results into a final recommendation",
				ExecutorType: "report_generator",
				Dependencies: []string{"technical_analysis", "news_analysis", "risk_assessment"},
				Status:       StatusPending,
			},
		},
	}
}

// guessSymbol pulls a ticker-looking token out of the query, falling
// back to the reference symbol 0700.HK.
func guessSymbol(query string) string {
	for _, field := range strings.Fields(query) {
		token := strings.Trim(field, "()[],;:!?\"'")
		if looksLikeTicker(token) {
			return strings.ToUpper(token)
		}
	}
	return "0700.HK"
}

func looksLikeTicker(s string) bool {
	if len(s) < 2 || len(s) > 10 {
		return false
	}
	hasAlnum := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
			hasAlnum = true
		case r == '.', r == '-':
		default:
			return false
		}
	}
	// Require either a digit or an exchange suffix so plain words
	// don't register as tickers.
	hasDigit := strings.IndexFunc(s, func(r rune) bool { return r >= '0' && r <= '9' }) >= 0
	return hasAlnum && (hasDigit || strings.Contains(s, "."))
}
