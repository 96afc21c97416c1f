package observability

import (
	"fmt"
	"strings"
)

// Console formatting for workflow narration: section headers, success
// and info lines. Mirrors the banner's ANSI palette.

var headerSymbols = []string{"🎯", "📋", "⚙️", "📊", "💡"}

// Header renders a section heading at the given level (1 is the
// largest).
func Header(text string, level int) string {
	if level < 1 {
		level = 1
	}
	symbol := headerSymbols[clamp(level-1, 0, len(headerSymbols)-1)]

	switch level {
	case 1:
		rule := strings.Repeat("=", 60)
		return fmt.Sprintf("\n%s%s%s\n%s %s\n%s%s\n", colorCyan, colorBold, rule, symbol, text, rule, colorReset)
	case 2:
		rule := strings.Repeat("-", 40)
		return fmt.Sprintf("\n%s%s%s %s\n%s%s\n", colorBlue, colorBold, symbol, text, rule, colorReset)
	default:
		return fmt.Sprintf("\n%s%s %s%s\n", colorGreen, symbol, text, colorReset)
	}
}

func Success(text string) string {
	return fmt.Sprintf("%s✅ %s%s", colorGreen, text, colorReset)
}

func Info(text string) string {
	return fmt.Sprintf("%sℹ️ %s%s", colorBlue, text, colorReset)
}
