package notifier

import (
	"fmt"
	"html"
	"strings"

	"ForecastLens/internal/calculator"
	"ForecastLens/internal/model"
)

// FormatForecast renders a forecast summary as a Telegram message.
func FormatForecast(title string, s *calculator.Summary) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📈 <b>%s</b>\n\n", html.EscapeString(title)))
	if s == nil {
		b.WriteString("No forecast available.")
		return b.String()
	}
	b.WriteString(fmt.Sprintf("Last close: %.2f (%s)\n", s.LastClose, s.LastDate.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Forecast %dd: %.2f (%s)\n", s.Horizon, s.FinalForecast, s.FinalDate.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Change: %+.2f (%+.2f%%)\n", s.Change, s.ChangePct))
	b.WriteString(fmt.Sprintf("Forecast range: %.2f to %.2f\n", s.ForecastLow, s.ForecastHigh))
	b.WriteString(fmt.Sprintf("History range: %.2f to %.2f", s.HistoryLow, s.HistoryHigh))
	return b.String()
}

// FormatFailure renders a failed forecast attempt.
func FormatFailure(input, message string) string {
	if input == "" {
		return fmt.Sprintf("❌ %s", html.EscapeString(message))
	}
	return fmt.Sprintf("❌ <b>%s</b>: %s", html.EscapeString(input), html.EscapeString(message))
}

// FormatActive describes the ticker currently on display.
func FormatActive(active model.TickerSymbol, title string) string {
	if active == "" {
		return "Nothing is displayed yet."
	}
	return fmt.Sprintf("Currently showing <b>%s</b>", html.EscapeString(title))
}

// FormatHelp lists the supported commands.
func FormatHelp() string {
	return "Available commands:\n• /forecast &lt;TICKER&gt;\n• /active"
}
