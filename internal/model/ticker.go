package model

// TickerSymbol is a trimmed, uppercased, non-empty ticker.
// Construct it through the validator package.
type TickerSymbol string

func (t TickerSymbol) String() string { return string(t) }

// PopularTickers is the built-in selectable list shown in the sidebar.
var PopularTickers = []TickerSymbol{
	"AAPL", "MSFT", "GOOGL", "AMZN", "META", "NVDA", "TSLA",
	"ORCL", "ADBE", "CRM", "INTC", "AMD", "QCOM", "IBM",
	"JPM", "BAC", "WFC", "GS", "V", "MA",
	"WMT", "COST", "PG", "KO", "PEP", "NKE",
	"JNJ", "PFE", "UNH", "LLY",
	"XOM", "CVX", "DIS", "BA",
}
