package validator

import (
	"strings"

	"ForecastLens/internal/model"
)

// Validate accepts raw user input and returns the normalized ticker.
// Only strings that are non-empty after trimming are accepted.
func Validate(raw any) (model.TickerSymbol, error) {
	s, ok := raw.(string)
	if !ok {
		return "", model.NewError(model.KindInvalidInput, model.MsgInvalidTicker, nil)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", model.NewError(model.KindInvalidInput, model.MsgInvalidTicker, nil)
	}
	return model.TickerSymbol(strings.ToUpper(s)), nil
}
