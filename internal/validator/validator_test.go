package validator

import (
	"testing"

	"ForecastLens/internal/model"
)

func TestValidate_Accepts(t *testing.T) {
	tests := []struct {
		in   string
		want model.TickerSymbol
	}{
		{"AAPL", "AAPL"},
		{"aapl", "AAPL"},
		{"  msft\t", "MSFT"},
		{"brk.b", "BRK.B"},
		{"x", "X"},
	}
	for _, tt := range tests {
		got, err := Validate(tt.in)
		if err != nil {
			t.Errorf("Validate(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Validate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidate_Rejects(t *testing.T) {
	inputs := []any{"", " ", "\t\n", nil, 42, 3.14, true, []string{"AAPL"}}
	for _, in := range inputs {
		_, err := Validate(in)
		if err == nil {
			t.Errorf("Validate(%#v): expected error", in)
			continue
		}
		if kind := model.KindOf(err); kind != model.KindInvalidInput {
			t.Errorf("Validate(%#v): kind = %q, want %q", in, kind, model.KindInvalidInput)
		}
		if msg := model.UserMessage(err); msg != "Please provide a valid stock ticker." {
			t.Errorf("Validate(%#v): message = %q", in, msg)
		}
	}
}
