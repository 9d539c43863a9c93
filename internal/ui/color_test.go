package ui

import "testing"

func TestStatusFunctions(t *testing.T) {
	// Disable colors for consistent test output
	DisableColors()
	defer EnableColors()

	tests := map[string]struct {
		fn    func(string) string
		input string
		want  string
	}{
		"success empty":    {fn: StatusSuccess, input: "", want: SymbolSuccess},
		"success with msg": {fn: StatusSuccess, input: "admitted", want: SymbolSuccess + " admitted"},
		"error empty":      {fn: StatusError, input: "", want: SymbolError},
		"error with msg":   {fn: StatusError, input: "rejected", want: SymbolError + " rejected"},
		"warning empty":    {fn: StatusWarning, input: "", want: SymbolWarning},
		"warning with msg": {fn: StatusWarning, input: "legacy root", want: SymbolWarning + " legacy root"},
		"skipped empty":    {fn: StatusSkipped, input: "", want: SymbolSkipped},
		"skipped with msg": {fn: StatusSkipped, input: "dry run", want: SymbolSkipped + " dry run"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := tt.fn(tt.input); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestColorToggle(t *testing.T) {
	initial := IsColorEnabled()

	DisableColors()
	if IsColorEnabled() {
		t.Error("expected colors to be disabled")
	}

	EnableColors()
	if !IsColorEnabled() {
		t.Error("expected colors to be enabled")
	}

	if !initial {
		DisableColors()
	}
}

func TestColorFunctionsPlainWhenDisabled(t *testing.T) {
	DisableColors()
	defer EnableColors()

	for name, fn := range map[string]func(...any) string{
		"Success": Success,
		"Error":   Error,
		"Warning": Warning,
		"Info":    Info,
		"Bold":    Bold,
		"Dim":     Dim,
		"Header":  Header,
	} {
		if got := fn("plain"); got != "plain" {
			t.Errorf("%s() = %q, want plain text with colors disabled", name, got)
		}
	}
}

func TestTerminalWidthFallback(t *testing.T) {
	// Test runs without a terminal on stdout, so the fallback applies.
	if IsTerminal() {
		t.Skip("stdout is a terminal")
	}
	if got := TerminalWidth(80); got != 80 {
		t.Errorf("TerminalWidth(80) = %d, want fallback", got)
	}
}
