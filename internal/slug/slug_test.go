package slug

import (
	"regexp"
	"strings"
	"testing"
)

func TestMake(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		// Basic normalization
		{"lowercase", "WIERSZE", "wiersze"},
		{"spaces to hyphens", "sen o wolności", "sen-o-wolnosci"},
		{"already normalized", "sen-o-wolnosci", "sen-o-wolnosci"},

		// Polish diacritics
		{"l with stroke", "Miłość", "milosc"},
		{"full polish alphabet", "Zażółć gęślą jaźń", "zazolc-gesla-jazn"},
		{"mixed case diacritics", "MIŁOŚĆ", "milosc"},

		// Punctuation and separators
		{"slash", "Sen / Jawa", "sen-jawa"},
		{"apostrophe", "don't", "don-t"},
		{"punctuation runs", "raz, dwa... trzy!", "raz-dwa-trzy"},
		{"slug with date suffix", "Noc poetów-2024-06-15", "noc-poetow-2024-06-15"},

		// Hyphen handling
		{"leading hyphens", "--wiersz", "wiersz"},
		{"trailing hyphens", "wiersz--", "wiersz"},
		{"collapsed hyphens", "a -- b", "a-b"},

		// Edge cases
		{"empty", "", ""},
		{"only spaces", "   ", ""},
		{"only emoji", "🎉🎉🎉", ""},
		{"numbers kept", "13 grudnia", "13-grudnia"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Make(tt.input); got != tt.expected {
				t.Errorf("Make(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestMakeAlphabet(t *testing.T) {
	valid := regexp.MustCompile(`^[a-z0-9-]*$`)

	inputs := []string{
		"Zwykły tytuł", "ŁĄKA", "a&b#c", "  ", "ü ö ä", "1234", "🎭 Teatr",
	}
	for _, in := range inputs {
		got := Make(in)
		if !valid.MatchString(got) {
			t.Errorf("Make(%q) = %q contains invalid characters", in, got)
		}
		if strings.HasPrefix(got, "-") || strings.HasSuffix(got, "-") {
			t.Errorf("Make(%q) = %q has leading/trailing hyphen", in, got)
		}
	}
}

func TestWithFallback(t *testing.T) {
	// A title with slug characters keeps its slug.
	if got := WithFallback("Miłość", PrefixPoem); got != "milosc" {
		t.Errorf("WithFallback = %q, want milosc", got)
	}

	// A title with none falls back to prefix-<unix>.
	got := WithFallback("🎉🎉🎉", PrefixPoem)
	if !regexp.MustCompile(`^wiersz-\d+$`).MatchString(got) {
		t.Errorf("WithFallback fallback = %q, want wiersz-<unix>", got)
	}

	got = WithFallback("", PrefixSlam)
	if !strings.HasPrefix(got, "slam-") {
		t.Errorf("WithFallback fallback = %q, want slam- prefix", got)
	}
}
