package tokens

import (
	"strings"
	"testing"

	"github.com/modelmux/modelmux/adapter"
)

func TestEstimatingCounter_Count(t *testing.T) {
	c := NewEstimatingCounter()

	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"four chars", "abcd", 1},
		{"rounds up at half", "abcdef", 2},
		{"forty chars", strings.Repeat("a", 40), 10},
		{"multibyte runes counted once", "héllo wörld!", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Count(tt.text); got != tt.want {
				t.Errorf("Count(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestNewEstimatingCounterWithRatio(t *testing.T) {
	c := NewEstimatingCounterWithRatio(2.0)
	if got := c.Count("abcd"); got != 2 {
		t.Errorf("Count with ratio 2.0 = %d, want 2", got)
	}

	// Invalid ratios fall back to the default.
	c = NewEstimatingCounterWithRatio(-1)
	if c.CharsPerToken != DefaultCharsPerToken {
		t.Errorf("CharsPerToken = %v, want %v", c.CharsPerToken, DefaultCharsPerToken)
	}
}

func TestForVendor(t *testing.T) {
	text := strings.Repeat("a", 380)

	// Anthropic's ratio (3.8) yields more tokens than the default.
	if got := ForVendor(adapter.Anthropic).Count(text); got != 100 {
		t.Errorf("Anthropic Count = %d, want 100", got)
	}
	if got := ForVendor(adapter.OpenAI).Count(text); got != 95 {
		t.Errorf("OpenAI Count = %d, want 95", got)
	}

	// Unknown vendors use the default ratio.
	if got := ForVendor(adapter.Vendor("Mistral")).Count("abcd"); got != 1 {
		t.Errorf("unknown vendor Count = %d, want 1", got)
	}
}

func TestEstimateTokens(t *testing.T) {
	if got := EstimateTokens("Hello, World!"); got != 3 {
		t.Errorf("EstimateTokens = %d, want 3", got)
	}
}
