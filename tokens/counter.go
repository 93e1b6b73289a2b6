package tokens

import (
	"unicode/utf8"

	"github.com/modelmux/modelmux/adapter"
)

// DefaultCharsPerToken is the default character-to-token ratio.
// Approximately 4 characters equals 1 token for English text.
const DefaultCharsPerToken = 4.0

// Counter estimates token counts for text.
type Counter interface {
	// Count estimates the number of tokens in the given text.
	Count(text string) int
}

// EstimatingCounter uses a character-to-token ratio for estimation.
type EstimatingCounter struct {
	// CharsPerToken is the average characters per token.
	// Default is 4, which works well for English text.
	CharsPerToken float64
}

// NewEstimatingCounter creates a token counter with the default ratio.
func NewEstimatingCounter() *EstimatingCounter {
	return &EstimatingCounter{CharsPerToken: DefaultCharsPerToken}
}

// NewEstimatingCounterWithRatio creates a token counter with a custom
// ratio. If charsPerToken is <= 0, the default ratio (4.0) is used.
func NewEstimatingCounterWithRatio(charsPerToken float64) *EstimatingCounter {
	if charsPerToken <= 0 {
		charsPerToken = DefaultCharsPerToken
	}
	return &EstimatingCounter{CharsPerToken: charsPerToken}
}

// Count estimates the number of tokens in the given text.
// Counts runes rather than bytes so multi-byte text isn't overcounted.
func (c *EstimatingCounter) Count(text string) int {
	runeCount := utf8.RuneCountInString(text)
	tokens := float64(runeCount) / c.CharsPerToken
	return int(tokens + 0.5)
}

// vendorRatios holds per-vendor characters-per-token ratios for
// vendors whose tokenizers diverge noticeably from the default.
var vendorRatios = map[adapter.Vendor]float64{
	adapter.OpenAI:    4.0,
	adapter.Anthropic: 3.8,
	adapter.Gemini:    4.0,
	adapter.DeepSeek:  3.6,
}

// ForVendor returns a Counter tuned for the given vendor, falling back
// to the default ratio for unknown vendors.
func ForVendor(v adapter.Vendor) Counter {
	if ratio, ok := vendorRatios[v]; ok {
		return NewEstimatingCounterWithRatio(ratio)
	}
	return NewEstimatingCounter()
}

// EstimateTokens is a convenience function using the default estimator.
func EstimateTokens(text string) int {
	return NewEstimatingCounter().Count(text)
}
