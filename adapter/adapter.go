package adapter

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Vendor identifies an LLM vendor.
type Vendor string

// Known vendors.
const (
	OpenAI    Vendor = "OpenAI"
	Anthropic Vendor = "Anthropic"
	Gemini    Vendor = "Gemini"
	DeepSeek  Vendor = "DeepSeek"
)

// ParseVendor converts a config string into a Vendor.
// Matching is case-insensitive; unknown names return an error.
func ParseVendor(s string) (Vendor, error) {
	switch strings.ToLower(s) {
	case "openai":
		return OpenAI, nil
	case "anthropic":
		return Anthropic, nil
	case "gemini":
		return Gemini, nil
	case "deepseek":
		return DeepSeek, nil
	default:
		return "", fmt.Errorf("unknown vendor %q", s)
	}
}

// Request is a generic generation request, already resolved to a
// vendor-native model identifier.
type Request struct {
	// ModelID is the vendor's native model identifier
	// (e.g. "gpt-4.1", "claude-haiku-3", "gemini-2.5-flash").
	ModelID string

	// Prompt is the user message.
	Prompt string

	// SystemMessage sets optional system context. Empty means none.
	SystemMessage string

	// Temperature controls randomness (0.0 to 2.0).
	Temperature float64

	// MaxTokens limits the response length. 0 means vendor default.
	MaxTokens int
}

// Response is the vendor-agnostic result of a generation call.
type Response struct {
	// Text is the generated text.
	Text string

	// InputTokens and OutputTokens are the vendor-reported token
	// counts. Only meaningful when TokensKnown is true.
	InputTokens  int
	OutputTokens int

	// TokensKnown reports whether the vendor returned token usage.
	// Some vendors (notably certain Gemini endpoints) do not.
	TokensKnown bool
}

// Adapter is the capability interface implemented once per vendor.
// Implementations must be safe for concurrent use.
type Adapter interface {
	// Vendor returns the vendor this adapter speaks for.
	Vendor() Vendor

	// Generate sends one generation request and returns the raw
	// result. Transport, auth, and rate-limit failures are reported
	// as *VendorError. The context controls cancellation and
	// timeouts; a deadline hit should surface as ErrTimeout.
	Generate(ctx context.Context, req Request) (*Response, error)
}

// GenerateFunc adapts a plain function into an Adapter for a vendor.
// Useful in tests and for wrapping existing client code.
type GenerateFunc struct {
	V  Vendor
	Fn func(ctx context.Context, req Request) (*Response, error)
}

// Vendor implements Adapter.
func (g GenerateFunc) Vendor() Vendor { return g.V }

// Generate implements Adapter.
func (g GenerateFunc) Generate(ctx context.Context, req Request) (*Response, error) {
	return g.Fn(ctx, req)
}

// Set is an immutable collection of adapters keyed by vendor.
// Build one at startup and inject it into the router.
type Set struct {
	adapters map[Vendor]Adapter
}

// NewSet builds a Set from the given adapters.
// Panics if two adapters claim the same vendor; that is a wiring bug,
// not a runtime condition.
func NewSet(adapters ...Adapter) Set {
	m := make(map[Vendor]Adapter, len(adapters))
	for _, a := range adapters {
		v := a.Vendor()
		if _, exists := m[v]; exists {
			panic(fmt.Sprintf("adapter for vendor %q already registered", v))
		}
		m[v] = a
	}
	return Set{adapters: m}
}

// Lookup returns the adapter for a vendor.
func (s Set) Lookup(v Vendor) (Adapter, bool) {
	a, ok := s.adapters[v]
	return a, ok
}

// Vendors returns the vendors with a registered adapter, sorted for
// consistent ordering.
func (s Set) Vendors() []Vendor {
	out := make([]Vendor, 0, len(s.adapters))
	for v := range s.adapters {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
