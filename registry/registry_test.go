package registry

import (
	"errors"
	"math"
	"testing"

	"github.com/modelmux/modelmux/adapter"
)

func testEntries() []Entry {
	return []Entry{
		{Name: "gpt41", Vendor: adapter.OpenAI, ModelID: "gpt-4.1", InputPrice: 0.000002, OutputPrice: 0.000008, TokensProvided: true, Category: CategoryHigh},
		{Name: "gpt41mini", Vendor: adapter.OpenAI, ModelID: "gpt-4.1-mini", InputPrice: 0.0000004, OutputPrice: 0.0000016, TokensProvided: true, Category: CategoryBudget},
		{Name: "o3", Vendor: adapter.OpenAI, ModelID: "o3", InputPrice: 0.00001, OutputPrice: 0.00004, TokensProvided: true, Category: CategoryReasoning},
		{Name: "claude3haiku", Vendor: adapter.Anthropic, ModelID: "claude-3-haiku", InputPrice: 0.00000025, OutputPrice: 0.00000125, TokensProvided: true, Category: CategoryBudget},
		{Name: "claudesonnet", Vendor: adapter.Anthropic, ModelID: "claude-sonnet-4", InputPrice: 0.000003, OutputPrice: 0.000015, TokensProvided: true, Category: CategoryHigh},
		{Name: "gemini25flash", Vendor: adapter.Gemini, ModelID: "gemini-2.5-flash", InputPrice: 0.000000075, OutputPrice: 0.0000003, TokensProvided: false, Category: CategoryBudget},
		{Name: "gemini25pro", Vendor: adapter.Gemini, ModelID: "gemini-2.5-pro", InputPrice: 0.00000125, OutputPrice: 0.00001, TokensProvided: false, Category: CategoryHigh},
	}
}

func TestNew_Valid(t *testing.T) {
	r, err := New(testEntries())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Len() != 7 {
		t.Errorf("Len() = %d, want 7", r.Len())
	}
}

func TestNew_InvariantViolations(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
	}{
		{
			"duplicate name",
			[]Entry{
				{Name: "m", Vendor: adapter.OpenAI, ModelID: "a"},
				{Name: "m", Vendor: adapter.Gemini, ModelID: "b"},
			},
		},
		{
			"two high models for one vendor",
			[]Entry{
				{Name: "a", Vendor: adapter.OpenAI, ModelID: "a", Category: CategoryHigh},
				{Name: "b", Vendor: adapter.OpenAI, ModelID: "b", Category: CategoryHigh},
			},
		},
		{
			"two budget models for one vendor",
			[]Entry{
				{Name: "a", Vendor: adapter.Gemini, ModelID: "a", Category: CategoryBudget},
				{Name: "b", Vendor: adapter.Gemini, ModelID: "b", Category: CategoryBudget},
			},
		},
		{
			"missing name",
			[]Entry{{Vendor: adapter.OpenAI, ModelID: "a"}},
		},
		{
			"missing vendor",
			[]Entry{{Name: "a", ModelID: "a"}},
		},
		{
			"missing model id",
			[]Entry{{Name: "a", Vendor: adapter.OpenAI}},
		},
		{
			"negative price",
			[]Entry{{Name: "a", Vendor: adapter.OpenAI, ModelID: "a", InputPrice: -1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.entries); err == nil {
				t.Error("expected build-time error, got nil")
			}
		})
	}
}

func TestNew_MultipleReasoningAllowed(t *testing.T) {
	entries := []Entry{
		{Name: "a", Vendor: adapter.OpenAI, ModelID: "a", Category: CategoryReasoning},
		{Name: "b", Vendor: adapter.OpenAI, ModelID: "b", Category: CategoryReasoning},
		{Name: "c", Vendor: adapter.OpenAI, ModelID: "c", Category: CategoryNone},
		{Name: "d", Vendor: adapter.OpenAI, ModelID: "d", Category: CategoryNone},
	}
	if _, err := New(entries); err != nil {
		t.Fatalf("reasoning/none should be unconstrained: %v", err)
	}
}

func TestResolve(t *testing.T) {
	r := MustNew(testEntries())

	e, err := r.Resolve("gpt41")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.ModelID != "gpt-4.1" || e.Vendor != adapter.OpenAI {
		t.Errorf("unexpected entry: %+v", e)
	}

	_, err = r.Resolve("nope")
	if !errors.Is(err, ErrUnknownModel) {
		t.Errorf("expected ErrUnknownModel, got %v", err)
	}
}

func TestResolveCategory(t *testing.T) {
	r := MustNew(testEntries())

	e, err := r.ResolveCategory(adapter.Gemini, CategoryHigh)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Name != "gemini25pro" {
		t.Errorf("ResolveCategory(Gemini, high) = %q, want gemini25pro", e.Name)
	}

	_, err = r.ResolveCategory(adapter.DeepSeek, CategoryHigh)
	if !errors.Is(err, ErrNoSuchCategory) {
		t.Errorf("expected ErrNoSuchCategory, got %v", err)
	}

	// Reasoning is unconstrained; two entries make the lookup ambiguous.
	amb := MustNew([]Entry{
		{Name: "a", Vendor: adapter.OpenAI, ModelID: "a", Category: CategoryReasoning},
		{Name: "b", Vendor: adapter.OpenAI, ModelID: "b", Category: CategoryReasoning},
	})
	_, err = amb.ResolveCategory(adapter.OpenAI, CategoryReasoning)
	if !errors.Is(err, ErrAmbiguousCategory) {
		t.Errorf("expected ErrAmbiguousCategory, got %v", err)
	}
}

func TestList_PreservesDeclarationOrder(t *testing.T) {
	r := MustNew(testEntries())
	list := r.List()

	wantOpenAI := []string{"gpt41", "gpt41mini", "o3"}
	got := list[adapter.OpenAI]
	if len(got) != len(wantOpenAI) {
		t.Fatalf("OpenAI models = %v, want %v", got, wantOpenAI)
	}
	for i := range wantOpenAI {
		if got[i] != wantOpenAI[i] {
			t.Errorf("OpenAI[%d] = %q, want %q", i, got[i], wantOpenAI[i])
		}
	}

	wantGemini := []string{"gemini25flash", "gemini25pro"}
	got = list[adapter.Gemini]
	for i := range wantGemini {
		if got[i] != wantGemini[i] {
			t.Errorf("Gemini[%d] = %q, want %q", i, got[i], wantGemini[i])
		}
	}
}

func TestVendors(t *testing.T) {
	r := MustNew(testEntries())
	got := r.Vendors()
	want := []adapter.Vendor{adapter.Anthropic, adapter.Gemini, adapter.OpenAI}
	if len(got) != len(want) {
		t.Fatalf("Vendors() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Vendors()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestEstimateCost(t *testing.T) {
	e := Entry{Name: "gpt41", Vendor: adapter.OpenAI, ModelID: "gpt-4.1",
		InputPrice: 0.000002, OutputPrice: 0.000008}

	tests := []struct {
		name     string
		in, out  int
		expected float64
	}{
		{"worked example", 10, 5, 0.00006},
		{"zero tokens", 0, 0, 0},
		{"input only", 1000, 0, 0.002},
		{"output only", 0, 1000, 0.008},
		{"large counts", 1_000_000, 500_000, 2.0 + 4.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateCost(e, tt.in, tt.out)
			if math.Abs(got-tt.expected) > 1e-12 {
				t.Errorf("EstimateCost(%d, %d) = %v, want %v", tt.in, tt.out, got, tt.expected)
			}
		})
	}
}

func TestEstimateCost_SubMicroCentPricing(t *testing.T) {
	// Minimum observed per-token price; precision must survive.
	e := Entry{InputPrice: 0.000000025, OutputPrice: 0.000000025}
	got := EstimateCost(e, 1, 1)
	if math.Abs(got-0.00000005) > 1e-18 {
		t.Errorf("EstimateCost = %v, want 5e-8", got)
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in      string
		want    Category
		wantErr bool
	}{
		{"high", CategoryHigh, false},
		{"Budget", CategoryBudget, false},
		{"reasoning", CategoryReasoning, false},
		{"none", CategoryNone, false},
		{"", CategoryNone, false},
		{"turbo", "", true},
	}

	for _, tt := range tests {
		got, err := ParseCategory(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseCategory(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseCategory(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}
