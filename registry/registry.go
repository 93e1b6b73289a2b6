package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/modelmux/modelmux/adapter"
)

// Category describes a model's role in the validation protocol.
type Category string

// Category constants. At most one "high" and one "budget" entry may
// exist per vendor; "reasoning" and "none" are unconstrained.
const (
	CategoryHigh      Category = "high"
	CategoryBudget    Category = "budget"
	CategoryReasoning Category = "reasoning"
	CategoryNone      Category = "none"
)

// ParseCategory converts a config string into a Category.
// An empty string maps to CategoryNone.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(s) {
	case "high":
		return CategoryHigh, nil
	case "budget":
		return CategoryBudget, nil
	case "reasoning":
		return CategoryReasoning, nil
	case "none", "":
		return CategoryNone, nil
	default:
		return "", fmt.Errorf("unknown category %q", s)
	}
}

// Entry describes one logical model. Entries are immutable after the
// Registry is built.
type Entry struct {
	// Name is the stable, vendor-agnostic identifier users pass to
	// the router (e.g. "gpt41", "claude3haiku").
	Name string

	// Vendor owns the model.
	Vendor adapter.Vendor

	// ModelID is the vendor's native model identifier.
	ModelID string

	// InputPrice and OutputPrice are USD per single token.
	// Sub-micro-cent prices are normal (observed minimum 2.5e-8).
	InputPrice  float64
	OutputPrice float64

	// TokensProvided reports whether the vendor returns token usage.
	// When false, callers must estimate counts before computing cost.
	TokensProvided bool

	// Category is the model's role in the validation protocol.
	Category Category
}

// Sentinel errors for registry lookups.
var (
	// ErrUnknownModel indicates the logical name is not registered.
	ErrUnknownModel = errors.New("unknown model")

	// ErrNoSuchCategory indicates no entry matches a
	// (vendor, category) pair.
	ErrNoSuchCategory = errors.New("no model in category")

	// ErrAmbiguousCategory indicates more than one entry matches a
	// (vendor, category) pair. Build-time validation prevents this
	// for high and budget; the lookup still checks defensively.
	ErrAmbiguousCategory = errors.New("ambiguous category")
)

type vendorCategory struct {
	vendor   adapter.Vendor
	category Category
}

// Registry is the read-only model table. Safe for concurrent use; all
// state is fixed at construction.
type Registry struct {
	entries []Entry
	byName  map[string]int
	byCat   map[vendorCategory][]int
}

// New builds a Registry from entries, validating the registry
// invariants:
//
//   - every entry has a name, vendor, and vendor model id
//   - logical names are unique
//   - at most one "high" and one "budget" entry per vendor
//
// Violations fail here, at build time, never at call time.
func New(entries []Entry) (*Registry, error) {
	r := &Registry{
		entries: make([]Entry, len(entries)),
		byName:  make(map[string]int, len(entries)),
		byCat:   make(map[vendorCategory][]int),
	}
	copy(r.entries, entries)

	for i, e := range r.entries {
		if e.Name == "" {
			return nil, fmt.Errorf("entry %d: model name is required", i)
		}
		if e.Vendor == "" {
			return nil, fmt.Errorf("model %q: vendor is required", e.Name)
		}
		if e.ModelID == "" {
			return nil, fmt.Errorf("model %q: vendor_model_id is required", e.Name)
		}
		if e.InputPrice < 0 || e.OutputPrice < 0 {
			return nil, fmt.Errorf("model %q: prices must be >= 0", e.Name)
		}
		if e.Category == "" {
			r.entries[i].Category = CategoryNone
			e.Category = CategoryNone
		}

		if _, dup := r.byName[e.Name]; dup {
			return nil, fmt.Errorf("duplicate model name %q", e.Name)
		}
		r.byName[e.Name] = i

		key := vendorCategory{e.Vendor, e.Category}
		r.byCat[key] = append(r.byCat[key], i)
		if (e.Category == CategoryHigh || e.Category == CategoryBudget) && len(r.byCat[key]) > 1 {
			return nil, fmt.Errorf("vendor %s has more than one %q model (%q and %q)",
				e.Vendor, e.Category, r.entries[r.byCat[key][0]].Name, e.Name)
		}
	}

	return r, nil
}

// MustNew builds a Registry, panicking on invalid entries.
// Use only when the entries are guaranteed valid (e.g., in tests).
func MustNew(entries []Entry) *Registry {
	r, err := New(entries)
	if err != nil {
		panic(fmt.Sprintf("registry.MustNew: %v", err))
	}
	return r
}

// Resolve returns the entry for a logical model name.
// Returns ErrUnknownModel if the name is not registered.
func (r *Registry) Resolve(name string) (Entry, error) {
	i, ok := r.byName[name]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrUnknownModel, name)
	}
	return r.entries[i], nil
}

// ResolveCategory returns the single entry matching a
// (vendor, category) pair. Returns ErrNoSuchCategory when nothing
// matches and ErrAmbiguousCategory when more than one entry does.
func (r *Registry) ResolveCategory(vendor adapter.Vendor, category Category) (Entry, error) {
	matches := r.byCat[vendorCategory{vendor, category}]
	switch len(matches) {
	case 0:
		return Entry{}, fmt.Errorf("%w: vendor %s has no %q model", ErrNoSuchCategory, vendor, category)
	case 1:
		return r.entries[matches[0]], nil
	default:
		names := make([]string, len(matches))
		for i, idx := range matches {
			names[i] = r.entries[idx].Name
		}
		return Entry{}, fmt.Errorf("%w: vendor %s has %d %q models (%s)",
			ErrAmbiguousCategory, vendor, len(matches), category, strings.Join(names, ", "))
	}
}

// List returns logical model names grouped by vendor, preserving
// registry declaration order within each vendor.
func (r *Registry) List() map[adapter.Vendor][]string {
	out := make(map[adapter.Vendor][]string)
	for _, e := range r.entries {
		out[e.Vendor] = append(out[e.Vendor], e.Name)
	}
	return out
}

// Vendors returns the vendors present in the registry, sorted.
func (r *Registry) Vendors() []adapter.Vendor {
	seen := make(map[adapter.Vendor]bool)
	var out []adapter.Vendor
	for _, e := range r.entries {
		if !seen[e.Vendor] {
			seen[e.Vendor] = true
			out = append(out, e.Vendor)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Len returns the number of registered models.
func (r *Registry) Len() int {
	return len(r.entries)
}

// EstimateCost computes the USD cost of a call against the entry's
// pricing: inputTokens*InputPrice + outputTokens*OutputPrice.
// The arithmetic is exact to float64 precision; formatting for display
// is the caller's concern.
func EstimateCost(e Entry, inputTokens, outputTokens int) float64 {
	return float64(inputTokens)*e.InputPrice + float64(outputTokens)*e.OutputPrice
}
