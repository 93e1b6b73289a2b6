// Package router dispatches generation requests to the right vendor
// adapter based on a logical model name or a (vendor, category) pair,
// and attaches deterministic cost accounting to the result.
//
// The router never retries: vendor failures propagate unchanged so the
// caller (or the validate orchestrator) decides the retry policy.
package router

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/modelmux/modelmux/adapter"
	"github.com/modelmux/modelmux/registry"
	"github.com/modelmux/modelmux/tokens"
)

// ErrUnsupportedVendor indicates no adapter is registered for the
// resolved entry's vendor. Registering a new vendor's adapter is the
// extension point; router logic never changes.
var ErrUnsupportedVendor = errors.New("unsupported vendor")

// DefaultTemperature is used when CallOptions.Temperature is zero.
const DefaultTemperature = 0.7

// DefaultTimeout bounds each adapter call when no timeout is set.
const DefaultTimeout = 2 * time.Minute

// CallOptions configures a single routed call.
type CallOptions struct {
	// SystemMessage sets optional system context.
	SystemMessage string

	// Temperature controls randomness. 0 uses DefaultTemperature;
	// pass a small positive value for near-deterministic output.
	Temperature float64

	// MaxTokens limits the response length. 0 means vendor default.
	MaxTokens int

	// ComputeCost attaches a cost to the result when token counts
	// are available (vendor-reported or estimated).
	ComputeCost bool
}

// Result is the outcome of one routed call.
type Result struct {
	// Text is the generated response text.
	Text string

	// InputTokens and OutputTokens are the counts used for cost
	// calculation: vendor-reported when available, estimated
	// otherwise. Zero when neither source applied.
	InputTokens  int
	OutputTokens int

	// Cost is the USD cost of the call. Nil unless ComputeCost was
	// requested and token counts were available — never silently
	// zero.
	Cost *float64

	// Model is the logical model name that served the call.
	Model string
}

// Router resolves logical model names against an immutable registry
// and dispatches to vendor adapters. Safe for concurrent use.
type Router struct {
	registry *registry.Registry
	adapters adapter.Set
	logger   *slog.Logger
	timeout  time.Duration

	// estimator overrides per-vendor estimation when set.
	estimator tokens.Counter
}

// Option configures a Router.
type Option func(*Router)

// WithLogger sets the structured logger. Default is a discard logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Router) { r.logger = l }
}

// WithTimeout bounds each adapter call. Default is DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Router) { r.timeout = d }
}

// WithEstimator sets a fixed token estimator for all vendors that do
// not report usage, replacing the per-vendor defaults.
func WithEstimator(c tokens.Counter) Option {
	return func(r *Router) { r.estimator = c }
}

// New creates a Router over a registry and adapter set.
func New(reg *registry.Registry, adapters adapter.Set, opts ...Option) *Router {
	r := &Router{
		registry: reg,
		adapters: adapters,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Call resolves a logical model name and dispatches the prompt to the
// owning vendor's adapter. Returns registry.ErrUnknownModel for
// unregistered names (before any adapter call) and ErrUnsupportedVendor
// when the vendor has no adapter. Vendor communication failures
// propagate unchanged.
func (r *Router) Call(ctx context.Context, model, prompt string, opts CallOptions) (*Result, error) {
	entry, err := r.registry.Resolve(model)
	if err != nil {
		return nil, err
	}
	return r.dispatch(ctx, entry, prompt, opts)
}

// CallCategory resolves the single entry matching (vendor, category)
// and dispatches to it. Used by the validation orchestrator to pick
// the high sampler and budget judge per vendor.
func (r *Router) CallCategory(ctx context.Context, vendor adapter.Vendor, category registry.Category, prompt string, opts CallOptions) (*Result, error) {
	entry, err := r.registry.ResolveCategory(vendor, category)
	if err != nil {
		return nil, err
	}
	return r.dispatch(ctx, entry, prompt, opts)
}

// List returns logical model names grouped by vendor, preserving
// registry declaration order.
func (r *Router) List() map[adapter.Vendor][]string {
	return r.registry.List()
}

// Registry returns the registry the router dispatches against.
func (r *Router) Registry() *registry.Registry {
	return r.registry
}

func (r *Router) dispatch(ctx context.Context, entry registry.Entry, prompt string, opts CallOptions) (*Result, error) {
	a, ok := r.adapters.Lookup(entry.Vendor)
	if !ok {
		return nil, fmt.Errorf("%w: no adapter registered for %s (model %s)",
			ErrUnsupportedVendor, entry.Vendor, entry.Name)
	}

	temperature := opts.Temperature
	if temperature == 0 {
		temperature = DefaultTemperature
	}

	callCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	r.logger.Debug("dispatching call",
		slog.String("model", entry.Name),
		slog.String("vendor", string(entry.Vendor)),
		slog.String("model_id", entry.ModelID))

	resp, err := a.Generate(callCtx, adapter.Request{
		ModelID:       entry.ModelID,
		Prompt:        prompt,
		SystemMessage: opts.SystemMessage,
		Temperature:   temperature,
		MaxTokens:     opts.MaxTokens,
	})
	if err != nil {
		r.logger.Error("vendor call failed",
			slog.String("model", entry.Name),
			slog.String("vendor", string(entry.Vendor)),
			slog.Any("error", err))
		return nil, err
	}

	result := &Result{
		Text:  resp.Text,
		Model: entry.Name,
	}

	in, out, known := r.tokenCounts(entry, prompt, opts.SystemMessage, resp)
	if known {
		result.InputTokens = in
		result.OutputTokens = out
	}
	if opts.ComputeCost && known {
		cost := registry.EstimateCost(entry, in, out)
		result.Cost = &cost
	}

	attrs := []any{
		slog.String("model", entry.Name),
		slog.String("vendor", string(entry.Vendor)),
		slog.Duration("duration", time.Since(start)),
	}
	if result.Cost != nil {
		attrs = append(attrs, slog.Float64("cost_usd", *result.Cost))
	}
	r.logger.Info("call completed", attrs...)

	return result, nil
}

// tokenCounts returns the counts to bill against: vendor-reported when
// the entry provides them, estimated from text otherwise.
func (r *Router) tokenCounts(entry registry.Entry, prompt, system string, resp *adapter.Response) (in, out int, known bool) {
	if resp.TokensKnown {
		return resp.InputTokens, resp.OutputTokens, true
	}
	if entry.TokensProvided {
		// The vendor should have reported usage but didn't; leave
		// cost unset rather than billing a guess.
		return 0, 0, false
	}

	counter := r.estimator
	if counter == nil {
		counter = tokens.ForVendor(entry.Vendor)
	}
	in = counter.Count(prompt)
	if system != "" {
		in += counter.Count(system)
	}
	out = counter.Count(resp.Text)
	return in, out, true
}
