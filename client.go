package modelmux

import (
	"context"
	"log/slog"
	"time"

	"github.com/modelmux/modelmux/adapter"
	"github.com/modelmux/modelmux/registry"
	"github.com/modelmux/modelmux/router"
	"github.com/modelmux/modelmux/validate"
)

// Client bundles a router and a validation orchestrator behind the two
// call shapes most users need. For finer control, use the router and
// validate packages directly.
type Client struct {
	router       *router.Router
	orchestrator *validate.Orchestrator
}

// ClientOption configures a Client.
type ClientOption func(*clientConfig)

type clientConfig struct {
	logger        *slog.Logger
	timeout       time.Duration
	maxAttempts   int
	defaultVendor adapter.Vendor
}

// WithLogger sets the structured logger used by both the router and
// the orchestrator.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *clientConfig) { c.logger = l }
}

// WithTimeout bounds each vendor call.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *clientConfig) { c.timeout = d }
}

// WithMaxAttempts sets the validated-call round budget (default 5).
func WithMaxAttempts(n int) ClientOption {
	return func(c *clientConfig) { c.maxAttempts = n }
}

// WithDefaultVendor sets the vendor used by ValidatedCall when none is
// given (default OpenAI).
func WithDefaultVendor(v adapter.Vendor) ClientOption {
	return func(c *clientConfig) { c.defaultVendor = v }
}

// NewClient creates a Client over a registry and adapter set.
func NewClient(reg *registry.Registry, adapters adapter.Set, opts ...ClientOption) *Client {
	var cfg clientConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	var routerOpts []router.Option
	var validateOpts []validate.Option
	if cfg.logger != nil {
		routerOpts = append(routerOpts, router.WithLogger(cfg.logger))
		validateOpts = append(validateOpts, validate.WithLogger(cfg.logger))
	}
	if cfg.timeout > 0 {
		routerOpts = append(routerOpts, router.WithTimeout(cfg.timeout))
	}
	if cfg.maxAttempts > 0 {
		validateOpts = append(validateOpts, validate.WithMaxAttempts(cfg.maxAttempts))
	}
	if cfg.defaultVendor != "" {
		validateOpts = append(validateOpts, validate.WithDefaultVendor(cfg.defaultVendor))
	}

	r := router.New(reg, adapters, routerOpts...)
	return &Client{
		router:       r,
		orchestrator: validate.New(r, validateOpts...),
	}
}

// SimpleCall sends one prompt to a logical model and returns the
// response, with cost attached when requested and token counts are
// available. Fails with registry.ErrUnknownModel before any vendor
// call if the name is not registered.
func (c *Client) SimpleCall(ctx context.Context, model, prompt string, opts router.CallOptions) (*router.Result, error) {
	return c.router.Call(ctx, model, prompt, opts)
}

// ValidatedCall runs the multi-sample consistency protocol against the
// vendor's high and budget models. An empty vendor uses the configured
// default. Check Result.Accepted: exhausting the retry budget is a
// reported outcome, not an error.
func (c *Client) ValidatedCall(ctx context.Context, vendor adapter.Vendor, prompt string, opts router.CallOptions) (*validate.Result, error) {
	return c.orchestrator.Call(ctx, vendor, prompt, opts)
}

// ListModels returns logical model names grouped by vendor, preserving
// registry declaration order.
func (c *Client) ListModels() map[adapter.Vendor][]string {
	return c.router.List()
}

// Router exposes the underlying router for advanced use.
func (c *Client) Router() *router.Router {
	return c.router
}
