package validate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/modelmux/modelmux/adapter"
	"github.com/modelmux/modelmux/registry"
	"github.com/modelmux/modelmux/router"
)

// DefaultMaxAttempts bounds the number of consistency rounds.
const DefaultMaxAttempts = 5

// DefaultSampleCount is the number of high-model samples per round.
const DefaultSampleCount = 3

// FalseSentinel is the exact judge reply that marks the samples as
// inconsistent or invalid.
const FalseSentinel = "%FALSE%"

// Result is the outcome of a validated call. Exhausting the attempt
// budget yields Accepted=false with the accrued cost, not an error.
type Result struct {
	// Text is the judge's authoritative answer when Accepted, or the
	// last judge output (last sample if no judge ran) otherwise.
	Text string

	// TotalCost is the USD sum of every completed sub-call across
	// all rounds, including failed ones. Monotonically non-decreasing
	// over the call's lifetime.
	TotalCost float64

	// Attempts is the number of rounds actually executed, between 1
	// and the configured maximum.
	Attempts int

	// Accepted reports whether the judge confirmed a consistent
	// answer within the attempt budget.
	Accepted bool

	// ModelUsed describes which models produced and validated Text.
	ModelUsed string
}

// FatalVendorError aborts a validated call on a non-retryable vendor
// failure. CostUSD carries everything spent before the failure —
// billing correctness outranks clean error propagation.
type FatalVendorError struct {
	Err     error
	CostUSD float64
}

// Error implements the error interface.
func (e *FatalVendorError) Error() string {
	return fmt.Sprintf("fatal vendor error (%.8f USD accrued): %v", e.CostUSD, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *FatalVendorError) Unwrap() error {
	return e.Err
}

// Orchestrator runs the multi-sample validation protocol on top of a
// Router. Safe for concurrent use; all per-call state is local to the
// call.
type Orchestrator struct {
	router        *router.Router
	samples       int
	maxAttempts   int
	defaultVendor adapter.Vendor
	logger        *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithMaxAttempts sets the consistency-round budget (default 5).
func WithMaxAttempts(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.maxAttempts = n
		}
	}
}

// WithSampleCount sets the samples per round (default 3).
func WithSampleCount(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.samples = n
		}
	}
}

// WithDefaultVendor sets the vendor used when Call receives an empty
// vendor (default OpenAI).
func WithDefaultVendor(v adapter.Vendor) Option {
	return func(o *Orchestrator) { o.defaultVendor = v }
}

// WithLogger sets the structured logger. Default is a discard logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// New creates an Orchestrator over the given router.
func New(r *router.Router, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		router:        r,
		samples:       DefaultSampleCount,
		maxAttempts:   DefaultMaxAttempts,
		defaultVendor: adapter.OpenAI,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// state is one phase of the validation state machine.
type state int

const (
	stateSampling state = iota
	stateJudging
	stateAccepted
	stateRetrying
	stateExhausted
	stateFatal
)

// accumulator threads cost and progress through state transitions, so
// cost accounting is a fold over completed sub-calls rather than
// side-channel mutation.
type accumulator struct {
	cost     float64
	attempts int
	lastText string
	fatalErr error
}

// Call runs the validation protocol for the given vendor. An empty
// vendor selects the orchestrator's default. The vendor must have one
// "high" and one "budget" model registered; both are resolved before
// any money is spent.
func (o *Orchestrator) Call(ctx context.Context, vendor adapter.Vendor, prompt string, opts router.CallOptions) (*Result, error) {
	if vendor == "" {
		vendor = o.defaultVendor
	}

	reg := o.router.Registry()
	high, err := reg.ResolveCategory(vendor, registry.CategoryHigh)
	if err != nil {
		return nil, err
	}
	judge, err := reg.ResolveCategory(vendor, registry.CategoryBudget)
	if err != nil {
		return nil, err
	}

	o.logger.Info("starting validated call",
		slog.String("vendor", string(vendor)),
		slog.String("high_model", high.Name),
		slog.String("judge_model", judge.Name))

	var (
		acc   accumulator
		texts []string
	)

	st := stateSampling
	for {
		// Every network call below is a suspension point; a caller
		// cancellation must still surface the accrued cost.
		if err := ctx.Err(); err != nil && st != stateFatal {
			acc.fatalErr = err
			st = stateFatal
		}

		switch st {
		case stateSampling:
			acc.attempts++
			var failure error
			texts, failure = o.sampleRound(ctx, high.Name, prompt, opts, &acc)
			if failure != nil {
				if !adapter.IsRetryable(failure) {
					acc.fatalErr = failure
					st = stateFatal
					break
				}
				o.logger.Warn("sample failed, retrying round",
					slog.Int("attempt", acc.attempts),
					slog.Any("error", failure))
				st = stateRetrying
				break
			}
			acc.lastText = texts[len(texts)-1]
			st = stateJudging

		case stateJudging:
			verdict, failure := o.judgeRound(ctx, judge.Name, prompt, texts, opts, &acc)
			if failure != nil {
				if !adapter.IsRetryable(failure) {
					acc.fatalErr = failure
					st = stateFatal
					break
				}
				o.logger.Warn("judge failed, retrying round",
					slog.Int("attempt", acc.attempts),
					slog.Any("error", failure))
				st = stateRetrying
				break
			}
			acc.lastText = verdict
			if verdict == FalseSentinel {
				o.logger.Warn("judge rejected samples",
					slog.Int("attempt", acc.attempts))
				st = stateRetrying
				break
			}
			st = stateAccepted

		case stateRetrying:
			if acc.attempts >= o.maxAttempts {
				st = stateExhausted
				break
			}
			st = stateSampling

		case stateAccepted:
			o.logger.Info("validated call accepted",
				slog.Int("attempts", acc.attempts),
				slog.Float64("total_cost_usd", acc.cost))
			return &Result{
				Text:      acc.lastText,
				TotalCost: acc.cost,
				Attempts:  acc.attempts,
				Accepted:  true,
				ModelUsed: fmt.Sprintf("%s (validated by %s)", high.Name, judge.Name),
			}, nil

		case stateExhausted:
			o.logger.Error("validation exhausted",
				slog.Int("attempts", acc.attempts),
				slog.Float64("total_cost_usd", acc.cost))
			return &Result{
				Text:      acc.lastText,
				TotalCost: acc.cost,
				Attempts:  acc.attempts,
				Accepted:  false,
				ModelUsed: fmt.Sprintf("%s (validation failed)", high.Name),
			}, nil

		case stateFatal:
			o.logger.Error("validated call aborted",
				slog.Float64("total_cost_usd", acc.cost),
				slog.Any("error", acc.fatalErr))
			return nil, &FatalVendorError{Err: acc.fatalErr, CostUSD: acc.cost}
		}
	}
}

// sampleRound issues the round's samples concurrently against the high
// model and folds the cost of every completed sample into acc. On the
// first failure the round context is cancelled; the first error (with
// non-retryable errors taking precedence) is returned.
func (o *Orchestrator) sampleRound(ctx context.Context, model, prompt string, opts router.CallOptions, acc *accumulator) ([]string, error) {
	roundCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	type sampleResult struct {
		idx int
		res *router.Result
		err error
	}

	results := make(chan sampleResult, o.samples)
	var wg sync.WaitGroup
	for i := 0; i < o.samples; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			res, err := o.router.Call(roundCtx, model, prompt, opts)
			if err != nil {
				cancel()
			}
			results <- sampleResult{idx: idx, res: res, err: err}
		}(i)
	}
	wg.Wait()
	close(results)

	// Cancelling the round makes the sibling samples fail with
	// context.Canceled; those must not be mistaken for the real
	// (possibly retryable) failure that triggered the cancel.
	texts := make([]string, o.samples)
	var retryErr, fatalErr, cancelErr error
	for r := range results {
		if r.err != nil {
			switch {
			case errors.Is(r.err, context.Canceled):
				cancelErr = r.err
			case adapter.IsRetryable(r.err):
				if retryErr == nil {
					retryErr = r.err
				}
			default:
				if fatalErr == nil {
					fatalErr = r.err
				}
			}
			continue
		}
		texts[r.idx] = r.res.Text
		if r.res.Cost != nil {
			acc.cost += *r.res.Cost
		}
	}

	switch {
	case fatalErr != nil:
		return nil, fatalErr
	case retryErr != nil:
		return nil, retryErr
	case cancelErr != nil:
		return nil, cancelErr
	}
	return texts, nil
}

// judgeRound submits the samples to the budget model and returns its
// trimmed verdict: either the authoritative answer or FalseSentinel.
// The judge strictly follows the sampling barrier; its cost is folded
// into acc even when the verdict is a rejection.
func (o *Orchestrator) judgeRound(ctx context.Context, model, prompt string, texts []string, opts router.CallOptions, acc *accumulator) (string, error) {
	judgeOpts := router.CallOptions{
		ComputeCost: opts.ComputeCost,
		MaxTokens:   opts.MaxTokens,
	}

	res, err := o.router.Call(ctx, model, judgePrompt(prompt, texts), judgeOpts)
	if err != nil {
		return "", err
	}
	if res.Cost != nil {
		acc.cost += *res.Cost
	}
	return strings.TrimSpace(res.Text), nil
}

// judgePrompt builds the consistency-check instruction for the budget
// model.
func judgePrompt(prompt string, texts []string) string {
	var b strings.Builder
	b.WriteString("You are a validation expert. I will give you an original prompt and ")
	fmt.Fprintf(&b, "%d AI responses to it.\n", len(texts))
	b.WriteString("Your task is to check whether the responses are substantively consistent with one another and valid answers to the prompt.\n\n")
	fmt.Fprintf(&b, "Original prompt: %s\n\n", prompt)
	for i, t := range texts {
		fmt.Fprintf(&b, "Response %d: %s\n", i+1, t)
	}
	b.WriteString("\nIf the responses are consistent and valid, respond with the single authoritative answer only.\n")
	fmt.Fprintf(&b, "If they are inconsistent or invalid, respond with exactly: %s\n", FalseSentinel)
	b.WriteString("\nYour response:")
	return b.String()
}
