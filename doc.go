// Package modelmux provides one request/response surface over multiple
// LLM vendor APIs, with deterministic cost accounting and an optional
// self-validating multi-sample call protocol.
//
// modelmux is designed to be imported à la carte. Each subpackage can
// be used independently:
//
//   - registry: Logical model names, pricing, and category lookup
//   - adapter: The per-vendor generation interface and error taxonomy
//   - router: Name/category dispatch with optional cost calculation
//   - validate: Multi-sample consistency checking with a budget judge
//   - tokens: Token estimation for vendors that don't report usage
//
// # Quick Start
//
// Single call:
//
//	reg, _ := registry.Load("model_config.yaml")
//	r := router.New(reg, adapter.NewSet(openaiAdapter, anthropicAdapter))
//	res, _ := r.Call(ctx, "gpt41", "Hello!", router.CallOptions{ComputeCost: true})
//	fmt.Println(res.Text, *res.Cost)
//
// Validated call (3 samples from the vendor's high model, cross-checked
// by its budget model, up to 5 rounds):
//
//	v := validate.New(r)
//	out, _ := v.Call(ctx, adapter.Gemini, "What is the capital of France?", router.CallOptions{ComputeCost: true})
//	if !out.Accepted {
//	    // exhausted without consensus; out.TotalCost was still spent
//	}
//
// # Design Philosophy
//
//   - Vendor HTTP clients stay outside this module; adapter.Adapter is
//     the only contract they implement
//   - The registry is an immutable value injected at construction, not
//     ambient global state
//   - Costs already incurred are always surfaced, even on failure
//   - Interfaces for extensibility, concrete types for simplicity
package modelmux
