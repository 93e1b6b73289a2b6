// Package registry holds the static mapping from logical model names
// to vendor-native model identifiers, per-token pricing, and protocol
// categories, plus the pure cost arithmetic built on top of it.
//
// A Registry is an immutable value: build it once at startup (from a
// config file via Load, or programmatically via New) and pass it by
// reference into the router and orchestrator. Validation happens at
// build time, so category lookups at call time can never be ambiguous.
//
// # Config files
//
// Load accepts JSON, YAML, and TOML. The schema is one record per
// model, in declaration order:
//
//	models:
//	  - name: gpt41
//	    vendor: OpenAI
//	    vendor_model_id: gpt-4.1
//	    price_per_input_tokens: 0.000002
//	    price_per_output_tokens: 0.000008
//	    tokens_provided: true
//	    type: high
//
// ConfigSchema returns a JSON Schema for this format so registry files
// can be validated in editors and CI. Watch re-loads the file on
// change and emits fresh immutable snapshots.
package registry
