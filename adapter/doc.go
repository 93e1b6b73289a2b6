// Package adapter defines the capability interface that every vendor
// client implements, plus the error taxonomy the rest of modelmux
// relies on to distinguish retryable from fatal failures.
//
// A vendor adapter translates one generic generation request into a
// single vendor's native API call. The HTTP/SDK plumbing lives outside
// this module; implementations only need to satisfy Adapter:
//
//	type Adapter interface {
//	    Vendor() Vendor
//	    Generate(ctx context.Context, req Request) (*Response, error)
//	}
//
// Failures should be reported as *VendorError so callers can classify
// them. Rate limits, timeouts, and transient unavailability are
// retryable; authentication and malformed-request failures are not.
//
// Adding a vendor means writing one Adapter implementation and adding
// registry entries for its models. Router and validate logic never
// changes.
package adapter
