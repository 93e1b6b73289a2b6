package adapter

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for vendor communication failures.
var (
	// ErrUnavailable indicates the vendor service is unavailable.
	ErrUnavailable = errors.New("vendor service unavailable")

	// ErrRateLimited indicates the request was rate limited.
	ErrRateLimited = errors.New("rate limited")

	// ErrTimeout indicates the request timed out.
	ErrTimeout = errors.New("request timed out")

	// ErrAuth indicates authentication failed (bad or expired key).
	ErrAuth = errors.New("authentication failed")

	// ErrInvalidRequest indicates the request is malformed.
	ErrInvalidRequest = errors.New("invalid request")
)

// VendorError wraps a vendor communication failure with context and a
// retryable classification.
type VendorError struct {
	Vendor    Vendor // Vendor that failed
	Op        string // Operation that failed ("generate")
	Err       error  // Underlying error
	Retryable bool   // Whether the failure is likely transient
}

// Error implements the error interface.
func (e *VendorError) Error() string {
	if e.Vendor != "" {
		return fmt.Sprintf("%s %s: %v", e.Vendor, e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *VendorError) Unwrap() error {
	return e.Err
}

// NewVendorError creates a new vendor error.
func NewVendorError(vendor Vendor, op string, err error, retryable bool) *VendorError {
	return &VendorError{
		Vendor:    vendor,
		Op:        op,
		Err:       err,
		Retryable: retryable,
	}
}

// IsRetryable checks if an error is likely transient and worth
// retrying. Timeouts and cancellations from the context deadline are
// treated like any other transient transport failure.
func IsRetryable(err error) bool {
	var vendErr *VendorError
	if errors.As(err, &vendErr) {
		return vendErr.Retryable
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	return errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrUnavailable) ||
		errors.Is(err, ErrTimeout)
}

// IsAuthError checks if an error is authentication-related.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrAuth)
}
