package charts

import "errors"

// ErrUpstream matches failures of a block or transaction collaborator.
var ErrUpstream = errors.New("upstream unavailable")

// ValidationError reports a request that was rejected before any data was fetched.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// UpstreamError wraps a collaborator failure with the operation that triggered it.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Is reports ErrUpstream so callers can classify without knowing the concrete type.
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}
