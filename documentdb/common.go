package documentdb

import (
	"errors"
)

// Error classes. Every fatal materialization error is joined with exactly one of them,
// so callers can branch on the class with errors.Is without knowing the specific cause.
var (
	// ErrInvalidArgument classifies errors caused by a caller passing an unsupported value.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrIllegalState classifies errors caused by a response body that cannot be materialized.
	ErrIllegalState = errors.New("illegal state")
)

var (
	// ErrUnknownResourceType is returned for a resource type tag outside the closed set.
	ErrUnknownResourceType = errors.New("unknown resource type")

	// ErrUnsupportedElementShape is returned when a query result element is neither an object nor a scalar aggregate.
	ErrUnsupportedElementShape = errors.New("unsupported element shape")

	// ErrMalformedJSONBody is returned when a body that must hold a JSON object cannot be parsed as one.
	ErrMalformedJSONBody = errors.New("malformed json body")

	// ErrResourceShapeMismatch is returned by a resource factory rejecting the structure of its input.
	ErrResourceShapeMismatch = errors.New("resource shape mismatch")

	// ErrResourceConstructionFailed wraps any failure while building a resource from a response body.
	ErrResourceConstructionFailed = errors.New("failed to instantiate resource")

	// ErrStatisticsAlreadyCompleted is returned when client side statistics are assigned a second time.
	ErrStatisticsAlreadyCompleted = errors.New("client side request statistics already completed")

	// ErrNilStatistics is returned when nil statistics are supplied.
	ErrNilStatistics = errors.New("nil client side request statistics supplied")

	// ErrMalformedQueryMetrics is returned for a query metrics header that is not a k=v;k=v list.
	ErrMalformedQueryMetrics = errors.New("malformed query metrics")
)

// invalidArgument joins err (and an optional cause) with the invalid-argument class.
func invalidArgument(err error, cause ...error) error {
	return errors.Join(append([]error{ErrInvalidArgument, err}, cause...)...)
}

// illegalState joins err (and an optional cause) with the illegal-state class.
func illegalState(err error, cause ...error) error {
	return errors.Join(append([]error{ErrIllegalState, err}, cause...)...)
}
