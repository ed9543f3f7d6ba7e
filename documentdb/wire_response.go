package documentdb

import (
	"io"
	"slices"
	"strconv"
	"sync/atomic"
)

// LSNUnknown is reported when the log sequence number header is absent or not an integer.
const LSNUnknown int64 = -1

// WireResponse is the response of one completed exchange with the backend, as delivered by the transport.
//
// It holds a status code, the ordered header list, and a body in exactly one physical form.
// Everything is fixed at construction except two single-assignment slots:
//   - the client side request statistics (see CompleteStatistics)
//   - the ownership of a stream body (see TakeStream)
//
// Build it with one of the constructors, one per body form:
//   - NewWireResponse
//   - NewWireResponseWithString
//   - NewWireResponseWithObject
//   - NewWireResponseWithStream
type WireResponse struct {
	status      int
	headers     Headers
	body        Body
	headerNames HeaderNames

	clientStats atomic.Pointer[ClientSideRequestStatistics]
	streamTaken atomic.Bool
}

// WireResponseOption configures a WireResponse at construction.
type WireResponseOption func(*WireResponse)

// WithHeaderNames replaces the protocol header names. Empty fields keep their defaults.
func WithHeaderNames(names HeaderNames) WireResponseOption {
	return func(r *WireResponse) {
		r.headerNames = names.withDefaults()
	}
}

// WithClientSideRequestStatistics attaches statistics at construction, which completes the statistics slot.
func WithClientSideRequestStatistics(stats *ClientSideRequestStatistics) WireResponseOption {
	return func(r *WireResponse) {
		if stats != nil {
			r.clientStats.Store(stats)
		}
	}
}

// NewWireResponse builds a response without a body.
func NewWireResponse(status int, headers Headers, options ...WireResponseOption) *WireResponse {
	return newWireResponse(status, headers, NoBody{}, options)
}

// NewWireResponseWithString builds a response whose body is raw JSON text.
func NewWireResponseWithString(status int, headers Headers, body string, options ...WireResponseOption) *WireResponse {
	return newWireResponse(status, headers, StringBody{Text: body}, options)
}

// NewWireResponseWithObject builds a response whose body was already parsed into a JSON object.
// A nil object is treated as no body.
func NewWireResponseWithObject(status int, headers Headers, body JSONObject, options ...WireResponseOption) *WireResponse {
	if body == nil {
		return newWireResponse(status, headers, NoBody{}, options)
	}

	return newWireResponse(status, headers, ObjectBody{Object: body}, options)
}

// NewWireResponseWithStream builds a response whose body is an unread stream.
// A nil stream is treated as no body.
func NewWireResponseWithStream(status int, headers Headers, body io.ReadCloser, options ...WireResponseOption) *WireResponse {
	if body == nil {
		return newWireResponse(status, headers, NoBody{}, options)
	}

	return newWireResponse(status, headers, StreamBody{Stream: body}, options)
}

func newWireResponse(status int, headers Headers, body Body, options []WireResponseOption) *WireResponse {
	r := &WireResponse{
		status:      status,
		headers:     slices.Clone(headers),
		body:        body,
		headerNames: DefaultHeaderNames(),
	}

	for _, option := range options {
		option(r)
	}

	return r
}

// StatusCode returns the status code of the exchange.
func (r *WireResponse) StatusCode() int {
	return r.status
}

// Headers returns a copy of the header list in its original order.
func (r *WireResponse) Headers() Headers {
	return slices.Clone(r.headers)
}

// HeaderNames returns the protocol header names this response reads its metadata from.
func (r *WireResponse) HeaderNames() HeaderNames {
	return r.headerNames
}

// HeaderValue returns the value of the first header whose name matches case-insensitively.
//
// Duplicate names resolve to the FIRST occurrence here. The materializer's header map resolves
// them to the last one; both behaviors are relied upon and are kept apart on purpose.
func (r *WireResponse) HeaderValue(name string) (string, bool) {
	return firstHeaderValue(r.headers, name)
}

// LogSequenceNumber returns the log sequence number, or LSNUnknown if it is absent or not an integer.
func (r *WireResponse) LogSequenceNumber() int64 {
	value, ok := r.HeaderValue(r.headerNames.LSN)
	if !ok || value == "" {
		return LSNUnknown
	}

	lsn, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return LSNUnknown
	}

	return lsn
}

// PartitionKeyRangeID returns the id of the partition key range that served the request.
func (r *WireResponse) PartitionKeyRangeID() (string, bool) {
	return r.HeaderValue(r.headerNames.PartitionKeyRangeID)
}

// Continuation returns the continuation token of a paged query.
func (r *WireResponse) Continuation() (string, bool) {
	return r.HeaderValue(r.headerNames.Continuation)
}

// SubStatusCode returns the sub-status code, or SubStatusUnknown if it is absent or not an integer.
func (r *WireResponse) SubStatusCode() int {
	value, ok := r.HeaderValue(r.headerNames.SubStatus)
	if !ok || value == "" {
		return SubStatusUnknown
	}

	subStatus, err := strconv.Atoi(value)
	if err != nil {
		return SubStatusUnknown
	}

	return subStatus
}

// RequestCharge returns the request units consumed by the exchange, or 0 if unknown.
func (r *WireResponse) RequestCharge() float64 {
	value, ok := r.HeaderValue(r.headerNames.RequestCharge)
	if !ok {
		return 0
	}

	charge, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}

	return charge
}

// SessionToken returns the session token for session consistency.
func (r *WireResponse) SessionToken() (string, bool) {
	return r.HeaderValue(r.headerNames.SessionToken)
}

// ActivityID returns the server side activity id of the exchange.
func (r *WireResponse) ActivityID() (string, bool) {
	return r.HeaderValue(r.headerNames.ActivityID)
}

// QueryMetrics parses the query metrics header. A response without the header yields zero metrics.
func (r *WireResponse) QueryMetrics() (QueryMetrics, error) {
	value, ok := r.HeaderValue(r.headerNames.QueryMetrics)
	if !ok || value == "" {
		return QueryMetrics{}, nil
	}

	return ParseQueryMetrics(value)
}

// Body returns the body in its physical form.
func (r *WireResponse) Body() Body {
	return r.body
}

// ObjectBody returns the structured body if the response was built with one.
func (r *WireResponse) ObjectBody() (JSONObject, bool) {
	body, ok := r.body.(ObjectBody)
	if !ok {
		return nil, false
	}

	return body.Object, true
}

// StringBody returns the raw text body if the response was built with one.
func (r *WireResponse) StringBody() (string, bool) {
	body, ok := r.body.(StringBody)
	if !ok {
		return "", false
	}

	return body.Text, true
}

// TakeStream hands the stream body over to the caller, who becomes responsible for closing it.
// Only the first call on a stream response reports true.
func (r *WireResponse) TakeStream() (io.ReadCloser, bool) {
	body, ok := r.body.(StreamBody)
	if !ok {
		return nil, false
	}

	if !r.streamTaken.CompareAndSwap(false, true) {
		return nil, false
	}

	return body.Stream, true
}

// ClientSideRequestStatistics returns the attached statistics, or nil if none were completed yet.
func (r *WireResponse) ClientSideRequestStatistics() *ClientSideRequestStatistics {
	return r.clientStats.Load()
}

// CompleteStatistics attaches statistics after construction.
//
// It may succeed at most once per response, counting WithClientSideRequestStatistics.
// A second call is a usage error: it returns ErrStatisticsAlreadyCompleted and keeps the first value.
func (r *WireResponse) CompleteStatistics(stats *ClientSideRequestStatistics) error {
	if stats == nil {
		return ErrNilStatistics
	}

	if !r.clientStats.CompareAndSwap(nil, stats) {
		return ErrStatisticsAlreadyCompleted
	}

	return nil
}
