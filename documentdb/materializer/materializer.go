package materializer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"strings"
	"time"

	"github.com/dconnelly/cosmosdb-go/documentdb"
)

const (
	logMsgResourceMaterialized = "resource materialized"
	logMsgQueryMaterialized    = "query response materialized"
	logMsgNoResource           = "response carries no resource"
	logMsgBodyResolved         = "resolved response body"
	logMsgMaterializeFailed    = "materialization failed"
	logMsgOperation            = "materializer operation: "
	logAttrError               = "error"
	logAttrResourceType        = "resource_type"
	logAttrBodyKind            = "body_kind"
	logAttrResourceCount       = "resource_count"
	logAttrDurationMS          = "duration_ms"
	logAttrStatusCode          = "status_code"
	logAttrContainerKey        = "container_key"
	logAttrAltLink             = "alt_link"
	operationResource          = "resource"
	operationQuery             = "query"
)

// ErrNilWireResponse is returned when a Materializer is created without a response.
var ErrNilWireResponse = errors.New("nil wire response supplied")

// Materializer projects one WireResponse into typed resources.
//
// At construction it flattens the header list into a name to value map in which the LAST occurrence
// of a duplicate name wins. WireResponse.HeaderValue resolves duplicates to the FIRST occurrence instead;
// both lookups are part of the contract and are kept as they are.
type Materializer struct {
	response      *documentdb.WireResponse
	headers       map[string]string
	foldedHeaders map[string]string

	maxUnwrapDepth   int
	logger           documentdb.Logger
	contextualLogger documentdb.ContextualLogger
	metricsCollector documentdb.MetricsCollector
	tracingCollector documentdb.TracingCollector
}

// New creates a Materializer for response with optional configuration.
func New(response *documentdb.WireResponse, options ...Option) (*Materializer, error) {
	if response == nil {
		return nil, ErrNilWireResponse
	}

	headers := response.Headers()

	m := &Materializer{
		response:       response,
		headers:        make(map[string]string, len(headers)),
		foldedHeaders:  make(map[string]string, len(headers)),
		maxUnwrapDepth: documentdb.DefaultMaxUnwrapDepth,
	}

	for _, header := range headers {
		m.headers[header.Name] = header.Value
		m.foldedHeaders[strings.ToLower(header.Name)] = header.Value
	}

	for _, option := range options {
		if err := option(m); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// StatusCode returns the status code of the underlying response.
func (m *Materializer) StatusCode() int {
	return m.response.StatusCode()
}

// ResponseHeaders returns a copy of the flattened header map (last occurrence wins).
func (m *Materializer) ResponseHeaders() map[string]string {
	return maps.Clone(m.headers)
}

// ResponseBodyAsString returns the raw text body, if the response carries one.
func (m *Materializer) ResponseBodyAsString() (string, bool) {
	return m.response.StringBody()
}

// ContentStream hands the stream body over to the caller. See documentdb.WireResponse.TakeStream.
func (m *Materializer) ContentStream() (io.ReadCloser, bool) {
	return m.response.TakeStream()
}

// ClientSideRequestStatistics returns the statistics attached to the underlying response.
func (m *Materializer) ClientSideRequestStatistics() *documentdb.ClientSideRequestStatistics {
	return m.response.ClientSideRequestStatistics()
}

// QueryMetrics returns the parsed query metrics header of the underlying response.
func (m *Materializer) QueryMetrics() (documentdb.QueryMetrics, error) {
	return m.response.QueryMetrics()
}

// WireResponse returns the underlying response.
func (m *Materializer) WireResponse() *documentdb.WireResponse {
	return m.response
}

// Resource materializes the response body as a single resource of kind t.
//
// An object body is used directly, a non-empty text body is parsed first. A response without a body,
// with an empty text body, or with a stream body yields no resource, which is not an error (found is false).
// Publicly addressable resources get an alternate link built from the owner full name header when present.
//
// Any failure to construct the resource is returned and nothing else: there are no retries.
func (m *Materializer) Resource(ctx context.Context, t documentdb.ResourceType) (
	resource documentdb.Resource,
	found bool,
	err error,
) {

	tracing, ctx := m.startTracing(ctx, spanNameResource, operationResource, t)
	metrics := m.startMetrics(ctx, operationResource)
	start := time.Now()

	resource, found, err = m.resource(t)
	duration := time.Since(start)

	if err != nil {
		m.observeError(ctx, tracing, metrics, t, err, duration)
		return nil, false, err
	}

	count := 0
	if found {
		count = 1
	}

	tracing.finishSuccess(count, duration)
	metrics.recordSuccess(t, count, duration)

	if !found {
		m.logDebug(ctx, logMsgNoResource, logAttrResourceType, string(t), logAttrBodyKind, documentdb.BodyKind(m.response.Body()))
		return nil, false, nil
	}

	m.logOperation(ctx, logMsgResourceMaterialized,
		logAttrResourceType, string(t),
		logAttrStatusCode, m.StatusCode(),
		logAttrAltLink, resource.AltLink(),
		logAttrDurationMS, toMilliseconds(duration))

	return resource, true, nil
}

func (m *Materializer) resource(t documentdb.ResourceType) (documentdb.Resource, bool, error) {
	if _, err := documentdb.ResourceKey(t); err != nil {
		return nil, false, err
	}

	var options []documentdb.ResourceOption
	if owner, ok := m.ownerFullName(); ok {
		options = append(options, documentdb.WithOwnerFullName(owner))
	}

	var resource documentdb.Resource
	var buildErr error

	switch body := m.response.Body().(type) {
	case documentdb.ObjectBody:
		resource, buildErr = documentdb.NewResourceFromObject(t, body.Object, options...)

	case documentdb.StringBody:
		if body.Text == "" {
			return nil, false, nil
		}

		resource, buildErr = documentdb.NewResourceFromString(t, body.Text, options...)

	default:
		return nil, false, nil
	}

	if buildErr != nil {
		return nil, false, errors.Join(documentdb.ErrResourceConstructionFailed, buildErr)
	}

	return resource, true, nil
}

// QueryResponse materializes a feed or query response as resources of kind t, in body order.
//
// The results are read from the array under t's container key. Singleton array layers produced by
// aggregate queries are removed first, and bare numbers or booleans become {"aggregate": "<text>"}.
// A missing body or a missing container key yields an empty slice.
//
// Failures abort the whole call; no partial result is ever returned:
//   - unregistered t: documentdb.ErrInvalidArgument + documentdb.ErrUnknownResourceType
//   - element that is an array, a string or null: documentdb.ErrIllegalState + documentdb.ErrUnsupportedElementShape
//   - text body that is not a JSON object: documentdb.ErrIllegalState + documentdb.ErrMalformedJSONBody
func (m *Materializer) QueryResponse(ctx context.Context, t documentdb.ResourceType) (
	[]documentdb.Resource,
	error,
) {

	tracing, ctx := m.startTracing(ctx, spanNameQuery, operationQuery, t)
	metrics := m.startMetrics(ctx, operationQuery)
	start := time.Now()

	resources, err := m.queryResponse(ctx, t)
	duration := time.Since(start)

	if err != nil {
		m.observeError(ctx, tracing, metrics, t, err, duration)
		return nil, err
	}

	tracing.finishSuccess(len(resources), duration)
	metrics.recordSuccess(t, len(resources), duration)

	m.logOperation(ctx, logMsgQueryMaterialized,
		logAttrResourceType, string(t),
		logAttrResourceCount, len(resources),
		logAttrDurationMS, toMilliseconds(duration))

	return resources, nil
}

func (m *Materializer) queryResponse(ctx context.Context, t documentdb.ResourceType) ([]documentdb.Resource, error) {
	resources := make([]documentdb.Resource, 0)

	key, keyErr := documentdb.ResourceKey(t)
	if keyErr != nil {
		return nil, keyErr
	}

	body, ok, bodyErr := m.bodyObject()
	if bodyErr != nil {
		return nil, bodyErr
	}

	m.logDebug(ctx, logMsgBodyResolved, logAttrBodyKind, documentdb.BodyKind(m.response.Body()), logAttrContainerKey, key)

	if !ok {
		return resources, nil
	}

	container, present := body[key]
	if !present || container == nil {
		return resources, nil
	}

	array, isArray := documentdb.AsJSONArray(container)
	if !isArray {
		return nil, errors.Join(
			documentdb.ErrIllegalState,
			documentdb.ErrUnsupportedElementShape,
			fmt.Errorf("container %q does not hold an array", key),
		)
	}

	unwrapped, unwrapErr := documentdb.UnwrapAggregate(array, m.maxUnwrapDepth)
	if unwrapErr != nil {
		return nil, unwrapErr
	}

	for _, element := range unwrapped {
		object, shapeErr := documentdb.NormalizeAggregateElement(element)
		if shapeErr != nil {
			return nil, shapeErr
		}

		resource, buildErr := documentdb.NewResourceFromObject(t, object)
		if buildErr != nil {
			return nil, errors.Join(documentdb.ErrResourceConstructionFailed, buildErr)
		}

		resources = append(resources, resource)
	}

	return resources, nil
}

// bodyObject resolves the body to a JSON object: the object body as is, a non-empty text body parsed.
// It reports false for every other body.
func (m *Materializer) bodyObject() (documentdb.JSONObject, bool, error) {
	switch body := m.response.Body().(type) {
	case documentdb.ObjectBody:
		return body.Object, true, nil

	case documentdb.StringBody:
		if body.Text == "" {
			return nil, false, nil
		}

		object, err := documentdb.ParseJSONObject(body.Text)
		if err != nil {
			return nil, false, err
		}

		return object, true, nil

	default:
		return nil, false, nil
	}
}

// ownerFullName reads the owner full name from the flattened header map, matching the name case-insensitively.
func (m *Materializer) ownerFullName() (string, bool) {
	owner, ok := m.foldedHeaders[strings.ToLower(m.response.HeaderNames().OwnerFullName)]
	if !ok || owner == "" {
		return "", false
	}

	return owner, true
}
