// Package documentdb provides the core types for turning raw document database responses
// into typed resources.
//
// This package defines the wire level response container, the closed set of resource kinds
// with their factories and JSON container keys, and the pure transforms used when
// materializing query results.
//
// Key types:
//   - WireResponse: status code, ordered headers and a body in exactly one physical form
//   - Body: the sum type of those forms (NoBody, StringBody, ObjectBody, StreamBody)
//   - Resource: a typed resource built by NewResourceFromObject or NewResourceFromString
//   - ResourceType: the tag selecting a resource kind and its container key (see ResourceKey)
//
// Header derived metadata never fails: a missing or malformed log sequence number reads as
// LSNUnknown and a missing or malformed sub-status as SubStatusUnknown.
//
// Common usage pattern:
//
//	resp := documentdb.NewWireResponseWithString(200, documentdb.Headers{
//		documentdb.H("lsn", "42"),
//		documentdb.H("x-ms-continuation", "token"),
//	}, `{"Documents":[{"id":"d1"}]}`)
//
//	lsn := resp.LogSequenceNumber()              // 42
//	continuation, _ := resp.Continuation()       // "token"
//	key, err := documentdb.ResourceKey(documentdb.ResourceTypeDocument) // "Documents"
//
// Use package materializer to turn a WireResponse into resources.
package documentdb
