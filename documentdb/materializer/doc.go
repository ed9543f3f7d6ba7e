// Package materializer turns a documentdb.WireResponse into typed resources.
//
// A Materializer reads one response and offers two projections of its body:
//   - Resource: the whole body is one resource (point reads, creates, replaces)
//   - QueryResponse: the body holds a feed under the resource kind's container key
//
// Aggregate queries return their results wrapped in singleton arrays and as bare numbers;
// QueryResponse unwraps the arrays and turns each scalar into a document of the form
// {"aggregate": "<text>"}.
//
// Key features:
//   - Header map in which the last occurrence of a duplicate name wins
//   - Alternate links for publicly addressable resources, from the owner full name header
//   - All-or-nothing results: any failure aborts the call without partial output
//   - Optional logging, metrics and tracing through the documentdb observability interfaces
//
// Usage examples:
//
//	m, _ := materializer.New(resp)
//	docs, err := m.QueryResponse(ctx, documentdb.ResourceTypeDocument)
//
//	// With logging and tracing
//	m, _ := materializer.New(
//		resp,
//		materializer.WithLogger(slog.Default()),
//		materializer.WithTracing(oteladapters.NewTracingCollector(tracer)),
//	)
//	coll, found, err := m.Resource(ctx, documentdb.ResourceTypeDocumentCollection)
package materializer
