// Command docmaterialize materializes captured document database responses from the command line.
//
// A capture is a YAML or JSON file holding a status, the ordered headers and a body:
//
//	docmaterialize inspect capture.yaml
//	docmaterialize resource --type DocumentCollection capture.yaml
//	docmaterialize query --type Document feed.json
//	docmaterialize journal record --dsn postgres://... capture.yaml
//	docmaterialize journal replay --query --type Document 0190c6f4-...
//
// Set --otlp-endpoint to export materialization traces and metrics over OTLP gRPC.
package main
