package documentdb

import "io"

// Body is the physical form a response body arrived in. It is a closed sum type:
// exactly one of NoBody, StringBody, ObjectBody or StreamBody.
type Body interface {
	isBody()
}

// NoBody is the body of a response that carried none.
type NoBody struct{}

// StringBody is a body delivered as raw JSON text. It may be empty.
type StringBody struct {
	Text string
}

// ObjectBody is a body the transport already parsed into a JSON object.
type ObjectBody struct {
	Object JSONObject
}

// StreamBody is a body still held as an unread byte stream. It has a single consumer.
type StreamBody struct {
	Stream io.ReadCloser
}

func (NoBody) isBody()     {}
func (StringBody) isBody() {}
func (ObjectBody) isBody() {}
func (StreamBody) isBody() {}

// BodyKind names the case of a Body for logs and span attributes.
func BodyKind(body Body) string {
	switch body.(type) {
	case StringBody:
		return "string"
	case ObjectBody:
		return "object"
	case StreamBody:
		return "stream"
	default:
		return "none"
	}
}
