package main

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dconnelly/cosmosdb-go/documentdb"
)

var (
	// ErrReadingCaptureFailed is returned when a capture file cannot be read.
	ErrReadingCaptureFailed = errors.New("reading capture failed")

	// ErrDecodingCaptureFailed is returned when a capture is neither valid YAML nor JSON.
	ErrDecodingCaptureFailed = errors.New("decoding capture failed")

	// ErrAmbiguousCaptureBody is returned when a capture holds both a text body and an object body.
	ErrAmbiguousCaptureBody = errors.New("capture holds both body and object")
)

// Capture is one backend response saved to a file, in YAML or JSON.
//
//	status: 200
//	headers:
//	  - {name: lsn, value: "42"}
//	body: '{"Documents":[{"id":"d1"}]}'
//
// A capture carries its body either as raw text (body) or already structured (object), or not at all.
type Capture struct {
	Status      int                 `yaml:"status"`
	Headers     []CapturedHeader    `yaml:"headers"`
	Body        *string             `yaml:"body"`
	Object      map[string]any      `yaml:"object"`
	HeaderNames CapturedHeaderNames `yaml:"headerNames"`
}

// CapturedHeader is one header in capture order.
type CapturedHeader struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// CapturedHeaderNames overrides protocol header names for captures from a differently configured backend.
type CapturedHeaderNames struct {
	LSN                 string `yaml:"lsn"`
	PartitionKeyRangeID string `yaml:"partitionKeyRangeId"`
	SubStatus           string `yaml:"subStatus"`
	Continuation        string `yaml:"continuation"`
	OwnerFullName       string `yaml:"ownerFullName"`
	RequestCharge       string `yaml:"requestCharge"`
	SessionToken        string `yaml:"sessionToken"`
	ActivityID          string `yaml:"activityId"`
	QueryMetrics        string `yaml:"queryMetrics"`
}

// LoadCapture reads and decodes the capture file at path.
func LoadCapture(path string) (Capture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Capture{}, errors.Join(ErrReadingCaptureFailed, err)
	}

	return ParseCapture(data)
}

// ParseCapture decodes a capture. JSON is accepted as a subset of YAML.
func ParseCapture(data []byte) (Capture, error) {
	var capture Capture
	if err := yaml.Unmarshal(data, &capture); err != nil {
		return Capture{}, errors.Join(ErrDecodingCaptureFailed, err)
	}

	if capture.Body != nil && capture.Object != nil {
		return Capture{}, ErrAmbiguousCaptureBody
	}

	if capture.Status == 0 {
		return Capture{}, errors.Join(ErrDecodingCaptureFailed, errors.New("missing status"))
	}

	return capture, nil
}

// WireResponse builds the response the capture describes.
func (c Capture) WireResponse() *documentdb.WireResponse {
	headers := make(documentdb.Headers, 0, len(c.Headers))
	for _, header := range c.Headers {
		headers = append(headers, documentdb.H(header.Name, header.Value))
	}

	option := documentdb.WithHeaderNames(c.HeaderNames.toHeaderNames())

	switch {
	case c.Object != nil:
		return documentdb.NewWireResponseWithObject(c.Status, headers, c.Object, option)
	case c.Body != nil:
		return documentdb.NewWireResponseWithString(c.Status, headers, *c.Body, option)
	default:
		return documentdb.NewWireResponse(c.Status, headers, option)
	}
}

func (n CapturedHeaderNames) toHeaderNames() documentdb.HeaderNames {
	return documentdb.HeaderNames{
		LSN:                 n.LSN,
		PartitionKeyRangeID: n.PartitionKeyRangeID,
		SubStatus:           n.SubStatus,
		Continuation:        n.Continuation,
		OwnerFullName:       n.OwnerFullName,
		RequestCharge:       n.RequestCharge,
		SessionToken:        n.SessionToken,
		ActivityID:          n.ActivityID,
		QueryMetrics:        n.QueryMetrics,
	}
}
