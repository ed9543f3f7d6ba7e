package documentdb

import "strings"

// SubStatusUnknown is reported when the sub-status header is absent or not an integer.
const SubStatusUnknown = 0

// Header is one response header as delivered by the transport, with its original casing.
type Header struct {
	Name  string
	Value string
}

// Headers is the ordered header list of a response. Names may repeat.
type Headers = []Header

// H is a shorthand constructor for a Header.
func H(name, value string) Header {
	return Header{Name: name, Value: value}
}

// HeaderNames holds the protocol header names this package reads.
//
// The strings belong to the wire protocol, not to this package, so they are configurable:
// a zero field falls back to the value from DefaultHeaderNames.
type HeaderNames struct {
	LSN                 string
	PartitionKeyRangeID string
	SubStatus           string
	Continuation        string
	OwnerFullName       string
	RequestCharge       string
	SessionToken        string
	ActivityID          string
	QueryMetrics        string
}

// DefaultHeaderNames returns the header names used by the document database backend.
func DefaultHeaderNames() HeaderNames {
	return HeaderNames{
		LSN:                 "lsn",
		PartitionKeyRangeID: "x-ms-documentdb-partitionkeyrangeid",
		SubStatus:           "x-ms-substatus",
		Continuation:        "x-ms-continuation",
		OwnerFullName:       "x-ms-alt-content-path",
		RequestCharge:       "x-ms-request-charge",
		SessionToken:        "x-ms-session-token",
		ActivityID:          "x-ms-activity-id",
		QueryMetrics:        "x-ms-documentdb-query-metrics",
	}
}

// withDefaults fills every empty field from DefaultHeaderNames.
func (hn HeaderNames) withDefaults() HeaderNames {
	defaults := DefaultHeaderNames()

	fill := func(value *string, fallback string) {
		if *value == "" {
			*value = fallback
		}
	}

	fill(&hn.LSN, defaults.LSN)
	fill(&hn.PartitionKeyRangeID, defaults.PartitionKeyRangeID)
	fill(&hn.SubStatus, defaults.SubStatus)
	fill(&hn.Continuation, defaults.Continuation)
	fill(&hn.OwnerFullName, defaults.OwnerFullName)
	fill(&hn.RequestCharge, defaults.RequestCharge)
	fill(&hn.SessionToken, defaults.SessionToken)
	fill(&hn.ActivityID, defaults.ActivityID)
	fill(&hn.QueryMetrics, defaults.QueryMetrics)

	return hn
}

// firstHeaderValue scans headers in order and returns the value of the first case-insensitive match.
func firstHeaderValue(headers Headers, name string) (string, bool) {
	for _, header := range headers {
		if strings.EqualFold(header.Name, name) {
			return header.Value, true
		}
	}

	return "", false
}
