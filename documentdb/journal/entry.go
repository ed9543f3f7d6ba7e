package journal

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/dconnelly/cosmosdb-go/documentdb"
)

// Entry is one recorded exchange: everything needed to rebuild its WireResponse later.
type Entry struct {
	ActivityID uuid.UUID
	StatusCode int
	Headers    documentdb.Headers
	Body       string
	RecordedAt time.Time
}

// EntryFromWireResponse captures resp as a journal entry.
//
// Text bodies are kept verbatim and object bodies are serialized back to JSON text.
// Stream bodies are never read here, so they cannot be journaled.
func EntryFromWireResponse(activityID uuid.UUID, resp *documentdb.WireResponse, recordedAt time.Time) (Entry, error) {
	if resp == nil {
		return Entry{}, ErrNilWireResponse
	}

	entry := Entry{
		ActivityID: activityID,
		StatusCode: resp.StatusCode(),
		Headers:    resp.Headers(),
		RecordedAt: recordedAt,
	}

	switch body := resp.Body().(type) {
	case documentdb.StringBody:
		entry.Body = body.Text

	case documentdb.ObjectBody:
		text, err := documentdb.MarshalJSONObject(body.Object)
		if err != nil {
			return Entry{}, errors.Join(ErrEncodingBodyFailed, err)
		}

		entry.Body = text

	case documentdb.StreamBody:
		return Entry{}, ErrStreamBodyNotJournaled

	case documentdb.NoBody:
	}

	return entry, nil
}

// ActivityIDOf returns the id a response should be journaled under: the activity id header if it holds a UUID,
// else the activity id of the attached client side statistics, else a fresh time ordered id.
func ActivityIDOf(resp *documentdb.WireResponse) uuid.UUID {
	if value, ok := resp.ActivityID(); ok {
		if id, err := uuid.Parse(value); err == nil {
			return id
		}
	}

	if stats := resp.ClientSideRequestStatistics(); stats != nil && stats.ActivityID != uuid.Nil {
		return stats.ActivityID
	}

	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}

	return id
}

// WireResponse rebuilds the recorded response with a text body. An empty body replays as no body.
func (e Entry) WireResponse(options ...documentdb.WireResponseOption) *documentdb.WireResponse {
	if e.Body == "" {
		return documentdb.NewWireResponse(e.StatusCode, e.Headers, options...)
	}

	return documentdb.NewWireResponseWithString(e.StatusCode, e.Headers, e.Body, options...)
}

// storedHeader is the jsonb form of one header.
type storedHeader struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func encodeHeaders(headers documentdb.Headers) (string, error) {
	stored := make([]storedHeader, len(headers))
	for i, header := range headers {
		stored[i] = storedHeader{Name: header.Name, Value: header.Value}
	}

	text, err := jsonAPI.MarshalToString(stored)
	if err != nil {
		return "", errors.Join(ErrEncodingHeadersFailed, err)
	}

	return text, nil
}

func decodeHeaders(raw []byte) (documentdb.Headers, error) {
	var stored []storedHeader
	if err := jsonAPI.Unmarshal(raw, &stored); err != nil {
		return nil, errors.Join(ErrDecodingHeadersFailed, err)
	}

	headers := make(documentdb.Headers, len(stored))
	for i, header := range stored {
		headers[i] = documentdb.H(header.Name, header.Value)
	}

	return headers, nil
}
