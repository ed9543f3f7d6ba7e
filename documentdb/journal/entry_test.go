package journal_test

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dconnelly/cosmosdb-go/documentdb"
	"github.com/dconnelly/cosmosdb-go/documentdb/journal"
	. "github.com/dconnelly/cosmosdb-go/testutil/helper" //nolint:revive
)

func Test_EntryFromWireResponse_CapturesBodies(t *testing.T) {
	headers := documentdb.Headers{documentdb.H("lsn", "7"), documentdb.H("x-dup", "1"), documentdb.H("x-dup", "2")}

	tests := []struct {
		name         string
		resp         *documentdb.WireResponse
		expectedBody string
	}{
		{name: "string body kept verbatim", resp: documentdb.NewWireResponseWithString(200, headers, `{"id": "d1"}`), expectedBody: `{"id": "d1"}`},
		{name: "object body serialized", resp: documentdb.NewWireResponseWithObject(200, headers, ParsedObject(t, `{"Documents":[[5]]}`)), expectedBody: `{"Documents":[[5]]}`},
		{name: "no body", resp: documentdb.NewWireResponse(204, headers), expectedBody: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			activityID := GivenUniqueID(t)
			recordedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

			entry, err := journal.EntryFromWireResponse(activityID, tc.resp, recordedAt)

			require.NoError(t, err)
			assert.Equal(t, activityID, entry.ActivityID)
			assert.Equal(t, tc.resp.StatusCode(), entry.StatusCode)
			assert.Equal(t, headers, entry.Headers, "header order and duplicates are kept")
			assert.Equal(t, tc.expectedBody, entry.Body)
			assert.Equal(t, recordedAt, entry.RecordedAt)
		})
	}
}

func Test_EntryFromWireResponse_Errors(t *testing.T) {
	_, err := journal.EntryFromWireResponse(uuid.New(), nil, time.Now())
	assert.ErrorIs(t, err, journal.ErrNilWireResponse)

	stream := documentdb.NewWireResponseWithStream(200, nil, io.NopCloser(strings.NewReader("{}")))
	_, err = journal.EntryFromWireResponse(uuid.New(), stream, time.Now())
	assert.ErrorIs(t, err, journal.ErrStreamBodyNotJournaled)

	_, taken := stream.TakeStream()
	assert.True(t, taken, "capturing must not consume the stream")
}

func Test_Entry_WireResponse_Replays(t *testing.T) {
	entry := journal.Entry{
		ActivityID: uuid.New(),
		StatusCode: 200,
		Headers:    documentdb.Headers{documentdb.H("x-lsn", "42")},
		Body:       `{"Documents":[{"id":"d1"}]}`,
	}

	resp := entry.WireResponse(documentdb.WithHeaderNames(documentdb.HeaderNames{LSN: "x-lsn"}))

	assert.Equal(t, 200, resp.StatusCode())
	assert.Equal(t, int64(42), resp.LogSequenceNumber())
	body, ok := resp.StringBody()
	assert.True(t, ok)
	assert.Equal(t, entry.Body, body)
}

func Test_Entry_WireResponse_EmptyBodyReplaysAsNoBody(t *testing.T) {
	resp := journal.Entry{StatusCode: 204}.WireResponse()

	assert.Equal(t, documentdb.NoBody{}, resp.Body())
}

func Test_ActivityIDOf(t *testing.T) {
	headerID := uuid.MustParse("7f1f0c1e-2a0b-4c55-9a0e-4b7c7c3f5d11")

	t.Run("activity id header", func(t *testing.T) {
		resp := documentdb.NewWireResponse(200, documentdb.Headers{documentdb.H("x-ms-activity-id", headerID.String())})
		assert.Equal(t, headerID, journal.ActivityIDOf(resp))
	})

	t.Run("client side statistics", func(t *testing.T) {
		stats := documentdb.NewClientSideRequestStatistics(time.Now())
		resp := documentdb.NewWireResponse(200,
			documentdb.Headers{documentdb.H("x-ms-activity-id", "not-a-uuid")},
			documentdb.WithClientSideRequestStatistics(stats),
		)
		assert.Equal(t, stats.ActivityID, journal.ActivityIDOf(resp))
	})

	t.Run("fresh id", func(t *testing.T) {
		resp := documentdb.NewWireResponse(200, nil)

		first := journal.ActivityIDOf(resp)
		second := journal.ActivityIDOf(resp)

		assert.NotEqual(t, uuid.Nil, first)
		assert.NotEqual(t, first, second)
	})
}
