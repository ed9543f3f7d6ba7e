package helper

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dconnelly/cosmosdb-go/documentdb"
)

// GivenUniqueID returns a fresh time ordered id.
func GivenUniqueID(t testing.TB) uuid.UUID {
	id, err := uuid.NewV7()
	require.NoError(t, err, "error in arranging test data")

	return id
}

// DocumentJSON renders a minimal document with system properties.
func DocumentJSON(id string) string {
	return fmt.Sprintf(`{"id":%q,"_rid":"rid-%s","_self":"dbs/x/colls/y/docs/%s","_etag":"\"0000\"","_ts":1700000000}`, id, id, id)
}

// FeedJSON renders a feed body holding rawElements under the container key of t.
func FeedJSON(t testing.TB, resourceType documentdb.ResourceType, rawElements ...string) string {
	key, err := documentdb.ResourceKey(resourceType)
	require.NoError(t, err, "error in arranging test data")

	return fmt.Sprintf(`{"_rid":"feed","%s":[%s],"_count":%d}`, key, strings.Join(rawElements, ","), len(rawElements))
}

// GivenFeedResponse builds a 200 string-body response holding a feed of t.
func GivenFeedResponse(
	t testing.TB,
	resourceType documentdb.ResourceType,
	headers documentdb.Headers,
	rawElements ...string,
) *documentdb.WireResponse {

	return documentdb.NewWireResponseWithString(200, headers, FeedJSON(t, resourceType, rawElements...))
}

// ParsedObject parses raw JSON text into an object body, failing the test on error.
func ParsedObject(t testing.TB, raw string) documentdb.JSONObject {
	object, err := documentdb.ParseJSONObject(raw)
	require.NoError(t, err, "error in arranging test data")

	return object
}
