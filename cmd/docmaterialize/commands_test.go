package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dconnelly/cosmosdb-go/documentdb"
)

func Test_InspectCommand_PrintsMetadata(t *testing.T) {
	// setup
	path := givenCaptureFile(t, `
status: 200
headers:
  - {name: lsn, value: "42"}
  - {name: x-ms-continuation, value: abc}
  - {name: x-ms-substatus, value: "1002"}
  - {name: x-ms-request-charge, value: "2.5"}
  - {name: x-ms-documentdb-query-metrics, value: "retrievedDocumentCount=3"}
body: '{"Documents":[]}'
`)

	// act
	out, err := runCommand(t, "inspect", path)

	// assert
	require.NoError(t, err)

	var result map[string]any
	require.NoError(t, jsonAPI.UnmarshalFromString(out, &result))
	assert.EqualValues(t, 200, result["status"])
	assert.EqualValues(t, 42, result["lsn"])
	assert.EqualValues(t, 1002, result["subStatus"])
	assert.Equal(t, "abc", result["continuation"])
	assert.InDelta(t, 2.5, result["requestCharge"], 0.0001)
	assert.Equal(t, "string", result["bodyKind"])

	queryMetrics, ok := result["queryMetrics"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 3, queryMetrics["RetrievedDocumentCount"])
}

func Test_QueryCommand_PrintsOneLinePerResource(t *testing.T) {
	path := givenCaptureFile(t, `{"status":200,"body":"{\"Documents\":[{\"id\":\"a\"},{\"id\":\"b\"}]}"}`)

	out, err := runCommand(t, "query", "--type", "Document", path)

	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.JSONEq(t, `{"id":"a"}`, lines[0])
	assert.JSONEq(t, `{"id":"b"}`, lines[1])
}

func Test_QueryCommand_UnwrapsAggregates(t *testing.T) {
	path := givenCaptureFile(t, `{"status":200,"body":"{\"Documents\":[[[5]]]}"}`)

	out, err := runCommand(t, "query", path)

	require.NoError(t, err)
	assert.JSONEq(t, `{"aggregate":"5"}`, strings.TrimSpace(out))
}

func Test_QueryCommand_UnknownType(t *testing.T) {
	path := givenCaptureFile(t, `{"status":200,"body":"{}"}`)

	_, err := runCommand(t, "query", "--type", "Widget", path)

	require.ErrorIs(t, err, documentdb.ErrInvalidArgument)
	require.ErrorIs(t, err, documentdb.ErrUnknownResourceType)
}

func Test_ResourceCommand_PrintsResource(t *testing.T) {
	path := givenCaptureFile(t, `
status: 201
object:
  id: orders
  partitionKey:
    paths: [/customerId]
`)

	out, err := runCommand(t, "resource", "--type", "DocumentCollection", path)

	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"orders","partitionKey":{"paths":["/customerId"]}}`, out)
}

func Test_ResourceCommand_WithoutBodyPrintsNull(t *testing.T) {
	path := givenCaptureFile(t, `{"status":204}`)

	out, err := runCommand(t, "resource", path)

	require.NoError(t, err)
	assert.Equal(t, "null", strings.TrimSpace(out))
}

func Test_RootCommand_InvalidLogLevel(t *testing.T) {
	path := givenCaptureFile(t, `{"status":204}`)

	_, err := runCommand(t, "--log-level", "loud", "resource", path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "--log-level")
}

func Test_JournalReplay_InvalidActivityID(t *testing.T) {
	_, err := runCommand(t, "journal", "replay", "not-a-uuid")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid activity id")
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))

	err := cmd.ExecuteContext(context.Background())

	return out.String(), err
}

func givenCaptureFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "capture.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600), "error in arranging test data")

	return path
}
