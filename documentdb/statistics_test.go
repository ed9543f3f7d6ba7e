package documentdb_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/dconnelly/cosmosdb-go/documentdb"
)

func Test_ClientSideRequestStatistics_RecordsReplicasAndRegionsOnce(t *testing.T) {
	// setup
	stats := documentdb.NewClientSideRequestStatistics(time.Unix(1700000000, 0))

	// act
	stats.RecordReplica("rntbd://replica-1", false)
	stats.RecordReplica("rntbd://replica-2", true)
	stats.RecordReplica("rntbd://replica-2", true)
	stats.RecordRegion("West Europe")
	stats.RecordRegion("West Europe")

	// assert
	assert.NotEqual(t, uuid.Nil, stats.ActivityID)
	assert.Equal(t, []string{"rntbd://replica-1", "rntbd://replica-2"}, stats.ContactedReplicas)
	assert.Equal(t, []string{"rntbd://replica-2"}, stats.FailedReplicas)
	assert.Equal(t, []string{"West Europe"}, stats.RegionsContacted)
}

func Test_ClientSideRequestStatistics_Latency(t *testing.T) {
	start := time.Unix(1700000000, 0)
	stats := documentdb.NewClientSideRequestStatistics(start)

	assert.Zero(t, stats.Latency(), "unfinished requests have no latency")

	stats.Finish(start.Add(25 * time.Millisecond))
	assert.Equal(t, 25*time.Millisecond, stats.Latency())

	stats.Finish(start.Add(-time.Second))
	assert.Zero(t, stats.Latency(), "end before start is not a latency")
}
