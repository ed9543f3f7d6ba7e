package journal_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dconnelly/cosmosdb-go/documentdb"
	"github.com/dconnelly/cosmosdb-go/documentdb/journal"
	"github.com/dconnelly/cosmosdb-go/documentdb/materializer"
	. "github.com/dconnelly/cosmosdb-go/testutil/helper" //nolint:revive
	"github.com/dconnelly/cosmosdb-go/testutil/journaldb"
)

const testTableName = "response_journal_test"

func Test_Journal_RecordAndReplay_AgainstPostgres(t *testing.T) {
	journals := map[string]func(t *testing.T) journal.Journal{
		"pgxpool": func(t *testing.T) journal.Journal {
			journaldb.CreateTable(t, journaldb.SQLDB(t), testTableName)
			j, err := journal.NewJournalFromPGXPool(journaldb.PGXPool(t), journal.WithTableName(testTableName))
			require.NoError(t, err)
			return j
		},
		"sqldb": func(t *testing.T) journal.Journal {
			db := journaldb.SQLDB(t)
			journaldb.CreateTable(t, db, testTableName)
			j, err := journal.NewJournalFromSQLDB(db, journal.WithTableName(testTableName))
			require.NoError(t, err)
			return j
		},
		"sqlx": func(t *testing.T) journal.Journal {
			db := journaldb.SQLX(t)
			journaldb.CreateTable(t, db.DB, testTableName)
			j, err := journal.NewJournalFromSQLX(db, journal.WithTableName(testTableName))
			require.NoError(t, err)
			return j
		},
	}

	for name, givenJournal := range journals {
		t.Run(name, func(t *testing.T) {
			// setup
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			j := givenJournal(t)

			// arrange
			resp := GivenFeedResponse(t, documentdb.ResourceTypeDocument,
				documentdb.Headers{documentdb.H("lsn", "42"), documentdb.H("x-ms-continuation", "it's")},
				DocumentJSON("d1"), DocumentJSON("d2"),
			)
			entry, err := journal.EntryFromWireResponse(GivenUniqueID(t), resp, time.Now().UTC().Truncate(time.Microsecond))
			require.NoError(t, err)

			// act
			require.NoError(t, j.Record(ctx, entry))
			replayed, err := j.Replay(ctx, entry.ActivityID)

			// assert
			require.NoError(t, err)
			assert.Equal(t, entry.Headers, replayed.Headers)
			assert.Equal(t, entry.Body, replayed.Body)
			assert.True(t, entry.RecordedAt.Equal(replayed.RecordedAt))

			m, err := materializer.New(replayed.WireResponse())
			require.NoError(t, err)
			docs, err := m.QueryResponse(ctx, documentdb.ResourceTypeDocument)
			require.NoError(t, err)
			assert.Len(t, docs, 2)
			assert.Equal(t, int64(42), replayed.WireResponse().LogSequenceNumber())
		})
	}
}

func Test_Journal_Replay_UnknownActivityID_AgainstPostgres(t *testing.T) {
	db := journaldb.SQLDB(t)
	journaldb.CreateTable(t, db, testTableName)
	j, err := journal.NewJournalFromSQLDB(db, journal.WithTableName(testTableName))
	require.NoError(t, err)

	_, err = j.Replay(context.Background(), GivenUniqueID(t))

	assert.ErrorIs(t, err, journal.ErrEntryNotFound)
}
