package journal

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dconnelly/cosmosdb-go/documentdb"
	"github.com/dconnelly/cosmosdb-go/documentdb/journal/internal/adapters"
	"github.com/dconnelly/cosmosdb-go/testutil/helper"
)

// fakeDB records statements and serves canned rows.
type fakeDB struct {
	executed     []string
	queried      []string
	rowsAffected int64
	execErr      error
	queryErr     error
	rows         [][]any
}

func (f *fakeDB) Query(_ context.Context, query string) (adapters.DBRows, error) {
	f.queried = append(f.queried, query)
	if f.queryErr != nil {
		return nil, f.queryErr
	}

	return &fakeRows{rows: f.rows, index: -1}, nil
}

func (f *fakeDB) Exec(_ context.Context, query string) (adapters.DBResult, error) {
	f.executed = append(f.executed, query)
	if f.execErr != nil {
		return nil, f.execErr
	}

	return fakeResult(f.rowsAffected), nil
}

type fakeRows struct {
	rows   [][]any
	index  int
	closed bool
}

func (r *fakeRows) Next() bool {
	r.index++
	return r.index < len(r.rows)
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.rows[r.index]
	for i, value := range row {
		switch target := dest[i].(type) {
		case *int:
			*target = value.(int)
		case *[]byte:
			*target = value.([]byte)
		case *string:
			*target = value.(string)
		case *time.Time:
			*target = value.(time.Time)
		default:
			return errors.New("unsupported scan target")
		}
	}

	return nil
}

func (r *fakeRows) Err() error { return nil }

func (r *fakeRows) Close() error {
	r.closed = true
	return nil
}

type fakeResult int64

func (f fakeResult) RowsAffected() (int64, error) { return int64(f), nil }

func givenJournal(t *testing.T, db adapters.DBAdapter, options ...Option) Journal {
	t.Helper()

	j, err := newJournal(db, options)
	require.NoError(t, err)

	return j
}

func Test_NewJournal_NilConnections(t *testing.T) {
	_, err := NewJournalFromPGXPool(nil)
	assert.ErrorIs(t, err, ErrNilDatabaseConnection)

	_, err = NewJournalFromSQLDB(nil)
	assert.ErrorIs(t, err, ErrNilDatabaseConnection)

	_, err = NewJournalFromSQLX(nil)
	assert.ErrorIs(t, err, ErrNilDatabaseConnection)
}

func Test_NewJournal_TableName(t *testing.T) {
	j := givenJournal(t, &fakeDB{})
	assert.Equal(t, "response_journal", j.TableName())

	j = givenJournal(t, &fakeDB{}, WithTableName("diagnostics"))
	assert.Equal(t, "diagnostics", j.TableName())

	_, err := newJournal(&fakeDB{}, []Option{WithTableName("")})
	assert.ErrorIs(t, err, ErrEmptyTableName)
}

func Test_BuildInsertQuery(t *testing.T) {
	j := givenJournal(t, &fakeDB{})
	activityID := uuid.MustParse("0190b3c4-1d2e-7a3b-8c4d-5e6f7a8b9c0d")

	sqlQuery, err := j.buildInsertQuery(Entry{
		ActivityID: activityID,
		StatusCode: 200,
		Headers:    documentdb.Headers{documentdb.H("lsn", "42")},
		Body:       `{"id":"it's"}`,
		RecordedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	})

	require.NoError(t, err)
	assert.Contains(t, sqlQuery, `INSERT INTO "response_journal" ("activity_id", "status_code", "headers", "body", "recorded_at")`)
	assert.Contains(t, sqlQuery, `'0190b3c4-1d2e-7a3b-8c4d-5e6f7a8b9c0d'::uuid`)
	assert.Contains(t, sqlQuery, `'[{"name":"lsn","value":"42"}]'::jsonb`)
	assert.Contains(t, sqlQuery, `'{"id":"it''s"}'`, "quotes in the body are escaped")
	assert.Contains(t, sqlQuery, "2026-01-02T03:04:05")
}

func Test_BuildReplayQuery(t *testing.T) {
	j := givenJournal(t, &fakeDB{}, WithTableName("diagnostics"))
	activityID := uuid.MustParse("0190b3c4-1d2e-7a3b-8c4d-5e6f7a8b9c0d")

	sqlQuery, err := j.buildReplayQuery(activityID)

	require.NoError(t, err)
	assert.Contains(t, sqlQuery, `SELECT "status_code", "headers", "body", "recorded_at" FROM "diagnostics"`)
	assert.Contains(t, sqlQuery, `"activity_id" = '0190b3c4-1d2e-7a3b-8c4d-5e6f7a8b9c0d'::uuid`)
	assert.Contains(t, sqlQuery, `ORDER BY "recorded_at" DESC LIMIT 1`)
}

func Test_Record(t *testing.T) {
	// setup
	db := &fakeDB{rowsAffected: 1}
	logHandler := helper.NewLogHandlerSpy(false)
	j := givenJournal(t, db, WithLogger(slog.New(logHandler)))

	// act
	err := j.Record(context.Background(), Entry{ActivityID: uuid.New(), StatusCode: 201, Body: "{}"})

	// assert
	require.NoError(t, err)
	assert.Len(t, db.executed, 1)
	assert.True(t, logHandler.HasDebugLog("executed sql for: record").WithDurationMS().WithAttrKey("query").Assert())
	assert.True(t, logHandler.HasInfoLog("journal operation: entry recorded").WithAttr("status_code", "201").Assert())
}

func Test_Record_Failures(t *testing.T) {
	dbErr := errors.New("connection reset")

	tests := []struct {
		name        string
		db          *fakeDB
		expectedErr error
	}{
		{name: "exec fails", db: &fakeDB{execErr: dbErr}, expectedErr: dbErr},
		{name: "nothing inserted", db: &fakeDB{rowsAffected: 0}, expectedErr: ErrRecordingEntryFailed},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			j := givenJournal(t, tc.db)

			err := j.Record(context.Background(), Entry{ActivityID: uuid.New(), StatusCode: 200})

			assert.ErrorIs(t, err, ErrRecordingEntryFailed)
			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}

func Test_Replay(t *testing.T) {
	// setup
	recordedAt := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	db := &fakeDB{rows: [][]any{{
		200,
		[]byte(`[{"name":"x-lsn","value":"42"},{"name":"x-continuation","value":"abc"}]`),
		`{"Documents":[{"id":"d1"}]}`,
		recordedAt,
	}}}
	j := givenJournal(t, db)
	activityID := uuid.New()

	// act
	entry, err := j.Replay(context.Background(), activityID)

	// assert
	require.NoError(t, err)
	assert.Len(t, db.queried, 1)
	assert.Equal(t, activityID, entry.ActivityID)
	assert.Equal(t, 200, entry.StatusCode)
	assert.Equal(t, documentdb.Headers{documentdb.H("x-lsn", "42"), documentdb.H("x-continuation", "abc")}, entry.Headers)
	assert.Equal(t, recordedAt, entry.RecordedAt)

	resp := entry.WireResponse(documentdb.WithHeaderNames(documentdb.HeaderNames{LSN: "x-lsn", Continuation: "x-continuation"}))
	assert.Equal(t, int64(42), resp.LogSequenceNumber())
}

func Test_Replay_Failures(t *testing.T) {
	dbErr := errors.New("connection reset")

	tests := []struct {
		name        string
		db          *fakeDB
		expectedErr error
	}{
		{name: "no row", db: &fakeDB{}, expectedErr: ErrEntryNotFound},
		{name: "query fails", db: &fakeDB{queryErr: dbErr}, expectedErr: ErrReplayingEntryFailed},
		{name: "headers are not json", db: &fakeDB{rows: [][]any{{200, []byte(`{`), "", time.Now()}}}, expectedErr: ErrDecodingHeadersFailed},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			j := givenJournal(t, tc.db)

			_, err := j.Replay(context.Background(), uuid.New())

			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}
