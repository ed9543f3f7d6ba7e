package journal

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"

	"github.com/dconnelly/cosmosdb-go/documentdb"
	"github.com/dconnelly/cosmosdb-go/documentdb/journal/internal/adapters"
)

// DefaultTableName is the table a Journal uses unless WithTableName is given.
const DefaultTableName = "response_journal"

const (
	logMsgBuildQueryFailed    = "failed to build journal query"
	logMsgDBExecFailed        = "journal insert failed"
	logMsgDBQueryFailed       = "journal query failed"
	logMsgScanRowFailed       = "failed to scan journal row"
	logMsgCloseRowsFailed     = "failed to close journal rows"
	logMsgEntryRecorded       = "entry recorded"
	logMsgEntryReplayed       = "entry replayed"
	logMsgSQLExecuted         = "executed sql for: "
	logMsgOperation           = "journal operation: "
	logAttrError              = "error"
	logAttrQuery              = "query"
	logAttrActivityID         = "activity_id"
	logAttrStatusCode         = "status_code"
	logAttrDurationMS         = "duration_ms"
	logActionRecord           = "record"
	logActionReplay           = "replay"
	colActivityID             = "activity_id"
	colStatusCode             = "status_code"
	colHeaders                = "headers"
	colBody                   = "body"
	colRecordedAt             = "recorded_at"
	dialectPostgres           = "postgres"
	castJsonb                 = "?::jsonb"
	castUUID                  = "?::uuid"
	expectedRowsAffectedByOne = 1
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	ErrNilDatabaseConnection     = errors.New("nil database connection supplied")
	ErrEmptyTableName            = errors.New("empty journal table name supplied")
	ErrNilWireResponse           = errors.New("nil wire response supplied")
	ErrStreamBodyNotJournaled    = errors.New("stream bodies cannot be journaled")
	ErrEncodingBodyFailed        = errors.New("encoding body failed")
	ErrEncodingHeadersFailed     = errors.New("encoding headers failed")
	ErrDecodingHeadersFailed     = errors.New("decoding headers failed")
	ErrBuildingQueryFailed       = errors.New("building query failed")
	ErrRecordingEntryFailed      = errors.New("recording entry failed")
	ErrGettingRowsAffectedFailed = errors.New("getting rows affected failed")
	ErrReplayingEntryFailed      = errors.New("replaying entry failed")
	ErrScanningDBRowFailed       = errors.New("scanning db row failed")
	ErrEntryNotFound             = errors.New("journal entry not found")
)

// Journal records completed exchanges in a PostgreSQL table and replays them for offline diagnostics.
//
// It is never consulted when materializing a live response, and it does I/O only in Record and Replay.
// The table must have the columns activity_id uuid, status_code integer, headers jsonb, body text
// and recorded_at timestamptz.
type Journal struct {
	db        adapters.DBAdapter
	tableName string
	logger    documentdb.Logger
}

// NewJournalFromPGXPool creates a Journal on a pgx Pool with optional configuration.
func NewJournalFromPGXPool(db *pgxpool.Pool, options ...Option) (Journal, error) {
	if db == nil {
		return Journal{}, ErrNilDatabaseConnection
	}

	return newJournal(adapters.NewPGXAdapter(db), options)
}

// NewJournalFromSQLDB creates a Journal on a sql.DB with optional configuration.
func NewJournalFromSQLDB(db *sql.DB, options ...Option) (Journal, error) {
	if db == nil {
		return Journal{}, ErrNilDatabaseConnection
	}

	return newJournal(adapters.NewSQLAdapter(db), options)
}

// NewJournalFromSQLX creates a Journal on a sqlx.DB with optional configuration.
func NewJournalFromSQLX(db *sqlx.DB, options ...Option) (Journal, error) {
	if db == nil {
		return Journal{}, ErrNilDatabaseConnection
	}

	return newJournal(adapters.NewSQLXAdapter(db), options)
}

func newJournal(db adapters.DBAdapter, options []Option) (Journal, error) {
	j := Journal{
		db:        db,
		tableName: DefaultTableName,
	}

	for _, option := range options {
		if err := option(&j); err != nil {
			return Journal{}, err
		}
	}

	return j, nil
}

// TableName returns the table the journal uses.
func (j Journal) TableName() string {
	return j.tableName
}

// Record inserts entry as one row.
func (j Journal) Record(ctx context.Context, entry Entry) error {
	sqlQuery, buildErr := j.buildInsertQuery(entry)
	if buildErr != nil {
		j.logError(logMsgBuildQueryFailed, buildErr, logAttrActivityID, entry.ActivityID.String())
		return buildErr
	}

	start := time.Now()
	result, execErr := j.db.Exec(ctx, sqlQuery)
	duration := time.Since(start)
	j.logQueryWithDuration(sqlQuery, logActionRecord, duration)

	if execErr != nil {
		j.logError(logMsgDBExecFailed, execErr, logAttrQuery, sqlQuery)
		return errors.Join(ErrRecordingEntryFailed, execErr)
	}

	rowsAffected, rowsErr := result.RowsAffected()
	if rowsErr != nil {
		return errors.Join(ErrGettingRowsAffectedFailed, rowsErr)
	}

	if rowsAffected != expectedRowsAffectedByOne {
		return ErrRecordingEntryFailed
	}

	j.logOperation(logMsgEntryRecorded,
		logAttrActivityID, entry.ActivityID.String(),
		logAttrStatusCode, entry.StatusCode,
		logAttrDurationMS, toMilliseconds(duration))

	return nil
}

// Replay reads the most recent entry recorded for activityID.
// It returns ErrEntryNotFound if there is none.
func (j Journal) Replay(ctx context.Context, activityID uuid.UUID) (Entry, error) {
	sqlQuery, buildErr := j.buildReplayQuery(activityID)
	if buildErr != nil {
		j.logError(logMsgBuildQueryFailed, buildErr, logAttrActivityID, activityID.String())
		return Entry{}, buildErr
	}

	start := time.Now()
	rows, queryErr := j.db.Query(ctx, sqlQuery)
	duration := time.Since(start)
	j.logQueryWithDuration(sqlQuery, logActionReplay, duration)

	if queryErr != nil {
		j.logError(logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)
		return Entry{}, errors.Join(ErrReplayingEntryFailed, queryErr)
	}
	defer j.closeRows(rows)

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return Entry{}, errors.Join(ErrReplayingEntryFailed, err)
		}

		return Entry{}, ErrEntryNotFound
	}

	entry, scanErr := scanEntry(rows, activityID)
	if scanErr != nil {
		j.logError(logMsgScanRowFailed, scanErr, logAttrActivityID, activityID.String())
		return Entry{}, scanErr
	}

	j.logOperation(logMsgEntryReplayed,
		logAttrActivityID, activityID.String(),
		logAttrStatusCode, entry.StatusCode,
		logAttrDurationMS, toMilliseconds(duration))

	return entry, nil
}

func scanEntry(rows adapters.DBRows, activityID uuid.UUID) (Entry, error) {
	var (
		statusCode int
		rawHeaders []byte
		body       string
		recordedAt time.Time
	)

	if err := rows.Scan(&statusCode, &rawHeaders, &body, &recordedAt); err != nil {
		return Entry{}, errors.Join(ErrScanningDBRowFailed, err)
	}

	headers, decodeErr := decodeHeaders(rawHeaders)
	if decodeErr != nil {
		return Entry{}, decodeErr
	}

	return Entry{
		ActivityID: activityID,
		StatusCode: statusCode,
		Headers:    headers,
		Body:       body,
		RecordedAt: recordedAt,
	}, nil
}

func (j Journal) buildInsertQuery(entry Entry) (string, error) {
	headersJSON, encodeErr := encodeHeaders(entry.Headers)
	if encodeErr != nil {
		return "", encodeErr
	}

	insertStmt := goqu.Dialect(dialectPostgres).
		Insert(j.tableName).
		Cols(colActivityID, colStatusCode, colHeaders, colBody, colRecordedAt).
		Vals(goqu.Vals{
			goqu.L(castUUID, entry.ActivityID.String()),
			entry.StatusCode,
			goqu.L(castJsonb, headersJSON),
			entry.Body,
			entry.RecordedAt,
		})

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (j Journal) buildReplayQuery(activityID uuid.UUID) (string, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(j.tableName).
		Select(colStatusCode, colHeaders, colBody, colRecordedAt).
		Where(goqu.C(colActivityID).Eq(goqu.L(castUUID, activityID.String()))).
		Order(goqu.I(colRecordedAt).Desc()).
		Limit(1)

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

// closeRows closes database rows and logs a failure.
func (j Journal) closeRows(rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil && j.logger != nil {
		j.logger.Warn(logMsgCloseRowsFailed, logAttrError, closeErr.Error())
	}
}

func (j Journal) logQueryWithDuration(sqlQuery string, action string, duration time.Duration) {
	if j.logger != nil {
		j.logger.Debug(logMsgSQLExecuted+action, logAttrDurationMS, toMilliseconds(duration), logAttrQuery, sqlQuery)
	}
}

func (j Journal) logOperation(action string, args ...any) {
	if j.logger != nil {
		j.logger.Info(logMsgOperation+action, args...)
	}
}

func (j Journal) logError(message string, err error, args ...any) {
	if j.logger != nil {
		allArgs := []any{logAttrError, err.Error()}
		allArgs = append(allArgs, args...)
		j.logger.Error(message, allArgs...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
