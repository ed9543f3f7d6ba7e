// Package journaldb provides PostgreSQL connections and schema setup for the response journal tests.
//
// Connections are opened for each supported adapter type (pgx.Pool, sql.DB, sqlx.DB). Tests using them are
// skipped when no database answers at the configured DSN, so the default test run needs no PostgreSQL.
package journaldb
