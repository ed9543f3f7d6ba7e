package journal

import "github.com/dconnelly/cosmosdb-go/documentdb"

// Option defines a functional option for configuring a Journal.
type Option func(*Journal) error

// WithTableName sets the table the journal writes to and reads from.
func WithTableName(tableName string) Option {
	return func(j *Journal) error {
		if tableName == "" {
			return ErrEmptyTableName
		}

		j.tableName = tableName

		return nil
	}
}

// WithLogger sets the logger for the Journal.
//
// Debug level: SQL statements with execution timing (development use)
// Info level: recorded and replayed entries (production-safe)
// Warn level: cleanup failures
// Error level: failures that abort a Record or Replay.
func WithLogger(logger documentdb.Logger) Option {
	return func(j *Journal) error {
		j.logger = logger
		return nil
	}
}
