// Package adapters lets the response journal run on pgxpool.Pool, sql.DB or sqlx.DB
// behind one DBAdapter interface.
package adapters
