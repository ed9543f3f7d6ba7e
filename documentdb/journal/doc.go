// Package journal records completed document database exchanges in PostgreSQL and replays them.
//
// A journal entry keeps the status code, the ordered header list and the body text of one response,
// keyed by its activity id. Replaying an entry yields a WireResponse that materializes exactly like
// the recorded one, which makes production responses reproducible in tests and diagnostics tools.
//
// Supported connections: pgxpool.Pool, sql.DB (lib/pq driver) and sqlx.DB.
//
// Usage examples:
//
//	pool, _ := pgxpool.New(ctx, dsn)
//	j, _ := journal.NewJournalFromPGXPool(pool, journal.WithTableName("diagnostics_responses"))
//
//	entry, err := journal.EntryFromWireResponse(journal.ActivityIDOf(resp), resp, time.Now())
//	err = j.Record(ctx, entry)
//
//	recorded, err := j.Replay(ctx, entry.ActivityID)
//	m, _ := materializer.New(recorded.WireResponse())
package journal
