// Package repositories implements SQLite persistence for locally stored entities.
//
// Only identity state lives in the database; catalog and reading list data always comes from the API.
// Repositories support soft deletes via deleted_at timestamps and exclude deleted records from queries by default.
//
// Key Implementations:
//   - [SessionRepository] : Stored identity sessions surviving CLI invocations
//
// Sequence numbers provide stable, human-readable ordering independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
