// Package repositories implements SQLite persistence for the dashboard's local data.
//
// The only entity stored locally is feedback: the feedback form writes to an outbox table so ratings survive
// a backend that is down, and submitted rows are stamped with submitted_at once forwarded.
//
// Key Implementations:
//   - [FeedbackRepository] : feedback outbox with pending and rating filters
//
// Deletes are soft via deleted_at and deleted rows are excluded from queries.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
