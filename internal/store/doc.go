// Package store persists the production workflow in SQLite: episodes, stage
// tasks, deadlines, the transition audit log, the notification outbox, and
// the staff directory. Unique keys on stage tasks and deadlines back the
// engine's idempotency guarantees; all writes retry on SQLITE_BUSY.
package store
