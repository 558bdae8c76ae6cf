// Package notifications composes outbox rows for workflow events and drains
// them through a best-effort ntfy-backed delivery service. When no topic is
// configured, a noop service keeps the outbox as the system of record.
package notifications
