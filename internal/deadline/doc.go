// Package deadline computes per-role deadlines from an episode's air date
// and the configured offset table, with idempotent generation and
// first-writer-wins completion.
package deadline
