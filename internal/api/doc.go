// Package api defines transport-friendly types and request-struct workflow
// entry points shared by the CLI commands. Each workflow opens the store,
// wires the engine, performs one operation, and converts the result into a
// DTO with camelCase JSON tags.
package api
