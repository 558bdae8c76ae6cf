// Package logging builds slog loggers for greenroom with console and JSON
// output formats, multi-destination writers, and shared attribute helpers so
// field names stay consistent across packages.
package logging
