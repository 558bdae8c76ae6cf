// Package workflow implements the stage pipeline engine: episode creation,
// stage task lifecycle actions, the declarative transition table with
// fan-out, rejection and help loops, deadline completion, and the audit
// trail. Every mutating action runs in a single store transaction.
package workflow
