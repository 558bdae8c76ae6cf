// Package stages defines the fixed production pipeline vocabulary: stage
// kinds with their hand-off ordering, the shared task lifecycle statuses, and
// the work type sub-tags that distinguish fan-out siblings.
package stages
