// Package roles normalizes free-form role strings to canonical role keys,
// gates review actions per stage through a static allow-list, and resolves
// assignees through a pluggable directory.
package roles
