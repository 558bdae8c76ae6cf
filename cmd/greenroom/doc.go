// Package main hosts the Greenroom CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into workflow
// engine calls: episode registration, stage task lifecycle actions, status
// projection, deadline listing, team management, outbox draining, and
// configuration scaffolding. It centralizes configuration resolution, data
// directory locking, and structured logging setup so subcommands can focus
// on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
