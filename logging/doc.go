// Package logging provides a minimal logging interface and adapters for the
// support assistant.
//
// The Logger interface defines the standard logging methods (Debug, Info,
// Warn, Error) that the runner and agents use for observability. This package
// includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - ZerologAdapter wrapping rs/zerolog (JSON or console output)
//   - SupportLogger with contextual helpers (session, run, component)
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewZerologLogger(logging.LogLevelInfo)
//	r := runner.New(root, sessions, runner.WithLogger(logger))
//
// The design intentionally keeps the interface minimal to avoid vendor lock-in
// while supporting structured logging where available.
package logging
