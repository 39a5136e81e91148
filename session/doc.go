// Package session houses concrete implementations of core.SessionStore. The
// interface itself (and the Session struct) live in the core package so that
// agents and flows never depend on concrete storage.
//
// Two backends ship with the engine: InMemoryStore for tests and
// single-process chat sessions, and PostgresStore (bun ORM) for deployments
// that need durable conversations and operator-facing session listings. Only
// the wiring layer decides which implementation to instantiate.
package session
