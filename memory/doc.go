// Package memory contains MemoryStore implementations backing the "memory
// first" pattern: specialists record investigation findings here and consult
// them before starting a new search, so repeat questions in a session reuse
// earlier work.
//
// The core.MemoryStore contract and core.SearchResult live in the core
// package; depend on the interface and pick an implementation at wiring time.
package memory
