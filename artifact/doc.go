// Package artifact contains core.ArtifactStore implementations. Agents attach
// generated files to a conversation through RunContext.SaveArtifact; the
// primary producer is the troubleshooting pipeline, which stores its
// synthesized solution report per session.
//
// The store contract lives in the core package; depend on core.ArtifactStore
// and pick an implementation at wiring time.
package artifact
