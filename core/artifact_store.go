package core

// ArtifactStore persists binary artifacts produced during a conversation,
// such as the synthesized solution report a troubleshooting run leaves
// behind. Artifacts are scoped by session id; implementations must be safe
// for concurrent use.
type ArtifactStore interface {
	Save(sessionID, artifactID string, data []byte) error
	Get(sessionID, artifactID string) ([]byte, error)
	List(sessionID string) ([]string, error)
	Delete(sessionID, artifactID string) error
}
