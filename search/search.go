package search

import "context"

// Answer statuses. Mock answers are produced locally when the backend has no
// credentials, so development setups work without a search deployment.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusMock    = "mock"
)

// Default answer-generation preamble when a query carries none.
const DefaultPreamble = "You are a MoEngage support assistant. Provide detailed technical information " +
	"about the MoEngage platform. Focus on specific features, technical details, " +
	"API endpoints, and troubleshooting steps."

// Per-datastore preambles used by the search tools.
const (
	RunbooksPreamble = "You are a MoEngage technical support specialist. Provide detailed troubleshooting " +
		"steps and technical guidance based on internal runbooks. Focus on specific " +
		"procedures, configuration steps, and known solutions. Include relevant technical " +
		"details and step-by-step instructions."

	ZendeskPreamble = "You are a MoEngage support agent analyzing historical support tickets. " +
		"Provide solutions and insights based on how similar issues were resolved " +
		"in the past. Focus on proven solutions, common patterns, and actionable " +
		"steps that worked for other customers."

	HelpDocsPreamble = "You are a MoEngage documentation assistant. Provide clear, comprehensive " +
		"explanations based on official documentation. Focus on step-by-step guides, " +
		"feature descriptions, API usage examples, and best practices. Include specific " +
		"configuration details and code examples where applicable."
)

// Query is one answer request against a single datastore.
type Query struct {
	Text        string
	DataStoreID string
	MaxResults  int    // <= 0 means the backend default
	Preamble    string // "" means DefaultPreamble
	SessionID   string // optional conversational continuity hint
}

// Citation locates a source reference inside an answer text.
type Citation struct {
	StartIndex int    `json:"start_index"`
	EndIndex   int    `json:"end_index"`
	URI        string `json:"uri"`
	Title      string `json:"title"`
}

// Answer is a generated answer with source citations.
type Answer struct {
	Status    string     `json:"status"`
	Text      string     `json:"answer"`
	Citations []Citation `json:"citations"`
}

// Backend generates answers with citations from a knowledge datastore.
// Implementations must be safe for concurrent use.
type Backend interface {
	Search(ctx context.Context, q Query) (*Answer, error)
}
