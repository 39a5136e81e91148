// Package search provides the knowledge retrieval backend for the support
// assistant: generated answers with citations over three datastores
// (Confluence runbooks, Zendesk tickets, public help docs).
//
// Client speaks the answer API over REST. Without credentials it degrades to
// mock answers, so local runs never need a search deployment; Static is a
// deterministic in-memory corpus for tests and examples. The search tools
// wrap a Backend per datastore with source-specific answer preambles, and
// convert backend failures into error-status results so a dead search tier
// degrades an investigation instead of aborting the model turn.
package search
