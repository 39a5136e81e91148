// Package testutil contains fluent builders for sessions and events used
// across tests, so conversation fixtures (prior turns, staged state, transfer
// history) read as one chain instead of a page of struct literals.
package testutil
