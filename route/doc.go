// Package route defines the control-transfer state machine of the support
// assistant: the closed set of addressable agent names, the table mapping
// (current agent, intent) to a routing decision, and the registry that
// validates transfer targets.
//
// States are agent identities; every new session starts at the conversation
// manager. On each turn the active agent resolves its decision from the table
// and either responds locally, hands conversation ownership to the target
// (delegation), or invokes the target as a bounded sub-call that returns its
// output without taking ownership. There is no forced return: control moves
// only when an agent explicitly transfers. A transfer naming an agent outside
// the registry is fatal to the turn; the conversation never silently falls
// back to the root.
package route
