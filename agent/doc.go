// Package agent contains the agent implementations the support copilot is
// assembled from. It covers three concerns:
//
//  1. Identity, hierarchy and run callbacks (BaseAgent)
//  2. Workflow coordination patterns (SequentialAgent, ParallelAgent, LoopAgent)
//  3. The model-backed conversational agent (LLMAgent)
//
// An agent's Run receives a *core.RunContext carrying the session snapshot,
// emit/resume channels and backing stores. Composite agents coordinate child
// Runs over derived contexts; LLMAgent delegates its turn to the flow
// package, which drives the model-call loop and tool execution.
//
// The deterministic support specialists live in the specialist package and
// embed BaseAgent directly; persistence, model transports and the tool
// registry stay in their own packages.
package agent
