// Package planner separates model reasoning from user-facing output.
//
// A Planner contributes a planning instruction to each model request and
// rewrites the completion's response parts afterwards: chain-of-thought text
// is marked as thought (kept in conversation context, hidden from user
// surfaces), function-call runs are captured for execution, and only the
// text after the final-answer marker reaches the user.
//
// Two implementations are provided. ReActPlanner drives a compact
// plan/act/reason loop. DeepReasonPlanner adds intuition, hypothesis and
// reflection stages for troubleshooting investigations.
package planner
