// Package intent implements deterministic utterance classification for the
// support assistant. One generic ordered trigger-set matcher (Rule / RuleSet)
// backs every classifier in the system: the conversation manager's intent
// labeling, the single-pass pipeline's labeling, the per-specialist transfer
// policies and messaging-channel detection.
//
// Matching is case-insensitive substring containment against the normalized
// utterance. Rules are evaluated in declaration order and the first matching
// rule wins, regardless of how many of its triggers matched; this total order
// is what makes routing reproducible. Classification never fails: an utterance
// matching nothing falls through to the lowest-priority default rule.
package intent
