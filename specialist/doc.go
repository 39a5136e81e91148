// Package specialist assembles the support copilot's agent tree. The
// deterministic layer (ChatManager, Troubleshooter, Knowledge, Ticket,
// FollowUp) classifies utterances, stages session state and decides
// transfers before any model call; the model layer underneath is a plain
// LLMAgent per specialist, driven through the flow package.
//
// Two alternative tree roots exist side by side: ChatManager routes with
// the intent classifier and routing table, LLMManager delegates the same
// decision to the model via transfer calls. Pipeline is the third entry
// point, a single-pass troubleshooter that runs knowledge search and
// campaign execution sub-agents internally and synthesizes one report.
package specialist
