// Package model defines the provider-agnostic abstractions and concrete
// helpers for the language models that drive the support assistant.
//
// Core goals:
//   - Unify streaming + non-streaming generation behind a single interface
//   - Normalize tool / function call representation (ToolDefinition, ToolCall)
//   - Keep request/response shapes minimal and transport independent
//   - Facilitate lightweight mocking for tests (MockModel)
//
// Providers (Gemini, OpenAI, Anthropic) implement the Model interface from
// this package so higher layers (agents, flows) remain decoupled from vendor
// SDKs. Per-agent model selection is owned by the config package.
package model
