// Package gemini provides an implementation of model.Model using the Google
// Gemini API (including streaming + function calling) via the
// google.golang.org/genai SDK. It adapts the normalized Request/Response
// structures into Gemini contents and back, carrying thought parts through
// so planners can keep reasoning off user-facing surfaces.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/satyamsundaram01/moe-support-assist/core"
	"github.com/satyamsundaram01/moe-support-assist/model"
	"google.golang.org/genai"
)

// DefaultModel is the model id the support assistant ships with.
const DefaultModel = "gemini-2.5-flash-preview-05-20"

// Options configure the Gemini model adapter.
type Options struct {
	Model           string
	Temperature     float64
	MaxOutputTokens int32
	APIKey          string
}

// Model wraps the Gemini API behind the generic model.Model interface.
type Model struct {
	client *genai.Client
	opts   Options
}

// NewModel creates a new Gemini model using the official client. An empty
// APIKey falls back to the GEMINI_API_KEY / GOOGLE_API_KEY environment
// variables resolved by the SDK.
func NewModel(ctx context.Context, optFns ...func(o *Options)) (*Model, error) {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}

	return &Model{client: client, opts: opts}, nil
}

// NewModelFromClient creates a new Gemini model from an existing client.
func NewModelFromClient(client *genai.Client, optFns ...func(o *Options)) *Model {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Model{client: client, opts: opts}
}

func defaultOptions() Options {
	return Options{
		Model:           DefaultModel,
		Temperature:     0.7,
		MaxOutputTokens: 4096,
	}
}

// Generate implements unified streaming / non-streaming generation.
// It adapts the Gemini API (with function calling) into model.Response events.
func (m *Model) Generate(ctx context.Context, req model.Request) (<-chan model.Response, <-chan error) {
	out := make(chan model.Response, 32)
	errCh := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errCh)
		contents := buildContents(req.Contents)
		config := m.buildConfig(req)
		if req.Stream {
			m.handleStreaming(ctx, contents, config, out, errCh)
			return
		}
		m.handleNonStreaming(ctx, contents, config, out, errCh)
	}()
	return out, errCh
}

// buildContents converts normalized contents into Gemini contents. System
// text is lifted into the request config (buildConfig); tool responses ride
// in user-role contents per the Gemini API contract.
func buildContents(contents []core.Content) []*genai.Content {
	var converted []*genai.Content
	for _, c := range contents {
		switch c.Role {
		case "system":
			continue
		case "assistant":
			if parts := assistantParts(c); len(parts) > 0 {
				converted = append(converted, &genai.Content{Role: genai.RoleModel, Parts: parts})
			}
		case "tool":
			if parts := toolResponseParts(c); len(parts) > 0 {
				converted = append(converted, &genai.Content{Role: genai.RoleUser, Parts: parts})
			}
		default:
			if parts := textParts(c); len(parts) > 0 {
				converted = append(converted, &genai.Content{Role: genai.RoleUser, Parts: parts})
			}
		}
	}
	return converted
}

func textParts(c core.Content) []*genai.Part {
	var parts []*genai.Part
	for _, p := range c.Parts {
		if tp, ok := p.(core.TextPart); ok && tp.Text != "" {
			parts = append(parts, &genai.Part{Text: tp.Text})
		}
	}
	return parts
}

// assistantParts rebuilds model-role history. Thought text is sent as plain
// text: the thought flag is output-only on the wire, but keeping the
// reasoning in context lets multi-turn investigations build on it.
func assistantParts(c core.Content) []*genai.Part {
	var parts []*genai.Part
	for _, p := range c.Parts {
		switch part := p.(type) {
		case core.TextPart:
			if part.Text != "" {
				parts = append(parts, &genai.Part{Text: part.Text})
			}
		case core.FunctionCallPart:
			parts = append(parts, &genai.Part{FunctionCall: &genai.FunctionCall{
				ID:   part.FunctionCall.ID,
				Name: part.FunctionCall.Name,
				Args: parseArgs(part.FunctionCall.Arguments),
			}})
		}
	}
	return parts
}

func toolResponseParts(c core.Content) []*genai.Part {
	var parts []*genai.Part
	for _, p := range c.Parts {
		fr, ok := p.(core.FunctionResponsePart)
		if !ok {
			continue
		}
		parts = append(parts, &genai.Part{FunctionResponse: &genai.FunctionResponse{
			ID:       fr.FunctionResponse.ID,
			Name:     fr.FunctionResponse.Name,
			Response: responseMap(fr.FunctionResponse),
		}})
	}
	return parts
}

// responseMap shapes a function result for the wire. Gemini expects a map;
// scalar results are wrapped under "result" and failures under "error".
func responseMap(fr core.FunctionResponse) map[string]any {
	if fr.Error != "" {
		return map[string]any{"error": fr.Error}
	}
	switch v := fr.Response.(type) {
	case map[string]any:
		return v
	case string:
		return map[string]any{"result": v}
	case nil:
		return map[string]any{}
	default:
		return map[string]any{"result": fmt.Sprintf("%v", v)}
	}
}

// parseArgs decodes serialized call arguments; undecodable payloads are kept
// under "raw" rather than dropped.
func parseArgs(arguments string) map[string]any {
	if arguments == "" {
		return nil
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return map[string]any{"raw": arguments}
	}
	return args
}

// buildConfig assembles the Gemini request config including tool declarations.
func (m *Model) buildConfig(req model.Request) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(m.opts.Temperature)),
		MaxOutputTokens: m.opts.MaxOutputTokens,
	}

	if sys := systemText(req.Contents); sys != "" {
		config.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: sys}}}
	}

	if len(req.Tools) > 0 {
		decls := make([]*genai.FunctionDeclaration, len(req.Tools))
		for i, tdef := range req.Tools {
			decls[i] = &genai.FunctionDeclaration{
				Name:        tdef.Function.Name,
				Description: tdef.Function.Description,
				Parameters:  schemaFromJSON(tdef.Function.Parameters),
			}
		}
		config.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
	}

	return config
}

func systemText(contents []core.Content) string {
	var b strings.Builder
	for _, c := range contents {
		if c.Role != "system" {
			continue
		}
		for _, p := range c.Parts {
			if tp, ok := p.(core.TextPart); ok {
				b.WriteString(tp.Text)
			}
		}
	}
	return b.String()
}

// schemaFromJSON converts a JSON Schema map into the typed Gemini schema.
// Only the subset produced by tool definitions is handled: type, description,
// enum, properties, required and items.
func schemaFromJSON(schema map[string]interface{}) *genai.Schema {
	if schema == nil {
		return nil
	}

	out := &genai.Schema{Type: schemaType(schema["type"])}
	if desc, ok := schema["description"].(string); ok {
		out.Description = desc
	}

	switch enum := schema["enum"].(type) {
	case []string:
		out.Enum = append(out.Enum, enum...)
	case []interface{}:
		for _, e := range enum {
			if s, ok := e.(string); ok {
				out.Enum = append(out.Enum, s)
			}
		}
	}

	if props, ok := schema["properties"].(map[string]interface{}); ok {
		out.Properties = make(map[string]*genai.Schema, len(props))
		for name, raw := range props {
			if sub, ok := raw.(map[string]interface{}); ok {
				out.Properties[name] = schemaFromJSON(sub)
			}
		}
	}

	switch req := schema["required"].(type) {
	case []string:
		out.Required = req
	case []interface{}:
		for _, r := range req {
			if s, ok := r.(string); ok {
				out.Required = append(out.Required, s)
			}
		}
	}

	if items, ok := schema["items"].(map[string]interface{}); ok {
		out.Items = schemaFromJSON(items)
	}

	return out
}

func schemaType(t interface{}) genai.Type {
	s, _ := t.(string)
	switch strings.ToLower(s) {
	case "object":
		return genai.TypeObject
	case "string":
		return genai.TypeString
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	default:
		return genai.TypeUnspecified
	}
}

// handleStreaming forwards partial chunks as they arrive and emits one final
// aggregated response once the stream ends.
func (m *Model) handleStreaming(
	ctx context.Context,
	contents []*genai.Content,
	config *genai.GenerateContentConfig,
	out chan<- model.Response,
	errCh chan<- error,
) {
	var (
		answerText  strings.Builder
		thoughtText strings.Builder
		calls       []core.Part
		reason      string
		usage       *model.TokenUsage
	)

	for resp, err := range m.client.Models.GenerateContentStream(ctx, m.opts.Model, contents, config) {
		if err != nil {
			errCh <- fmt.Errorf("gemini streaming error: %w", err)
			return
		}
		if resp.UsageMetadata != nil {
			usage = usageFrom(resp.UsageMetadata)
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			continue
		}
		cand := resp.Candidates[0]
		if cand.FinishReason != "" {
			reason = finishReason(cand.FinishReason)
		}

		chunk := corePartsFrom(cand.Content.Parts)
		if len(chunk) == 0 {
			continue
		}
		for _, part := range chunk {
			switch p := part.(type) {
			case core.TextPart:
				if p.Thought {
					thoughtText.WriteString(p.Text)
				} else {
					answerText.WriteString(p.Text)
				}
			case core.FunctionCallPart:
				calls = append(calls, p)
			}
		}
		out <- model.Response{
			Partial: true,
			Content: core.Content{Role: "assistant", Parts: chunk},
		}
	}

	finalParts := make([]core.Part, 0, len(calls)+2)
	if thoughtText.Len() > 0 {
		finalParts = append(finalParts, core.TextPart{Text: thoughtText.String(), Thought: true})
	}
	if answerText.Len() > 0 {
		finalParts = append(finalParts, core.TextPart{Text: answerText.String()})
	}
	finalParts = append(finalParts, calls...)

	if reason == "" {
		reason = "stop"
	}
	out <- model.Response{
		Partial:      false,
		Content:      core.Content{Role: "assistant", Parts: finalParts},
		FinishReason: reason,
		Usage:        usage,
	}
}

// handleNonStreaming processes a normal (non-streaming) completion.
func (m *Model) handleNonStreaming(
	ctx context.Context,
	contents []*genai.Content,
	config *genai.GenerateContentConfig,
	out chan<- model.Response,
	errCh chan<- error,
) {
	resp, err := m.client.Models.GenerateContent(ctx, m.opts.Model, contents, config)
	if err != nil {
		errCh <- fmt.Errorf("gemini api error: %w", err)
		return
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		errCh <- fmt.Errorf("no candidates returned")
		return
	}

	cand := resp.Candidates[0]
	out <- model.Response{
		Partial:      false,
		Content:      core.Content{Role: "assistant", Parts: corePartsFrom(cand.Content.Parts)},
		FinishReason: finishReason(cand.FinishReason),
		Usage:        usageFrom(resp.UsageMetadata),
	}
}

// corePartsFrom converts Gemini parts back into core parts. Function calls
// without an ID get one assigned so tool responses can be paired later.
func corePartsFrom(parts []*genai.Part) []core.Part {
	converted := make([]core.Part, 0, len(parts))
	for _, p := range parts {
		if p == nil {
			continue
		}
		if p.FunctionCall != nil {
			id := p.FunctionCall.ID
			if id == "" {
				id = uuid.NewString()
			}
			args := ""
			if len(p.FunctionCall.Args) > 0 {
				if raw, err := json.Marshal(p.FunctionCall.Args); err == nil {
					args = string(raw)
				}
			}
			converted = append(converted, core.FunctionCallPart{FunctionCall: core.FunctionCall{
				ID:        id,
				Name:      p.FunctionCall.Name,
				Arguments: args,
			}})
			continue
		}
		if p.Text != "" {
			converted = append(converted, core.TextPart{Text: p.Text, Thought: p.Thought})
		}
	}
	return converted
}

func finishReason(reason genai.FinishReason) string {
	if reason == "" {
		return "stop"
	}
	return strings.ToLower(string(reason))
}

func usageFrom(meta *genai.GenerateContentResponseUsageMetadata) *model.TokenUsage {
	if meta == nil {
		return nil
	}
	return &model.TokenUsage{
		PromptTokens:     int(meta.PromptTokenCount),
		CompletionTokens: int(meta.CandidatesTokenCount),
		TotalTokens:      int(meta.TotalTokenCount),
	}
}
