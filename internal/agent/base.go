package agent

import (
	"context"
	"fmt"

	"github.com/sergiobayona/lexi-orchestrator/internal/llm"
	"github.com/sergiobayona/lexi-orchestrator/internal/session"
	"github.com/sergiobayona/lexi-orchestrator/internal/tools"
)

const defaultMaxIterations = 4

// Hooks is the contract a concrete lane agent implements on top of Base.
// All methods are free of per-turn shared state: everything they need
// arrives as an argument.
type Hooks interface {
	Lane() string

	// ToolSpecs returns the tools available for this turn, built against
	// an immutable snapshot of s.
	ToolSpecs(s session.Session) []tools.Spec

	// SystemInstructions is the lane's fixed system prompt.
	SystemInstructions() string

	// BuildContext returns optional narrative context prepended to the
	// user question (cart summary, case status, recent turns...). Empty
	// string means no context.
	BuildContext(s session.Session, intent string) string

	// BuildStatePatch returns the agent-level patch, overlaid on top of
	// the aggregated tool patch.
	BuildStatePatch(text string, s session.Session, intent, responseText string, toolPatch map[string]any) map[string]any

	// PostProcess may refine the patch and request a baton handoff.
	PostProcess(text string, s session.Session, intent, responseText string, statePatch, toolPatch map[string]any) (map[string]any, *Baton)

	// BuildMessages converts the assistant's response text into the
	// outgoing message sequence. Most lanes return one text message.
	BuildMessages(responseText string) []OutgoingMessage

	// ErrorMessage is user-facing copy for an unhandled chat failure.
	ErrorMessage() string
}

// Base runs the Think → Act → Observe cycle common to every lane: it owns
// the LLM round trips and tool dispatch, delegating lane-specific
// decisions to Hooks.
type Base struct {
	Hooks         Hooks
	LLM           llm.Client
	MaxIterations int
	Log           EventLogger
}

func (b *Base) Lane() string { return b.Hooks.Lane() }

// Handle implements Agent: register tools, compose the prompt, run the
// chat loop, aggregate tool patches, overlay the agent patch, then let
// PostProcess have the final say.
//
// Any panic raised by a hook, from tool registration through
// post-processing, is caught here and converted into a one-message error
// response with an empty patch: a misbehaving lane must not take the
// whole turn down with it.
func (b *Base) Handle(ctx context.Context, text string, s session.Session, intent string) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			if b.Log != nil {
				b.Log.AgentFailure(s.TenantID, s.WaID, b.Hooks.Lane(), fmt.Sprintf("%v", r))
			}
			resp = Response{
				Messages:   b.Hooks.BuildMessages(b.Hooks.ErrorMessage()),
				StatePatch: map[string]any{},
			}
		}
	}()

	if b.LLM == nil {
		return Response{
			Messages:   b.Hooks.BuildMessages(b.Hooks.ErrorMessage()),
			StatePatch: map[string]any{},
		}
	}

	specs := b.Hooks.ToolSpecs(s)
	instances := make(map[string]tools.Tool, len(specs))
	toolDefs := make([]llm.ToolDefinition, 0, len(specs))
	for _, spec := range specs {
		instances[spec.Name] = spec.New()
		toolDefs = append(toolDefs, llm.ToolDefinition{
			Name:        spec.Name,
			Description: spec.Description,
			Parameters:  spec.Parameters,
		})
	}

	prompt := text
	if ctxText := b.Hooks.BuildContext(s, intent); ctxText != "" {
		prompt = ctxText + "\n\nUser question: " + text
	}

	messages := []llm.Message{
		{Role: "system", Content: b.Hooks.SystemInstructions()},
		{Role: "user", Content: prompt},
	}

	maxIter := b.MaxIterations
	if maxIter <= 0 {
		maxIter = defaultMaxIterations
	}

	aggregatedPatch := map[string]any{}
	responseText := b.Hooks.ErrorMessage()

	for i := 0; i < maxIter; i++ {
		resp, err := b.LLM.Chat(ctx, llm.ChatRequest{Messages: messages, Tools: toolDefs})
		if err != nil {
			responseText = b.Hooks.ErrorMessage()
			break
		}
		if len(resp.ToolCalls) == 0 {
			responseText = resp.Content
			break
		}

		messages = append(messages, llm.Message{Role: "assistant", Content: resp.Content, ToolCalls: resp.ToolCalls})
		for _, tc := range resp.ToolCalls {
			if b.Log != nil {
				b.Log.AgentToolInvoked(s.TenantID, s.WaID, b.Hooks.Lane(), tc.Name)
			}
			result := dispatch(instances, tc)
			if b.Log != nil {
				b.Log.AgentToolResult(s.TenantID, s.WaID, b.Hooks.Lane(), tc.Name, result.IsError)
			}
			if result.StatePatch != nil {
				for k, v := range result.StatePatch {
					aggregatedPatch[k] = v
				}
			}
			messages = append(messages, llm.Message{Role: "tool", Content: result.ForLLM, ToolCallID: tc.ID})
		}
	}

	agentPatch := b.Hooks.BuildStatePatch(text, s, intent, responseText, aggregatedPatch)
	finalPatch := make(map[string]any, len(aggregatedPatch)+len(agentPatch))
	for k, v := range aggregatedPatch {
		finalPatch[k] = v
	}
	for k, v := range agentPatch {
		finalPatch[k] = v
	}

	finalPatch, baton := b.Hooks.PostProcess(text, s, intent, responseText, finalPatch, aggregatedPatch)

	return Response{
		Messages:   b.Hooks.BuildMessages(responseText),
		StatePatch: finalPatch,
		Baton:      baton,
	}
}

func dispatch(instances map[string]tools.Tool, tc llm.ToolCall) *tools.Result {
	tool, ok := instances[tc.Name]
	if !ok {
		return tools.ErrorResult("unknown tool: " + tc.Name)
	}
	return tool.Call(tc.Arguments)
}
