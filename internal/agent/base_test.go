package agent

import (
	"context"
	"testing"

	"github.com/sergiobayona/lexi-orchestrator/internal/llm"
	"github.com/sergiobayona/lexi-orchestrator/internal/session"
	"github.com/sergiobayona/lexi-orchestrator/internal/tools"
)

type echoTool struct{ calls int }

func (t *echoTool) Name() string               { return "echo" }
func (t *echoTool) Description() string        { return "echoes input" }
func (t *echoTool) Parameters() map[string]any { return nil }
func (t *echoTool) Call(args map[string]any) *tools.Result {
	t.calls++
	return tools.NewResult("echoed").WithPatch(map[string]any{"echoed": true})
}

type testHooks struct {
	lane string
}

func (h *testHooks) Lane() string { return h.lane }
func (h *testHooks) ToolSpecs(s session.Session) []tools.Spec {
	return []tools.Spec{{
		Name: "echo", Description: "echo", Parameters: map[string]any{},
		New: func() tools.Tool { return &echoTool{} },
	}}
}
func (h *testHooks) SystemInstructions() string                           { return "be helpful" }
func (h *testHooks) BuildContext(s session.Session, intent string) string { return "" }
func (h *testHooks) BuildStatePatch(text string, s session.Session, intent, responseText string, toolPatch map[string]any) map[string]any {
	return map[string]any{"agent_ran": true}
}
func (h *testHooks) PostProcess(text string, s session.Session, intent, responseText string, statePatch, toolPatch map[string]any) (map[string]any, *Baton) {
	return statePatch, nil
}
func (h *testHooks) BuildMessages(responseText string) []OutgoingMessage {
	return []OutgoingMessage{{Kind: "text", Text: responseText}}
}
func (h *testHooks) ErrorMessage() string { return "error" }

func TestBase_Handle_NoToolCall(t *testing.T) {
	fake := &llm.FakeClient{ChatResponses: []llm.ChatResponse{{Content: "hi there", FinishReason: "stop"}}}
	base := &Base{Hooks: &testHooks{lane: "info"}, LLM: fake}

	resp := base.Handle(context.Background(), "hello", session.Session{}, "greeting")
	if len(resp.Messages) != 1 || resp.Messages[0].Text != "hi there" {
		t.Fatalf("unexpected messages: %+v", resp.Messages)
	}
	if resp.StatePatch["agent_ran"] != true {
		t.Fatalf("expected agent-level patch applied, got %+v", resp.StatePatch)
	}
}

func TestBase_Handle_ToolCallAggregatesPatch(t *testing.T) {
	fake := &llm.FakeClient{ChatResponses: []llm.ChatResponse{
		{ToolCalls: []llm.ToolCall{{ID: "1", Name: "echo", Arguments: map[string]any{}}}, FinishReason: "tool_calls"},
		{Content: "done", FinishReason: "stop"},
	}}
	log := &recordingLog{}
	base := &Base{Hooks: &testHooks{lane: "info"}, LLM: fake, Log: log}

	resp := base.Handle(context.Background(), "hello", session.Session{}, "greeting")
	if resp.StatePatch["echoed"] != true {
		t.Fatalf("expected tool patch merged, got %+v", resp.StatePatch)
	}
	if resp.Messages[0].Text != "done" {
		t.Fatalf("expected final text 'done', got %+v", resp.Messages)
	}
	if len(log.invoked) != 1 || log.invoked[0] != "echo" {
		t.Fatalf("expected agent_tool_invoked for echo, got %+v", log.invoked)
	}
	if len(log.results) != 1 || log.results[0] != "echo" {
		t.Fatalf("expected agent_tool_result for echo, got %+v", log.results)
	}
}

func TestBase_Handle_ChatError(t *testing.T) {
	fake := &llm.FakeClient{ChatErr: context.DeadlineExceeded}
	base := &Base{Hooks: &testHooks{lane: "info"}, LLM: fake}

	resp := base.Handle(context.Background(), "hello", session.Session{}, "greeting")
	if resp.Messages[0].Text != "error" {
		t.Fatalf("expected fallback error message, got %+v", resp.Messages)
	}
}

type panickyHooks struct{ testHooks }

func (h *panickyHooks) ToolSpecs(s session.Session) []tools.Spec {
	panic("boom: misconfigured lane")
}

type recordingLog struct {
	lane, reason string
	called       bool
	invoked      []string
	results      []string
}

func (r *recordingLog) AgentFailure(tenantID, waID, lane, reason string) {
	r.called = true
	r.lane = lane
	r.reason = reason
}

func (r *recordingLog) AgentToolInvoked(tenantID, waID, lane, tool string) {
	r.invoked = append(r.invoked, tool)
}

func (r *recordingLog) AgentToolResult(tenantID, waID, lane, tool string, isError bool) {
	r.results = append(r.results, tool)
}

func TestBase_Handle_RecoversFromPanic(t *testing.T) {
	fake := &llm.FakeClient{ChatResponses: []llm.ChatResponse{{Content: "unreachable"}}}
	log := &recordingLog{}
	base := &Base{Hooks: &panickyHooks{testHooks{lane: "info"}}, LLM: fake, Log: log}

	resp := base.Handle(context.Background(), "hello", session.Session{TenantID: "t1", WaID: "w1"}, "greeting")
	if len(resp.Messages) != 1 || resp.Messages[0].Text != "error" {
		t.Fatalf("expected one error message, got %+v", resp.Messages)
	}
	if len(resp.StatePatch) != 0 {
		t.Fatalf("expected empty patch after recovered panic, got %+v", resp.StatePatch)
	}
	if !log.called || log.lane != "info" {
		t.Fatalf("expected AgentFailure to be logged with lane info, got %+v", log)
	}
}
