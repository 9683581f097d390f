// Package observability emits the structured, single-line JSON event log
// every public action in the core produces, via log/slog.
package observability

import (
	"log/slog"
)

// defaultMaxDigestLen is the default max_dialogue_text truncation length
// for log/summary payloads.
const defaultMaxDigestLen = 200

// Logger wraps a *slog.Logger with the core's fixed event vocabulary so
// call sites can't typo an event tag or leak untruncated user text.
type Logger struct {
	slog      *slog.Logger
	maxDigest int
}

func New(base *slog.Logger) *Logger {
	if base == nil {
		base = slog.Default()
	}
	return &Logger{slog: base, maxDigest: defaultMaxDigestLen}
}

// WithMaxDialogueText overrides the digest truncation length (the
// configured max_dialogue_text option), returning the same Logger.
func (l *Logger) WithMaxDialogueText(n int) *Logger {
	if n > 0 {
		l.maxDigest = n
	}
	return l
}

func (l *Logger) SessionCreated(tenantID, waID string) {
	l.slog.Info("session_created", "event", "session_created", "tenant_id", tenantID, "wa_id", waID)
}

func (l *Logger) ValidationError(tenantID, waID, reason string) {
	l.slog.Warn("validation_error", "event", "validation_error", "tenant_id", tenantID, "wa_id", waID, "reason", reason)
}

func (l *Logger) TurnRouted(tenantID, waID, lane, intent, text string, confidence float64) {
	l.slog.Info("turn_routed", "event", "turn_routed", "tenant_id", tenantID, "wa_id", waID, "lane", lane, "intent", intent, "confidence", confidence, "text_digest", l.Digest(text))
}

func (l *Logger) LLMFallbackUsed(tenantID, waID, reason string) {
	l.slog.Info("llm_fallback_used", "event", "llm_fallback_used", "tenant_id", tenantID, "wa_id", waID, "reason", reason)
}

func (l *Logger) BatonStop(tenantID, waID, reason, fromLane, toLane string) {
	l.slog.Info("baton_stop", "event", "baton_stop", "tenant_id", tenantID, "wa_id", waID, "reason", reason, "from_lane", fromLane, "to_lane", toLane)
}

func (l *Logger) AgentToolInvoked(tenantID, waID, lane, tool string) {
	l.slog.Info("agent_tool_invoked", "event", "agent_tool_invoked", "tenant_id", tenantID, "wa_id", waID, "lane", lane, "tool", tool)
}

func (l *Logger) AgentToolResult(tenantID, waID, lane, tool string, isError bool) {
	l.slog.Info("agent_tool_result", "event", "agent_tool_result", "tenant_id", tenantID, "wa_id", waID, "lane", lane, "tool", tool, "is_error", isError)
}

func (l *Logger) TurnCompleted(tenantID, waID, lane string) {
	l.slog.Info("turn_completed", "event", "turn_completed", "tenant_id", tenantID, "wa_id", waID, "lane", lane)
}

func (l *Logger) TurnError(tenantID, waID, kind, message string) {
	l.slog.Error("turn_error", "event", "turn_error", "tenant_id", tenantID, "wa_id", waID, "kind", kind, "message", message)
}

// AgentFailure logs a recovered panic from a concrete agent's hooks. The
// base agent loop converts this into a one-message error response rather
// than letting it propagate — see agent.Base.Handle.
func (l *Logger) AgentFailure(tenantID, waID, lane, reason string) {
	l.slog.Error("agent_failure", "event", "agent_failure", "tenant_id", tenantID, "wa_id", waID, "lane", lane, "reason", reason)
}

// Digest truncates user-visible text to the configured max_dialogue_text
// length, the only form user text may take in a log payload: no PII
// beyond tenant_id, wa_id, and a truncated digest.
func (l *Logger) Digest(text string) string {
	r := []rune(text)
	if len(r) <= l.maxDigest {
		return string(r)
	}
	return string(r[:l.maxDigest]) + "…"
}
