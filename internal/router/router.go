// Package router implements the two-tier lane routing decision: an
// optional LLM structured-output classifier with a bounded timeout,
// falling back to an ordered regex rule table. The router never returns
// an error — callers always get a usable decision.
package router

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sergiobayona/lexi-orchestrator/internal/llm"
	"github.com/sergiobayona/lexi-orchestrator/internal/session"
)

// Decision is the router's output for one turn.
type Decision struct {
	Lane       string
	Intent     string
	Confidence float64
	Reasoning  []string
}

const defaultSystemPrompt = `You classify one WhatsApp customer message into exactly one of the
following conversation lanes: info, product, commerce, support, order_status.
Emit a structured decision only. Never address the user directly.`

var decisionSchema = map[string]any{
	"properties": map[string]any{
		"lane":       map[string]any{"type": "string", "enum": []any{"info", "product", "commerce", "support", "order_status"}},
		"intent":     map[string]any{"type": "string"},
		"confidence": map[string]any{"type": "number"},
		"reasoning":  map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
	},
	"required": []any{"lane", "intent", "confidence", "reasoning"},
}

// Rule is one entry in the fallback table.
type Rule struct {
	Pattern    *regexp.Regexp
	Lane       string
	Intent     string
	Confidence float64
}

// FallbackLogger receives notice whenever the LLM path was attempted but
// fell back to the rule table. Satisfied by *observability.Logger.
type FallbackLogger interface {
	LLMFallbackUsed(tenantID, waID, reason string)
}

// Router is the stateless singleton the core consults for every turn.
type Router struct {
	LLM           llm.Client
	Enabled       bool
	Timeout       time.Duration
	Temperature   float64
	Rules         []Rule
	BusinessHours func() (open bool, weekday string)
	Log           FallbackLogger
}

// New builds a Router with the default rule table. llmClient may be nil,
// in which case the router always falls back to the rule table.
func New(llmClient llm.Client, enabled bool, timeout time.Duration) *Router {
	return &Router{
		LLM:           llmClient,
		Enabled:       enabled,
		Timeout:       timeout,
		Temperature:   0.2,
		Rules:         defaultRules(),
		BusinessHours: func() (bool, string) { return true, time.Now().UTC().Weekday().String() },
	}
}

// WithLog attaches a fallback logger, returning the same Router for chaining.
func (r *Router) WithLog(log FallbackLogger) *Router {
	r.Log = log
	return r
}

// Route produces a Decision for turn given the current session snapshot.
// It never returns an error.
func (r *Router) Route(ctx context.Context, text string, s session.Session) Decision {
	if r.Enabled && r.LLM != nil {
		if d, ok := r.routeLLM(ctx, text, s); ok {
			return d
		}
	}
	return r.routeRules(text)
}

func (r *Router) routeLLM(ctx context.Context, text string, s session.Session) (Decision, bool) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = 900 * time.Millisecond
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	prompt := buildPrompt(text, s, r.BusinessHours)
	out, err := r.LLM.ChatStructured(cctx, llm.StructuredRequest{
		SystemPrompt: defaultSystemPrompt,
		Prompt:       prompt,
		Schema:       decisionSchema,
		Temperature:  r.Temperature,
	})
	if err != nil {
		r.logFallback(s, fallbackReason(err))
		return Decision{}, false
	}

	lane, _ := out["lane"].(string)
	if !session.IsKnownLane(lane) {
		r.logFallback(s, "schema_violation")
		return Decision{}, false
	}
	intent, _ := out["intent"].(string)
	conf := toFloat(out["confidence"])
	if conf < 0 {
		conf = 0
	}
	if conf > 1 {
		conf = 1
	}
	reasoning := toStringSlice(out["reasoning"])

	return Decision{Lane: lane, Intent: intent, Confidence: conf, Reasoning: reasoning}, true
}

func (r *Router) logFallback(s session.Session, reason string) {
	if r.Log != nil {
		r.Log.LLMFallbackUsed(s.TenantID, s.WaID, reason)
	}
}

func fallbackReason(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	return "transport_error"
}

func (r *Router) routeRules(text string) Decision {
	for _, rule := range r.Rules {
		if rule.Pattern.MatchString(text) {
			return Decision{
				Lane:       rule.Lane,
				Intent:     rule.Intent,
				Confidence: rule.Confidence,
				Reasoning:  []string{"rule:" + rule.Pattern.String()},
			}
		}
	}
	return Decision{Lane: "info", Intent: "general_info", Confidence: 0.5, Reasoning: []string{"fallback"}}
}

func buildPrompt(text string, s session.Session, hours func() (bool, string)) string {
	var sb strings.Builder
	sb.WriteString("current_lane: " + s.CurrentLane + "\n")
	hasCart := len(s.CartItems) > 0
	sb.WriteString("has_cart: " + boolStr(hasCart) + "\n")
	sb.WriteString("cart_item_count: " + strconv.Itoa(len(s.CartItems)) + "\n")

	entries := s.Turns
	if len(entries) > 3 {
		entries = entries[len(entries)-3:]
	}
	for _, e := range entries {
		truncated := e.Text
		if len(truncated) > 120 {
			truncated = truncated[:120]
		}
		sb.WriteString(e.Role + ": " + truncated + "\n")
	}

	if hours != nil {
		open, weekday := hours()
		sb.WriteString("business_hours_open: " + boolStr(open) + "\n")
		sb.WriteString("weekday: " + weekday + "\n")
	}

	sb.WriteString("\nuser_message: " + text)
	return sb.String()
}

func defaultRules() []Rule {
	return []Rule{
		{regexp.MustCompile(`(?i)^\s*(hi|hello|hola|buenas|hey)\b`), "info", "greeting", 0.6},
		{regexp.MustCompile(`(?i)\b(hours?|horario|open|closed|abierto|cerrado)\b`), "info", "business_hours", 0.7},
		{regexp.MustCompile(`(?i)\b(where|location|ubicaci[oó]n|direcci[oó]n|address|store)\b`), "info", "location", 0.7},
		{regexp.MustCompile(`(?i)\b(menu|catalog|cat[aá]logo|products?|productos?)\b`), "product", "catalog_browse", 0.65},
		{regexp.MustCompile(`(?i)\b(price|precio|cost|cu[aá]nto cuesta)\b`), "product", "pricing", 0.65},
		{regexp.MustCompile(`(?i)\b(refund|reembolso|devoluci[oó]n|return|complaint|queja|problema|reclamo)\b`), "support", "complaint", 0.85},
		{regexp.MustCompile(`(?i)\b(buy|purchase|comprar|order|pedir|add to cart|carrito)\b`), "commerce", "purchase_intent", 0.75},
		{regexp.MustCompile(`(?i)\b(checkout|pagar|pago|payment)\b`), "commerce", "checkout", 0.8},
		{regexp.MustCompile(`(?i)\b(where is my order|estado de mi pedido|track|rastrear|tracking)\b`), "order_status", "order_tracking", 0.8},
		{regexp.MustCompile(`(?i)\b(help|ayuda|support|soporte|agent|human|humano)\b`), "support", "support_request", 0.6},
	}
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

func toStringSlice(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func boolStr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
