package lanes

import (
	"context"
	"strings"

	"github.com/sergiobayona/lexi-orchestrator/internal/agent"
	"github.com/sergiobayona/lexi-orchestrator/internal/llm"
	"github.com/sergiobayona/lexi-orchestrator/internal/session"
	"github.com/sergiobayona/lexi-orchestrator/internal/tools"
)

const supportSystemPrompt = `You are a customer support agent for a WhatsApp storefront. Handle
refund questions, support cases, and escalate to a human when asked or when the customer is
clearly frustrated. Be empathetic and concise.`

const negativeSentimentLookback = 10
const negativeSentimentThreshold = 3
const caseEscalationThreshold = 2

var negativeSentimentWords = []string{
	"angry", "furious", "ridiculous", "terrible", "awful", "worst",
	"enojado", "molesto", "pésimo", "terrible", "horrible",
}

// SupportAgent handles refund policy questions, case management, and
// human-handoff escalation.
type SupportAgent struct {
	base     *agent.Base
	Policies map[string]string
	Cases    tools.CaseStore
}

func NewSupportAgent(client llm.Client, policies map[string]string, cases tools.CaseStore, log agent.EventLogger) *SupportAgent {
	a := &SupportAgent{Policies: policies, Cases: cases}
	a.base = &agent.Base{Hooks: a, LLM: client, Log: log}
	return a
}

func (a *SupportAgent) Lane() string { return session.LaneSupport }

func (a *SupportAgent) Handle(ctx context.Context, text string, s session.Session, intent string) agent.Response {
	return a.base.Handle(ctx, text, s, intent)
}

func (a *SupportAgent) ToolSpecs(s session.Session) []tools.Spec {
	return []tools.Spec{
		tools.NewRefundPolicySpec(a.Policies),
		tools.NewCaseManagerSpec(a.Cases),
		tools.NewContactSupportSpec(),
	}
}

func (a *SupportAgent) SystemInstructions() string { return supportSystemPrompt }

func (a *SupportAgent) BuildContext(s session.Session, intent string) string {
	if s.ActiveCaseID != "" {
		return "Active case on file: " + s.ActiveCaseID
	}
	return ""
}

func (a *SupportAgent) BuildStatePatch(text string, s session.Session, intent, responseText string, toolPatch map[string]any) map[string]any {
	return nil
}

// PostProcess flips human_handoff when the customer has shown persistent
// frustration across recent turns, or when an active case's escalation
// level is already high.
func (a *SupportAgent) PostProcess(text string, s session.Session, intent, responseText string, statePatch, toolPatch map[string]any) (map[string]any, *agent.Baton) {
	if statePatch == nil {
		statePatch = map[string]any{}
	}

	if countNegativeSentiment(s) >= negativeSentimentThreshold {
		statePatch["human_handoff"] = true
		return statePatch, nil
	}

	if s.ActiveCaseID != "" {
		if c, ok := a.Cases.Get(s.ActiveCaseID); ok && c.EscalationLevel >= caseEscalationThreshold {
			statePatch["human_handoff"] = true
		}
	}

	return statePatch, nil
}

func (a *SupportAgent) BuildMessages(responseText string) []agent.OutgoingMessage {
	return []agent.OutgoingMessage{{Kind: "text", Text: responseText}}
}

func (a *SupportAgent) ErrorMessage() string {
	return "Sorry, I'm having trouble with that request. A human agent can help if you'd like to be connected."
}

func countNegativeSentiment(s session.Session) int {
	entries := s.Turns
	if len(entries) > negativeSentimentLookback {
		entries = entries[len(entries)-negativeSentimentLookback:]
	}
	count := 0
	for _, e := range entries {
		if e.Role != "user" {
			continue
		}
		lower := strings.ToLower(e.Text)
		for _, w := range negativeSentimentWords {
			if strings.Contains(lower, w) {
				count++
				break
			}
		}
	}
	return count
}
