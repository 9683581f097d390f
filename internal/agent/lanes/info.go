// Package lanes holds the five concrete lane agents: info, product,
// commerce, support, order_status. Each wraps agent.Base with its own
// tool selection, prompt, and post-processing.
package lanes

import (
	"context"

	"github.com/sergiobayona/lexi-orchestrator/internal/agent"
	"github.com/sergiobayona/lexi-orchestrator/internal/llm"
	"github.com/sergiobayona/lexi-orchestrator/internal/session"
	"github.com/sergiobayona/lexi-orchestrator/internal/tools"
)

const infoSystemPrompt = `You are the information desk for a WhatsApp storefront. Answer
questions about business hours, store locations, and general FAQs using your tools.
Keep replies short and friendly. Never invent hours or addresses not returned by a tool.`

// InfoAgent answers business-hours, location, and general-FAQ questions.
type InfoAgent struct {
	base  *agent.Base
	Hours map[string][2]int
	Locs  []tools.Location
	Faqs  []tools.FaqEntry
}

// NewInfoAgent builds the info lane agent. hours/locs/faqs are the static
// content tables the tools search against.
func NewInfoAgent(client llm.Client, hours map[string][2]int, locs []tools.Location, faqs []tools.FaqEntry, log agent.EventLogger) *InfoAgent {
	a := &InfoAgent{Hours: hours, Locs: locs, Faqs: faqs}
	a.base = &agent.Base{Hooks: a, LLM: client, Log: log}
	return a
}

func (a *InfoAgent) Lane() string { return session.LaneInfo }

func (a *InfoAgent) Handle(ctx context.Context, text string, s session.Session, intent string) agent.Response {
	return a.base.Handle(ctx, text, s, intent)
}

func (a *InfoAgent) ToolSpecs(s session.Session) []tools.Spec {
	return []tools.Spec{
		tools.NewBusinessHoursSpec(a.Hours),
		tools.NewLocationsSpec(a.Locs),
		tools.NewGeneralFaqSpec(a.Faqs),
	}
}

func (a *InfoAgent) SystemInstructions() string { return infoSystemPrompt }

func (a *InfoAgent) BuildContext(s session.Session, intent string) string { return "" }

func (a *InfoAgent) BuildStatePatch(text string, s session.Session, intent, responseText string, toolPatch map[string]any) map[string]any {
	return nil
}

func (a *InfoAgent) PostProcess(text string, s session.Session, intent, responseText string, statePatch, toolPatch map[string]any) (map[string]any, *agent.Baton) {
	return statePatch, nil
}

func (a *InfoAgent) BuildMessages(responseText string) []agent.OutgoingMessage {
	return []agent.OutgoingMessage{{Kind: "text", Text: responseText}}
}

func (a *InfoAgent) ErrorMessage() string {
	return "Sorry, I'm having trouble looking that up right now. Please try again in a moment."
}
