package lanes

import (
	"context"

	"github.com/sergiobayona/lexi-orchestrator/internal/agent"
	"github.com/sergiobayona/lexi-orchestrator/internal/llm"
	"github.com/sergiobayona/lexi-orchestrator/internal/session"
	"github.com/sergiobayona/lexi-orchestrator/internal/tools"
)

const orderStatusSystemPrompt = `You report order status and estimated delivery for a WhatsApp
storefront. Only discuss a specific order once the customer's phone number is verified; if it
isn't, ask them to complete verification first and do not call order_lookup.`

const unverifiedPromptText = "To check your order, please verify your phone number first by replying with the code we texted you."

// OrderStatusAgent reports order status and ETA, gated on prior phone
// verification.
type OrderStatusAgent struct {
	base   *agent.Base
	Lookup tools.OrderLookup
}

func NewOrderStatusAgent(client llm.Client, lookup tools.OrderLookup, log agent.EventLogger) *OrderStatusAgent {
	a := &OrderStatusAgent{Lookup: lookup}
	a.base = &agent.Base{Hooks: a, LLM: client, Log: log}
	return a
}

func (a *OrderStatusAgent) Lane() string { return session.LaneOrderStatus }

func (a *OrderStatusAgent) Handle(ctx context.Context, text string, s session.Session, intent string) agent.Response {
	if !s.PhoneVerified {
		return agent.Response{
			Messages: []agent.OutgoingMessage{{Kind: "text", Text: unverifiedPromptText}},
		}
	}
	return a.base.Handle(ctx, text, s, intent)
}

func (a *OrderStatusAgent) ToolSpecs(s session.Session) []tools.Spec {
	return []tools.Spec{tools.NewOrderLookupSpec(a.Lookup, s.CustomerID)}
}

func (a *OrderStatusAgent) SystemInstructions() string { return orderStatusSystemPrompt }

func (a *OrderStatusAgent) BuildContext(s session.Session, intent string) string {
	if s.LastOrderID != "" {
		return "Most recent order on file: " + s.LastOrderID
	}
	return ""
}

func (a *OrderStatusAgent) BuildStatePatch(text string, s session.Session, intent, responseText string, toolPatch map[string]any) map[string]any {
	return nil
}

func (a *OrderStatusAgent) PostProcess(text string, s session.Session, intent, responseText string, statePatch, toolPatch map[string]any) (map[string]any, *agent.Baton) {
	return statePatch, nil
}

func (a *OrderStatusAgent) BuildMessages(responseText string) []agent.OutgoingMessage {
	return []agent.OutgoingMessage{{Kind: "text", Text: responseText}}
}

func (a *OrderStatusAgent) ErrorMessage() string {
	return "Sorry, I couldn't check your order status just now. Please try again shortly."
}
