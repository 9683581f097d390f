package lanes

import (
	"context"
	"fmt"

	"github.com/sergiobayona/lexi-orchestrator/internal/agent"
	"github.com/sergiobayona/lexi-orchestrator/internal/llm"
	"github.com/sergiobayona/lexi-orchestrator/internal/session"
	"github.com/sergiobayona/lexi-orchestrator/internal/tools"
)

const commerceSystemPrompt = `You are the shopping assistant for a WhatsApp storefront. Help the
customer add or remove cart items, check out, and answer pricing questions. Use cart_manager
for anything touching cart contents, never state a cart total without calling a tool first.`

// CommerceAgent manages cart operations and checkout validation.
type CommerceAgent struct {
	base    *agent.Base
	Catalog tools.Catalog
}

func NewCommerceAgent(client llm.Client, catalog tools.Catalog, log agent.EventLogger) *CommerceAgent {
	a := &CommerceAgent{Catalog: catalog}
	a.base = &agent.Base{Hooks: a, LLM: client, Log: log}
	return a
}

func (a *CommerceAgent) Lane() string { return session.LaneCommerce }

func (a *CommerceAgent) Handle(ctx context.Context, text string, s session.Session, intent string) agent.Response {
	return a.base.Handle(ctx, text, s, intent)
}

func (a *CommerceAgent) ToolSpecs(s session.Session) []tools.Spec {
	cart := cartFromSession(s)
	return []tools.Spec{
		tools.NewCartManagerSpec(cart, a.Catalog),
		tools.NewProductCatalogSpec(a.Catalog),
		tools.NewCheckoutValidatorSpec(cart, a.Catalog),
	}
}

func (a *CommerceAgent) SystemInstructions() string { return commerceSystemPrompt }

func (a *CommerceAgent) BuildContext(s session.Session, intent string) string {
	cart := cartFromSession(s)
	if len(cart.Items) == 0 {
		return "The cart is currently empty."
	}
	return fmt.Sprintf("Cart has %d item line(s), subtotal %d %s so far.", len(cart.Items), cart.SubtotalCents(), cart.Currency)
}

func (a *CommerceAgent) BuildStatePatch(text string, s session.Session, intent, responseText string, toolPatch map[string]any) map[string]any {
	return nil
}

func (a *CommerceAgent) PostProcess(text string, s session.Session, intent, responseText string, statePatch, toolPatch map[string]any) (map[string]any, *agent.Baton) {
	if state, ok := statePatch["commerce_state"].(string); ok && state == "checkout" {
		return statePatch, &agent.Baton{
			ToLane:     session.LaneOrderStatus,
			Intent:     "post_checkout_followup",
			CarryState: map[string]any{},
		}
	}
	return statePatch, nil
}

func (a *CommerceAgent) BuildMessages(responseText string) []agent.OutgoingMessage {
	return []agent.OutgoingMessage{{Kind: "text", Text: responseText}}
}

func (a *CommerceAgent) ErrorMessage() string {
	return "Sorry, something went wrong managing your cart. Please try again."
}

func cartFromSession(s session.Session) tools.CartAccessor {
	items := make([]tools.CartItem, 0, len(s.CartItems))
	for _, raw := range s.CartItems {
		m, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		items = append(items, tools.CartItem{
			ProductID: asString(m["product_id"]),
			Name:      asString(m["name"]),
			Quantity:  asInt(m["quantity"]),
			UnitCents: asInt(m["unit_cents"]),
		})
	}
	currency := s.CartCurrency
	if currency == "" {
		currency = "COP"
	}
	return tools.CartAccessor{Items: items, Currency: currency}
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	default:
		return 0
	}
}
