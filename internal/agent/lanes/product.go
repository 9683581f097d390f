package lanes

import (
	"context"
	"fmt"

	"github.com/sergiobayona/lexi-orchestrator/internal/agent"
	"github.com/sergiobayona/lexi-orchestrator/internal/llm"
	"github.com/sergiobayona/lexi-orchestrator/internal/session"
	"github.com/sergiobayona/lexi-orchestrator/internal/tools"
)

const productSystemPrompt = `You are a product specialist for a WhatsApp storefront. Help customers
search the catalog, inspect product details, check availability, and compare products. When a
customer refers to "the other one" or similar, resolve it against the most recently discussed
product using the context you are given.`

// ProductAgent handles catalog search, details, availability, and
// comparison questions.
type ProductAgent struct {
	base    *agent.Base
	Catalog tools.Catalog
}

func NewProductAgent(client llm.Client, catalog tools.Catalog, log agent.EventLogger) *ProductAgent {
	a := &ProductAgent{Catalog: catalog}
	a.base = &agent.Base{Hooks: a, LLM: client, Log: log}
	return a
}

func (a *ProductAgent) Lane() string { return session.LaneProduct }

func (a *ProductAgent) Handle(ctx context.Context, text string, s session.Session, intent string) agent.Response {
	return a.base.Handle(ctx, text, s, intent)
}

func (a *ProductAgent) ToolSpecs(s session.Session) []tools.Spec {
	recent := mostRecentProductID(s)
	return []tools.Spec{
		tools.NewProductSearchSpec(a.Catalog),
		tools.NewProductDetailsSpec(a.Catalog, recent),
		tools.NewProductAvailabilitySpec(a.Catalog),
		tools.NewProductComparisonSpec(a.Catalog),
	}
}

func (a *ProductAgent) SystemInstructions() string { return productSystemPrompt }

// BuildContext surfaces the most recently searched product id so the
// model can resolve anaphoric references before calling a tool.
func (a *ProductAgent) BuildContext(s session.Session, intent string) string {
	recent := mostRecentProductID(s)
	if recent == "" {
		return ""
	}
	return fmt.Sprintf("Most recently discussed product id: %s", recent)
}

func (a *ProductAgent) BuildStatePatch(text string, s session.Session, intent, responseText string, toolPatch map[string]any) map[string]any {
	return nil
}

func (a *ProductAgent) PostProcess(text string, s session.Session, intent, responseText string, statePatch, toolPatch map[string]any) (map[string]any, *agent.Baton) {
	return statePatch, nil
}

func (a *ProductAgent) BuildMessages(responseText string) []agent.OutgoingMessage {
	return []agent.OutgoingMessage{{Kind: "text", Text: responseText}}
}

func (a *ProductAgent) ErrorMessage() string {
	return "Sorry, I couldn't look up that product right now. Please try again shortly."
}

// mostRecentProductID returns the last id in the session's
// last_searched_product_ids field (written by the product_search tool's
// patch), falling back to empty.
func mostRecentProductID(s session.Session) string {
	if v, ok := s.Get("last_searched_product_ids"); ok {
		if ids, ok := v.([]any); ok && len(ids) > 0 {
			if id, ok := ids[len(ids)-1].(string); ok {
				return id
			}
		}
	}
	return ""
}
