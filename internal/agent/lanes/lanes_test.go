package lanes

import (
	"context"
	"testing"

	"github.com/sergiobayona/lexi-orchestrator/internal/llm"
	"github.com/sergiobayona/lexi-orchestrator/internal/session"
	"github.com/sergiobayona/lexi-orchestrator/internal/tools"
)

func newSessionWithTurns(turns ...session.DialogueEntry) session.Session {
	s := session.NewSession("T", "W", session.DefaultLocale, session.DefaultTimezone)
	s.Turns = append(s.Turns, turns...)
	return s
}

func TestSupportAgent_PostProcess_FlipsHandoffOnPersistentFrustration(t *testing.T) {
	entries := make([]session.DialogueEntry, 0)
	for _, text := range []string{"this is terrible", "still awful", "worst service ever"} {
		entries = append(entries, session.DialogueEntry{Role: "user", Text: text})
	}
	s := newSessionWithTurns(entries...)

	client := &llm.FakeClient{ChatResponses: []llm.ChatResponse{{Content: "I understand, let me help.", FinishReason: "stop"}}}
	a := NewSupportAgent(client, map[string]string{}, tools.NewMemCaseStore(), nil)

	resp := a.Handle(context.Background(), "worst service ever", s, "complaint")

	handoff, ok := resp.StatePatch["human_handoff"].(bool)
	if !ok || !handoff {
		t.Fatalf("expected human_handoff=true in patch, got %#v", resp.StatePatch)
	}
}

func TestSupportAgent_PostProcess_NoHandoffBelowThreshold(t *testing.T) {
	s := newSessionWithTurns(session.DialogueEntry{Role: "user", Text: "this is terrible"})
	client := &llm.FakeClient{ChatResponses: []llm.ChatResponse{{Content: "Sorry to hear that.", FinishReason: "stop"}}}
	a := NewSupportAgent(client, map[string]string{}, tools.NewMemCaseStore(), nil)

	resp := a.Handle(context.Background(), "this is terrible", s, "complaint")

	if v, ok := resp.StatePatch["human_handoff"]; ok && v == true {
		t.Fatalf("did not expect human_handoff to flip yet, got %#v", resp.StatePatch)
	}
}

func TestSupportAgent_PostProcess_FlipsHandoffOnCaseEscalation(t *testing.T) {
	store := tools.NewMemCaseStore()
	c := store.Create("refund dispute")
	store.Escalate(c.ID)
	store.Escalate(c.ID)

	s := newSessionWithTurns()
	s.ActiveCaseID = c.ID

	client := &llm.FakeClient{ChatResponses: []llm.ChatResponse{{Content: "Looking into it.", FinishReason: "stop"}}}
	a := NewSupportAgent(client, map[string]string{}, store, nil)

	resp := a.Handle(context.Background(), "any update?", s, "case_status")

	handoff, ok := resp.StatePatch["human_handoff"].(bool)
	if !ok || !handoff {
		t.Fatalf("expected human_handoff=true from case escalation, got %#v", resp.StatePatch)
	}
}

func TestOrderStatusAgent_UnverifiedPhone_AsksForVerification(t *testing.T) {
	s := session.NewSession("T", "W", session.DefaultLocale, session.DefaultTimezone)
	s.PhoneVerified = false

	client := &llm.FakeClient{ChatResponses: []llm.ChatResponse{{Content: "should not reach here", FinishReason: "stop"}}}
	a := NewOrderStatusAgent(client, tools.NewMemOrderLookup(), nil)

	resp := a.Handle(context.Background(), "where's my order?", s, "order_status")

	if len(resp.Messages) != 1 || resp.Messages[0].Text != unverifiedPromptText {
		t.Fatalf("expected unverified prompt, got %#v", resp.Messages)
	}
}

func TestOrderStatusAgent_Verified_InvokesChat(t *testing.T) {
	s := session.NewSession("T", "W", session.DefaultLocale, session.DefaultTimezone)
	s.PhoneVerified = true
	s.LastOrderID = "ord-1"

	client := &llm.FakeClient{ChatResponses: []llm.ChatResponse{{Content: "Your order is on the way.", FinishReason: "stop"}}}
	a := NewOrderStatusAgent(client, tools.NewMemOrderLookup(), nil)

	resp := a.Handle(context.Background(), "where's my order?", s, "order_status")

	if len(resp.Messages) != 1 || resp.Messages[0].Text != "Your order is on the way." {
		t.Fatalf("expected chat-driven response, got %#v", resp.Messages)
	}
}

func TestCommerceAgent_PostProcess_BatonsToOrderStatusOnCheckout(t *testing.T) {
	client := &llm.FakeClient{ChatResponses: []llm.ChatResponse{{Content: "Checking out now.", FinishReason: "stop"}}}
	catalog := tools.Catalog{}
	a := NewCommerceAgent(client, catalog, nil)

	// BuildStatePatch normally returns nil; simulate a tool having already
	// driven commerce_state to checkout via PostProcess directly.
	patch, baton := a.PostProcess("", session.Session{}, "checkout", "Checking out now.", map[string]any{"commerce_state": session.CommerceCheckout}, nil)

	if baton == nil || baton.ToLane != session.LaneOrderStatus {
		t.Fatalf("expected baton to order_status, got %#v", baton)
	}
	if patch["commerce_state"] != session.CommerceCheckout {
		t.Fatalf("expected patch preserved, got %#v", patch)
	}
}

func TestCommerceAgent_PostProcess_NoBatonWithoutCheckout(t *testing.T) {
	client := &llm.FakeClient{ChatResponses: []llm.ChatResponse{{Content: "Added to cart.", FinishReason: "stop"}}}
	a := NewCommerceAgent(client, tools.Catalog{}, nil)

	_, baton := a.PostProcess("", session.Session{}, "add_item", "Added to cart.", map[string]any{"commerce_state": session.CommerceCartActive}, nil)

	if baton != nil {
		t.Fatalf("did not expect a baton, got %#v", baton)
	}
}

func TestProductAgent_BuildContext_ResolvesAnaphora(t *testing.T) {
	s := session.NewSession("T", "W", session.DefaultLocale, session.DefaultTimezone)
	s.ApplyPatch(map[string]any{"last_searched_product_ids": []any{"sku-1", "sku-2"}})

	a := NewProductAgent(&llm.FakeClient{}, tools.Catalog{}, nil)
	ctx := a.BuildContext(s, "compare")

	if ctx != "Most recently discussed product id: sku-2" {
		t.Fatalf("unexpected context: %q", ctx)
	}
}

func TestProductAgent_BuildContext_EmptyWithoutPriorProduct(t *testing.T) {
	s := session.NewSession("T", "W", session.DefaultLocale, session.DefaultTimezone)
	a := NewProductAgent(&llm.FakeClient{}, tools.Catalog{}, nil)

	if ctx := a.BuildContext(s, "compare"); ctx != "" {
		t.Fatalf("expected empty context, got %q", ctx)
	}
}

func TestInfoAgent_Handle_ReturnsOneTextMessage(t *testing.T) {
	s := session.NewSession("T", "W", session.DefaultLocale, session.DefaultTimezone)
	client := &llm.FakeClient{ChatResponses: []llm.ChatResponse{{Content: "We're open 9-6.", FinishReason: "stop"}}}
	a := NewInfoAgent(client, map[string][2]int{}, nil, nil, nil)

	resp := a.Handle(context.Background(), "what are your hours?", s, "hours")

	if len(resp.Messages) != 1 || resp.Messages[0].Text != "We're open 9-6." {
		t.Fatalf("unexpected messages: %#v", resp.Messages)
	}
}
