package tools

import "fmt"

// RefundPolicyTool answers refund-eligibility questions against a static
// policy table keyed by reason.
type RefundPolicyTool struct {
	Policies map[string]string
}

func NewRefundPolicySpec(policies map[string]string) Spec {
	return Spec{
		Name:        "refund_policy",
		Description: "Looks up the refund policy for a given reason code.",
		Parameters: map[string]any{
			"properties": map[string]any{"reason": map[string]any{"type": "string"}},
			"required":   []any{"reason"},
		},
		New: func() Tool { return &RefundPolicyTool{Policies: policies} },
	}
}

func (t *RefundPolicyTool) Name() string               { return "refund_policy" }
func (t *RefundPolicyTool) Description() string        { return "Refund policy lookup" }
func (t *RefundPolicyTool) Parameters() map[string]any { return nil }

func (t *RefundPolicyTool) Call(args map[string]any) *Result {
	reason, _ := args["reason"].(string)
	if policy, ok := t.Policies[reason]; ok {
		return NewResult(policy)
	}
	return NewResult("No specific policy on file for that reason; default policy is a refund within 30 days with proof of purchase.")
}

// Case is a support ticket tracked against a session's active_case_id.
type Case struct {
	ID              string
	Subject         string
	EscalationLevel int
	Status          string
}

// CaseStore is the narrow read/write contract CaseManagerTool needs.
// Business logic for case creation/storage is external to this package.
type CaseStore interface {
	Get(id string) (Case, bool)
	Create(subject string) Case
	Escalate(id string) (Case, bool)
}

// CaseManagerTool creates, inspects, and escalates support cases.
type CaseManagerTool struct {
	Store CaseStore
}

func NewCaseManagerSpec(store CaseStore) Spec {
	return Spec{
		Name:        "case_manager",
		Description: "Creates, inspects, or escalates a support case.",
		Parameters: map[string]any{
			"properties": map[string]any{
				"action":  map[string]any{"type": "string", "enum": []any{"create", "get", "escalate"}},
				"case_id": map[string]any{"type": "string"},
				"subject": map[string]any{"type": "string"},
			},
			"required": []any{"action"},
		},
		New: func() Tool { return &CaseManagerTool{Store: store} },
	}
}

func (t *CaseManagerTool) Name() string               { return "case_manager" }
func (t *CaseManagerTool) Description() string        { return "Support case management" }
func (t *CaseManagerTool) Parameters() map[string]any { return nil }

func (t *CaseManagerTool) Call(args map[string]any) *Result {
	action, _ := args["action"].(string)
	switch action {
	case "create":
		subject, _ := args["subject"].(string)
		c := t.Store.Create(subject)
		return NewResult(fmt.Sprintf("Opened case %s: %s.", c.ID, c.Subject)).
			WithPatch(map[string]any{"active_case_id": c.ID})
	case "get":
		id, _ := args["case_id"].(string)
		c, ok := t.Store.Get(id)
		if !ok {
			return ErrorResult("unknown case id")
		}
		return NewResult(fmt.Sprintf("Case %s: %s (status %s, escalation level %d).", c.ID, c.Subject, c.Status, c.EscalationLevel))
	case "escalate":
		id, _ := args["case_id"].(string)
		c, ok := t.Store.Escalate(id)
		if !ok {
			return ErrorResult("unknown case id")
		}
		return NewResult(fmt.Sprintf("Case %s escalated to level %d.", c.ID, c.EscalationLevel))
	default:
		return ErrorResult("unknown case_manager action: " + action)
	}
}

// ContactSupportTool hands the conversation to a human agent by flipping
// human_handoff. Used as an explicit escalation path distinct from the
// automatic frustration-detection in post-processing.
type ContactSupportTool struct{}

func NewContactSupportSpec() Spec {
	return Spec{
		Name:        "contact_support",
		Description: "Requests a human support agent take over the conversation.",
		Parameters:  map[string]any{"properties": map[string]any{}},
		New:         func() Tool { return &ContactSupportTool{} },
	}
}

func (t *ContactSupportTool) Name() string               { return "contact_support" }
func (t *ContactSupportTool) Description() string        { return "Human handoff request" }
func (t *ContactSupportTool) Parameters() map[string]any { return nil }

func (t *ContactSupportTool) Call(args map[string]any) *Result {
	return NewResult("A human agent has been notified and will join shortly.").
		WithPatch(map[string]any{"human_handoff": true})
}
