// Package session defines the flat, forward-compatible session schema shared
// by every (tenant_id, wa_id) conversation, plus the contract that hydrates
// it from persisted JSON and validates its structure before and after a
// patch is applied.
package session

import "encoding/json"

// Known lanes. Closed set — the router, registry, and validator all treat
// this as the single source of truth.
const (
	LaneInfo        = "info"
	LaneCommerce    = "commerce"
	LaneSupport     = "support"
	LaneProduct     = "product"
	LaneOrderStatus = "order_status"
)

// Lanes lists the closed lane set in a stable order, used for validation,
// for the router's lane check, and for the registry's wiring check.
var Lanes = []string{LaneInfo, LaneCommerce, LaneSupport, LaneProduct, LaneOrderStatus}

// IsKnownLane reports whether lane is one of the closed set.
func IsKnownLane(lane string) bool {
	for _, l := range Lanes {
		if l == lane {
			return true
		}
	}
	return false
}

// Commerce sub-states, tracked in the flat session under "commerce_state".
const (
	CommerceBrowsing      = "browsing"
	CommerceCartActive    = "cart_active"
	CommerceReviewingCart = "reviewing_cart"
	CommerceCheckout      = "checkout"
	CommerceProductInq    = "product_inquiry"
)

// DialogueEntry is one element of a session's turns array: a user message
// snapshot or an assistant response bundle. Role discriminates which fields
// are meaningful.
type DialogueEntry struct {
	Role      string     `json:"role"` // "user" | "assistant"
	Timestamp string     `json:"timestamp"`
	Text      string     `json:"text,omitempty"`       // user entries
	MessageID string     `json:"message_id,omitempty"` // user entries
	Lane      string     `json:"lane,omitempty"`       // assistant entries
	Messages  []Outgoing `json:"messages,omitempty"`   // assistant entries
}

// Outgoing is a tagged WhatsApp-bound message: a text body, or an
// interactive button/list payload. Kind discriminates.
type Outgoing struct {
	Kind        string       `json:"kind"` // "text" | "interactive"
	Text        string       `json:"text,omitempty"`
	Interactive *Interactive `json:"interactive,omitempty"`
}

// Interactive carries either a button or a list sub-kind payload.
type Interactive struct {
	SubKind  string           `json:"sub_kind"` // "button" | "list"
	Body     string           `json:"body"`
	Buttons  []InteractiveBtn `json:"buttons,omitempty"`
	Sections []ListSection    `json:"sections,omitempty"`
}

// InteractiveBtn is one reply button (WhatsApp limit: title <= 20 chars).
type InteractiveBtn struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ListSection is one section of a list message (limit: 10 rows/section).
type ListSection struct {
	Title string    `json:"title"`
	Rows  []ListRow `json:"rows"`
}

// ListRow is one selectable row within a list section.
type ListRow struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Session is the flat, per-(tenant_id, wa_id) mapping that captures all
// state needed to handle subsequent turns. Known fields are typed for
// convenient access; Extra preserves any field the builder didn't
// recognize, so unknown fields survive a round trip unchanged.
type Session struct {
	TenantID           string          `json:"tenant_id"`
	WaID               string          `json:"wa_id"`
	CurrentLane        string          `json:"current_lane"`
	Locale             string          `json:"locale"`
	Timezone           string          `json:"timezone"`
	HumanHandoff       bool            `json:"human_handoff"`
	VIP                bool            `json:"vip"`
	Turns              []DialogueEntry `json:"turns"`
	LastUserMsgID      string          `json:"last_user_msg_id"`
	LastAssistantMsgID string          `json:"last_assistant_msg_id"`
	PhoneVerified      bool            `json:"phone_verified"`
	CustomerID         string          `json:"customer_id"`
	CommerceState      string          `json:"commerce_state"`
	CartItems          []any           `json:"cart_items"`
	CartSubtotalCents  int             `json:"cart_subtotal_cents"`
	CartCurrency       string          `json:"cart_currency"`
	ActiveCaseID       string          `json:"active_case_id"`
	LastOrderID        string          `json:"last_order_id"`
	UpdatedAt          string          `json:"updated_at"`

	// Extra holds any field not recognized above, preserved verbatim across
	// load/save round-trips.
	Extra map[string]any `json:"-"`
}

// knownFields lists the JSON tags owned by typed struct fields, so
// marshal/unmarshal can route everything else through Extra.
var knownFields = map[string]bool{
	"tenant_id": true, "wa_id": true, "current_lane": true, "locale": true,
	"timezone": true, "human_handoff": true, "vip": true, "turns": true,
	"last_user_msg_id": true, "last_assistant_msg_id": true, "phone_verified": true,
	"customer_id": true, "commerce_state": true, "cart_items": true,
	"cart_subtotal_cents": true, "cart_currency": true, "active_case_id": true,
	"last_order_id": true, "updated_at": true,
}

// MarshalJSON flattens typed fields and Extra into one JSON object.
func (s Session) MarshalJSON() ([]byte, error) {
	type alias Session
	base, err := json.Marshal(alias(s))
	if err != nil {
		return nil, err
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(base, &m); err != nil {
		return nil, err
	}
	for k, v := range s.Extra {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		m[k] = raw
	}
	return json.Marshal(m)
}

// UnmarshalJSON hydrates typed fields, stashing unrecognized keys in Extra.
func (s *Session) UnmarshalJSON(data []byte) error {
	type alias Session
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*s = Session(a)

	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	extra := make(map[string]any)
	for k, raw := range m {
		if knownFields[k] {
			continue
		}
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			continue
		}
		extra[k] = v
	}
	s.Extra = extra
	return nil
}

// Clone returns a deep copy via a JSON round-trip, avoiding bespoke
// deep-copy code for the nested slices and maps.
func (s Session) Clone() Session {
	data, err := json.Marshal(s)
	if err != nil {
		return s
	}
	var out Session
	if err := json.Unmarshal(data, &out); err != nil {
		return s
	}
	return out
}

// Get reads a field by name, checking the typed scalar fields first and
// falling back to Extra. turns, cart_items, last_user_msg_id and
// last_assistant_msg_id are not readable through Get. Used by agents/tools
// that need generic field access for a state_patch overlay.
func (s Session) Get(key string) (any, bool) {
	switch key {
	case "tenant_id":
		return s.TenantID, true
	case "wa_id":
		return s.WaID, true
	case "current_lane":
		return s.CurrentLane, true
	case "locale":
		return s.Locale, true
	case "timezone":
		return s.Timezone, true
	case "human_handoff":
		return s.HumanHandoff, true
	case "vip":
		return s.VIP, true
	case "phone_verified":
		return s.PhoneVerified, true
	case "customer_id":
		return s.CustomerID, true
	case "commerce_state":
		return s.CommerceState, true
	case "cart_subtotal_cents":
		return s.CartSubtotalCents, true
	case "cart_currency":
		return s.CartCurrency, true
	case "active_case_id":
		return s.ActiveCaseID, true
	case "last_order_id":
		return s.LastOrderID, true
	case "updated_at":
		return s.UpdatedAt, true
	default:
		v, ok := s.Extra[key]
		return v, ok
	}
}

// ApplyPatch overlays patch onto the session: new keys win. The overlay
// is shallow by design, matching the session's flat shape.
func (s *Session) ApplyPatch(patch map[string]any) {
	if len(patch) == 0 {
		return
	}
	for k, v := range patch {
		s.setField(k, v)
	}
}

func (s *Session) setField(key string, v any) {
	switch key {
	case "current_lane":
		if str, ok := v.(string); ok {
			s.CurrentLane = str
		}
	case "locale":
		if str, ok := v.(string); ok {
			s.Locale = str
		}
	case "timezone":
		if str, ok := v.(string); ok {
			s.Timezone = str
		}
	case "human_handoff":
		if b, ok := v.(bool); ok {
			s.HumanHandoff = b
		}
	case "vip":
		if b, ok := v.(bool); ok {
			s.VIP = b
		}
	case "phone_verified":
		if b, ok := v.(bool); ok {
			s.PhoneVerified = b
		}
	case "customer_id":
		if str, ok := v.(string); ok {
			s.CustomerID = str
		}
	case "commerce_state":
		if str, ok := v.(string); ok {
			s.CommerceState = str
		}
	case "cart_items":
		if arr, ok := v.([]any); ok {
			s.CartItems = arr
		}
	case "cart_subtotal_cents":
		s.CartSubtotalCents = toInt(v)
	case "cart_currency":
		if str, ok := v.(string); ok {
			s.CartCurrency = str
		}
	case "active_case_id":
		if str, ok := v.(string); ok {
			s.ActiveCaseID = str
		}
	case "last_order_id":
		if str, ok := v.(string); ok {
			s.LastOrderID = str
		}
	case "updated_at":
		if str, ok := v.(string); ok {
			s.UpdatedAt = str
		}
	case "tenant_id", "wa_id", "turns", "last_user_msg_id", "last_assistant_msg_id":
		// Identity and dialogue-owned fields are never set via a generic
		// patch — the controller owns them directly.
	default:
		if s.Extra == nil {
			s.Extra = make(map[string]any)
		}
		s.Extra[key] = v
	}
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}
