package session

import "encoding/json"

// DefaultLocale and DefaultTimezone seed a brand-new session.
const (
	DefaultLocale   = "es-CO"
	DefaultTimezone = "America/Bogota"
	DefaultCurrency = "COP"
)

// Defaults returns the frozen template every known field defaults to.
// Strings default to "" (treated as unset) except locale, timezone,
// commerce_state and cart_currency, which carry their documented literals;
// booleans default to false, arrays to empty — a fresh value per call so
// callers can mutate freely.
func Defaults() Session {
	return Session{
		Locale:            DefaultLocale,
		Timezone:          DefaultTimezone,
		HumanHandoff:      false,
		VIP:               false,
		Turns:             []DialogueEntry{},
		PhoneVerified:     false,
		CommerceState:     CommerceBrowsing,
		CartItems:         []any{},
		CartSubtotalCents: 0,
		CartCurrency:      DefaultCurrency,
		Extra:             map[string]any{},
	}
}

// Blank returns a fresh deep copy of Defaults.
func Blank() Session {
	return Defaults().Clone()
}

// NewSession starts from Defaults and fills identity/locale/timezone.
// Empty locale/timezone fall back to the package defaults.
func NewSession(tenantID, waID, locale, timezone string) Session {
	s := Blank()
	s.TenantID = tenantID
	s.WaID = waID
	s.CurrentLane = LaneInfo
	if locale != "" {
		s.Locale = locale
	}
	if timezone != "" {
		s.Timezone = timezone
	}
	return s
}

// FromJSON hydrates a session from persisted bytes. Nil/empty input, or
// input that fails to parse as a JSON object, yields Blank(). Non-null
// arrays and non-empty scalars present in the stored value replace
// defaults; unknown fields are kept via Session.Extra.
func FromJSON(data []byte) Session {
	if len(data) == 0 {
		return Blank()
	}

	var probe any
	if err := json.Unmarshal(data, &probe); err != nil {
		return Blank()
	}
	if _, ok := probe.(map[string]any); !ok {
		return Blank()
	}

	defaults := Defaults()
	var loaded Session
	if err := json.Unmarshal(data, &loaded); err != nil {
		return Blank()
	}

	fillDefaults(&loaded, defaults)
	return loaded
}

// fillDefaults copies a default into every defaulted field the stored JSON
// left at its Go zero value. A key absent from the JSON and a key stored as
// "" (or null, for turns and cart_items) are treated alike: both get the
// default. Extra is set to an empty map when nil.
func fillDefaults(loaded *Session, defaults Session) {
	if loaded.Locale == "" {
		loaded.Locale = defaults.Locale
	}
	if loaded.Timezone == "" {
		loaded.Timezone = defaults.Timezone
	}
	if loaded.Turns == nil {
		loaded.Turns = defaults.Turns
	}
	if loaded.CommerceState == "" {
		loaded.CommerceState = defaults.CommerceState
	}
	if loaded.CartItems == nil {
		loaded.CartItems = defaults.CartItems
	}
	if loaded.CartCurrency == "" {
		loaded.CartCurrency = defaults.CartCurrency
	}
	if loaded.Extra == nil {
		loaded.Extra = map[string]any{}
	}
}
