package session

import "fmt"

// InvalidError reports a structural session validation failure.
type InvalidError struct {
	Reason string
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("session state invalid: %s", e.Reason)
}

// Validate enforces the session's structural invariants: required identity
// keys present, current_lane in the closed set. No semantic validation
// beyond structure; extra fields are always permitted.
func Validate(s Session) error {
	if s.TenantID == "" {
		return &InvalidError{Reason: "missing tenant_id"}
	}
	if s.WaID == "" {
		return &InvalidError{Reason: "missing wa_id"}
	}
	if s.CurrentLane == "" {
		return &InvalidError{Reason: "missing current_lane"}
	}
	if !IsKnownLane(s.CurrentLane) {
		return &InvalidError{Reason: fmt.Sprintf("current_lane %q is not a known lane", s.CurrentLane)}
	}
	return nil
}
