package session

import (
	"encoding/json"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	want := NewSession("T", "W", "", "")
	data, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got := FromJSON(data)

	if got.TenantID != want.TenantID || got.WaID != want.WaID {
		t.Fatalf("identity mismatch: got %+v want %+v", got, want)
	}
	if got.Locale != want.Locale || got.Timezone != want.Timezone {
		t.Fatalf("locale/timezone mismatch: got %+v want %+v", got, want)
	}
	if got.CurrentLane != want.CurrentLane {
		t.Fatalf("current_lane mismatch: got %q want %q", got.CurrentLane, want.CurrentLane)
	}
	if len(got.Turns) != len(want.Turns) {
		t.Fatalf("turns length mismatch: got %d want %d", len(got.Turns), len(want.Turns))
	}
}

func TestFromJSON_Malformed(t *testing.T) {
	cases := [][]byte{
		nil,
		[]byte(""),
		[]byte("not json"),
		[]byte(`"a string, not a mapping"`),
		[]byte(`42`),
		[]byte(`[1,2,3]`),
	}
	for _, c := range cases {
		s := FromJSON(c)
		if s.CurrentLane != "" {
			t.Fatalf("FromJSON(%q) should be blank, got current_lane=%q", c, s.CurrentLane)
		}
		if s.Locale != DefaultLocale {
			t.Fatalf("FromJSON(%q) should carry default locale, got %q", c, s.Locale)
		}
	}
}

func TestFromJSON_PreservesUnknownFields(t *testing.T) {
	raw := []byte(`{"tenant_id":"T","wa_id":"W","current_lane":"info","some_future_field":"x"}`)
	s := FromJSON(raw)
	v, ok := s.Get("some_future_field")
	if !ok || v != "x" {
		t.Fatalf("expected unknown field preserved, got %v ok=%v", v, ok)
	}
}

func TestValidate(t *testing.T) {
	valid := NewSession("T", "W", "", "")
	if err := Validate(valid); err != nil {
		t.Fatalf("expected valid session, got %v", err)
	}

	valid.Extra["anything"] = "goes"
	if err := Validate(valid); err != nil {
		t.Fatalf("extra fields must never fail validation: %v", err)
	}

	missingTenant := valid
	missingTenant.TenantID = ""
	if err := Validate(missingTenant); err == nil {
		t.Fatal("expected error for missing tenant_id")
	}

	badLane := valid
	badLane.CurrentLane = "not_a_lane"
	if err := Validate(badLane); err == nil {
		t.Fatal("expected error for unknown lane")
	}
}

func TestApplyPatch_ShallowOverlay(t *testing.T) {
	s := NewSession("T", "W", "", "")
	s.ApplyPatch(map[string]any{
		"commerce_state":      CommerceCartActive,
		"cart_subtotal_cents": 1500,
		"new_field":           "value",
	})
	if s.CommerceState != CommerceCartActive {
		t.Fatalf("commerce_state not patched: %v", s.CommerceState)
	}
	if s.CartSubtotalCents != 1500 {
		t.Fatalf("cart_subtotal_cents not patched: %v", s.CartSubtotalCents)
	}
	v, ok := s.Get("new_field")
	if !ok || v != "value" {
		t.Fatalf("unknown patch field not preserved: %v ok=%v", v, ok)
	}
}
