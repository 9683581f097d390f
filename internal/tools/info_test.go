package tools

import (
	"strings"
	"testing"
)

func TestHaversineKM_SameCoordinate(t *testing.T) {
	d := haversineKM(4.65, -74.05, 4.65, -74.05)
	if d > 0.001 {
		t.Fatalf("expected ~0 distance, got %f", d)
	}
}

func TestLocationsTool_NearestStore(t *testing.T) {
	tool := &LocationsTool{Locations: []Location{
		{Name: "Far", Lat: 10, Lng: 10},
		{Name: "Near", Lat: 4.6, Lng: -74.08},
	}}
	res := tool.Call(map[string]any{"lat": 4.65, "lng": -74.05})
	if res.IsError {
		t.Fatalf("unexpected error: %+v", res)
	}
	if !strings.Contains(res.ForLLM, "Near") {
		t.Fatalf("expected nearest store 'Near', got %q", res.ForLLM)
	}
}

func TestGeneralFaqTool_KeywordMatch(t *testing.T) {
	tool := &GeneralFaqTool{Entries: []FaqEntry{
		{Category: "shipping", Keywords: []string{"delivery", "ship"}, Answer: "We ship nationwide."},
	}}
	res := tool.Call(map[string]any{"query": "how does shipping work"})
	if res.ForLLM != "We ship nationwide." {
		t.Fatalf("got %q", res.ForLLM)
	}
}

func TestGeneralFaqTool_NoMatch(t *testing.T) {
	tool := &GeneralFaqTool{}
	res := tool.Call(map[string]any{"query": "anything"})
	if res.IsError {
		t.Fatalf("expected non-error fallback response")
	}
}
