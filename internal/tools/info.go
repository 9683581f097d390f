package tools

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// BusinessHoursTool answers whether a store location is open right now.
type BusinessHoursTool struct {
	Now   time.Time
	Hours map[string][2]int // weekday name -> [openHour, closeHour], 24h clock
}

func NewBusinessHoursSpec(hours map[string][2]int) Spec {
	return Spec{
		Name:        "business_hours",
		Description: "Reports whether the business is currently open and its hours for a given weekday.",
		Parameters: map[string]any{
			"properties": map[string]any{
				"weekday": map[string]any{"type": "string", "description": "Weekday name, defaults to today"},
			},
		},
		New: func() Tool {
			return &BusinessHoursTool{Now: time.Now().UTC(), Hours: hours}
		},
	}
}

func (t *BusinessHoursTool) Name() string        { return "business_hours" }
func (t *BusinessHoursTool) Description() string { return "Business hours lookup" }
func (t *BusinessHoursTool) Parameters() map[string]any {
	return map[string]any{"properties": map[string]any{"weekday": map[string]any{"type": "string"}}}
}

func (t *BusinessHoursTool) Call(args map[string]any) *Result {
	weekday, _ := args["weekday"].(string)
	if weekday == "" {
		weekday = t.Now.Weekday().String()
	}
	window, ok := t.Hours[weekday]
	if !ok {
		return NewResult(fmt.Sprintf("No hours on record for %s.", weekday))
	}
	open, close := window[0], window[1]
	hour := t.Now.Hour()
	isOpen := hour >= open && hour < close
	status := "closed"
	if isOpen {
		status = "open"
	}
	return NewResult(fmt.Sprintf("%s is %s on %s (%02d:00-%02d:00 UTC).", "Store", status, weekday, open, close))
}

// Location is one physical store location.
type Location struct {
	Name string
	Lat  float64
	Lng  float64
}

// LocationsTool finds the store location nearest to a coordinate using
// the haversine great-circle distance formula.
type LocationsTool struct {
	Locations []Location
}

func NewLocationsSpec(locations []Location) Spec {
	return Spec{
		Name:        "locations",
		Description: "Finds the nearest store locations to a latitude/longitude pair.",
		Parameters: map[string]any{
			"properties": map[string]any{
				"lat": map[string]any{"type": "number"},
				"lng": map[string]any{"type": "number"},
			},
			"required": []any{"lat", "lng"},
		},
		New: func() Tool { return &LocationsTool{Locations: locations} },
	}
}

func (t *LocationsTool) Name() string               { return "locations" }
func (t *LocationsTool) Description() string        { return "Nearest-store lookup" }
func (t *LocationsTool) Parameters() map[string]any { return nil }

func (t *LocationsTool) Call(args map[string]any) *Result {
	lat, latOK := toFloat(args["lat"])
	lng, lngOK := toFloat(args["lng"])
	if !latOK || !lngOK {
		return ErrorResult("locations tool requires numeric lat and lng")
	}
	if len(t.Locations) == 0 {
		return NewResult("No store locations on record.")
	}

	type scored struct {
		Location
		km float64
	}
	ranked := make([]scored, 0, len(t.Locations))
	for _, loc := range t.Locations {
		ranked = append(ranked, scored{loc, haversineKM(lat, lng, loc.Lat, loc.Lng)})
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].km < ranked[j].km })

	nearest := ranked[0]
	return NewResult(fmt.Sprintf("Nearest store: %s (%.1f km away).", nearest.Name, nearest.km))
}

// haversineKM returns the great-circle distance in kilometers between two
// lat/lng points.
func haversineKM(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadiusKM = 6371.0
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLng := (lng2 - lng1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKM * c
}

// FaqEntry is one general-FAQ record.
type FaqEntry struct {
	Category string
	Keywords []string
	Answer   string
}

// GeneralFaqTool answers free-form questions by keyword/category match
// against a static FAQ table.
type GeneralFaqTool struct {
	Entries []FaqEntry
}

func NewGeneralFaqSpec(entries []FaqEntry) Spec {
	return Spec{
		Name:        "general_faq",
		Description: "Searches the general FAQ table by keyword or category.",
		Parameters: map[string]any{
			"properties": map[string]any{
				"query": map[string]any{"type": "string"},
			},
			"required": []any{"query"},
		},
		New: func() Tool { return &GeneralFaqTool{Entries: entries} },
	}
}

func (t *GeneralFaqTool) Name() string               { return "general_faq" }
func (t *GeneralFaqTool) Description() string        { return "General FAQ search" }
func (t *GeneralFaqTool) Parameters() map[string]any { return nil }

func (t *GeneralFaqTool) Call(args map[string]any) *Result {
	query, _ := args["query"].(string)
	q := strings.ToLower(query)
	for _, e := range t.Entries {
		if strings.Contains(strings.ToLower(e.Category), q) {
			return NewResult(e.Answer)
		}
		for _, kw := range e.Keywords {
			if strings.Contains(q, strings.ToLower(kw)) {
				return NewResult(e.Answer)
			}
		}
	}
	return NewResult("I don't have a FAQ entry matching that question.")
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}
