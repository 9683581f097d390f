package tools

// DemoCatalog returns a small product catalog for standalone demos.
func DemoCatalog() Catalog {
	return Catalog{Products: []Product{
		{ID: "SKU-100", Name: "Aero Running Shoes", PriceCents: 249900, Currency: "COP", Category: "footwear", InStock: true, Description: "Lightweight trainers for daily runs."},
		{ID: "SKU-200", Name: "Trail Backpack 22L", PriceCents: 189900, Currency: "COP", Category: "bags", InStock: true, Description: "Water-resistant daypack with hydration sleeve."},
		{ID: "SKU-300", Name: "Thermal Base Layer", PriceCents: 99900, Currency: "COP", Category: "apparel", InStock: false, Description: "Moisture-wicking long sleeve for cold weather."},
	}}
}

// DemoBusinessHours returns a Monday-Friday 9-18, Saturday 10-14 schedule.
func DemoBusinessHours() map[string][2]int {
	return map[string][2]int{
		"Monday":    {9, 18},
		"Tuesday":   {9, 18},
		"Wednesday": {9, 18},
		"Thursday":  {9, 18},
		"Friday":    {9, 18},
		"Saturday":  {10, 14},
	}
}

// DemoLocations returns the store locations used by LocationsTool.
func DemoLocations() []Location {
	return []Location{
		{Name: "Bogotá Centro", Lat: 4.5981, Lng: -74.0761},
		{Name: "Medellín Poblado", Lat: 6.2090, Lng: -75.5679},
		{Name: "Cali Norte", Lat: 3.4700, Lng: -76.5225},
	}
}

// DemoFaqs returns a handful of general FAQ entries.
func DemoFaqs() []FaqEntry {
	return []FaqEntry{
		{Category: "shipping", Keywords: []string{"ship", "delivery", "envio"}, Answer: "We ship nationwide in 2-5 business days."},
		{Category: "returns", Keywords: []string{"return", "refund", "devolucion"}, Answer: "Unused items can be returned within 30 days with a receipt."},
		{Category: "payment", Keywords: []string{"pay", "payment", "pago", "tarjeta"}, Answer: "We accept credit cards, debit cards, and cash on delivery."},
	}
}

// DemoRefundPolicies returns refund policy text keyed by reason code.
func DemoRefundPolicies() map[string]string {
	return map[string]string{
		"defective":    "Full refund or replacement within 90 days for manufacturing defects.",
		"wrong_size":   "Free exchange within 30 days, original tags required.",
		"changed_mind": "Refund within 15 days for unused items in original packaging.",
	}
}
