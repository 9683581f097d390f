package tools

import (
	"fmt"
	"strings"
)

// Product is a catalog item visible to the product and commerce lanes.
type Product struct {
	ID          string
	Name        string
	PriceCents  int
	Currency    string
	Category    string
	InStock     bool
	Description string
}

// Catalog is an in-memory product lookup shared by the product and
// commerce tools. A real deployment backs this with a database; the core
// only depends on this narrow read contract, keeping tool business logic
// external to the orchestration core itself.
type Catalog struct {
	Products []Product
}

func (c Catalog) find(id string) (Product, bool) {
	for _, p := range c.Products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

func (c Catalog) search(query string) []Product {
	q := strings.ToLower(query)
	var out []Product
	for _, p := range c.Products {
		if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Category), q) {
			out = append(out, p)
		}
	}
	return out
}

// ProductSearchTool finds catalog items matching a free-text query.
type ProductSearchTool struct{ Catalog Catalog }

func NewProductSearchSpec(catalog Catalog) Spec {
	return Spec{
		Name:        "product_search",
		Description: "Searches the product catalog by name or category.",
		Parameters: map[string]any{
			"properties": map[string]any{"query": map[string]any{"type": "string"}},
			"required":   []any{"query"},
		},
		New: func() Tool { return &ProductSearchTool{Catalog: catalog} },
	}
}

func (t *ProductSearchTool) Name() string               { return "product_search" }
func (t *ProductSearchTool) Description() string        { return "Product search" }
func (t *ProductSearchTool) Parameters() map[string]any { return nil }

func (t *ProductSearchTool) Call(args map[string]any) *Result {
	query, _ := args["query"].(string)
	matches := t.Catalog.search(query)
	if len(matches) == 0 {
		return NewResult("No products matched that search.")
	}
	var sb strings.Builder
	ids := make([]any, 0, len(matches))
	for _, p := range matches {
		fmt.Fprintf(&sb, "%s (%s): %d %s\n", p.Name, p.ID, p.PriceCents, p.Currency)
		ids = append(ids, p.ID)
	}
	return NewResult(sb.String()).WithPatch(map[string]any{"last_searched_product_ids": ids})
}

// ProductDetailsTool returns the full record for a product id, supporting
// anaphora ("the other one") by falling back to the most recently
// searched/referenced id when none is given.
type ProductDetailsTool struct {
	Catalog         Catalog
	RecentProductID string
}

func NewProductDetailsSpec(catalog Catalog, recentProductID string) Spec {
	return Spec{
		Name:        "product_details",
		Description: "Returns full details for a product id.",
		Parameters: map[string]any{
			"properties": map[string]any{"product_id": map[string]any{"type": "string"}},
		},
		New: func() Tool { return &ProductDetailsTool{Catalog: catalog, RecentProductID: recentProductID} },
	}
}

func (t *ProductDetailsTool) Name() string               { return "product_details" }
func (t *ProductDetailsTool) Description() string        { return "Product details" }
func (t *ProductDetailsTool) Parameters() map[string]any { return nil }

func (t *ProductDetailsTool) Call(args map[string]any) *Result {
	id, _ := args["product_id"].(string)
	if id == "" {
		id = t.RecentProductID
	}
	p, ok := t.Catalog.find(id)
	if !ok {
		return ErrorResult("unknown product id")
	}
	return NewResult(fmt.Sprintf("%s: %s. Price %d %s. %s", p.Name, p.Description, p.PriceCents, p.Currency, stockLabel(p.InStock)))
}

// ProductAvailabilityTool reports stock status for a product id.
type ProductAvailabilityTool struct{ Catalog Catalog }

func NewProductAvailabilitySpec(catalog Catalog) Spec {
	return Spec{
		Name:        "product_availability",
		Description: "Reports whether a product is currently in stock.",
		Parameters: map[string]any{
			"properties": map[string]any{"product_id": map[string]any{"type": "string"}},
			"required":   []any{"product_id"},
		},
		New: func() Tool { return &ProductAvailabilityTool{Catalog: catalog} },
	}
}

func (t *ProductAvailabilityTool) Name() string               { return "product_availability" }
func (t *ProductAvailabilityTool) Description() string        { return "Stock check" }
func (t *ProductAvailabilityTool) Parameters() map[string]any { return nil }

func (t *ProductAvailabilityTool) Call(args map[string]any) *Result {
	id, _ := args["product_id"].(string)
	p, ok := t.Catalog.find(id)
	if !ok {
		return ErrorResult("unknown product id")
	}
	return NewResult(fmt.Sprintf("%s is %s.", p.Name, stockLabel(p.InStock)))
}

// ProductComparisonTool compares two or more products side by side.
type ProductComparisonTool struct{ Catalog Catalog }

func NewProductComparisonSpec(catalog Catalog) Spec {
	return Spec{
		Name:        "product_comparison",
		Description: "Compares two or more products by price and stock.",
		Parameters: map[string]any{
			"properties": map[string]any{
				"product_ids": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			},
			"required": []any{"product_ids"},
		},
		New: func() Tool { return &ProductComparisonTool{Catalog: catalog} },
	}
}

func (t *ProductComparisonTool) Name() string               { return "product_comparison" }
func (t *ProductComparisonTool) Description() string        { return "Product comparison" }
func (t *ProductComparisonTool) Parameters() map[string]any { return nil }

func (t *ProductComparisonTool) Call(args map[string]any) *Result {
	raw, _ := args["product_ids"].([]any)
	if len(raw) < 2 {
		return ErrorResult("product_comparison requires at least two product_ids")
	}
	var sb strings.Builder
	for _, v := range raw {
		id, _ := v.(string)
		p, ok := t.Catalog.find(id)
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "%s: %d %s, %s\n", p.Name, p.PriceCents, p.Currency, stockLabel(p.InStock))
	}
	if sb.Len() == 0 {
		return ErrorResult("none of the given product_ids were found")
	}
	return NewResult(sb.String())
}

func stockLabel(inStock bool) string {
	if inStock {
		return "in stock"
	}
	return "out of stock"
}
