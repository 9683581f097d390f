package tools

import (
	"fmt"
	"strings"
)

// CartItem is one line item in a session's cart.
type CartItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitCents int    `json:"unit_cents"`
}

// CartAccessor is a snapshot of the current cart bound at tool-construction
// time; tools read and mutate it against that fixed snapshot rather than
// the live session.
type CartAccessor struct {
	Items    []CartItem
	Currency string
}

func (c CartAccessor) SubtotalCents() int {
	total := 0
	for _, it := range c.Items {
		total += it.Quantity * it.UnitCents
	}
	return total
}

// CartManagerTool adds, removes, and lists items in the cart, returning a
// state_patch the turn controller merges back into the session.
type CartManagerTool struct {
	Cart    CartAccessor
	Catalog Catalog
}

func NewCartManagerSpec(cart CartAccessor, catalog Catalog) Spec {
	return Spec{
		Name:        "cart_manager",
		Description: "Adds, removes, or lists items in the shopping cart.",
		Parameters: map[string]any{
			"properties": map[string]any{
				"action":     map[string]any{"type": "string", "enum": []any{"add", "remove", "list"}},
				"product_id": map[string]any{"type": "string"},
				"quantity":   map[string]any{"type": "integer"},
			},
			"required": []any{"action"},
		},
		New: func() Tool { return &CartManagerTool{Cart: cart, Catalog: catalog} },
	}
}

func (t *CartManagerTool) Name() string               { return "cart_manager" }
func (t *CartManagerTool) Description() string        { return "Cart management" }
func (t *CartManagerTool) Parameters() map[string]any { return nil }

func (t *CartManagerTool) Call(args map[string]any) *Result {
	action, _ := args["action"].(string)
	switch action {
	case "list":
		return t.list()
	case "add":
		return t.add(args)
	case "remove":
		return t.remove(args)
	default:
		return ErrorResult("unknown cart action: " + action)
	}
}

func (t *CartManagerTool) list() *Result {
	if len(t.Cart.Items) == 0 {
		return NewResult("The cart is empty.")
	}
	var sb strings.Builder
	for _, it := range t.Cart.Items {
		fmt.Fprintf(&sb, "%dx %s\n", it.Quantity, it.Name)
	}
	fmt.Fprintf(&sb, "Subtotal: %d %s", t.Cart.SubtotalCents(), t.Cart.Currency)
	return NewResult(sb.String())
}

func (t *CartManagerTool) add(args map[string]any) *Result {
	productID, _ := args["product_id"].(string)
	qty, _ := toFloat(args["quantity"])
	if qty <= 0 {
		qty = 1
	}
	p, ok := t.Catalog.find(productID)
	if !ok {
		return ErrorResult("unknown product id")
	}
	if !p.InStock {
		return NewResult(fmt.Sprintf("%s is currently out of stock.", p.Name))
	}

	items := append([]CartItem{}, t.Cart.Items...)
	found := false
	for i, it := range items {
		if it.ProductID == productID {
			items[i].Quantity += int(qty)
			found = true
			break
		}
	}
	if !found {
		items = append(items, CartItem{ProductID: productID, Name: p.Name, Quantity: int(qty), UnitCents: p.PriceCents})
	}

	patch := cartPatch(items, t.Cart.Currency)
	return NewResult(fmt.Sprintf("Added %d x %s to the cart.", int(qty), p.Name)).WithPatch(patch)
}

func (t *CartManagerTool) remove(args map[string]any) *Result {
	productID, _ := args["product_id"].(string)
	items := make([]CartItem, 0, len(t.Cart.Items))
	removed := false
	for _, it := range t.Cart.Items {
		if it.ProductID == productID {
			removed = true
			continue
		}
		items = append(items, it)
	}
	if !removed {
		return ErrorResult("product not in cart")
	}
	patch := cartPatch(items, t.Cart.Currency)
	return NewResult("Removed item from the cart.").WithPatch(patch)
}

func cartPatch(items []CartItem, currency string) map[string]any {
	anyItems := make([]any, len(items))
	subtotal := 0
	for i, it := range items {
		anyItems[i] = map[string]any{
			"product_id": it.ProductID,
			"name":       it.Name,
			"quantity":   it.Quantity,
			"unit_cents": it.UnitCents,
		}
		subtotal += it.Quantity * it.UnitCents
	}
	state := "browsing"
	if len(items) > 0 {
		state = "cart_active"
	}
	return map[string]any{
		"cart_items":          anyItems,
		"cart_subtotal_cents": subtotal,
		"cart_currency":       currency,
		"commerce_state":      state,
	}
}

// ProductCatalogTool is the commerce lane's read-only view of the
// catalog, distinct from the product lane's richer search/compare tools.
type ProductCatalogTool struct{ Catalog Catalog }

func NewProductCatalogSpec(catalog Catalog) Spec {
	return Spec{
		Name:        "product_catalog",
		Description: "Looks up a product's price and availability for cart operations.",
		Parameters: map[string]any{
			"properties": map[string]any{"product_id": map[string]any{"type": "string"}},
			"required":   []any{"product_id"},
		},
		New: func() Tool { return &ProductCatalogTool{Catalog: catalog} },
	}
}

func (t *ProductCatalogTool) Name() string               { return "product_catalog" }
func (t *ProductCatalogTool) Description() string        { return "Catalog lookup" }
func (t *ProductCatalogTool) Parameters() map[string]any { return nil }

func (t *ProductCatalogTool) Call(args map[string]any) *Result {
	id, _ := args["product_id"].(string)
	p, ok := t.Catalog.find(id)
	if !ok {
		return ErrorResult("unknown product id")
	}
	return NewResult(fmt.Sprintf("%s: %d %s, %s", p.Name, p.PriceCents, p.Currency, stockLabel(p.InStock)))
}

// CheckoutValidatorTool validates that a cart is ready to check out:
// non-empty, every line item still in stock.
type CheckoutValidatorTool struct {
	Cart    CartAccessor
	Catalog Catalog
}

func NewCheckoutValidatorSpec(cart CartAccessor, catalog Catalog) Spec {
	return Spec{
		Name:        "checkout_validator",
		Description: "Validates the cart is ready for checkout.",
		Parameters:  map[string]any{"properties": map[string]any{}},
		New:         func() Tool { return &CheckoutValidatorTool{Cart: cart, Catalog: catalog} },
	}
}

func (t *CheckoutValidatorTool) Name() string               { return "checkout_validator" }
func (t *CheckoutValidatorTool) Description() string        { return "Checkout validation" }
func (t *CheckoutValidatorTool) Parameters() map[string]any { return nil }

func (t *CheckoutValidatorTool) Call(args map[string]any) *Result {
	if len(t.Cart.Items) == 0 {
		return NewResult("Cart is empty, cannot check out.")
	}
	for _, it := range t.Cart.Items {
		p, ok := t.Catalog.find(it.ProductID)
		if !ok || !p.InStock {
			return NewResult(fmt.Sprintf("%s is no longer available; please remove it before checking out.", it.Name))
		}
	}
	return NewResult(fmt.Sprintf("Cart is ready for checkout: %d %s.", t.Cart.SubtotalCents(), t.Cart.Currency)).
		WithPatch(map[string]any{"commerce_state": "checkout"})
}
