package tools

import (
	"fmt"
	"time"
)

// Order is a placed order the order_status lane reports on.
type Order struct {
	ID         string
	Status     string // "placed" | "preparing" | "shipped" | "delivered"
	ETA        time.Time
	CustomerID string
}

// OrderLookup is the narrow read contract order-status tools need.
// Persistence and carrier integration are external to this package.
type OrderLookup interface {
	Get(orderID string) (Order, bool)
	LastForCustomer(customerID string) (Order, bool)
}

// OrderLookupTool reports status and ETA for an order id, or the
// customer's most recent order if no id is given.
type OrderLookupTool struct {
	Lookup     OrderLookup
	CustomerID string
}

func NewOrderLookupSpec(lookup OrderLookup, customerID string) Spec {
	return Spec{
		Name:        "order_lookup",
		Description: "Reports status and ETA for an order, defaulting to the customer's most recent order.",
		Parameters: map[string]any{
			"properties": map[string]any{"order_id": map[string]any{"type": "string"}},
		},
		New: func() Tool { return &OrderLookupTool{Lookup: lookup, CustomerID: customerID} },
	}
}

func (t *OrderLookupTool) Name() string               { return "order_lookup" }
func (t *OrderLookupTool) Description() string        { return "Order status lookup" }
func (t *OrderLookupTool) Parameters() map[string]any { return nil }

func (t *OrderLookupTool) Call(args map[string]any) *Result {
	orderID, _ := args["order_id"].(string)

	var order Order
	var ok bool
	if orderID != "" {
		order, ok = t.Lookup.Get(orderID)
	} else {
		order, ok = t.Lookup.LastForCustomer(t.CustomerID)
	}
	if !ok {
		return ErrorResult("no matching order found")
	}

	return NewResult(fmt.Sprintf("Order %s is %s, estimated arrival %s.", order.ID, order.Status, order.ETA.Format("Jan 2"))).
		WithPatch(map[string]any{"last_order_id": order.ID})
}
