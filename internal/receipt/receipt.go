// Package receipt renders and dispatches order receipts. Delivery failures
// are reported to the caller but never affect order state.
package receipt

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/chanwit-mk/marketplace-backend/internal/order"
)

// Subject returns the receipt mail subject for an order.
func Subject(o order.Order) string {
	return fmt.Sprintf("Order #%d Receipt", o.ID)
}

// Body renders the plain-text receipt: itemized lines, total, shipping block
// and payment method.
func Body(o order.Order) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Order Receipt\n\nOrder #%d\n\nItems:\n", o.ID)
	for _, line := range o.Items {
		lineTotal := line.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		fmt.Fprintf(&b, "- %s x %d - $%s\n", lineName(line), line.Quantity, lineTotal.StringFixed(2))
	}

	fmt.Fprintf(&b, "\nTotal: $%s\n", o.Total.StringFixed(2))
	fmt.Fprintf(&b, "\nShipping Details:\n%s %s\n%s\n", o.Shipping.FirstName, o.Shipping.LastName, o.Shipping.Address)
	if o.Shipping.Property != "" {
		fmt.Fprintf(&b, "%s\n", o.Shipping.Property)
	}
	fmt.Fprintf(&b, "\nPayment Method:\n%s\n", strings.ToUpper(o.PaymentMethod))

	return b.String()
}

func lineName(line order.Line) string {
	if line.Item != nil && line.Item.Name != "" {
		return line.Item.Name
	}
	return fmt.Sprintf("item #%d", line.ItemID)
}
