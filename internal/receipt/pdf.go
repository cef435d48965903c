package receipt

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"github.com/chanwit-mk/marketplace-backend/internal/order"
)

// PDF renders the receipt as a one-page PDF attachment.
func PDF(o order.Order) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 16)
	doc.Cell(0, 10, fmt.Sprintf("Order #%d Receipt", o.ID))
	doc.Ln(14)

	doc.SetFont("Helvetica", "B", 11)
	doc.Cell(0, 7, "Items")
	doc.Ln(8)
	doc.SetFont("Helvetica", "", 10)
	for _, line := range o.Items {
		lineTotal := line.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		doc.Cell(0, 6, fmt.Sprintf("%s x %d - $%s", lineName(line), line.Quantity, lineTotal.StringFixed(2)))
		doc.Ln(6)
	}

	doc.Ln(4)
	doc.SetFont("Helvetica", "B", 11)
	doc.Cell(0, 7, fmt.Sprintf("Total: $%s", o.Total.StringFixed(2)))
	doc.Ln(10)

	doc.SetFont("Helvetica", "B", 11)
	doc.Cell(0, 7, "Shipping Details")
	doc.Ln(8)
	doc.SetFont("Helvetica", "", 10)
	doc.Cell(0, 6, o.Shipping.FirstName+" "+o.Shipping.LastName)
	doc.Ln(6)
	doc.Cell(0, 6, o.Shipping.Address)
	doc.Ln(6)
	if o.Shipping.Property != "" {
		doc.Cell(0, 6, o.Shipping.Property)
		doc.Ln(6)
	}
	doc.Cell(0, 6, o.Shipping.ZipPostalCode)
	doc.Ln(10)

	doc.SetFont("Helvetica", "B", 11)
	doc.Cell(0, 7, "Payment Method: "+strings.ToUpper(o.PaymentMethod))

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
