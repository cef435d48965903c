package receipt

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/chanwit-mk/marketplace-backend/internal/item"
	"github.com/chanwit-mk/marketplace-backend/internal/order"
)

func sampleOrder() order.Order {
	lamp := item.Item{ID: 1, Name: "Desk Lamp"}
	return order.Order{
		ID:     10,
		UserID: 42,
		Total:  decimal.NewFromInt(58),
		Shipping: order.ShippingInfo{
			FirstName:     "Ada",
			LastName:      "Lovelace",
			Address:       "12 Analytical St",
			Property:      "Apt 4",
			ZipPostalCode: "90001",
			Email:         "ada@example.com",
		},
		PaymentMethod: "cash",
		Status:        order.StatusPending,
		Items: []order.Line{
			{ItemID: 1, Quantity: 2, Price: decimal.NewFromInt(25), Item: &lamp},
			{ItemID: 2, Quantity: 1, Price: decimal.NewFromInt(8)},
		},
	}
}

func TestBody(t *testing.T) {
	body := Body(sampleOrder())

	for _, want := range []string{
		"Order #10",
		"Desk Lamp x 2 - $50.00",
		"item #2 x 1 - $8.00",
		"Total: $58.00",
		"Ada Lovelace",
		"12 Analytical St",
		"Apt 4",
		"CASH",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("receipt body missing %q:\n%s", want, body)
		}
	}
}

func TestSubject(t *testing.T) {
	if got := Subject(sampleOrder()); got != "Order #10 Receipt" {
		t.Fatalf("unexpected subject %q", got)
	}
}

func TestPDF(t *testing.T) {
	b, err := PDF(sampleOrder())
	if err != nil {
		t.Fatalf("PDF render failed: %v", err)
	}
	if !bytes.HasPrefix(b, []byte("%PDF")) {
		t.Fatalf("output is not a PDF, starts with %q", b[:min(8, len(b))])
	}
}

type stubOrders struct {
	o   order.Order
	err error
}

func (s stubOrders) GetOwned(orderID, actorID int) (order.Order, error) {
	if s.err != nil {
		return order.Order{}, s.err
	}
	return s.o, nil
}

type captureMailer struct {
	sent []Message
	err  error
}

func (m *captureMailer) Send(msg Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func TestSend(t *testing.T) {
	mailer := &captureMailer{}
	svc := NewService(stubOrders{o: sampleOrder()}, mailer)

	if err := svc.Send(10, 42); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(mailer.sent))
	}

	msg := mailer.sent[0]
	if msg.To != "ada@example.com" {
		t.Fatalf("receipt addressed to %q, want shipping email", msg.To)
	}
	if msg.Subject != "Order #10 Receipt" {
		t.Fatalf("unexpected subject %q", msg.Subject)
	}
	if msg.Filename != "order-10-receipt.pdf" {
		t.Fatalf("unexpected attachment name %q", msg.Filename)
	}
	if !bytes.HasPrefix(msg.Attachment, []byte("%PDF")) {
		t.Fatal("attachment is not a PDF")
	}
}

func TestSend_OwnershipCheck(t *testing.T) {
	mailer := &captureMailer{}
	svc := NewService(stubOrders{err: order.ErrNotOwner}, mailer)

	if err := svc.Send(10, 43); !errors.Is(err, order.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if len(mailer.sent) != 0 {
		t.Fatal("no mail may be sent for a foreign order")
	}
}

func TestSend_DeliveryFailureIsReturned(t *testing.T) {
	mailErr := errors.New("mail api returned 502 Bad Gateway")
	svc := NewService(stubOrders{o: sampleOrder()}, &captureMailer{err: mailErr})

	if err := svc.Send(10, 42); !errors.Is(err, mailErr) {
		t.Fatalf("expected the delivery error back, got %v", err)
	}
}
