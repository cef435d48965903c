package payment

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/chanwit-mk/marketplace-backend/internal/order"
)

type stubOrders struct {
	o        order.Order
	err      error
	recorded []string
}

func (s *stubOrders) GetOwned(orderID, actorID int) (order.Order, error) {
	if s.err != nil {
		return order.Order{}, s.err
	}
	return s.o, nil
}

func (s *stubOrders) RecordPaymentIntent(orderID int, intentID, status string) error {
	s.recorded = append(s.recorded, intentID+"/"+status)
	return nil
}

type stubClient struct {
	intent   Intent
	err      error
	lastAmt  decimal.Decimal
	lastRef  string
	lastCurr string
}

func (c *stubClient) CreateIntent(amount decimal.Decimal, currency, orderRef string) (Intent, error) {
	c.lastAmt, c.lastCurr, c.lastRef = amount, currency, orderRef
	if c.err != nil {
		return Intent{}, c.err
	}
	return c.intent, nil
}

func cardOrder() order.Order {
	return order.Order{ID: 10, UserID: 42, Total: decimal.NewFromInt(58),
		PaymentMethod: "card", Status: order.StatusPending}
}

func TestPay(t *testing.T) {
	orders := &stubOrders{o: cardOrder()}
	client := &stubClient{intent: Intent{ID: "pi_123", Status: "requires_confirmation"}}
	svc := NewService(orders, client)

	intent, err := svc.Pay(10, 42)
	if err != nil {
		t.Fatalf("Pay failed: %v", err)
	}
	if intent.ID != "pi_123" {
		t.Fatalf("unexpected intent %+v", intent)
	}
	if !client.lastAmt.Equal(decimal.NewFromInt(58)) || client.lastRef != "order-10" {
		t.Fatalf("intent created with wrong parameters: amount=%s ref=%s", client.lastAmt, client.lastRef)
	}
	if len(orders.recorded) != 1 || orders.recorded[0] != "pi_123/requires_confirmation" {
		t.Fatalf("intent not recorded on the order: %v", orders.recorded)
	}
}

func TestPay_OnlyCardOrders(t *testing.T) {
	o := cardOrder()
	o.PaymentMethod = "cash"
	svc := NewService(&stubOrders{o: o}, &stubClient{})

	if _, err := svc.Pay(10, 42); !errors.Is(err, ErrNotCardOrder) {
		t.Fatalf("expected ErrNotCardOrder, got %v", err)
	}
}

func TestPay_OnlyPendingOrders(t *testing.T) {
	for _, status := range []string{order.StatusProcessing, order.StatusCompleted, order.StatusCancelled} {
		o := cardOrder()
		o.Status = status
		orders := &stubOrders{o: o}
		svc := NewService(orders, &stubClient{intent: Intent{ID: "pi_123"}})

		if _, err := svc.Pay(10, 42); !errors.Is(err, ErrOrderClosed) {
			t.Fatalf("status %s: expected ErrOrderClosed, got %v", status, err)
		}
		if len(orders.recorded) != 0 {
			t.Fatalf("status %s: no intent may be recorded", status)
		}
	}
}

func TestPay_OwnershipPropagates(t *testing.T) {
	svc := NewService(&stubOrders{err: order.ErrNotOwner}, &stubClient{})
	if _, err := svc.Pay(10, 43); !errors.Is(err, order.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
}

func TestPay_ProcessorFailure(t *testing.T) {
	procErr := errors.New("payment api returned 503 Service Unavailable")
	orders := &stubOrders{o: cardOrder()}
	svc := NewService(orders, &stubClient{err: procErr})

	if _, err := svc.Pay(10, 42); !errors.Is(err, procErr) {
		t.Fatalf("expected processor error back, got %v", err)
	}
	if len(orders.recorded) != 0 {
		t.Fatal("no intent may be recorded when the processor call fails")
	}
}
