package payment

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/chanwit-mk/marketplace-backend/internal/order"
)

var (
	ErrNotCardOrder = errors.New("order is not paid by card")
	ErrOrderClosed  = errors.New("order is no longer awaiting payment")
)

// IntentCreator is the processor client surface the service needs.
type IntentCreator interface {
	CreateIntent(amount decimal.Decimal, currency, orderRef string) (Intent, error)
}

// OrderAccess loads owned orders and stores the intent correlation fields.
type OrderAccess interface {
	GetOwned(orderID, actorID int) (order.Order, error)
	RecordPaymentIntent(orderID int, intentID, status string) error
}

type Service struct {
	orders OrderAccess
	client IntentCreator
}

func NewService(orders OrderAccess, client IntentCreator) *Service {
	return &Service{orders: orders, client: client}
}

// Pay creates a payment intent for a pending card order and stores the
// processor's reference on the order. Order status is not touched;
// fulfillment remains a merchant-driven transition.
func (s *Service) Pay(orderID, actorID int) (Intent, error) {
	o, err := s.orders.GetOwned(orderID, actorID)
	if err != nil {
		return Intent{}, err
	}
	if o.PaymentMethod != "card" {
		return Intent{}, ErrNotCardOrder
	}
	if o.Status != order.StatusPending {
		return Intent{}, ErrOrderClosed
	}

	intent, err := s.client.CreateIntent(o.Total, "usd", fmt.Sprintf("order-%d", o.ID))
	if err != nil {
		return Intent{}, err
	}

	if err := s.orders.RecordPaymentIntent(o.ID, intent.ID, intent.Status); err != nil {
		return Intent{}, err
	}
	return intent, nil
}
