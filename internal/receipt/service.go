package receipt

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/chanwit-mk/marketplace-backend/internal/order"
)

// OrderGetter loads an order after verifying ownership.
type OrderGetter interface {
	GetOwned(orderID, actorID int) (order.Order, error)
}

type Service struct {
	orders OrderGetter
	mailer Mailer
}

func NewService(orders OrderGetter, mailer Mailer) *Service {
	return &Service{orders: orders, mailer: mailer}
}

// Send mails the receipt for the order to its shipping email address. Only
// the owning customer may request it. A delivery failure is returned to the
// caller but never changes the order.
func (s *Service) Send(orderID, actorID int) error {
	o, err := s.orders.GetOwned(orderID, actorID)
	if err != nil {
		return err
	}

	log.WithField("order_id", o.ID).Info("attempting to send receipt")

	pdfBytes, err := PDF(o)
	if err != nil {
		return fmt.Errorf("render receipt pdf: %w", err)
	}

	err = s.mailer.Send(Message{
		To:         o.Shipping.Email,
		Subject:    Subject(o),
		Body:       Body(o),
		Attachment: pdfBytes,
		Filename:   fmt.Sprintf("order-%d-receipt.pdf", o.ID),
	})
	if err != nil {
		log.WithField("order_id", o.ID).Errorf("failed to send receipt email: %v", err)
		return err
	}

	log.WithField("order_id", o.ID).Info("receipt sent successfully")
	return nil
}
