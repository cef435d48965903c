package order

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/chanwit-mk/marketplace-backend/internal/item"
)

// RefChecker validates the shipping destination references.
type RefChecker interface {
	RefsExist(countryID, stateID, cityID int) (bool, error)
}

// ItemGetter is the slice of the item service checkout needs.
type ItemGetter interface {
	GetByID(id int) (item.Item, error)
}

// Service implements the order lifecycle: placement, cancellation and the
// merchant status transitions.
type Service struct {
	repo  Repository
	geo   RefChecker
	items ItemGetter
}

func NewService(repo Repository, geo RefChecker, items ItemGetter) *Service {
	return &Service{repo: repo, geo: geo, items: items}
}

// LineInput is one checkout line as submitted by the client.
type LineInput struct {
	ItemID   int             `json:"item_id"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// PlaceInput is the checkout payload.
type PlaceInput struct {
	Shipping      ShippingInfo
	PaymentMethod string
	Items         []LineInput
	Total         decimal.Decimal
}

// Place validates the checkout input and creates the order with status
// pending. The line prices and the total are stored exactly as submitted by
// the client; they are NOT recomputed from the catalog. That trust boundary
// is confined to this function. Stock is not touched here; availability is
// enforced when the order later moves to processing.
func (s *Service) Place(userID int, in PlaceInput) (Order, error) {
	if err := s.validate(in); err != nil {
		return Order{}, err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	o := Order{
		UserID:        userID,
		Total:         in.Total,
		Shipping:      in.Shipping,
		PaymentMethod: in.PaymentMethod,
		Status:        StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, li := range in.Items {
		o.Items = append(o.Items, Line{
			ItemID:   li.ItemID,
			Quantity: li.Quantity,
			Price:    li.Price,
		})
	}

	return s.repo.Create(o)
}

func (s *Service) validate(in PlaceInput) error {
	sh := in.Shipping
	required := []struct{ field, value string }{
		{"shipping_first_name", sh.FirstName},
		{"shipping_last_name", sh.LastName},
		{"shipping_address", sh.Address},
		{"shipping_zip_postal_code", sh.ZipPostalCode},
		{"shipping_phone", sh.Phone},
		{"shipping_email", sh.Email},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return invalid(f.field, "required")
		}
	}
	if !strings.Contains(sh.Email, "@") {
		return invalid("shipping_email", "must be a valid email address")
	}

	if in.PaymentMethod != "card" && in.PaymentMethod != "cash" {
		return invalid("payment_method", "must be card or cash")
	}

	if len(in.Items) == 0 {
		return invalid("items", "required")
	}
	for _, li := range in.Items {
		if li.Quantity < 1 {
			return invalid("items.quantity", "must be at least 1")
		}
		if li.Price.LessThan(decimal.Zero) {
			return invalid("items.price", "must be non-negative")
		}
		if _, err := s.items.GetByID(li.ItemID); err != nil {
			if err == item.ErrNotFound {
				return invalid("items.item_id", "item does not exist")
			}
			return err
		}
	}
	if in.Total.LessThan(decimal.Zero) {
		return invalid("total", "must be non-negative")
	}

	ok, err := s.geo.RefsExist(sh.CountryID, sh.StateID, sh.CityID)
	if err != nil {
		return err
	}
	if !ok {
		return invalid("shipping", "unknown country, state or city")
	}
	return nil
}

// ListByUser returns the customer's orders, newest first, with lines.
func (s *Service) ListByUser(userID int) ([]Order, error) {
	return s.repo.ListByUser(userID)
}

// GetOwned loads an order and verifies the actor owns it.
func (s *Service) GetOwned(orderID, actorID int) (Order, error) {
	o, err := s.repo.GetByID(orderID)
	if err != nil {
		return Order{}, err
	}
	if o.UserID != actorID {
		return Order{}, ErrNotOwner
	}
	return o, nil
}

// Cancel moves a pending order to cancelled. Only the owning customer may
// cancel, and only while the order is still pending. The write is conditional
// on the pending status, so a cancellation cannot land on an order a
// concurrent transition already moved to processing.
func (s *Service) Cancel(orderID, actorID int) error {
	o, err := s.repo.GetByID(orderID)
	if err != nil {
		return err
	}
	if o.UserID != actorID {
		return ErrNotOwner
	}
	if o.Status != StatusPending {
		return ErrNotPending
	}
	if err := s.repo.UpdateStatus(orderID, StatusPending, StatusCancelled); err != nil {
		if errors.Is(err, ErrBadTransition) {
			return ErrNotPending
		}
		return err
	}
	return nil
}

// ListByMerchant returns orders containing at least one of the merchant's
// items.
func (s *Service) ListByMerchant(merchantID int) ([]Order, error) {
	return s.repo.ListByMerchant(merchantID)
}

// UpdateStatus advances an order on behalf of a merchant. Authorization is
// per-order: owning any line's item grants the transition for the whole
// order. The transition graph is enforced, and the move to processing is
// bundled with the stock decrement of every line so neither can happen
// without the other. Every status write is conditional on the status the
// transition started from; a request that loses the race gets
// ErrBadTransition and nothing is decremented twice.
func (s *Service) UpdateStatus(orderID, merchantID int, newStatus string) error {
	if !ValidStatus(newStatus) {
		return invalid("status", "must be one of pending, processing, completed, cancelled")
	}

	o, err := s.repo.GetByID(orderID)
	if err != nil {
		return err
	}

	ok, err := s.repo.MerchantHasLines(orderID, merchantID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNoMerchantItems
	}

	if !ValidTransition(o.Status, newStatus) {
		return ErrBadTransition
	}

	if newStatus == StatusProcessing {
		return s.repo.MarkProcessing(orderID)
	}
	return s.repo.UpdateStatus(orderID, o.Status, newStatus)
}

// RecordPaymentIntent stores the processor correlation fields on the order.
func (s *Service) RecordPaymentIntent(orderID int, intentID, status string) error {
	return s.repo.SetPaymentIntent(orderID, intentID, status)
}
