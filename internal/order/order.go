package order

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/chanwit-mk/marketplace-backend/internal/item"
)

// Order statuses. Pending is the initial state; completed and cancelled are
// terminal.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

var (
	ErrNotFound        = errors.New("order not found")
	ErrNotOwner        = errors.New("order does not belong to user")
	ErrNotPending      = errors.New("order cannot be cancelled")
	ErrNoMerchantItems = errors.New("order contains no items of this merchant")
	ErrBadTransition   = errors.New("invalid status transition")
)

// ValidationError reports malformed checkout input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// ValidStatus reports whether s is a member of the status enum.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// ValidTransition reports whether an order may move from one status to
// another. The graph is pending -> processing -> completed, with
// pending -> cancelled as the only other edge; nothing ever returns to
// pending.
func ValidTransition(from, to string) bool {
	switch from {
	case StatusPending:
		return to == StatusProcessing || to == StatusCancelled
	case StatusProcessing:
		return to == StatusCompleted
	default:
		return false
	}
}

// ShippingInfo is the destination block captured at checkout. Property is the
// only optional field.
type ShippingInfo struct {
	FirstName     string `json:"shipping_first_name"`
	LastName      string `json:"shipping_last_name"`
	Address       string `json:"shipping_address"`
	Property      string `json:"shipping_property,omitempty"`
	CountryID     int    `json:"shipping_country_id"`
	StateID       int    `json:"shipping_state_id"`
	CityID        int    `json:"shipping_city_id"`
	ZipPostalCode string `json:"shipping_zip_postal_code"`
	Phone         string `json:"shipping_phone"`
	Email         string `json:"shipping_email"`
}

// Line is an order line item: a quantity of an item at the price captured
// when the order was placed. Lines are immutable once created.
type Line struct {
	ID       int             `json:"id,omitempty"`
	OrderID  int             `json:"order_id,omitempty"`
	ItemID   int             `json:"item_id"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Item     *item.Item      `json:"item,omitempty"`
}

// Order is the checkout aggregate: header, shipping block and lines.
type Order struct {
	ID              int             `json:"id"`
	UserID          int             `json:"user_id"`
	Total           decimal.Decimal `json:"total"`
	Shipping        ShippingInfo    `json:"shipping"`
	PaymentMethod   string          `json:"payment_method"`
	PaymentIntentID *string         `json:"payment_intent_id,omitempty"`
	PaymentStatus   *string         `json:"payment_status,omitempty"`
	Status          string          `json:"status"`
	Items           []Line          `json:"items"`
	CreatedAt       string          `json:"created_at,omitempty"`
	UpdatedAt       string          `json:"updated_at,omitempty"`
}
