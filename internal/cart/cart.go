package cart

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrItemNotFound    = errors.New("item not found")
	ErrInvalidQuantity = errors.New("quantity must be non-negative")
)

// Entry is a (user, item) cart row. Quantity is always >= 1 while the row
// exists; a row is deleted instead of being stored with quantity 0.
type Entry struct {
	UserID   int `json:"user_id"`
	ItemID   int `json:"item_id"`
	Quantity int `json:"quantity"`
}

// Line is a cart entry joined with live item data for display. The price
// shown here can drift from what checkout snapshots later.
type Line struct {
	ItemID   int             `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	ImageURL *string         `json:"image_url"`
}
