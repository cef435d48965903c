package item

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/chanwit-mk/marketplace-backend/internal/category"
)

var (
	ErrNotFound = errors.New("item not found")
	ErrNotOwner = errors.New("item does not belong to merchant")
)

// InsufficientStockError reports a stock decrement that would drive the
// item's stock negative. The item's stock is left unchanged.
type InsufficientStockError struct {
	ItemID int
	Name   string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for item: %s", e.Name)
}

// Item is a product listed by a merchant.
type Item struct {
	ID          int                 `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Price       decimal.Decimal     `json:"price"`
	Stock       int                 `json:"stock"`
	ImageURL    *string             `json:"image_url"`
	MerchantID  int                 `json:"merchant_id"`
	IsActive    bool                `json:"is_active"`
	Categories  []category.Category `json:"categories,omitempty"`
	CreatedAt   string              `json:"created_at,omitempty"`
	UpdatedAt   string              `json:"updated_at,omitempty"`
}
