package item

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidPrice    = errors.New("price must be non-negative")
	ErrInvalidStock    = errors.New("stock must be non-negative")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrMissingName     = errors.New("name is required")
)

// CategoryChecker validates that the attached category ids exist.
type CategoryChecker interface {
	ExistAll(ids []int) (bool, error)
}

var ErrUnknownCategory = errors.New("unknown category")

type Service struct {
	repo       Repository
	categories CategoryChecker
}

func NewService(repo Repository, categories CategoryChecker) *Service {
	return &Service{repo: repo, categories: categories}
}

// ListCatalog returns items visible in the store front.
func (s *Service) ListCatalog() ([]Item, error) {
	return s.repo.ListActive()
}

// Search filters the catalog by a name or description substring and an
// optional set of category ids. An empty query matches every active item.
func (s *Service) Search(query string, categoryIDs []int) ([]Item, error) {
	return s.repo.Search(strings.TrimSpace(query), categoryIDs)
}

func (s *Service) GetByID(id int) (Item, error) {
	return s.repo.GetByID(id)
}

func (s *Service) ListByMerchant(merchantID int) ([]Item, error) {
	return s.repo.ListByMerchant(merchantID)
}

// Create lists a new item for the merchant.
func (s *Service) Create(it Item, categoryIDs []int) (Item, error) {
	if it.Name == "" {
		return Item{}, ErrMissingName
	}
	if it.Price.LessThan(decimal.Zero) {
		return Item{}, ErrInvalidPrice
	}
	if it.Stock < 0 {
		return Item{}, ErrInvalidStock
	}
	if len(categoryIDs) > 0 && s.categories != nil {
		ok, err := s.categories.ExistAll(categoryIDs)
		if err != nil {
			return Item{}, err
		}
		if !ok {
			return Item{}, ErrUnknownCategory
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	it.IsActive = true
	it.CreatedAt = now
	it.UpdatedAt = now
	return s.repo.Create(it, categoryIDs)
}

// SetStock overwrites an item's stock. Only the owning merchant may do so.
func (s *Service) SetStock(merchantID, itemID, stock int) (Item, error) {
	if stock < 0 {
		return Item{}, ErrInvalidStock
	}
	it, err := s.repo.GetByID(itemID)
	if err != nil {
		return Item{}, err
	}
	if it.MerchantID != merchantID {
		return Item{}, ErrNotOwner
	}
	return s.repo.SetStock(itemID, stock)
}

// DecrementStock subtracts qty from the item's stock, failing with
// InsufficientStockError when the item does not have qty units left.
func (s *Service) DecrementStock(itemID, qty int) (int, error) {
	if qty <= 0 {
		return 0, ErrInvalidQuantity
	}
	return s.repo.DecrementStock(itemID, qty)
}

// Delete removes a merchant's item.
func (s *Service) Delete(merchantID, itemID int) error {
	it, err := s.repo.GetByID(itemID)
	if err != nil {
		return err
	}
	if it.MerchantID != merchantID {
		return ErrNotOwner
	}
	return s.repo.Delete(itemID)
}
