package cart

import (
	"github.com/chanwit-mk/marketplace-backend/internal/item"
)

// ItemGetter is the slice of the item service the cart needs.
type ItemGetter interface {
	GetByID(id int) (item.Item, error)
}

// Service orchestrates cart operations. Stock is deliberately not checked
// here; availability is only enforced when an order moves to processing.
type Service struct {
	repo  Repository
	items ItemGetter
}

func NewService(repo Repository, items ItemGetter) *Service {
	return &Service{repo: repo, items: items}
}

// Add puts one unit of the item in the user's cart, incrementing the
// quantity if the item is already there.
func (s *Service) Add(userID, itemID int) (Entry, error) {
	if _, err := s.items.GetByID(itemID); err != nil {
		if err == item.ErrNotFound {
			return Entry{}, ErrItemNotFound
		}
		return Entry{}, err
	}
	return s.repo.Add(userID, itemID)
}

// SetQuantity sets the entry's quantity; 0 removes the entry, negative
// values are rejected.
func (s *Service) SetQuantity(userID, itemID, qty int) (Entry, bool, error) {
	if qty < 0 {
		return Entry{}, false, ErrInvalidQuantity
	}
	if _, err := s.items.GetByID(itemID); err != nil {
		if err == item.ErrNotFound {
			return Entry{}, false, ErrItemNotFound
		}
		return Entry{}, false, err
	}
	return s.repo.SetQuantity(userID, itemID, qty)
}

func (s *Service) List(userID int) ([]Line, error) {
	return s.repo.List(userID)
}

// Clear empties the user's cart. Called by checkout after an order is placed.
func (s *Service) Clear(userID int) error {
	return s.repo.Clear(userID)
}
