package cart

import (
	"sync"

	"github.com/chanwit-mk/marketplace-backend/internal/item"
)

// Repository provides persistence for cart entries.
type Repository interface {
	// Add creates the (user, item) entry with quantity 1, or increments an
	// existing entry by 1.
	Add(userID, itemID int) (Entry, error)
	// SetQuantity upserts the entry; qty 0 deletes it. The returned bool is
	// false when the entry was deleted or absent.
	SetQuantity(userID, itemID, qty int) (Entry, bool, error)
	List(userID int) ([]Line, error)
	Clear(userID int) error
}

// InMemoryRepository is used for tests and local scenarios. It joins item
// data from an item repository the way the Postgres implementation joins the
// items table.
type InMemoryRepository struct {
	mu      sync.Mutex
	items   item.Repository
	entries []Entry
}

func NewInMemoryRepository(items item.Repository) *InMemoryRepository {
	return &InMemoryRepository{items: items}
}

func (r *InMemoryRepository) Add(userID, itemID int) (Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.entries {
		if e.UserID == userID && e.ItemID == itemID {
			e.Quantity++
			r.entries[i] = e
			return e, nil
		}
	}
	e := Entry{UserID: userID, ItemID: itemID, Quantity: 1}
	r.entries = append(r.entries, e)
	return e, nil
}

func (r *InMemoryRepository) SetQuantity(userID, itemID, qty int) (Entry, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.entries {
		if e.UserID == userID && e.ItemID == itemID {
			if qty == 0 {
				r.entries = append(r.entries[:i], r.entries[i+1:]...)
				return Entry{}, false, nil
			}
			e.Quantity = qty
			r.entries[i] = e
			return e, true, nil
		}
	}
	if qty == 0 {
		return Entry{}, false, nil
	}
	e := Entry{UserID: userID, ItemID: itemID, Quantity: qty}
	r.entries = append(r.entries, e)
	return e, true, nil
}

func (r *InMemoryRepository) List(userID int) ([]Line, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Line, 0)
	for _, e := range r.entries {
		if e.UserID != userID {
			continue
		}
		it, err := r.items.GetByID(e.ItemID)
		if err != nil {
			continue
		}
		out = append(out, Line{
			ItemID:   it.ID,
			Name:     it.Name,
			Price:    it.Price,
			Quantity: e.Quantity,
			ImageURL: it.ImageURL,
		})
	}
	return out, nil
}

func (r *InMemoryRepository) Clear(userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.entries[:0]
	for _, e := range r.entries {
		if e.UserID != userID {
			kept = append(kept, e)
		}
	}
	r.entries = kept
	return nil
}
