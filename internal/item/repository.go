package item

import (
	"strings"
	"sync"

	"github.com/chanwit-mk/marketplace-backend/internal/category"
)

func categoryFromID(id int) category.Category { return category.Category{ID: id} }

// Repository provides persistence for items and their stock.
type Repository interface {
	ListActive() ([]Item, error)
	// Search returns active items whose name or description contains the
	// query, optionally narrowed to items in any of the given categories.
	// An empty query matches everything.
	Search(query string, categoryIDs []int) ([]Item, error)
	GetByID(id int) (Item, error)
	ListByMerchant(merchantID int) ([]Item, error)
	// Create inserts the item and attaches its categories as one unit.
	Create(it Item, categoryIDs []int) (Item, error)
	SetStock(id int, stock int) (Item, error)
	// DecrementStock subtracts qty from the item's stock only if the result
	// stays non-negative. The check and the write are a single atomic step.
	DecrementStock(id int, qty int) (int, error)
	Delete(id int) error
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu     sync.Mutex
	nextID int
	items  []Item
}

func NewInMemoryRepository(seed []Item) *InMemoryRepository {
	r := &InMemoryRepository{nextID: 1}
	for _, it := range seed {
		if it.ID >= r.nextID {
			r.nextID = it.ID + 1
		}
		r.items = append(r.items, it)
	}
	return r
}

func (r *InMemoryRepository) ListActive() ([]Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Item, 0)
	for _, it := range r.items {
		if it.IsActive {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) Search(query string, categoryIDs []int) ([]Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q := strings.ToLower(query)
	out := make([]Item, 0)
	for _, it := range r.items {
		if !it.IsActive {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(it.Name), q) &&
			!strings.Contains(strings.ToLower(it.Description), q) {
			continue
		}
		if len(categoryIDs) > 0 && !hasAnyCategory(it, categoryIDs) {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

func hasAnyCategory(it Item, ids []int) bool {
	for _, c := range it.Categories {
		for _, id := range ids {
			if c.ID == id {
				return true
			}
		}
	}
	return false
}

func (r *InMemoryRepository) GetByID(id int) (Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getLocked(id)
}

func (r *InMemoryRepository) getLocked(id int) (Item, error) {
	for _, it := range r.items {
		if it.ID == id {
			return it, nil
		}
	}
	return Item{}, ErrNotFound
}

func (r *InMemoryRepository) ListByMerchant(merchantID int) ([]Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Item, 0)
	for _, it := range r.items {
		if it.MerchantID == merchantID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) Create(it Item, categoryIDs []int) (Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it.ID = r.nextID
	r.nextID++
	for _, cid := range categoryIDs {
		it.Categories = append(it.Categories, categoryFromID(cid))
	}
	r.items = append(r.items, it)
	return it, nil
}

func (r *InMemoryRepository) SetStock(id int, stock int) (Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, it := range r.items {
		if it.ID == id {
			it.Stock = stock
			r.items[i] = it
			return it, nil
		}
	}
	return Item{}, ErrNotFound
}

func (r *InMemoryRepository) DecrementStock(id int, qty int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, it := range r.items {
		if it.ID == id {
			if it.Stock < qty {
				return it.Stock, &InsufficientStockError{ItemID: it.ID, Name: it.Name}
			}
			it.Stock -= qty
			r.items[i] = it
			return it.Stock, nil
		}
	}
	return 0, ErrNotFound
}

func (r *InMemoryRepository) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, it := range r.items {
		if it.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
