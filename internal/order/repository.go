package order

import (
	"sync"

	"github.com/chanwit-mk/marketplace-backend/internal/item"
)

// Repository provides persistence for orders. Create and MarkProcessing are
// the two multi-step operations and must be all-or-nothing.
type Repository interface {
	// Create inserts the order header and every line as one unit; a failure
	// on any line leaves no partial rows behind.
	Create(o Order) (Order, error)
	GetByID(id int) (Order, error)
	ListByUser(userID int) ([]Order, error)
	// ListByMerchant returns orders containing at least one line whose item
	// belongs to the merchant, newest first.
	ListByMerchant(merchantID int) ([]Order, error)
	// MerchantHasLines reports whether at least one of the order's lines
	// references an item owned by the merchant.
	MerchantHasLines(orderID, merchantID int) (bool, error)
	// UpdateStatus moves the order from one status to another as a single
	// check-and-write step. It returns ErrBadTransition when the order is no
	// longer in the expected current status.
	UpdateStatus(id int, from, to string) error
	// MarkProcessing sets the status to processing and decrements every
	// line's stock in one unit. The status write is conditional on the order
	// still being pending; a lost race returns ErrBadTransition with no
	// stock touched. If any line lacks stock the whole operation is rolled
	// back and an *item.InsufficientStockError is returned.
	MarkProcessing(id int) error
	SetPaymentIntent(id int, intentID, status string) error
}

// InMemoryRepository is used for tests and local scenarios. Stock decrements
// go through the item repository; a failed line restores the lines already
// decremented so the operation stays all-or-nothing.
type InMemoryRepository struct {
	mu     sync.Mutex
	nextID int
	orders []Order
	items  *item.InMemoryRepository
}

func NewInMemoryRepository(items *item.InMemoryRepository) *InMemoryRepository {
	return &InMemoryRepository{nextID: 1, items: items}
}

func (r *InMemoryRepository) Create(o Order) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o.ID = r.nextID
	r.nextID++
	for i := range o.Items {
		o.Items[i].ID = i + 1
		o.Items[i].OrderID = o.ID
	}
	r.orders = append(r.orders, o)
	return o, nil
}

func (r *InMemoryRepository) GetByID(id int) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, _, err := r.findLocked(id)
	return o, err
}

func (r *InMemoryRepository) findLocked(id int) (Order, int, error) {
	for i, o := range r.orders {
		if o.ID == id {
			return o, i, nil
		}
	}
	return Order{}, -1, ErrNotFound
}

func (r *InMemoryRepository) ListByUser(userID int) ([]Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Order, 0)
	for i := len(r.orders) - 1; i >= 0; i-- {
		if r.orders[i].UserID == userID {
			out = append(out, r.orders[i])
		}
	}
	return out, nil
}

func (r *InMemoryRepository) ListByMerchant(merchantID int) ([]Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Order, 0)
	for i := len(r.orders) - 1; i >= 0; i-- {
		if r.merchantHasLinesLocked(r.orders[i], merchantID) {
			out = append(out, r.orders[i])
		}
	}
	return out, nil
}

func (r *InMemoryRepository) merchantHasLinesLocked(o Order, merchantID int) bool {
	for _, line := range o.Items {
		it, err := r.items.GetByID(line.ItemID)
		if err == nil && it.MerchantID == merchantID {
			return true
		}
	}
	return false
}

func (r *InMemoryRepository) MerchantHasLines(orderID, merchantID int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, _, err := r.findLocked(orderID)
	if err != nil {
		return false, err
	}
	return r.merchantHasLinesLocked(o, merchantID), nil
}

func (r *InMemoryRepository) UpdateStatus(id int, from, to string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, i, err := r.findLocked(id)
	if err != nil {
		return err
	}
	if o.Status != from {
		return ErrBadTransition
	}
	r.orders[i].Status = to
	return nil
}

func (r *InMemoryRepository) MarkProcessing(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, i, err := r.findLocked(id)
	if err != nil {
		return err
	}
	if o.Status != StatusPending {
		return ErrBadTransition
	}

	done := make([]Line, 0, len(o.Items))
	for _, line := range o.Items {
		if _, err := r.items.DecrementStock(line.ItemID, line.Quantity); err != nil {
			// roll back the lines already decremented
			for _, d := range done {
				it, getErr := r.items.GetByID(d.ItemID)
				if getErr == nil {
					r.items.SetStock(d.ItemID, it.Stock+d.Quantity)
				}
			}
			return err
		}
		done = append(done, line)
	}

	r.orders[i].Status = StatusProcessing
	return nil
}

func (r *InMemoryRepository) SetPaymentIntent(id int, intentID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, i, err := r.findLocked(id)
	if err != nil {
		return err
	}
	r.orders[i].PaymentIntentID = &intentID
	r.orders[i].PaymentStatus = &status
	return nil
}
