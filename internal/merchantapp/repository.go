package merchantapp

import "sync"

// Repository provides persistence for merchant applications.
type Repository interface {
	Create(a Application) (Application, error)
	GetByID(id int) (Application, error)
	HasPending(userID int) (bool, error)
	ListPending() ([]Application, error)
	Review(id int, status string, notes *string, reviewedAt string) (Application, error)
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu     sync.Mutex
	nextID int
	apps   []Application
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1}
}

func (r *InMemoryRepository) Create(a Application) (Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.ID = r.nextID
	r.nextID++
	r.apps = append(r.apps, a)
	return a, nil
}

func (r *InMemoryRepository) GetByID(id int) (Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.apps {
		if a.ID == id {
			return a, nil
		}
	}
	return Application{}, ErrNotFound
}

func (r *InMemoryRepository) HasPending(userID int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.apps {
		if a.UserID == userID && a.Status == StatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (r *InMemoryRepository) ListPending() ([]Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Application, 0)
	for i := len(r.apps) - 1; i >= 0; i-- {
		if r.apps[i].Status == StatusPending {
			out = append(out, r.apps[i])
		}
	}
	return out, nil
}

func (r *InMemoryRepository) Review(id int, status string, notes *string, reviewedAt string) (Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, a := range r.apps {
		if a.ID == id {
			a.Status = status
			a.AdminNotes = notes
			a.ReviewedAt = &reviewedAt
			r.apps[i] = a
			return a, nil
		}
	}
	return Application{}, ErrNotFound
}
