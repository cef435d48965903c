package geo

import "sync"

// Repository provides lookups for the shipping reference tables.
type Repository interface {
	ListCountries() ([]Country, error)
	ListStates(countryID int) ([]State, error)
	ListCities(stateID int) ([]City, error)
	// RefsExist reports whether the country, state and city all exist.
	RefsExist(countryID, stateID, cityID int) (bool, error)
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu        sync.RWMutex
	countries []Country
	states    []State
	cities    []City
}

func NewInMemoryRepository(countries []Country, states []State, cities []City) *InMemoryRepository {
	return &InMemoryRepository{countries: countries, states: states, cities: cities}
}

func (r *InMemoryRepository) ListCountries() ([]Country, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Country, len(r.countries))
	copy(out, r.countries)
	return out, nil
}

func (r *InMemoryRepository) ListStates(countryID int) ([]State, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]State, 0)
	for _, s := range r.states {
		if s.CountryID == countryID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) ListCities(stateID int) ([]City, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]City, 0)
	for _, c := range r.cities {
		if c.StateID == stateID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) RefsExist(countryID, stateID, cityID int) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	country, state, city := false, false, false
	for _, c := range r.countries {
		if c.ID == countryID {
			country = true
			break
		}
	}
	for _, s := range r.states {
		if s.ID == stateID {
			state = true
			break
		}
	}
	for _, c := range r.cities {
		if c.ID == cityID {
			city = true
			break
		}
	}
	return country && state && city, nil
}
