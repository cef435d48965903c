package category

// Service provides business logic for categories.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

// List returns all categories.
func (s *Service) List() []Category {
	cats, err := s.repo.List()
	if err != nil {
		return []Category{}
	}
	return cats
}

// ExistAll reports whether every id refers to an existing category.
func (s *Service) ExistAll(ids []int) (bool, error) {
	return s.repo.ExistAll(ids)
}
