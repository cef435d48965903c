package merchantapp

import (
	"time"

	"github.com/chanwit-mk/marketplace-backend/internal/user"
)

// RoleGranter promotes an account after approval.
type RoleGranter interface {
	GrantRole(userID int, role string) (user.User, error)
}

type Service struct {
	repo  Repository
	users RoleGranter
}

func NewService(repo Repository, users RoleGranter) *Service {
	return &Service{repo: repo, users: users}
}

// Apply submits a merchant application for the user. One pending application
// per user at a time.
func (s *Service) Apply(userID int, reason string) (Application, error) {
	if len(reason) < 50 {
		return Application{}, ErrReasonTooShort
	}
	pending, err := s.repo.HasPending(userID)
	if err != nil {
		return Application{}, err
	}
	if pending {
		return Application{}, ErrAlreadyPending
	}

	return s.repo.Create(Application{
		UserID:    userID,
		Reason:    reason,
		Status:    StatusPending,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Service) ListPending() ([]Application, error) {
	return s.repo.ListPending()
}

// Review approves or rejects an application; approval grants the merchant
// role to the applicant. The role is granted before the decision is
// persisted, so a failed grant leaves the application pending and
// reviewable again rather than approved without the role.
func (s *Service) Review(id int, status string, notes *string) (Application, error) {
	if status != StatusApproved && status != StatusRejected {
		return Application{}, ErrBadStatus
	}

	a, err := s.repo.GetByID(id)
	if err != nil {
		return Application{}, err
	}
	if a.Status != StatusPending {
		return Application{}, ErrAlreadyRevised
	}

	if status == StatusApproved {
		if _, err := s.users.GrantRole(a.UserID, user.RoleMerchant); err != nil {
			return Application{}, err
		}
	}

	return s.repo.Review(id, status, notes, time.Now().UTC().Format(time.RFC3339))
}
