package merchantapp

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chanwit-mk/marketplace-backend/internal/user"
)

const longReason = "I have been selling handmade ceramics for six years and want to reach more buyers."

func newTestSetup() (*Service, *user.Service) {
	users := user.NewService(user.NewInMemoryRepository([]user.User{
		{ID: 42, Email: "ada@example.com", Role: user.RoleCustomer},
	}))
	return NewService(NewInMemoryRepository(), users), users
}

func TestApply(t *testing.T) {
	svc, _ := newTestSetup()

	_, err := svc.Apply(42, "too short")
	require.ErrorIs(t, err, ErrReasonTooShort)

	// exactly one character under the limit still fails
	_, err = svc.Apply(42, strings.Repeat("x", 49))
	require.ErrorIs(t, err, ErrReasonTooShort)

	a, err := svc.Apply(42, longReason)
	require.NoError(t, err)
	require.Equal(t, StatusPending, a.Status)
	require.Equal(t, 42, a.UserID)

	// one pending application per user
	_, err = svc.Apply(42, longReason)
	require.ErrorIs(t, err, ErrAlreadyPending)
}

func TestReview_ApproveGrantsMerchantRole(t *testing.T) {
	svc, users := newTestSetup()

	a, err := svc.Apply(42, longReason)
	require.NoError(t, err)

	notes := "solid application"
	reviewed, err := svc.Review(a.ID, StatusApproved, &notes)
	require.NoError(t, err)
	require.Equal(t, StatusApproved, reviewed.Status)
	require.NotNil(t, reviewed.ReviewedAt)
	require.NotNil(t, reviewed.AdminNotes)
	require.Equal(t, "solid application", *reviewed.AdminNotes)

	u, err := users.GetByID(42)
	require.NoError(t, err)
	require.Equal(t, user.RoleMerchant, u.Role)

	// a decided application cannot be reviewed again
	_, err = svc.Review(a.ID, StatusRejected, nil)
	require.ErrorIs(t, err, ErrAlreadyRevised)
}

func TestReview_RejectKeepsRole(t *testing.T) {
	svc, users := newTestSetup()

	a, err := svc.Apply(42, longReason)
	require.NoError(t, err)

	reviewed, err := svc.Review(a.ID, StatusRejected, nil)
	require.NoError(t, err)
	require.Equal(t, StatusRejected, reviewed.Status)

	u, err := users.GetByID(42)
	require.NoError(t, err)
	require.Equal(t, user.RoleCustomer, u.Role)

	// after a rejection the user may apply again
	_, err = svc.Apply(42, longReason)
	require.NoError(t, err)
}

func TestReview_Validation(t *testing.T) {
	svc, _ := newTestSetup()

	_, err := svc.Review(1, "undecided", nil)
	require.ErrorIs(t, err, ErrBadStatus)

	_, err = svc.Review(99, StatusApproved, nil)
	require.ErrorIs(t, err, ErrNotFound)
}

type failingGranter struct{}

func (failingGranter) GrantRole(userID int, role string) (user.User, error) {
	return user.User{}, errors.New("users store unavailable")
}

func TestReview_GrantFailureLeavesApplicationPending(t *testing.T) {
	repo := NewInMemoryRepository()
	svc := NewService(repo, failingGranter{})

	a, err := svc.Apply(42, longReason)
	require.NoError(t, err)

	_, err = svc.Review(a.ID, StatusApproved, nil)
	require.Error(t, err)

	// the decision was not persisted, so a working reviewer can retry
	got, err := repo.GetByID(a.ID)
	require.NoError(t, err)
	require.Equal(t, StatusPending, got.Status)
	require.Nil(t, got.ReviewedAt)

	users := user.NewService(user.NewInMemoryRepository([]user.User{
		{ID: 42, Email: "ada@example.com", Role: user.RoleCustomer},
	}))
	reviewed, err := NewService(repo, users).Review(a.ID, StatusApproved, nil)
	require.NoError(t, err)
	require.Equal(t, StatusApproved, reviewed.Status)

	u, err := users.GetByID(42)
	require.NoError(t, err)
	require.Equal(t, user.RoleMerchant, u.Role)
}
