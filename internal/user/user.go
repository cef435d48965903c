package user

// Roles a user account can hold. Admin may act in any mode, merchant in
// merchant or customer mode, customer only as customer.
const (
	RoleCustomer = "customer"
	RoleMerchant = "merchant"
	RoleAdmin    = "admin"
)

type User struct {
	ID        int    `json:"userId"`
	Email     string `json:"email"`
	Password  string `json:"password,omitempty"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
	CountryID *int   `json:"countryId,omitempty"`
	StateID   *int   `json:"stateId,omitempty"`
	CityID    *int   `json:"cityId,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// CanUseMode reports whether the account's permanent role grants access to
// the requested working mode. The mode itself is session state carried in the
// token, never persisted as a global.
func (u User) CanUseMode(mode string) bool {
	switch mode {
	case RoleAdmin:
		return u.Role == RoleAdmin
	case RoleMerchant:
		return u.Role == RoleAdmin || u.Role == RoleMerchant
	case RoleCustomer:
		return true
	default:
		return false
	}
}
