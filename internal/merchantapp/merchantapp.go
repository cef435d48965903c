// Package merchantapp handles merchant applications: a customer applies with
// a reason, an admin reviews, approval grants the merchant role.
package merchantapp

import "errors"

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

var (
	ErrNotFound       = errors.New("application not found")
	ErrAlreadyPending = errors.New("user already has a pending application")
	ErrAlreadyRevised = errors.New("application already reviewed")
	ErrReasonTooShort = errors.New("reason must be at least 50 characters")
	ErrBadStatus      = errors.New("status must be approved or rejected")
)

type Application struct {
	ID         int     `json:"id"`
	UserID     int     `json:"user_id"`
	Reason     string  `json:"reason"`
	Status     string  `json:"status"`
	AdminNotes *string `json:"admin_notes,omitempty"`
	ReviewedAt *string `json:"reviewed_at,omitempty"`
	CreatedAt  string  `json:"created_at,omitempty"`
}
