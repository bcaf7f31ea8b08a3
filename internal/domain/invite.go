package domain

import (
	"errors"
	"net/mail"
	"time"
)

// Roles an invited user may be granted.
const (
	InviteRoleAdmin    = "admin"
	InviteRoleViewer   = "viewer"
	InviteRoleExternal = "external"
)

// InviteRoles lists the grantable invite roles in display order.
var InviteRoles = []string{InviteRoleAdmin, InviteRoleViewer, InviteRoleExternal}

// IsInviteRole reports whether s is a known invite role.
func IsInviteRole(s string) bool {
	return s == InviteRoleAdmin || s == InviteRoleViewer || s == InviteRoleExternal
}

// AccessWindow bounds an external user's access period.
type AccessWindow struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// InviteRequest is the payload for inviting a new user.
type InviteRequest struct {
	Email          string        `json:"email"`
	Role           string        `json:"role"`
	Company        string        `json:"company,omitempty"`
	AccessDuration *AccessWindow `json:"accessDuration,omitempty"`
}

// Validate checks the invite fields before any request is issued.
func (r InviteRequest) Validate() error {
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return errors.New("a valid email address is required")
	}
	if !IsInviteRole(r.Role) {
		return errors.New("role must be admin, viewer or external")
	}
	if r.AccessDuration != nil && !r.AccessDuration.To.After(r.AccessDuration.From) {
		return errors.New("access window must end after it starts")
	}
	return nil
}
