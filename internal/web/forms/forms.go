// Package forms holds the gateway's form payloads and the client-side
// validation that blocks submission before any network request.
package forms

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/skyops/crew-admin/internal/domain"
)

// LoginForm carries the login credentials.
type LoginForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

// Validate blocks submission until both fields are present.
func (f LoginForm) Validate() error {
	if f.Email == "" || f.Password == "" {
		return errors.New("Please fill in all fields")
	}
	return nil
}

// SignupForm carries the self-service signup fields.
type SignupForm struct {
	Email           string `form:"email"`
	Password        string `form:"password"`
	ConfirmPassword string `form:"confirm_password"`
}

// Validate enforces the signup gate: required fields, the company email
// domain, the minimum password length and matching passwords.
func (f SignupForm) Validate(emailDomain string, minPasswordLength int) error {
	if f.Email == "" || f.Password == "" || f.ConfirmPassword == "" {
		return errors.New("Please fill in all fields")
	}
	if !strings.HasSuffix(f.Email, emailDomain) {
		return fmt.Errorf("Only %s emails are accepted", emailDomain)
	}
	if len(f.Password) < minPasswordLength {
		return fmt.Errorf("Password must be at least %d characters", minPasswordLength)
	}
	if f.Password != f.ConfirmPassword {
		return errors.New("Passwords do not match")
	}
	return nil
}

// SetPasswordForm carries the invite-completion password fields.
type SetPasswordForm struct {
	Password        string `form:"password"`
	ConfirmPassword string `form:"confirm_password"`
}

// Validate enforces password length and match.
func (f SetPasswordForm) Validate(minPasswordLength int) error {
	if f.Password == "" || f.ConfirmPassword == "" {
		return errors.New("Please fill in all fields")
	}
	if len(f.Password) < minPasswordLength {
		return fmt.Errorf("Password must be at least %d characters", minPasswordLength)
	}
	if f.Password != f.ConfirmPassword {
		return errors.New("Passwords do not match")
	}
	return nil
}

// PolicyForm carries the add/delete policy fields.
type PolicyForm struct {
	Role      string `form:"role"`
	OrgUnitID int    `form:"org_unit_id"`
	Object    string `form:"object"`
	Action    string `form:"action"`
}

// ToPolicy validates the tuple and converts it to the domain type.
func (f PolicyForm) ToPolicy() (domain.Policy, error) {
	if f.Role == "" || f.OrgUnitID <= 0 || f.Object == "" || f.Action == "" {
		return domain.Policy{}, errors.New("All fields are required")
	}
	if !domain.IsFunction(f.Role) {
		return domain.Policy{}, fmt.Errorf("Unknown role %q", f.Role)
	}
	if !domain.IsAction(f.Action) {
		return domain.Policy{}, fmt.Errorf("Unknown action %q", f.Action)
	}
	return domain.Policy{Role: f.Role, OrgUnitID: f.OrgUnitID, Object: f.Object, Action: f.Action}, nil
}

// RoleForm carries the assign/remove role fields. Assigning accepts several
// functions at once; removing sends exactly one.
type RoleForm struct {
	UserID    int      `form:"user_id"`
	OrgUnitID int      `form:"org_unit_id"`
	Functions []string `form:"functions"`
}

// ToAssignments validates the selection and expands it to one assignment per
// function.
func (f RoleForm) ToAssignments() ([]domain.RoleAssignment, error) {
	if f.UserID <= 0 || f.OrgUnitID <= 0 || len(f.Functions) == 0 {
		return nil, errors.New("Select a user, an org unit and at least one function")
	}
	assignments := make([]domain.RoleAssignment, 0, len(f.Functions))
	for _, fn := range f.Functions {
		if !domain.IsFunction(fn) {
			return nil, fmt.Errorf("Unknown function %q", fn)
		}
		assignments = append(assignments, domain.RoleAssignment{UserID: f.UserID, OrgUnitID: f.OrgUnitID, Function: fn})
	}
	return assignments, nil
}

// InviteForm carries the invite-user fields.
type InviteForm struct {
	Email      string `form:"email"`
	Role       string `form:"role"`
	Company    string `form:"company"`
	AccessFrom string `form:"access_from"`
	AccessTo   string `form:"access_to"`
}

// ToRequest validates the form and converts it to the backend payload. The
// access window is optional but must be complete and ordered when given.
func (f InviteForm) ToRequest() (domain.InviteRequest, error) {
	req := domain.InviteRequest{Email: f.Email, Role: f.Role, Company: f.Company}

	if f.AccessFrom != "" || f.AccessTo != "" {
		if f.AccessFrom == "" || f.AccessTo == "" {
			return domain.InviteRequest{}, errors.New("Both access window dates are required")
		}
		from, err := time.Parse(time.RFC3339, f.AccessFrom)
		if err != nil {
			return domain.InviteRequest{}, errors.New("Access window start must be an RFC 3339 timestamp")
		}
		to, err := time.Parse(time.RFC3339, f.AccessTo)
		if err != nil {
			return domain.InviteRequest{}, errors.New("Access window end must be an RFC 3339 timestamp")
		}
		req.AccessDuration = &domain.AccessWindow{From: from, To: to}
	}

	if err := req.Validate(); err != nil {
		return domain.InviteRequest{}, err
	}
	return req, nil
}
