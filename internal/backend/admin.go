package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/skyops/crew-admin/internal/domain"
)

// ListPolicies fetches every access policy tuple.
func (c *Client) ListPolicies(ctx context.Context) ([]domain.Policy, error) {
	var tuples [][]string
	if err := c.do(ctx, http.MethodGet, "/api/v1/admin/policies", nil, &tuples, "Failed to load policies"); err != nil {
		return nil, err
	}

	policies := make([]domain.Policy, 0, len(tuples))
	for _, tuple := range tuples {
		policy, err := domain.PolicyFromTuple(tuple)
		if err != nil {
			return nil, fmt.Errorf("list policies: %w", err)
		}
		policies = append(policies, policy)
	}
	return policies, nil
}

// AddPolicy creates a policy tuple.
func (c *Client) AddPolicy(ctx context.Context, policy domain.Policy) error {
	return c.do(ctx, http.MethodPost, "/api/v1/admin/policies", policy, nil, "Failed to add policy")
}

// DeletePolicy removes a policy tuple. Delete + re-add is the update path.
func (c *Client) DeletePolicy(ctx context.Context, policy domain.Policy) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/admin/policies", policy, nil, "Failed to delete policy")
}

// ListAssignedRoles fetches the functions a user holds in an org unit.
func (c *Client) ListAssignedRoles(ctx context.Context, userID, orgUnitID int) ([]string, error) {
	path := fmt.Sprintf("/api/v1/admin/roles?user_id=%d&org_unit_id=%d", userID, orgUnitID)
	var functions []string
	if err := c.do(ctx, http.MethodGet, path, nil, &functions, "Failed to fetch roles"); err != nil {
		return nil, err
	}
	return functions, nil
}

// AssignRole grants a function to a user within an org unit.
func (c *Client) AssignRole(ctx context.Context, assignment domain.RoleAssignment) error {
	return c.do(ctx, http.MethodPost, "/api/v1/admin/roles", assignment, nil, "Failed to assign role")
}

// RemoveRole revokes a function from a user within an org unit.
func (c *Client) RemoveRole(ctx context.Context, assignment domain.RoleAssignment) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/admin/roles", assignment, nil, "Failed to remove role")
}

// ListUserPolicies fetches the effective permissions a user has in an org
// unit, as 3-tuples [subject, object, action].
func (c *Client) ListUserPolicies(ctx context.Context, userID, orgUnitID int) ([]domain.Permission, error) {
	path := fmt.Sprintf("/api/v1/admin/user/%d/policies?org_unit_id=%d", userID, orgUnitID)
	var tuples [][]string
	if err := c.do(ctx, http.MethodGet, path, nil, &tuples, "Failed to load user permissions"); err != nil {
		return nil, err
	}

	permissions := make([]domain.Permission, 0, len(tuples))
	for _, tuple := range tuples {
		if len(tuple) != 3 {
			return nil, fmt.Errorf("user policies: tuple has %d fields, want 3", len(tuple))
		}
		permissions = append(permissions, domain.Permission{Subject: tuple[0], Object: tuple[1], Action: tuple[2]})
	}
	return permissions, nil
}

// InviteUser invites a new user to the platform.
func (c *Client) InviteUser(ctx context.Context, invite domain.InviteRequest) error {
	return c.do(ctx, http.MethodPost, "/api/v1/admin/create-user", invite, nil, "Failed to invite user")
}
