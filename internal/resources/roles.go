package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/skyops/crew-admin/internal/cache"
	"github.com/skyops/crew-admin/internal/domain"
	"github.com/skyops/crew-admin/internal/events"
)

const (
	rolesPrefix       = "reads:roles"
	permissionsPrefix = "reads:user-permissions"
)

// RoleAPI is the backend surface the role resource needs.
type RoleAPI interface {
	ListAssignedRoles(ctx context.Context, userID, orgUnitID int) ([]string, error)
	AssignRole(ctx context.Context, assignment domain.RoleAssignment) error
	RemoveRole(ctx context.Context, assignment domain.RoleAssignment) error
	ListUserPolicies(ctx context.Context, userID, orgUnitID int) ([]domain.Permission, error)
}

// RoleResource serves role assignments and effective permissions.
type RoleResource struct {
	api   RoleAPI
	cache *cache.ReadCache
	bus   events.Dispatcher
}

// NewRoleResource wires the role resource.
func NewRoleResource(api RoleAPI, readCache *cache.ReadCache, bus events.Dispatcher) *RoleResource {
	return &RoleResource{api: api, cache: readCache, bus: bus}
}

// Assigned returns the functions a user holds in an org unit. Both filters
// are required; until they are present the read returns empty without
// touching the network.
func (r *RoleResource) Assigned(ctx context.Context, userID, orgUnitID int) ([]string, error) {
	if userID <= 0 || orgUnitID <= 0 {
		return nil, nil
	}

	key := fmt.Sprintf("%s:%d:%d", rolesPrefix, userID, orgUnitID)
	raw, err := r.cache.GetOrFetch(ctx, key, func(ctx context.Context) ([]byte, error) {
		functions, err := r.api.ListAssignedRoles(ctx, userID, orgUnitID)
		if err != nil {
			return nil, err
		}
		return json.Marshal(functions)
	})
	if err != nil {
		return nil, err
	}

	var functions []string
	if err := json.Unmarshal(raw, &functions); err != nil {
		return nil, err
	}
	return functions, nil
}

// Assign grants a function and invalidates every cached role read.
func (r *RoleResource) Assign(ctx context.Context, assignment domain.RoleAssignment) error {
	if err := r.api.AssignRole(ctx, assignment); err != nil {
		return err
	}
	r.cache.Invalidate(ctx, rolesPrefix)
	publish(ctx, r.bus, events.EventRoleAssigned, events.RolePayload{
		UserID: assignment.UserID, OrgUnit: assignment.OrgUnitID, Function: assignment.Function,
	})
	return nil
}

// Remove revokes a function and invalidates every cached role read.
func (r *RoleResource) Remove(ctx context.Context, assignment domain.RoleAssignment) error {
	if err := r.api.RemoveRole(ctx, assignment); err != nil {
		return err
	}
	r.cache.Invalidate(ctx, rolesPrefix)
	publish(ctx, r.bus, events.EventRoleRemoved, events.RolePayload{
		UserID: assignment.UserID, OrgUnit: assignment.OrgUnitID, Function: assignment.Function,
	})
	return nil
}

// Effective returns a user's effective permissions in an org unit. Both
// filters are required; the read is empty without them.
func (r *RoleResource) Effective(ctx context.Context, userID, orgUnitID int) ([]domain.Permission, error) {
	if userID <= 0 || orgUnitID <= 0 {
		return nil, nil
	}

	key := fmt.Sprintf("%s:%d:%d", permissionsPrefix, userID, orgUnitID)
	raw, err := r.cache.GetOrFetch(ctx, key, func(ctx context.Context) ([]byte, error) {
		permissions, err := r.api.ListUserPolicies(ctx, userID, orgUnitID)
		if err != nil {
			return nil, err
		}
		return json.Marshal(permissions)
	})
	if err != nil {
		return nil, err
	}

	var permissions []domain.Permission
	if err := json.Unmarshal(raw, &permissions); err != nil {
		return nil, err
	}
	return permissions, nil
}
