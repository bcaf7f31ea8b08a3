// Package resources wraps backend reads and mutations per resource, keeping
// the response cache consistent: reads go through the cache, successful
// mutations invalidate the affected resource's reads, failed mutations leave
// prior cached data untouched.
package resources

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/skyops/crew-admin/internal/cache"
	"github.com/skyops/crew-admin/internal/domain"
	"github.com/skyops/crew-admin/internal/events"
)

const policiesKey = "reads:policies"

// PolicyAPI is the backend surface the policy resource needs.
type PolicyAPI interface {
	ListPolicies(ctx context.Context) ([]domain.Policy, error)
	AddPolicy(ctx context.Context, policy domain.Policy) error
	DeletePolicy(ctx context.Context, policy domain.Policy) error
}

// PolicyResource serves the access-policy list and its mutations.
type PolicyResource struct {
	api   PolicyAPI
	cache *cache.ReadCache
	bus   events.Dispatcher
}

// NewPolicyResource wires the policy resource.
func NewPolicyResource(api PolicyAPI, readCache *cache.ReadCache, bus events.Dispatcher) *PolicyResource {
	return &PolicyResource{api: api, cache: readCache, bus: bus}
}

// List returns every policy tuple, served from cache when fresh.
func (r *PolicyResource) List(ctx context.Context) ([]domain.Policy, error) {
	raw, err := r.cache.GetOrFetch(ctx, policiesKey, func(ctx context.Context) ([]byte, error) {
		policies, err := r.api.ListPolicies(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(policies)
	})
	if err != nil {
		return nil, err
	}

	var policies []domain.Policy
	if err := json.Unmarshal(raw, &policies); err != nil {
		return nil, err
	}
	return policies, nil
}

// Add creates a policy and invalidates cached policy reads.
func (r *PolicyResource) Add(ctx context.Context, policy domain.Policy) error {
	if err := r.api.AddPolicy(ctx, policy); err != nil {
		return err
	}
	r.cache.Invalidate(ctx, policiesKey)
	publish(ctx, r.bus, events.EventPolicyAdded, events.PolicyPayload{
		Role: policy.Role, OrgUnit: policy.OrgUnitID, Object: policy.Object, Action: policy.Action,
	})
	return nil
}

// Delete removes a policy and invalidates cached policy reads.
func (r *PolicyResource) Delete(ctx context.Context, policy domain.Policy) error {
	if err := r.api.DeletePolicy(ctx, policy); err != nil {
		return err
	}
	r.cache.Invalidate(ctx, policiesKey)
	publish(ctx, r.bus, events.EventPolicyDeleted, events.PolicyPayload{
		Role: policy.Role, OrgUnit: policy.OrgUnitID, Object: policy.Object, Action: policy.Action,
	})
	return nil
}

func publish(ctx context.Context, bus events.Dispatcher, eventType events.EventType, payload any) {
	if bus == nil {
		return
	}
	_ = bus.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Actor:     events.ActorFromContext(ctx),
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
