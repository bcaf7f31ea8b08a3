package resources

import (
	"context"

	"github.com/skyops/crew-admin/internal/domain"
	"github.com/skyops/crew-admin/internal/events"
)

// InviteAPI is the backend surface the invite resource needs.
type InviteAPI interface {
	InviteUser(ctx context.Context, invite domain.InviteRequest) error
}

// InviteResource sends user invitations. Invites have no list read, so there
// is nothing to cache or invalidate.
type InviteResource struct {
	api InviteAPI
	bus events.Dispatcher
}

// NewInviteResource wires the invite resource.
func NewInviteResource(api InviteAPI, bus events.Dispatcher) *InviteResource {
	return &InviteResource{api: api, bus: bus}
}

// Invite asks the backend to create and mail an invitation.
func (r *InviteResource) Invite(ctx context.Context, invite domain.InviteRequest) error {
	if err := r.api.InviteUser(ctx, invite); err != nil {
		return err
	}
	publish(ctx, r.bus, events.EventUserInvited, events.InvitePayload{Email: invite.Email, Role: invite.Role})
	return nil
}
