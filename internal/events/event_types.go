package events

import (
	"time"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventPolicyAdded   EventType = "policy_added"
	EventPolicyDeleted EventType = "policy_deleted"
	EventRoleAssigned  EventType = "role_assigned"
	EventRoleRemoved   EventType = "role_removed"
	EventUserInvited   EventType = "user_invited"
)

// All lists every event type, for subscribers that want the full stream.
var All = []EventType{
	EventPolicyAdded,
	EventPolicyDeleted,
	EventRoleAssigned,
	EventRoleRemoved,
	EventUserInvited,
}

// Actor encapsulates who performed an administrative action.
type Actor struct {
	Subject string `json:"subject,omitempty"`
	Role    string `json:"role,omitempty"`
}

// Event represents an administrative action emitted by the resource layer.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// PolicyPayload payload.
type PolicyPayload struct {
	Role    string `json:"role"`
	OrgUnit int    `json:"org_unit_id"`
	Object  string `json:"object"`
	Action  string `json:"action"`
}

// RolePayload payload.
type RolePayload struct {
	UserID   int    `json:"user_id"`
	OrgUnit  int    `json:"org_unit_id"`
	Function string `json:"function"`
}

// InvitePayload payload.
type InvitePayload struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}
