package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Actions permitted on policy objects.
const (
	ActionRead  = "read"
	ActionWrite = "write"
	ActionAny   = "*"
)

// Actions lists the selectable policy actions in display order.
var Actions = []string{ActionRead, ActionWrite, ActionAny}

// IsAction reports whether s is a known policy action.
func IsAction(s string) bool {
	return s == ActionRead || s == ActionWrite || s == ActionAny
}

// Policy grants a role an action on an object within an org unit.
// The full tuple is the uniqueness key; updates are delete + re-add.
type Policy struct {
	Role      string `json:"role"`
	OrgUnitID int    `json:"org_unit_id"`
	Object    string `json:"object"`
	Action    string `json:"action"`
}

// Key returns the tuple's uniqueness key.
func (p Policy) Key() string {
	return fmt.Sprintf("%s|%d|%s|%s", p.Role, p.OrgUnitID, p.Object, p.Action)
}

// Permission is one effective grant for a user, as reported by the backend.
type Permission struct {
	Subject string
	Object  string
	Action  string
}

const orgUnitPrefix = "orgunit:"

// FormatOrgUnit renders an org unit id in its wire form, e.g. "orgunit:47".
func FormatOrgUnit(id int) string {
	return orgUnitPrefix + strconv.Itoa(id)
}

// ParseOrgUnit extracts the numeric id from the "orgunit:<id>" wire form.
func ParseOrgUnit(s string) (int, bool) {
	raw, found := strings.CutPrefix(s, orgUnitPrefix)
	if !found {
		return 0, false
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return id, true
}

// PolicyFromTuple builds a Policy from the backend's 4-tuple wire form
// [role, "orgunit:<id>", object, action].
func PolicyFromTuple(tuple []string) (Policy, error) {
	if len(tuple) != 4 {
		return Policy{}, fmt.Errorf("policy tuple has %d fields, want 4", len(tuple))
	}
	id, ok := ParseOrgUnit(tuple[1])
	if !ok {
		return Policy{}, fmt.Errorf("policy tuple has malformed org unit %q", tuple[1])
	}
	return Policy{Role: tuple[0], OrgUnitID: id, Object: tuple[2], Action: tuple[3]}, nil
}
