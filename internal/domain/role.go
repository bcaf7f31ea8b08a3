package domain

// Functions assignable to a user within an org unit.
const (
	FunctionPlanner = "planner"
	FunctionAuditor = "auditor"
	FunctionAdmin   = "admin"
)

// Functions lists the assignable functions in display order.
var Functions = []string{FunctionPlanner, FunctionAuditor, FunctionAdmin}

// IsFunction reports whether s is a known function name.
func IsFunction(s string) bool {
	for _, fn := range Functions {
		if fn == s {
			return true
		}
	}
	return false
}

// RoleAssignment grants a function to a user within an org unit.
// A user may hold several functions across several org units.
type RoleAssignment struct {
	UserID    int    `json:"user_id"`
	OrgUnitID int    `json:"org_unit_id"`
	Function  string `json:"function"`
}
