package domain

// OrgUnit is static reference data; the backend owns the authoritative list.
type OrgUnit struct {
	ID   int
	Name string
}

// OrgUnits enumerates the organizational units the panel can scope to.
var OrgUnits = []OrgUnit{
	{ID: 47, Name: "Exploitation Aérienne"},
	{ID: 48, Name: "Finance"},
}

// OrgUnitName resolves an org unit's display name. Unknown ids render the
// wire-form fallback label rather than failing.
func OrgUnitName(id int) string {
	if id <= 0 {
		return ""
	}
	for _, ou := range OrgUnits {
		if ou.ID == id {
			return ou.Name
		}
	}
	return FormatOrgUnit(id)
}

// DirectoryUser is a selectable user in the admin panel.
type DirectoryUser struct {
	ID    int
	Email string
}

// DirectoryUsers is the static user directory backing the admin selects.
var DirectoryUsers = []DirectoryUser{
	{ID: 1, Email: "admin@example.com"},
	{ID: 2, Email: "auditor@example.com"},
}
