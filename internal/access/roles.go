// Package access holds the role-to-capability table used to gate server
// tools. Gating is advisory, matching the tracker deployments this serves:
// callers declare a role, and the server refuses tools outside that role's
// capability set. It is not an authentication layer.
package access

// Role names.
const (
	RoleAdmin    = "admin"
	RoleUser     = "user"
	RoleSecurity = "security"
)

// Capability areas a role may use.
const (
	AreaUpload   = "upload"
	AreaRequests = "requests"
	AreaReports  = "reports"
	AreaUsers    = "users"
)

var roleAreas = map[string][]string{
	RoleAdmin:    {AreaUpload, AreaRequests, AreaReports, AreaUsers},
	RoleUser:     {AreaUpload, AreaRequests, AreaReports},
	RoleSecurity: {AreaRequests, AreaReports},
}

// Normalize maps an unknown or empty role to the least-privileged named role.
func Normalize(role string) string {
	if _, ok := roleAreas[role]; ok {
		return role
	}
	return RoleUser
}

// Can reports whether a role may use a capability area. Unknown roles get
// user capabilities.
func Can(role, area string) bool {
	for _, a := range roleAreas[Normalize(role)] {
		if a == area {
			return true
		}
	}
	return false
}

// CanDelete reports whether a role may delete stored requests.
func CanDelete(role string) bool {
	return Normalize(role) == RoleAdmin
}

// CanCheckIn reports whether a role may check in visitors.
func CanCheckIn(role string) bool {
	r := Normalize(role)
	return r == RoleSecurity || r == RoleAdmin
}
