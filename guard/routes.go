package guard

import (
	"github.com/tuinue-wasichana/go-client/session"
)

// Navigation entry points. These mirror the platform frontend's routes and
// are the only place role-to-destination mapping lives.
const (
	PathHome             = "/"
	PathAuth             = "/auth"
	PathDonorDashboard   = "/donor"
	PathCharityDashboard = "/charity"
	PathAdminDashboard   = "/admin"
)

// DashboardFor returns the dashboard a role belongs to, or the public entry
// point for an unrecognised role.
func DashboardFor(role session.Role) string {
	switch role {
	case session.RoleDonor:
		return PathDonorDashboard
	case session.RoleCharity:
		return PathCharityDashboard
	case session.RoleAdmin:
		return PathAdminDashboard
	}
	return PathHome
}

// RedirectTarget maps a terminal denial onto its destination: no session
// goes to the authentication entry point, a wrong role goes to that role's
// own dashboard.
func RedirectTarget(state State, role session.Role) string {
	switch state {
	case StateDeniedNoSession:
		return PathAuth
	case StateDeniedWrongRole:
		return DashboardFor(role)
	}
	return ""
}
