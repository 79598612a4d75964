package session

import "github.com/alyusr/institute/core/user"

// Dashboard categories. Each role maps to its own dashboard; admin is a
// superuser over all of them.
const (
	DashboardAdmin   = user.RoleAdmin
	DashboardTeacher = user.RoleTeacher
	DashboardStudent = user.RoleStudent
	DashboardFinance = user.RoleFinance
)

// CanAccessDashboard reports whether the session may access the given
// dashboard category. No session means no access. Both the render guard
// and the navigation guard must call this same function so the two
// checks cannot diverge.
func CanAccessDashboard(s *Session, category string) bool {
	if s == nil {
		return false
	}
	return s.Role == category || s.Role == user.RoleAdmin
}
