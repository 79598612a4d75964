package session

import (
	"testing"

	"github.com/alyusr/institute/core/user"
)

func Test_CanAccessDashboard(t *testing.T) {
	tests := []struct {
		name     string
		session  *Session
		category string
		want     bool
	}{
		{"no session", nil, DashboardStudent, false},
		{"own category", &Session{Role: user.RoleTeacher}, DashboardTeacher, true},
		{"other category", &Session{Role: user.RoleTeacher}, DashboardFinance, false},
		{"student to student", &Session{Role: user.RoleStudent}, DashboardStudent, true},
		{"student to admin", &Session{Role: user.RoleStudent}, DashboardAdmin, false},
		{"finance to finance", &Session{Role: user.RoleFinance}, DashboardFinance, true},
		{"admin anywhere", &Session{Role: user.RoleAdmin}, DashboardStudent, true},
		{"admin to teacher", &Session{Role: user.RoleAdmin}, DashboardTeacher, true},
		{"admin to admin", &Session{Role: user.RoleAdmin}, DashboardAdmin, true},
		{"unknown category", &Session{Role: user.RoleStudent}, "payroll", false},
		{"admin to unknown category", &Session{Role: user.RoleAdmin}, "payroll", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanAccessDashboard(tt.session, tt.category); got != tt.want {
				t.Errorf("CanAccessDashboard(%v, %q) = %v; want %v", tt.session, tt.category, got, tt.want)
			}
		})
	}
}
