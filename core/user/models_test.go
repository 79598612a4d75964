package user

import (
	"testing"

	"github.com/volatiletech/null/v8"
)

func Test_ResolveRole(t *testing.T) {
	tests := []struct {
		name    string
		role    string
		isAdmin bool
		want    string
	}{
		{"admin flag wins", "teacher", true, RoleAdmin},
		{"known role kept", "finance", false, RoleFinance},
		{"admin role string", "admin", false, RoleAdmin},
		{"unknown role defaults to student", "janitor", false, RoleStudent},
		{"empty role defaults to student", "", false, RoleStudent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveRole(tt.role, tt.isAdmin); got != tt.want {
				t.Errorf("ResolveRole(%q, %v) = %q; want %q", tt.role, tt.isAdmin, got, tt.want)
			}
		})
	}
}

func Test_User_CheckPassword(t *testing.T) {
	usr := User{Password: "mdr"}
	if !usr.CheckPassword("mdr") {
		t.Error("CheckPassword() rejected the stored password")
	}
	if usr.CheckPassword("MDR") {
		t.Error("CheckPassword() accepted a different password")
	}
}

func Test_User_Deactivated(t *testing.T) {
	if (&User{IsActive: null.BoolFrom(true)}).Deactivated() {
		t.Error("active user reported deactivated")
	}
	if !(&User{IsActive: null.BoolFrom(false)}).Deactivated() {
		t.Error("deactivated user not reported")
	}
	// legacy records have no flag at all
	if (&User{}).Deactivated() {
		t.Error("legacy user without flag reported deactivated")
	}
}

func Test_User_Initials(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Awe Lmao", "AL"},
		{"awe", "A"},
		{"Awe Lmao Mdr", "AL"}, // capped at two
		{"", ""},
	}
	for _, tt := range tests {
		usr := User{Name: tt.name}
		if got := usr.Initials(); got != tt.want {
			t.Errorf("Initials(%q) = %q; want %q", tt.name, got, tt.want)
		}
	}
}
