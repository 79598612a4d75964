package user

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/alyusr/institute/core"
)

// Roles / dashboard categories
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
	RoleFinance = "finance"
)

var (
	AllRoles = []string{RoleAdmin, RoleTeacher, RoleStudent, RoleFinance}

	Roles = []Role{
		{Name: "Student", Value: RoleStudent},
		{Name: "Teacher", Value: RoleTeacher},
		{Name: "Finance", Value: RoleFinance},
		{Name: "Admin", Value: RoleAdmin},
	}
)

type Role struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ResolveRole resolves a user's effective role by priority: an explicit
// is-admin flag wins over the role string; an unrecognized role string
// defaults to student.
func ResolveRole(role string, isAdmin bool) string {
	if isAdmin {
		return RoleAdmin
	}
	switch role {
	case RoleAdmin, RoleTeacher, RoleStudent, RoleFinance:
		return role
	}
	return RoleStudent
}

type User struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
	// Password is stored and compared in clear to stay interoperable
	// with the existing production records.
	Password  string    `json:"-" db:"password"`
	Email     string    `json:"email" db:"email"`
	Role      string    `json:"role" db:"role"`
	IsAdmin   bool      `json:"is_admin" db:"is_admin"`
	IsActive  null.Bool `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"` // UTC
	LastLogin time.Time `json:"last_login" db:"last_login"` // UTC
}

// CheckPassword compares the stored password to the supplied one using
// plain equality, matching how the production records authenticate.
// TODO: migrate stored passwords to bcrypt and drop the plain compare.
func (u *User) CheckPassword(pwd string) bool {
	return u.Password == pwd
}

// Deactivated reports whether the account was explicitly deactivated.
// Legacy records carry no active flag at all; those are NOT deactivated.
func (u *User) Deactivated() bool {
	return u.IsActive.Valid && !u.IsActive.Bool
}

func (u *User) ResolvedRole() string {
	return ResolveRole(u.Role, u.IsAdmin)
}

// Initials derives up to two uppercase initials from the display name.
func (u *User) Initials() string {
	var b strings.Builder
	for i, word := range strings.Fields(u.Name) {
		if i == 2 {
			break
		}
		b.WriteString(strings.ToUpper(string([]rune(word)[:1])))
	}
	return b.String()
}

// NewUser contains information needed to create a new User.
type NewUser struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Role            string `json:"role" validate:"omitempty,knownrole"`
	IsAdmin         bool   `json:"is_admin"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (nu *NewUser) Validate(validate *validator.Validate, svc ServiceInterface) error {
	nu.Name = core.CleanString(nu.Name)
	nu.Email = core.CleanString(nu.Email, true /* lower */)

	if err := validate.Struct(nu); err != nil {
		return err
	}
	return svc.CheckUniqueness(nu.Email)
}

// UpdateUser defines what information may be provided to modify an existing User.
type UpdateUser struct {
	Name            string    `json:"name"`
	Email           string    `json:"email" validate:"omitempty,email"`
	Role            string    `json:"role" validate:"omitempty,knownrole"`
	IsAdmin         *bool     `json:"is_admin"`
	IsActive        null.Bool `json:"is_active"`
	Password        string    `json:"password"`
	PasswordConfirm string    `json:"password_confirm" validate:"required_with=Password,eqfield=Password"`
}

func (uu *UpdateUser) Validate(origUsr User, validate *validator.Validate, svc ServiceInterface) error {
	name := core.CleanString(uu.Name)
	if name != "" {
		uu.Name = name
	} else {
		uu.Name = origUsr.Name
	}

	email := core.CleanString(uu.Email, true /* lower */)
	if email != "" {
		uu.Email = email
	} else {
		uu.Email = origUsr.Email
	}

	if err := validate.Struct(uu); err != nil {
		return err
	}
	return svc.CheckUniqueness(uu.Email, origUsr)
}

type QueryFilter struct {
	Search   string `query:"search"`
	Role     string `query:"role"`
	IsActive *bool  `query:"is_active"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Role == "" && qf.IsActive == nil
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Role = core.CleanString(qf.Role, true /* lower */)
}
