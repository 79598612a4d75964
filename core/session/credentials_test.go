package session_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/alyusr/institute/core/session"
	"github.com/alyusr/institute/core/user"
	inmemdb "github.com/alyusr/institute/storage/database/inmem"
)

func newChain(t *testing.T) (session.Chain, user.Repository) {
	t.Helper()
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open() failed: %v", err)
	}
	repo := inmemdb.NewUserRepository(db)
	chain := session.Chain{
		session.NewStaticProvider(session.DefaultStaticAccounts),
		session.NewStoreProvider(repo),
	}
	return chain, repo
}

func createUser(t *testing.T, repo user.Repository, name, email, pwd, role string, isActive null.Bool) user.User {
	t.Helper()
	usr, err := repo.CreateUser(context.Background(), user.User{
		Name:     name,
		Email:    email,
		Password: pwd,
		Role:     role,
		IsActive: isActive,
	})
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func Test_Chain_staticAdminAlwaysSucceeds(t *testing.T) {
	chain, _ := newChain(t)

	// the static account works against an empty store
	s, err := chain.Authenticate(context.Background(), "admin@alyusrinstitute.org", "AlYusr@Admin2020")
	if err != nil {
		t.Fatalf("Authenticate() failed: %v", err)
	}
	if s.Role != user.RoleAdmin {
		t.Errorf("Role = %q; want admin", s.Role)
	}

	// email match is case-insensitive
	if _, err = chain.Authenticate(context.Background(), "Admin@AlYusrInstitute.org", "AlYusr@Admin2020"); err != nil {
		t.Errorf("Authenticate() with mixed-case email failed: %v", err)
	}
}

func Test_Chain_fallsThroughToStore(t *testing.T) {
	chain, repo := newChain(t)
	createUser(t, repo, "Awe Lmao", "awe@test.cd", "mdr", user.RoleTeacher, null.BoolFrom(true))

	s, err := chain.Authenticate(context.Background(), "awe@test.cd", "mdr")
	if err != nil {
		t.Fatalf("Authenticate() failed: %v", err)
	}
	if s.Role != user.RoleTeacher {
		t.Errorf("Role = %q; want teacher", s.Role)
	}
	if s.Initials != "AL" {
		t.Errorf("Initials = %q; want AL", s.Initials)
	}
}

func Test_Chain_genericFailures(t *testing.T) {
	chain, repo := newChain(t)
	createUser(t, repo, "Awe Lmao", "awe@test.cd", "mdr", user.RoleStudent, null.BoolFrom(true))
	createUser(t, repo, "Gone User", "gone@test.cd", "mdr", user.RoleStudent, null.BoolFrom(false))

	tests := []struct {
		name  string
		email string
		pwd   string
	}{
		{"unknown email", "nobody@test.cd", "mdr"},
		{"wrong password", "awe@test.cd", "nope"},
		{"wrong static password", "admin@alyusrinstitute.org", "nope"},
		{"deactivated account", "gone@test.cd", "mdr"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// every failure mode yields the same generic error
			_, err := chain.Authenticate(context.Background(), tt.email, tt.pwd)
			if errors.Cause(err) != session.ErrInvalidCredentials {
				t.Errorf("Authenticate() error = %v; want ErrInvalidCredentials", err)
			}
		})
	}
}

func Test_Chain_legacyRecordsWithoutActiveFlag(t *testing.T) {
	chain, repo := newChain(t)
	// imported records carry no active flag at all; they still sign in
	createUser(t, repo, "Old Timer", "old@test.cd", "mdr", user.RoleStudent, null.Bool{})

	if _, err := chain.Authenticate(context.Background(), "old@test.cd", "mdr"); err != nil {
		t.Errorf("Authenticate() failed for legacy record: %v", err)
	}
}
