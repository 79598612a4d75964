package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/alyusr/institute/core"
	"github.com/alyusr/institute/core/user"
	inmemdb "github.com/alyusr/institute/storage/database/inmem"
)

// NewTestConfig builds a self-contained config; nothing is read from the
// environment.
func NewTestConfig() *core.Config {
	conf := &core.Config{
		Debug:     false,
		TestMode:  true,
		Env:       "test",
		AppName:   "AlYusr Institute",
		SecretKey: "test-secret-key",
	}
	conf.Server.JWTExpirationDelta = 10 * time.Minute
	conf.Server.JWTRefreshExpirationDelta = 4 * time.Hour
	conf.Submit.MaxAttempts = 3
	conf.Submit.BaseDelay = time.Millisecond
	conf.Submit.MaxDelay = 10 * time.Millisecond
	return conf
}

func OpenDB(t *testing.T) *inmemdb.DB {
	t.Helper()
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open() failed: %v", err)
	}
	return db
}

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, email, pwd, role string,
	isAdmin, isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr, err := repo.CreateUser(context.Background(), user.User{
		Name:      name,
		Email:     email,
		Password:  pwd,
		Role:      user.ResolveRole(role, isAdmin),
		IsAdmin:   isAdmin,
		IsActive:  null.BoolFrom(isActive),
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	})
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}
