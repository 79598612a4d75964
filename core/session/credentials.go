package session

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/alyusr/institute/core"
	"github.com/alyusr/institute/core/user"
)

// ErrInvalidCredentials is deliberately generic: it never distinguishes an
// unknown email from a wrong password or a deactivated account.
var ErrInvalidCredentials = errors.New("invalid email or password")

// CredentialProvider authenticates an email/password pair and builds the
// resulting session.
type CredentialProvider interface {
	Authenticate(ctx context.Context, email, password string) (Session, error)
}

// StaticAccount is a hardcoded privileged account checked before the user store.
type StaticAccount struct {
	ID       string
	Email    string
	Password string
	Name     string
	Role     string
}

// DefaultStaticAccounts are the fixed privileged accounts baked into the
// deployment. They authenticate regardless of store contents.
var DefaultStaticAccounts = []StaticAccount{
	{ID: "static-admin", Email: "admin@alyusrinstitute.org", Password: "AlYusr@Admin2020", Name: "Site Admin", Role: user.RoleAdmin},
	{ID: "static-teacher", Email: "teacher@alyusrinstitute.org", Password: "AlYusr@Teacher2020", Name: "Lead Teacher", Role: user.RoleTeacher},
}

// StaticProvider authenticates against a fixed account list.
type StaticProvider struct {
	accounts []StaticAccount
}

var _ CredentialProvider = (*StaticProvider)(nil)

func NewStaticProvider(accounts []StaticAccount) *StaticProvider {
	return &StaticProvider{accounts: accounts}
}

func (p *StaticProvider) Authenticate(_ context.Context, email, password string) (Session, error) {
	email = core.CleanString(email, true /* lower */)
	for _, acc := range p.accounts {
		if strings.EqualFold(acc.Email, email) && acc.Password == password {
			usr := user.User{ID: acc.ID, Name: acc.Name, Email: acc.Email, Role: acc.Role}
			return Session{
				ID:       acc.ID,
				Email:    acc.Email,
				Name:     acc.Name,
				Role:     user.ResolveRole(acc.Role, false),
				Initials: usr.Initials(),
			}, nil
		}
	}
	return Session{}, ErrInvalidCredentials
}

// StoreProvider authenticates against the shared user collection.
type StoreProvider struct {
	repo user.Repository
}

var _ CredentialProvider = (*StoreProvider)(nil)

func NewStoreProvider(repo user.Repository) *StoreProvider {
	return &StoreProvider{repo: repo}
}

func (p *StoreProvider) Authenticate(ctx context.Context, email, password string) (Session, error) {
	usr, err := p.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		if err == user.ErrNotFound {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, errors.Wrap(err, "finding user by email")
	}
	if usr.Deactivated() {
		return Session{}, ErrInvalidCredentials
	}
	if !usr.CheckPassword(password) {
		return Session{}, ErrInvalidCredentials
	}
	return Session{
		ID:       usr.ID,
		Email:    usr.Email,
		Name:     usr.Name,
		Role:     usr.ResolvedRole(),
		Initials: usr.Initials(),
	}, nil
}

// Chain tries each provider in order; the first success wins. Providers
// reporting ErrInvalidCredentials pass the attempt on to the next one,
// any other error aborts the chain.
type Chain []CredentialProvider

var _ CredentialProvider = (Chain)(nil)

func (c Chain) Authenticate(ctx context.Context, email, password string) (Session, error) {
	for _, p := range c {
		s, err := p.Authenticate(ctx, email, password)
		if err == nil {
			return s, nil
		}
		if errors.Cause(err) != ErrInvalidCredentials {
			return Session{}, err
		}
	}
	return Session{}, ErrInvalidCredentials
}
