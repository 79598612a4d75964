package redisdb

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/volatiletech/null/v8"

	"github.com/alyusr/institute/core/user"
)

type userRepository struct {
	coll collection
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(client *redis.Client) user.Repository {
	return &userRepository{coll: newCollection(client, "users")}
}

func (repo *userRepository) query(ctx context.Context) ([]user.User, error) {
	var users []user.User
	err := repo.coll.each(ctx, func(raw string) error {
		var usr persisted
		if err := json.Unmarshal([]byte(raw), &usr); err != nil {
			return errors.Wrap(err, "unmarshalling user")
		}
		users = append(users, user.User(usr))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}

func (repo *userRepository) CheckEmailUniqueness(ctx context.Context, email string, excludedUsers ...user.User) error {
	users, err := repo.query(ctx)
	if err != nil {
		return err
	}
	for _, usr := range users {
		if usr.Email != email {
			continue
		}
		excluded := false
		for _, excl := range excludedUsers {
			if usr.ID == excl.ID {
				excluded = true
				break
			}
		}
		if !excluded {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	usr.ID = uuid.New().String()
	if err := repo.coll.set(ctx, usr.ID, persistedUser(usr)); err != nil {
		return user.User{}, err
	}
	return usr, nil
}

func (repo *userRepository) QueryAllUsers(ctx context.Context) ([]user.User, error) {
	return repo.query(ctx)
}

func (repo *userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	var usr persisted
	found, err := repo.coll.get(ctx, id, &usr)
	if err != nil {
		return user.User{}, err
	}
	if !found {
		return user.User{}, user.ErrNotFound
	}
	return user.User(usr), nil
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	users, err := repo.query(ctx)
	if err != nil {
		return user.User{}, err
	}
	for _, usr := range users {
		if usr.Email == email {
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) FilterUsers(ctx context.Context, filter user.QueryFilter) ([]user.User, error) {
	users, err := repo.query(ctx)
	if err != nil {
		return nil, err
	}

	var filtered []user.User
	for _, u := range users {
		if filter.Search != "" &&
			!strings.Contains(strings.ToLower(u.Name), strings.ToLower(filter.Search)) &&
			!strings.Contains(strings.ToLower(u.Email), strings.ToLower(filter.Search)) {
			continue
		}
		if filter.Role != "" && u.ResolvedRole() != filter.Role {
			continue
		}
		if filter.IsActive != nil && !u.Deactivated() != *filter.IsActive {
			continue
		}
		filtered = append(filtered, u)
	}
	return filtered, nil
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User, isActive null.Bool) (user.User, error) {
	orig, err := repo.GetUserByID(ctx, usr.ID)
	if err != nil {
		return user.User{}, err
	}

	if usr.Name != "" {
		orig.Name = usr.Name
	}
	if usr.Email != "" {
		orig.Email = usr.Email
	}
	if usr.Password != "" {
		orig.Password = usr.Password
	}
	if usr.Role != "" {
		orig.Role = usr.Role
		orig.IsAdmin = usr.IsAdmin
	}
	if isActive.Valid {
		orig.IsActive = isActive
	}
	if !usr.LastLogin.IsZero() {
		orig.LastLogin = usr.LastLogin
	}
	if !usr.UpdatedAt.IsZero() {
		orig.UpdatedAt = usr.UpdatedAt
	}

	if err := repo.coll.set(ctx, orig.ID, persistedUser(orig)); err != nil {
		return user.User{}, err
	}
	return orig, nil
}

func (repo *userRepository) DeleteUsersByID(ctx context.Context, ids ...string) error {
	return repo.coll.delete(ctx, ids...)
}

// persisted round-trips the password through JSON; user.User hides it
// with json:"-" which must not apply to storage.
type persisted user.User

func persistedUser(usr user.User) persisted { return persisted(usr) }

func (p persisted) MarshalJSON() ([]byte, error) {
	type alias persisted
	return json.Marshal(struct {
		alias
		Password string `json:"password"`
	}{alias: alias(p), Password: p.Password})
}

func (p *persisted) UnmarshalJSON(data []byte) error {
	type alias persisted
	aux := struct {
		*alias
		Password string `json:"password"`
	}{alias: (*alias)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	p.Password = aux.Password
	return nil
}
