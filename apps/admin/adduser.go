package main

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/alyusr/institute/core"
	"github.com/alyusr/institute/core/user"
)

// addUser updates or creates a user.User
func (cli *commandLine) addUser(name, email, pwd, role string, isAdmin bool) error {
	ctx := context.Background()
	name = core.CleanString(name)
	email = core.CleanString(email, true /* lower */)
	now := time.Now().UTC()

	usr, err := cli.usrRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Cause(err) != user.ErrNotFound {
			return err
		}
		usr = user.User{
			Name:      name,
			Email:     email,
			Password:  pwd,
			Role:      user.ResolveRole(role, isAdmin),
			IsAdmin:   isAdmin,
			IsActive:  null.BoolFrom(true),
			CreatedAt: now,
			UpdatedAt: now,
		}
		_, err = cli.usrRepo.CreateUser(ctx, usr)
		return err
	}

	usr.Name = name
	usr.Password = pwd
	usr.Role = user.ResolveRole(role, isAdmin)
	usr.IsAdmin = isAdmin
	usr.UpdatedAt = now
	_, err = cli.usrRepo.UpdateUser(ctx, usr, null.BoolFrom(true))
	return err
}
