package main

import (
	"context"
	"fmt"
)

func (cli *commandLine) login(email, pwd string) error {
	s, err := cli.sessions.SignIn(context.Background(), email, pwd)
	if err != nil {
		return err
	}
	fmt.Printf("signed in as %s (%s)\n", s.Name, s.Role)
	return nil
}

func (cli *commandLine) logout() error {
	cli.sessions.SignOut()
	fmt.Println("signed out")
	return nil
}

func (cli *commandLine) whoami() error {
	if s := cli.sessions.Current(); s != nil {
		fmt.Printf("%s <%s> (%s)\n", s.Name, s.Email, s.Role)
		return nil
	}
	fmt.Println("not signed in")
	return nil
}
