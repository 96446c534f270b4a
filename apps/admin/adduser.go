package main

import (
	"context"
	"fmt"

	"github.com/KB1707/CramJam/core/user"
)

// addUser registers a new user.User, with the same checks as signing up.
func (cli *commandLine) addUser(uname, pwd string, profile user.Profile) error {
	nu := user.NewUser{Username: uname, Password: pwd, Profile: profile}
	if err := nu.Validate(cli.validate); err != nil {
		return err
	}
	usr, err := cli.usrSvc.AddUser(context.Background(), nu)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "User %s created (id %s).\n", usr.Username, usr.ID)
	return nil
}
