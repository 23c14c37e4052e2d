package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/authkeeper/internal/common"
)

// Login prompts for credentials and authenticates. On success the session
// token is kept for protected commands.
func (a *App) Login(ctx context.Context) error {

	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	password, err := GetPassword(os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}
	defer common.WipeByteArray(password)

	res, err := a.client.Login(ctx, email, string(password))
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	a.token = res.Token
	a.email = res.User.Email

	fmt.Printf("Welcome back, %s! (login #%d)\n", res.User.Name, res.User.LoginCount)
	return nil
}

// Logout drops the current session token. The token itself stays valid
// server-side until it expires.
func (a *App) Logout(ctx context.Context) error {
	a.token = ""
	a.email = ""
	fmt.Println("Logged out")
	return nil
}
