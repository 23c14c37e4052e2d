package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/authkeeper/internal/common"
)

// Register prompts for account details and creates an account. On success
// the session token is kept for protected commands.
func (a *App) Register(ctx context.Context) error {

	name, err := GetSimpleText(a.reader, "Enter name", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

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

	res, err := a.client.Register(ctx, name, email, string(password))
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	a.token = res.Token
	a.email = res.User.Email

	fmt.Println("Success!")
	return nil
}
