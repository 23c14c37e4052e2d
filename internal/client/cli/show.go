package cli

import (
	"context"
	"fmt"
	"time"
)

// Me fetches and prints the current account profile.
func (a *App) Me(ctx context.Context) error {

	if !a.isLoggedIn() {
		fmt.Println("Not logged in")
		return nil
	}

	user, err := a.client.Me(ctx, a.token)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	fmt.Printf("ID:          %s\n", user.ID)
	fmt.Printf("Name:        %s\n", user.Name)
	fmt.Printf("Email:       %s\n", user.Email)
	fmt.Printf("Created:     %s\n", user.CreatedAt.Format(time.RFC3339))
	if user.LastLogin != nil {
		fmt.Printf("Last login:  %s\n", user.LastLogin.Format(time.RFC3339))
	} else {
		fmt.Println("Last login:  never")
	}
	fmt.Printf("Login count: %d\n", user.LoginCount)

	return nil
}

// Users fetches and prints every registered account.
func (a *App) Users(ctx context.Context) error {

	list, err := a.client.ListUsers(ctx)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	if len(list) == 0 {
		fmt.Println("No users registered yet")
		return nil
	}

	for _, u := range list {
		fmt.Printf("%s  %s <%s>  registered %s\n",
			u.ID, u.Name, u.Email, u.CreatedAt.Format(time.RFC3339))
	}

	return nil
}

// Ping checks that the server is reachable.
func (a *App) Ping(ctx context.Context) error {

	reqCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := a.client.Ping(reqCtx); err != nil {
		fmt.Println("Server unreachable:", err.Error())
		return err
	}

	fmt.Println("Server is up")
	return nil
}
