// Package cli implements the interactive command-line client for the
// account service.
package cli

import (
	"bufio"
	"context"
	"os"

	"github.com/dmitrijs2005/authkeeper/internal/client/api"
	"github.com/dmitrijs2005/authkeeper/internal/client/config"
)

type App struct {
	config *config.Config
	client *api.Client
	token  string
	email  string
	reader *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {
	client := api.NewClient(c.ServerEndpointAddr, c.RequestTimeout)
	return &App{config: c, client: client, reader: bufio.NewReader(os.Stdin)}, nil
}

func (a *App) Run(ctx context.Context) {
	printlnFn("AuthKeeper CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
}

func (a *App) isLoggedIn() bool {
	return a.token != ""
}

// status names the current session for the REPL prompt.
func (a *App) status() string {
	if a.isLoggedIn() {
		return a.email
	}
	return "not logged in"
}
