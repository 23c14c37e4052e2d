// Package server initializes and runs the main application server.
// It selects the configured storage backend, handles graceful shutdown,
// and starts the HTTP server for the account API.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/config"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/users"
	"github.com/dmitrijs2005/authkeeper/internal/server/rest"
	"github.com/dmitrijs2005/authkeeper/internal/server/services"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	userService *services.UserService
}

// newRepository builds the record store named by cfg.StorageBackend.
func newRepository(ctx context.Context, cfg *config.Config) (users.Repository, error) {
	switch cfg.StorageBackend {
	case config.StorageFile:
		return users.NewFileRepository(cfg.DatabaseFile), nil
	case config.StoragePostgres:
		db, err := users.OpenDatabase(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		return users.NewPostgresRepository(db), nil
	case config.StorageS3:
		client, err := users.NewS3Client(ctx, cfg.S3Region, cfg.S3RootUser, cfg.S3RootPassword, cfg.S3BaseEndpoint)
		if err != nil {
			return nil, fmt.Errorf("s3 init error: %w", err)
		}
		return users.NewS3Repository(client, cfg.S3Bucket, cfg.S3ObjectKey), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.StorageBackend)
	}
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	slog := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slog)

	repo, err := newRepository(ctx, c)
	if err != nil {
		return nil, err
	}

	us := services.NewUserService(repo, c)

	return &App{config: c, logger: logger, userService: us}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startRestServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s, err := rest.NewRestServer(app.config.EndpointAddrHTTP, app.logger, app.userService, app.config.SecretKey)

	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	} else {

		if err := s.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startRestServer(ctx, cancelFunc)
	}()

	wg.Wait()

}
