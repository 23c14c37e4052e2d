// Package rest exposes the account service over HTTP. It owns the route
// table, the response envelope, and the bearer-token check on protected
// endpoints.
package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/services"
)

const shutdownTimeout = 5 * time.Second

type RestServer struct {
	address   string
	users     *services.UserService
	logger    logging.Logger
	jwtSecret []byte
}

func NewRestServer(a string, l logging.Logger, us *services.UserService, secretKey string) (*RestServer, error) {
	return &RestServer{
		address:   a,
		logger:    l.With("module", "rest_server"),
		users:     us,
		jwtSecret: []byte(secretKey),
	}, nil
}

// routes builds the route table. Method-qualified patterns let the mux
// answer 405 for wrong methods on known paths.
func (s *RestServer) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("GET /api/auth/me", s.handleMe)
	mux.HandleFunc("GET /api/users", s.handleListUsers)

	return mux
}

func (s *RestServer) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.routes(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	// starts accepting incoming connections
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
