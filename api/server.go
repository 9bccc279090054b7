package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/multierr"

	"github.com/aurumid/goldpos-backend/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// Server wraps the HTTP listener with context-driven shutdown.
type Server struct {
	httpServer *http.Server
	logg       *logger.Logger
}

func NewServer(addr string, handler http.Handler, logg *logger.Logger) (*Server, error) {
	if handler == nil {
		return nil, fmt.Errorf("handler required")
	}
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logg: logg,
	}, nil
}

// Run serves until the context is cancelled, then drains in-flight requests.
// The listen error and the shutdown error are both reported when both occur.
func (s *Server) Run(ctx context.Context) error {
	listenErr := make(chan error, 1)
	go func() {
		err := s.httpServer.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		listenErr <- err
	}()

	select {
	case err := <-listenErr:
		return err
	case <-ctx.Done():
	}

	if s.logg != nil {
		s.logg.Info(context.Background(), "shutting down api server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	shutdownErr := s.httpServer.Shutdown(shutdownCtx)
	return multierr.Combine(shutdownErr, <-listenErr)
}
