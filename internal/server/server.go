package server

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-link-keeper/internal/config"
	"github.com/MKhiriev/go-link-keeper/internal/handler"
	"github.com/MKhiriev/go-link-keeper/internal/logger"
)

type server struct {
	httpServer *httpServer
	onShutdown []func()
	logger     *logger.Logger
}

// NewServer builds the HTTP server. onShutdown hooks run after the listener
// stopped, in the given order.
func NewServer(handlers *handler.Handlers, cfg config.Server, logger *logger.Logger, onShutdown ...func()) (Server, error) {
	logger.Info().Msg("creating new server...")

	if handlers == nil || handlers.HTTP == nil || cfg.HTTPAddress == "" {
		return nil, errNoServersAreCreated
	}

	return &server{
		httpServer: newHTTPServer(handlers.HTTP.Init(), cfg, logger),
		onShutdown: onShutdown,
		logger:     logger,
	}, nil
}

func (s *server) RunServer() {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	s.run(ctx)
}

func (s *server) Shutdown() {
	s.httpServer.Shutdown()

	for _, hook := range s.onShutdown {
		hook()
	}
}

// run serves until ctx is cancelled or the listener fails.
func (s *server) run(ctx context.Context) {
	stopped := make(chan struct{})

	s.logger.Info().Msg("Launching HTTP server")
	go func() {
		defer close(stopped)
		s.httpServer.RunServer()
	}()

	select {
	case <-ctx.Done():
	case <-stopped:
		s.logger.Warn().Msg("HTTP server stopped unexpectedly")
	}

	s.Shutdown()
	<-stopped
	s.logger.Info().Msg("server Shutdown gracefully")
}
