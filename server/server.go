// Package server exposes the email assistant over HTTP.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hrygo/mailmind/internal/profile"
	"github.com/hrygo/mailmind/plugin/ai/assistant"
	"github.com/hrygo/mailmind/plugin/ai/metrics"
	"github.com/hrygo/mailmind/plugin/ai/timeout"
	mw "github.com/hrygo/mailmind/server/middleware"
	apiv1 "github.com/hrygo/mailmind/server/router/api/v1"
)

type Server struct {
	Profile *profile.Profile

	echoServer *echo.Echo
}

// NewServer wires the HTTP routes. gatherer backs /metrics; nil disables it.
func NewServer(profile *profile.Profile, stack *assistant.Stack, metricsService metrics.MetricsService, gatherer prometheus.Gatherer) *Server {
	echoServer := echo.New()
	echoServer.Debug = profile.IsDev()
	echoServer.HideBanner = true
	echoServer.HidePort = true
	echoServer.Use(echomw.Recover())
	echoServer.Use(mw.RequestID())
	echoServer.Use(mw.AccessLog())

	apiv1.NewAPIV1Service(profile, stack, metricsService).RegisterRoutes(echoServer)

	if gatherer != nil {
		echoServer.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	return &Server{
		Profile:    profile,
		echoServer: echoServer,
	}
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.echoServer
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := s.Profile.ListenAddr()
	s.echoServer.Server.ReadTimeout = timeout.RequestTimeout
	s.echoServer.Server.WriteTimeout = timeout.ServerWriteTimeout

	errCh := make(chan error, 1)
	go func() {
		slog.Info("mailmind server started", "addr", addr, "mode", s.Profile.Mode, "version", s.Profile.Version)
		if err := s.echoServer.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return errors.Wrap(err, "failed to start server")
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("mailmind server shutting down")
	if err := s.echoServer.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "failed to shutdown server")
	}
	return nil
}
