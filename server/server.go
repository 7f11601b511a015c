// Package server exposes evaluation cycles over HTTP.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rustyeddy/globalfire/report"
)

// Evaluator runs one evaluation cycle. *report.Evaluator satisfies it.
type Evaluator interface {
	Run(ctx context.Context) (report.Cycle, error)
}

// Response is the envelope every JSON endpoint returns.
type Response struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Warning string `json:"warning,omitempty"`
}

// Server wraps an echo instance serving reports, metrics and health.
type Server struct {
	echo            *echo.Echo
	eval            Evaluator
	log             zerolog.Logger
	ShutdownTimeout time.Duration
}

// New builds the server. A nil gatherer falls back to the default registry.
func New(eval Evaluator, gatherer prometheus.Gatherer, log zerolog.Logger) *Server {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:            e,
		eval:            eval,
		log:             log.With().Str("component", "server").Logger(),
		ShutdownTimeout: 10 * time.Second,
	}

	e.Use(middleware.Recover())
	e.Use(s.requestLogging())

	e.GET("/healthz", s.health)
	e.GET("/api/report", s.report)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	return s
}

// Echo returns the underlying echo instance.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	errc := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("http server listening")
		errc <- s.echo.Start(addr)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.ShutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.log.Info().Msg("http server stopped")
	return nil
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, Response{Status: http.StatusOK, Message: "ok"})
}

// report runs a fresh cycle. Upstream failures still yield a report (with
// the insufficient-data decision) and the error text as a warning.
func (s *Server) report(c echo.Context) error {
	cycle, err := s.eval.Run(c.Request().Context())

	var warning string
	if err != nil {
		if errors.Is(err, report.ErrNoPrimary) {
			return c.JSON(http.StatusInternalServerError, Response{
				Status:  http.StatusInternalServerError,
				Message: err.Error(),
			})
		}
		warning = err.Error()
	}

	if c.QueryParam("format") == "text" {
		var buf bytes.Buffer
		if err := report.WriteText(&buf, cycle); err != nil {
			return err
		}
		return c.Blob(http.StatusOK, echo.MIMETextPlainCharsetUTF8, buf.Bytes())
	}

	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return c.JSON(http.StatusOK, Response{
		Status:  http.StatusOK,
		Message: http.StatusText(http.StatusOK),
		Data:    cycle,
		Warning: warning,
	})
}

func (s *Server) requestLogging() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			s.log.Debug().
				Str("method", req.Method).
				Str("uri", req.RequestURI).
				Int("status", c.Response().Status).
				Dur("latency", time.Since(start)).
				Msg("request")
			return nil
		}
	}
}
