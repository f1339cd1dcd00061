// Package rest is the HTTP interface of the game: account endpoints, level
// validation, session status and the static game files behind the session
// gate.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/umbra/internal/logging"
	"github.com/dmitrijs2005/umbra/internal/server/assets"
	"github.com/dmitrijs2005/umbra/internal/server/services"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	readTimeout  = 15 * time.Second
	writeTimeout = 60 * time.Second
)

type HTTPServer struct {
	address         string
	echo            *echo.Echo
	users           *services.UserService
	progression     *services.ProgressionService
	progress        *services.ProgressService
	assets          assets.Source
	logger          logging.Logger
	jwtSecret       []byte
	shutdownTimeout time.Duration
}

func NewHTTPServer(
	a string,
	l logging.Logger,
	us *services.UserService,
	gs *services.ProgressionService,
	ps *services.ProgressService,
	src assets.Source,
	secretKey []byte,
	shutdownTimeout time.Duration,
) *HTTPServer {
	s := &HTTPServer{
		address:         a,
		logger:          l.With("module", "http_server"),
		users:           us,
		progression:     gs,
		progress:        ps,
		assets:          src,
		jwtSecret:       secretKey,
		shutdownTimeout: shutdownTimeout,
	}
	s.echo = s.newEcho()
	return s
}

// Handler exposes the router, mainly for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.echo
}

func (s *HTTPServer) newEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.errorHandler

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: newRequestID}))
	e.Use(s.requestLogger())
	e.Use(middleware.Recover())

	gate := s.sessionGate()

	e.GET("/", s.entry)
	e.POST("/register", s.register)
	e.POST("/login", s.login)
	e.GET("/logout", s.logout, gate)

	api := e.Group("/api")
	api.POST("/validate", s.validate, gate)
	api.GET("/session_status", s.sessionStatus)
	api.GET("/health", s.health)

	e.GET("/pages/*", s.pages, gate)
	e.GET("/core/*", s.core)
	e.GET("/audio/*", s.audio, gate)

	return e
}

func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.echo,
		ReadHeaderTimeout: readTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
	}

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "graceful shutdown failed", "error", err)
			_ = srv.Close()
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	<-stopped
	return nil
}

// errorHandler logs server-side failures and defers to echo for the response.
func (s *HTTPServer) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
	}
	if code >= http.StatusInternalServerError {
		s.logger.Error(c.Request().Context(), "request failed",
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
			"error", err,
		)
	}
	c.Echo().DefaultHTTPErrorHandler(err, c)
}
