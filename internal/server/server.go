// Package server exposes generation passes over HTTP.
package server

import (
	"context"
	stderrors "errors"
	"io"
	"net"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/toyz/ifacegen/internal/cli"
	"github.com/toyz/ifacegen/internal/config"
	"github.com/toyz/ifacegen/internal/errors"
	"github.com/toyz/ifacegen/internal/manifest"
)

// requestManifest is the location reported for errors in a request body
const requestManifest = "request"

// Server wraps an Echo instance serving the generation API
type Server struct {
	echo      *echo.Echo
	config    config.ServerConfig
	generator *cli.Generator
	logger    *zap.Logger
}

// GeneratedFile is one generated unit in a response
type GeneratedFile struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// GenerateResponse is the body of a successful POST /v1/generate
type GenerateResponse struct {
	Pass           string          `json:"pass"`
	Files          []GeneratedFile `json:"files"`
	SkippedMembers int             `json:"skipped_members"`
}

// New creates a server that runs passes with generator
func New(cfg config.ServerConfig, generator *cli.Generator, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("server")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.ReadTimeout
	e.Server.WriteTimeout = cfg.WriteTimeout

	s := &Server{echo: e, config: cfg, generator: generator, logger: logger}
	e.HTTPErrorHandler = s.handleError

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Debug("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency))
			return nil
		},
	}))
	if cfg.BodyLimit != "" {
		e.Use(middleware.BodyLimit(cfg.BodyLimit))
	}

	e.GET("/healthz", s.health)
	e.POST("/v1/generate", s.generate)
	return s
}

// Echo returns the underlying Echo instance
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// ServeHTTP lets the server be mounted or tested as a plain handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// ListenAndServe listens on the configured address and serves until ctx is done
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return errors.Wrapf(errors.ConfigurationErrorCode, err, "failed to listen on %s", s.config.Address)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then shuts down gracefully
// within the configured shutdown timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.echo.Listener = ln
	s.logger.Info("server started", zap.String("address", ln.Addr().String()))

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.echo.Start("")
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down server")
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return errors.Wrapf(errors.UnknownErrorCode, err, "server forced to shutdown")
	}
	if err := <-errCh; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("server shutdown complete")
	return nil
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// generate runs one pass over the manifest in the request body. The body may be
// YAML or JSON.
func (s *Server) generate(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return err
	}

	m, err := manifest.Parse(body, requestManifest)
	if err != nil {
		return err
	}

	result, err := s.generator.Pass(c.Request().Context(), m)
	if err != nil {
		return err
	}

	response := GenerateResponse{
		Pass:           result.ID.String(),
		Files:          make([]GeneratedFile, 0, len(result.Units)),
		SkippedMembers: result.SkippedMembers,
	}
	for _, unit := range result.Units {
		response.Files = append(response.Files, GeneratedFile{Name: unit.HintName, Content: string(unit.Content)})
	}

	s.logger.Info("pass served", zap.String("pass", response.Pass), zap.Int("files", len(response.Files)))
	return c.JSON(http.StatusOK, response)
}
