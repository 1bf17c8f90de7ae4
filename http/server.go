// Package http provides the HTTP transport layer for the student roster.
package http

import (
	"context"
	"log/slog"
	"net"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rosterapp/roster"
	"github.com/rosterapp/roster/internal/validation"
)

// DefaultTimeout bounds every collaborator call made by a handler. The
// upstream stores have no guard of their own, so without this a hung call
// would stall the request indefinitely.
const DefaultTimeout = 5 * time.Second

// Server represents the HTTP server with all its dependencies.
type Server struct {
	echo   *echo.Echo
	ln     net.Listener
	logger *slog.Logger

	// Configuration
	Addr           string
	RequestTimeout time.Duration

	// Domain services
	studentService roster.StudentService

	// External services
	fileStorage roster.FileStorage
}

// Config holds the configuration for creating a new Server.
type Config struct {
	Addr           string
	Logger         *slog.Logger
	RequestTimeout time.Duration

	// Template renderer
	Renderer echo.Renderer

	// Domain services
	StudentService roster.StudentService

	// External services
	FileStorage roster.FileStorage
}

// NewServer creates a new HTTP server with the given configuration.
func NewServer(cfg Config) *Server {
	s := &Server{
		Addr:           cfg.Addr,
		logger:         cfg.Logger,
		RequestTimeout: cfg.RequestTimeout,
		studentService: cfg.StudentService,
		fileStorage:    cfg.FileStorage,
	}

	if s.RequestTimeout == 0 {
		s.RequestTimeout = DefaultTimeout
	}

	s.echo = echo.New()
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Validator = validation.NewValidator()

	// Set template renderer if provided
	if cfg.Renderer != nil {
		s.echo.Renderer = cfg.Renderer
	}

	// Register middleware and routes
	s.registerMiddleware()
	s.registerRoutes()

	return s
}

// Echo returns the underlying Echo instance.
// Use sparingly - prefer registering routes through Server methods.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Open starts the HTTP server.
func (s *Server) Open() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	s.ln = ln

	go func() {
		if err := s.echo.Server.Serve(s.ln); err != nil {
			s.logger.Error("server error", slog.String("error", err.Error()))
		}
	}()

	s.logger.Info("server started", slog.String("addr", s.Addr))
	return nil
}

// Close gracefully shuts down the HTTP server.
func (s *Server) Close(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

// URL returns the URL of the server.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}
