package web

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/vbonduro/assettracker/internal/domain"
	"github.com/vbonduro/assettracker/internal/web/templates"
)

// assetRepository is the subset of store.Repository the HTTP layer requires.
type assetRepository interface {
	GetAll(ctx context.Context) ([]*domain.Asset, error)
	GetByID(ctx context.Context, id int64) (*domain.Asset, error)
	Create(ctx context.Context, in domain.NewAsset) (*domain.Asset, error)
	Update(ctx context.Context, id int64, in domain.AssetUpdate) (*domain.Asset, error)
	Delete(ctx context.Context, id int64) (bool, error)
	GetSummary(ctx context.Context) (*domain.Summary, error)
}

type Options struct {
	AllowOrigins []string
	Debug        bool
	// Sentry installs the Sentry middleware; sentry.Init must already have run.
	Sentry bool
}

type Server struct {
	repo   assetRepository
	echo   *echo.Echo
	logger *slog.Logger
}

func NewServer(repo assetRepository, opts Options, logger *slog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Debug = opts.Debug
	e.Validator = &requestValidator{validator: validator.New()}
	e.Renderer = &templateRenderer{templates: template.Must(template.ParseFS(templates.FS, "*.html"))}

	s := &Server{repo: repo, echo: e, logger: logger}
	e.HTTPErrorHandler = s.handleError

	e.Use(middleware.Recover())
	e.Use(requestLogger(logger))
	e.Use(securityHeaders)
	e.Use(middleware.BodyLimit("250K"))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowOrigins(opts.AllowOrigins),
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
	}))
	if opts.Sentry {
		e.Use(sentryecho.New(sentryecho.Options{Repanic: true}))
	}

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.echo.GET("/", s.handleIndex)
	s.echo.StaticFS("/static", echo.MustSubFS(templates.FS, "static"))

	api := s.echo.Group("/api")
	api.GET("/assets", s.handleListAssets)
	api.POST("/assets", s.handleCreateAsset)
	api.GET("/assets/summary", s.handleGetSummary)
	api.GET("/assets/:id", s.handleGetAsset)
	api.PUT("/assets/:id", s.handleUpdateAsset)
	api.DELETE("/assets/:id", s.handleDeleteAsset)
}

func allowOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// securityHeaders sets browser hardening headers on every response.
func securityHeaders(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		h := c.Response().Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy",
			"default-src 'self'; "+
				"script-src 'self'; "+
				"style-src 'self' 'unsafe-inline'; "+
				"img-src 'self' data:; "+
				"connect-src 'self'")
		return next(c)
	}
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURIPath:  true,
		LogStatus:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.LogAttrs(c.Request().Context(), slog.LevelInfo, "request",
				slog.String("method", v.Method),
				slog.String("path", v.URIPath),
				slog.Int("status", v.Status),
				slog.Int64("duration_ms", v.Latency.Milliseconds()),
			)
			return nil
		},
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Run serves on addr until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
