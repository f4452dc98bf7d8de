package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/taskmaster/todo/docs"
	httpHandlers "github.com/taskmaster/todo/internal/adapters/http"
	"github.com/taskmaster/todo/internal/application/services"
	"github.com/taskmaster/todo/internal/infrastructure/config"
	"github.com/taskmaster/todo/internal/infrastructure/logger"
	"github.com/taskmaster/todo/internal/infrastructure/metrics"
	"github.com/taskmaster/todo/internal/ports"
)

// Server represents the HTTP server
type Server struct {
	echo     *echo.Echo
	config   *config.Config
	logger   *logger.Logger
	slot     ports.Slot
	registry *prometheus.Registry
}

// Deps carries everything the server routes to
type Deps struct {
	Store     ports.TaskStore
	Presenter *services.ListPresenter
	Sync      *services.SyncService
	// Slot is probed by /ready
	Slot ports.Slot
	// Registry is served on /metrics; store collectors should already be registered on it
	Registry *prometheus.Registry
}

// CustomValidator wraps the validator
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates structs
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// New creates a new server instance
func New(cfg *config.Config, deps Deps, appLogger *logger.Logger) (*Server, error) {
	if deps.Store == nil || deps.Presenter == nil || deps.Sync == nil {
		return nil, fmt.Errorf("server: store, presenter and sync service are required")
	}
	if deps.Registry == nil {
		deps.Registry = prometheus.NewRegistry()
	}

	e := echo.New()

	e.Validator = &CustomValidator{validator: validator.New()}

	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = customErrorHandler(appLogger)

	server := &Server{
		echo:     e,
		config:   cfg,
		logger:   appLogger,
		slot:     deps.Slot,
		registry: deps.Registry,
	}

	server.setupMiddleware()

	// metrics middleware must be in place before routes are added
	if cfg.Metrics.Enabled {
		server.setupMetrics()
	}

	taskHandler := httpHandlers.NewTaskHandler(deps.Store, deps.Presenter, appLogger.WithComponent("http"))
	syncHandler := httpHandlers.NewSyncHandler(deps.Sync, appLogger.WithComponent("http"))
	server.setupRoutes(taskHandler, syncHandler)

	return server, nil
}

// setupRoutes configures API routes
func (s *Server) setupRoutes(taskHandler *httpHandlers.TaskHandler, syncHandler *httpHandlers.SyncHandler) {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/ready", s.readinessCheck)

	// API documentation
	s.echo.GET("/swagger/*", echoSwagger.WrapHandler)

	api := s.echo.Group("/api/v1")

	tasks := api.Group("/tasks")
	tasks.GET("", taskHandler.ListTasks)
	tasks.POST("", taskHandler.CreateTask)
	tasks.GET("/board", taskHandler.GetBoard)
	tasks.PUT("/:id", taskHandler.UpdateTask)
	tasks.POST("/:id/toggle", taskHandler.ToggleTask)
	tasks.DELETE("/:id", taskHandler.DeleteTask)

	api.GET("/sync", syncHandler.GetSyncStatus)
	api.POST("/sync", syncHandler.StartSync)
}

// setupMetrics configures Prometheus metrics
func (s *Server) setupMetrics() {
	httpMetrics := metrics.NewHTTPMetrics(s.registry)

	s.echo.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			duration := time.Since(start)
			status := c.Response().Status
			if err != nil && !c.Response().Committed {
				status = errorStatus(err)
			}

			httpMetrics.RequestsTotal.WithLabelValues(
				c.Request().Method,
				c.Path(),
				fmt.Sprintf("%d", status),
			).Inc()

			httpMetrics.RequestDuration.WithLabelValues(
				c.Request().Method,
				c.Path(),
			).Observe(duration.Seconds())

			return err
		}
	})

	metricsHandler := promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
	s.echo.GET("/metrics", echo.WrapHandler(metricsHandler))
}

func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"time":    time.Now().UTC().Format(time.RFC3339),
		"version": s.config.App.Version,
	})
}

func (s *Server) readinessCheck(c echo.Context) error {
	resp := map[string]string{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	}

	if s.slot != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		if err := s.checkSlot(ctx); err != nil {
			s.logger.Warnw("Readiness probe failed", "error", err, "backend", s.config.Storage.Backend)
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"reason": "storage_not_ready",
			})
		}

		if tracker, ok := s.slot.(ports.WriteTracker); ok {
			if at, found, err := tracker.UpdatedAt(ctx, s.config.Storage.Key); err == nil && found {
				resp["last_write"] = at.UTC().Format(time.RFC3339)
			}
		}
	}

	return c.JSON(http.StatusOK, resp)
}

func (s *Server) checkSlot(ctx context.Context) error {
	if hc, ok := s.slot.(ports.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return err
		}
	}
	_, _, err := s.slot.Read(ctx, s.config.Storage.Key)
	return err
}

// ServeHTTP lets the server be driven directly, e.g. by httptest
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start starts the HTTP server
func (s *Server) Start() error {
	srv := &http.Server{
		Addr:         s.config.Server.GetAddr(),
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	s.logger.Infow("Starting server", "address", srv.Addr)
	return s.echo.StartServer(srv)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server")
	return s.echo.Shutdown(ctx)
}

// errorStatus is the response code customErrorHandler writes for err
func errorStatus(err error) int {
	switch e := err.(type) {
	case *echo.HTTPError:
		return e.Code
	case validator.ValidationErrors:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// customErrorHandler handles HTTP errors
func customErrorHandler(logger *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := errorStatus(err)
		var msg interface{}
		if he, ok := err.(*echo.HTTPError); ok {
			msg = map[string]interface{}{"message": he.Message}
			if he.Internal != nil {
				err = fmt.Errorf("%v, %v", err, he.Internal)
			}
		} else if e, ok := err.(validator.ValidationErrors); ok {
			msg = map[string]string{"message": "validation failed", "details": e.Error()}
		} else {
			msg = map[string]string{"message": http.StatusText(code)}
		}

		if code == http.StatusInternalServerError {
			logger.Errorw("Internal server error", "error", err, "path", c.Request().URL.Path)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, msg)
		}
		if err != nil {
			logger.Errorw("Error sending response", "error", err)
		}
	}
}
