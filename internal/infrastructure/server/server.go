package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/Yash-Thio/IETE-ToDo/docs"
	httpHandlers "github.com/Yash-Thio/IETE-ToDo/internal/adapters/http"
	"github.com/Yash-Thio/IETE-ToDo/internal/adapters/repository"
	"github.com/Yash-Thio/IETE-ToDo/internal/application/services"
	"github.com/Yash-Thio/IETE-ToDo/internal/infrastructure/config"
	"github.com/Yash-Thio/IETE-ToDo/internal/infrastructure/database"
	"github.com/Yash-Thio/IETE-ToDo/internal/infrastructure/logger"
	"github.com/Yash-Thio/IETE-ToDo/internal/infrastructure/metrics"
	"github.com/Yash-Thio/IETE-ToDo/internal/ports"
)

// importBodyLimit matches the import handler's own 1 MiB cap.
const importBodyLimit = "1M"

// Server represents the HTTP server
type Server struct {
	echo     *echo.Echo
	config   *config.Config
	logger   *logger.Logger
	db       *database.DB
	registry *prometheus.Registry
}

type handlers struct {
	auth        *httpHandlers.AuthHandler
	lists       *httpHandlers.ListHandler
	tasks       *httpHandlers.TaskHandler
	imports     *httpHandlers.ImportHandler
	authService *services.AuthService
}

// New creates a new server instance
func New(cfg *config.Config, db *database.DB, appLogger *logger.Logger, provider ports.IdentityProvider) (*Server, error) {
	loc, err := cfg.App.Location()
	if err != nil {
		return nil, err
	}

	e := echo.New()

	// Set custom validator
	e.Validator = httpHandlers.NewValidator()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = true

	// Custom error handler
	e.HTTPErrorHandler = customErrorHandler(appLogger)

	server := &Server{
		echo:   e,
		config: cfg,
		logger: appLogger,
		db:     db,
	}

	var recorder *metrics.Recorder
	if cfg.Metrics.Enabled {
		server.registry = prometheus.NewRegistry()
		recorder = metrics.NewRecorder(server.registry)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.DB)
	listRepo := repository.NewListRepository(db.DB)
	taskRepo := repository.NewTaskRepository(db.DB)

	// Initialize services
	authService := services.NewAuthService(userRepo, provider, cfg.Auth, appLogger)
	listService := services.NewListService(listRepo, appLogger)
	aggregator := services.NewTaskAggregator(listRepo, taskRepo, appLogger, recorder, services.AggregatorConfig{
		QueryTimeout: cfg.Gateway.QueryTimeout,
		Location:     loc,
	})
	importer := services.NewImporter(listService, aggregator, appLogger)

	// Initialize handlers
	h := handlers{
		auth:        httpHandlers.NewAuthHandler(authService, cfg.Auth, appLogger),
		lists:       httpHandlers.NewListHandler(listService, appLogger),
		tasks:       httpHandlers.NewTaskHandler(aggregator, appLogger),
		imports:     httpHandlers.NewImportHandler(importer, appLogger),
		authService: authService,
	}

	// Setup middleware
	server.setupMiddleware()

	// Setup metrics
	if server.registry != nil {
		server.setupMetrics()
	}

	// Setup routes
	server.setupRoutes(h)

	return server, nil
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	// Recovery middleware
	s.echo.Use(middleware.Recover())

	// Request ID middleware
	s.echo.Use(middleware.RequestID())

	// Logger middleware
	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		LogRemoteIP:  true,
		LogUserAgent: true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, values middleware.RequestLoggerValues) error {
			fields := []interface{}{
				"method", values.Method,
				"uri", values.URI,
				"status", values.Status,
				"latency_ms", float64(values.Latency.Nanoseconds()) / 1000000,
				"remote_ip", values.RemoteIP,
				"user_agent", values.UserAgent,
				"request_id", values.RequestID,
			}

			if values.Error != nil {
				fields = append(fields, "error", values.Error.Error())
				s.logger.Errorw("HTTP request failed", fields...)
			} else {
				s.logger.Infow("HTTP request", fields...)
			}

			return nil
		},
	}))

	// CORS middleware
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     strings.Split(s.config.Security.CORSAllowedOrigins, ","),
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowMethods:     []string{echo.GET, echo.HEAD, echo.PATCH, echo.POST},
		AllowCredentials: true,
	}))

	// Rate limiting middleware
	if n := s.config.Security.RateLimitRequests; n > 0 && s.config.Security.RateLimitWindow > 0 {
		perSecond := rate.Limit(float64(n) / s.config.Security.RateLimitWindow.Seconds())
		s.echo.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
			Store: middleware.NewRateLimiterMemoryStoreWithConfig(
				middleware.RateLimiterMemoryStoreConfig{Rate: perSecond, Burst: n, ExpiresIn: s.config.Security.RateLimitWindow},
			),
			IdentifierExtractor: func(ctx echo.Context) (string, error) {
				return ctx.RealIP(), nil
			},
			ErrorHandler: func(context echo.Context, err error) error {
				return context.JSON(http.StatusForbidden, map[string]string{"message": "rate limit exceeded"})
			},
			DenyHandler: func(context echo.Context, identifier string, err error) error {
				return context.JSON(http.StatusTooManyRequests, map[string]string{"message": "rate limit exceeded"})
			},
		}))
	}

	// Security headers
	s.echo.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		HSTSMaxAge:         31536000,
	}))

	// Timeout middleware
	if s.config.Server.RequestTimeout > 0 {
		s.echo.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
			Timeout: s.config.Server.RequestTimeout,
		}))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(h handlers) {
	// Health check routes
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/health/detailed", s.detailedHealthCheck)
	s.echo.GET("/ready", s.readinessCheck)

	// Swagger documentation
	s.echo.GET("/swagger/*", echoSwagger.WrapHandler)

	// Sign-in routes (public)
	authGroup := s.echo.Group("/auth")
	authGroup.GET("/google/login", h.auth.Login)
	authGroup.GET("/google/callback", h.auth.Callback)
	authGroup.POST("/logout", h.auth.Logout, s.optionalAuth(h.authService))

	// API v1 routes (authenticated)
	v1 := s.echo.Group("/api/v1", s.authMiddleware(h.authService))
	v1.GET("/me", h.auth.Me)

	v1.GET("/lists", h.lists.ListLists)
	v1.POST("/lists", h.lists.CreateList)
	v1.GET("/lists/:id", h.lists.GetList)
	v1.GET("/lists/:id/tasks", h.tasks.ListTasks)

	v1.GET("/categories/:category/tasks", h.tasks.CategoryTasks)
	v1.GET("/unscheduled/tasks", h.tasks.UnscheduledTasks)
	v1.GET("/summary", h.tasks.Summary)

	v1.POST("/tasks", h.tasks.CreateTask)
	v1.GET("/tasks/:id", h.tasks.GetTask)
	v1.PATCH("/tasks/:id/completion", h.tasks.SetCompletion)
	v1.PATCH("/tasks/:id/flag", h.tasks.SetFlag)

	v1.POST("/import", h.imports.Import, middleware.BodyLimit(importBodyLimit))
}

// setupMetrics configures Prometheus metrics
func (s *Server) setupMetrics() {
	requestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	s.registry.MustRegister(requestsTotal, requestDuration)

	// Custom metrics middleware
	s.echo.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			duration := time.Since(start)
			status := c.Response().Status
			if err != nil {
				var he *echo.HTTPError
				if errors.As(err, &he) {
					status = he.Code
				} else {
					status = httpHandlers.ErrorStatus(err)
				}
			}

			requestsTotal.WithLabelValues(
				c.Request().Method,
				c.Path(),
				fmt.Sprintf("%d", status),
			).Inc()

			requestDuration.WithLabelValues(
				c.Request().Method,
				c.Path(),
			).Observe(duration.Seconds())

			return err
		}
	})

	// Metrics endpoint
	metricsHandler := promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
	s.echo.GET("/metrics", echo.WrapHandler(metricsHandler))
}

// Health check handlers
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) detailedHealthCheck(c echo.Context) error {
	status := "ok"
	checks := make(map[string]interface{})

	// Database health check
	if err := s.db.HealthCheck(); err != nil {
		status = "error"
		checks["database"] = map[string]interface{}{
			"status": "error",
			"error":  err.Error(),
		}
	} else {
		checks["database"] = map[string]interface{}{
			"status": "ok",
			"stats":  s.db.GetConnectionInfo(),
		}
	}

	response := map[string]interface{}{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339),
		"checks": checks,
		"version": map[string]string{
			"app": s.config.App.Version,
		},
	}

	if status == "ok" {
		return c.JSON(http.StatusOK, response)
	}
	return c.JSON(http.StatusServiceUnavailable, response)
}

func (s *Server) readinessCheck(c echo.Context) error {
	if err := s.db.Ping(); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "not_ready",
			"reason": "database_not_ready",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// ServeHTTP lets the server be driven directly, e.g. by httptest
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start starts the HTTP server
func (s *Server) Start(address string) error {
	s.logger.Infow("Starting server", "address", address)

	srv := &http.Server{
		Addr:         address,
		Handler:      s.echo,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}
	return s.echo.StartServer(srv)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Infow("Shutting down server")
	return s.echo.Shutdown(ctx)
}

// customErrorHandler handles HTTP errors
func customErrorHandler(logger *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var (
			code = http.StatusInternalServerError
			msg  interface{}
		)

		var he *echo.HTTPError
		var ve validator.ValidationErrors
		if errors.As(err, &he) {
			code = he.Code
			msg = map[string]interface{}{"message": he.Message}
			if he.Internal != nil {
				err = fmt.Errorf("%v, %v", err, he.Internal)
			}
		} else if errors.As(err, &ve) {
			code = http.StatusBadRequest
			msg = map[string]string{"message": "validation failed", "details": ve.Error()}
		} else {
			code = httpHandlers.ErrorStatus(err)
			if code == http.StatusInternalServerError {
				msg = map[string]string{"message": http.StatusText(code)}
			} else {
				msg = map[string]string{"message": err.Error()}
			}
		}

		if code >= http.StatusInternalServerError {
			logger.Errorw("Request failed", "error", err, "path", c.Request().URL.Path, "status", code)
		}

		// Send response
		if !c.Response().Committed {
			if c.Request().Method == echo.HEAD {
				err = c.NoContent(code)
			} else {
				err = c.JSON(code, msg)
			}
			if err != nil {
				logger.Errorw("Error sending response", "error", err)
			}
		}
	}
}
