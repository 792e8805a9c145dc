package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/identity-api/docs" // swagger docs
	"github.com/99minutos/identity-api/internal/api/handler"
	"github.com/99minutos/identity-api/internal/api/metrics"
	"github.com/99minutos/identity-api/internal/api/middleware"
	"github.com/99minutos/identity-api/internal/api/session"
	"github.com/99minutos/identity-api/internal/core/ports"
	"github.com/99minutos/identity-api/internal/infrastructure/config"
	"github.com/99minutos/identity-api/internal/infrastructure/http/handlers"
	"github.com/99minutos/identity-api/pkg/logger"
)

// Deps collects everything the router wires into handlers.
type Deps struct {
	Config  *config.Config
	Users   ports.UserRepository
	Auth    ports.AuthService
	Cookies *session.CookieManager
	// Health maps dependency names to readiness checks.
	Health map[string]handlers.Pinger
	Logger zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler()
	e.IPExtractor = ipExtractor(d.Config.TrustProxy)

	production := d.Config.IsProduction()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(d.Logger))
	e.Use(metrics.HTTPMiddleware())
	e.Use(middleware.SecureHeaders(production))
	if !production {
		e.Use(middleware.CORS(d.Config.AllowOrigins()))
	}

	// --- Operational endpoints ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.Health)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", metrics.Handler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- API ---
	userHandler := handler.NewUserHandler(d.Auth, d.Cookies)
	sessionHandler := handler.NewSessionHandler(d.Auth, d.Cookies)
	devHandler := handler.NewDevHandler(d.Users, d.Cookies, production)

	api := e.Group("/api", middleware.CSRF(production), middleware.RestoreUser(d.Cookies, d.Users))

	api.GET("/csrf/restore", devHandler.RestoreCSRF)

	api.POST("/users", userHandler.Signup)

	api.GET("/session", sessionHandler.Current)
	api.POST("/session", sessionHandler.Login)
	api.DELETE("/session", sessionHandler.Logout)

	api.GET("/restore-user", devHandler.RestoredUser)
	api.GET("/require-auth", devHandler.RestoredUser, middleware.RequireAuth())
	api.GET("/set-token-cookie", devHandler.SetDemoToken)
	api.POST("/test", devHandler.EchoBody)

	return e
}

// ipExtractor decides where c.RealIP comes from. Login throttling keys on it,
// so X-Forwarded-For is only honoured behind a trusted proxy.
func ipExtractor(trustProxy bool) echo.IPExtractor {
	if trustProxy {
		return echo.ExtractIPFromXFFHeader()
	}
	return echo.ExtractIPDirect()
}

// requestLogger logs each request through zerolog and attaches a
// request-scoped logger carrying the request id to the request context.
func requestLogger(base zerolog.Logger) echo.MiddlewareFunc {
	logRequest := echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			log := logger.FromContext(c.Request().Context())
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Str("remote_ip", v.RemoteIP).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		inner := logRequest(next)
		return func(c echo.Context) error {
			reqID := c.Response().Header().Get(echo.HeaderXRequestID)
			l := base.With().Str("request_id", reqID).Logger()
			req := c.Request()
			c.SetRequest(req.WithContext(logger.WithContext(req.Context(), l)))
			return inner(c)
		}
	}
}
