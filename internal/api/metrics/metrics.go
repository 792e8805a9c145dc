// Package metrics defines and registers all custom Prometheus metrics for the
// identity API. It is the single source of truth for metric names, labels,
// and help strings. Metrics register with the default registry on import.
package metrics

import (
	"errors"
	"net/http"
	"sync"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/99minutos/identity-api/internal/core/domain"
)

const namespace = "identity"

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionRestoreTotal counts identity restoration decisions per request.
// Label:
//   - outcome: "anonymous", "restored", "token_malformed", "token_signature_invalid",
//     "token_expired", "user_not_found", "store_fault"
var SessionRestoreTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_restore_total",
		Help:      "Total number of session restoration attempts, by outcome.",
	},
	[]string{"outcome"},
)

// SessionsIssuedTotal counts session cookies written.
var SessionsIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_issued_total",
		Help:      "Total number of session cookies issued.",
	},
)

// ── Account metrics ───────────────────────────────────────────────────────────

// SignupsTotal counts signup attempts that reached the service.
// Label:
//   - result: "created", "conflict", "error"
var SignupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of signup attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "failed", "throttled", "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── HTTP metrics ──────────────────────────────────────────────────────────────

var (
	httpOnce       sync.Once
	httpMiddleware echo.MiddlewareFunc
)

// HTTPMiddleware records request count, latency and sizes per route through
// echoprometheus. The collectors register once with the default registry, so
// every router built in the process shares them.
func HTTPMiddleware() echo.MiddlewareFunc {
	httpOnce.Do(func() {
		httpMiddleware = echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Subsystem:          namespace,
			StatusCodeResolver: statusCode,
		})
	})
	return httpMiddleware
}

// Handler serves the default registry.
func Handler() echo.HandlerFunc {
	return echoprometheus.NewHandler()
}

// statusCode labels a request with the status the error handler will write.
// Errors are still unhandled when the middleware observes them.
func statusCode(c echo.Context, err error) int {
	if err == nil {
		return c.Response().Status
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return de.Status
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return http.StatusInternalServerError
}

// AuthRecorder feeds signup and login outcomes into SignupsTotal and LoginsTotal.
type AuthRecorder struct{}

func (AuthRecorder) SignupOutcome(result string) { SignupsTotal.WithLabelValues(result).Inc() }

func (AuthRecorder) LoginOutcome(result string) { LoginsTotal.WithLabelValues(result).Inc() }
