package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"kustodia/internal/platform/metrics"
	"kustodia/internal/platform/middleware"
	"kustodia/pkg/domain"
)

// HealthChecker reports readiness of one dependency.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// RouterConfig collects everything the router needs. Auth applies to all
// API routes; healthz and the scrape endpoint stay open.
type RouterConfig struct {
	Gateway      GatewayService
	Dispatcher   Dispatcher
	PlatformOnly bool
	Validator    middleware.TokenValidator
	Registry     *prometheus.Registry
	HTTPMetrics  *metrics.HTTP
	Logger       *slog.Logger
	Timeout      time.Duration
	Health       map[string]HealthChecker
}

// NewRouter wires all public endpoints behind the shared middleware chain.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	if cfg.HTTPMetrics != nil {
		r.Use(cfg.HTTPMetrics.Middleware)
	}
	if cfg.Timeout > 0 {
		r.Use(middleware.Timeout(cfg.Timeout))
	}

	r.Get("/healthz", handleHealth(cfg.Health))
	if cfg.Registry != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(cfg.Registry))
	}

	r.Group(func(api chi.Router) {
		api.Use(middleware.ContentTypeJSON)
		api.Use(middleware.RequireAuth(cfg.Validator, cfg.Logger))

		NewRegistryHandler(cfg.Gateway, cfg.Logger).Register(api)
		NewDelegationHandler(cfg.Gateway, cfg.Logger).Register(api)
		NewAdminHandler(cfg.Gateway, cfg.Logger).Register(api)
		if cfg.Dispatcher != nil {
			NewRelayHandler(cfg.Dispatcher, platformSource(cfg.Gateway), cfg.PlatformOnly, cfg.Logger).Register(api)
		}
	})

	return r
}

// platformSource reads the live platform address when the gateway exposes
// one; mocks that do not are treated as having no platform.
func platformSource(gateway GatewayService) func() domain.Address {
	if src, ok := gateway.(interface{ PlatformAddress() domain.Address }); ok {
		return src.PlatformAddress
	}
	return func() domain.Address { return domain.Address{} }
}

func handleHealth(checks map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		detail := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check.Health(ctx); err != nil {
				status = http.StatusServiceUnavailable
				detail[name] = err.Error()
				continue
			}
			detail[name] = "ok"
		}
		writeJSON(w, status, map[string]any{
			"status": http.StatusText(status),
			"checks": detail,
		})
	}
}
