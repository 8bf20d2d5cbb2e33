package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// RouteRegistrar is implemented by each module's HTTP handlers.
type RouteRegistrar interface {
	RegisterRoutes(r chi.Router)
}

type RouterConfig struct {
	AllowedOrigins []string
	RateLimit      float64
	RateBurst      int
}

// NewRouter builds the root router with the shared middleware, the ambient
// endpoints and every module's routes. gatherer may be nil to skip /metrics.
func NewRouter(cfg RouterConfig, logger *slog.Logger, gatherer prometheus.Gatherer, modules ...RouteRegistrar) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(CorrelationID)
	r.Use(RequestLogger(logger))
	r.Use(CORS(cfg.AllowedOrigins))
	if cfg.RateLimit > 0 {
		r.Use(RateLimitMiddleware(NewIPRateLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	for _, m := range modules {
		m.RegisterRoutes(r)
	}
	return r
}
