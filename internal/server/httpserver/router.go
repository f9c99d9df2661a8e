package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/yndnr/tokclaim-go/internal/core/service"
	"github.com/yndnr/tokclaim-go/internal/server/httpserver/handler"
	"github.com/yndnr/tokclaim-go/internal/telemetry/metric"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// Claims serves claim and allow-list operations.
	Claims *service.ClaimService

	// AuthService authenticates API keys.
	AuthService *service.AuthService

	// Metrics is exposed on /metrics and records request metrics. Optional.
	Metrics *metric.Registry

	// Logger for request logging.
	Logger *slog.Logger

	// MetricsAuthRequired indicates if /metrics endpoint requires authentication.
	MetricsAuthRequired bool

	// Ready reports readiness for GET /ready. Nil means always ready.
	Ready func() bool
}

// NewRouter creates and configures the HTTP router with all routes and middleware.
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	var opts []handler.Option
	if cfg.Ready != nil {
		opts = append(opts, handler.WithReadiness(cfg.Ready))
	}
	h := handler.New(cfg.Claims, log, opts...)

	base := baseMiddleware(log, cfg.Metrics)
	guarded := func(perm service.Permission) http.Handler {
		return Chain(h, append(base[:len(base):len(base)], Auth(cfg.AuthService, perm))...)
	}

	mux := http.NewServeMux()

	// Health endpoints - no authentication required
	public := Chain(h, base...)
	mux.Handle("GET /health", public)
	mux.Handle("GET /ready", public)

	if cfg.Metrics != nil {
		var metrics http.Handler = cfg.Metrics.Handler()
		if cfg.MetricsAuthRequired {
			metrics = Chain(metrics, append(base[:len(base):len(base)], Auth(cfg.AuthService, service.PermMetricsRead))...)
		} else {
			metrics = Chain(metrics, base...)
		}
		mux.Handle("GET /metrics", metrics)
	}

	mux.Handle("POST /v1/claims", guarded(service.PermClaim))

	read := guarded(service.PermAllowListRead)
	mux.Handle("GET /admin/v1/allowlist", read)
	mux.Handle("GET /admin/v1/claims", read)
	mux.Handle("GET /admin/v1/tokens/{token}", read)

	write := guarded(service.PermAllowListWrite)
	mux.Handle("POST /admin/v1/allowlist", write)
	mux.Handle("POST /admin/v1/allowlist/remove", write)

	mux.Handle("GET /admin/v1/status/summary", guarded(service.PermStatusRead))

	return mux
}

// baseMiddleware is applied to every route, outermost first. RequestID
// wraps Recover so a recovered panic still carries the request ID.
func baseMiddleware(log *slog.Logger, metrics *metric.Registry) []Middleware {
	return []Middleware{RequestID(), Recover(log), AccessLog(log, metrics)}
}
