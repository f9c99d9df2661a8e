package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/yndnr/tokclaim-go/internal/core/domain"
	"github.com/yndnr/tokclaim-go/internal/core/service"
	"github.com/yndnr/tokclaim-go/internal/telemetry/logger"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 64 << 10

// Handler serves the tokclaim HTTP API.
type Handler struct {
	claims  *service.ClaimService
	logger  *slog.Logger
	ready   func() bool
	started time.Time
	mux     *http.ServeMux
}

// Option configures a Handler.
type Option func(*Handler)

// WithReadiness sets the readiness probe used by GET /ready.
func WithReadiness(ready func() bool) Option {
	return func(h *Handler) { h.ready = ready }
}

// New creates a Handler over the claim service.
func New(claims *service.ClaimService, logger *slog.Logger, opts ...Option) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		claims:  claims,
		logger:  logger,
		ready:   func() bool { return true },
		started: time.Now(),
		mux:     http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(h)
	}

	h.registerRoutes()
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.mux.HandleFunc("GET /health", h.handleHealth)
	h.mux.HandleFunc("GET /ready", h.handleReady)

	h.mux.HandleFunc("POST /v1/claims", h.handleClaim)

	h.mux.HandleFunc("GET /admin/v1/allowlist", h.handleListAllowList)
	h.mux.HandleFunc("POST /admin/v1/allowlist", h.handleAddToken)
	h.mux.HandleFunc("POST /admin/v1/allowlist/remove", h.handleRemoveToken)
	h.mux.HandleFunc("GET /admin/v1/claims", h.handleListClaims)
	h.mux.HandleFunc("GET /admin/v1/tokens/{token}", h.handleInspectToken)
	h.mux.HandleFunc("GET /admin/v1/status/summary", h.handleStatusSummary)
}

type apiKeyContextKey struct{}

// WithAPIKey returns a context carrying the authenticated API key.
func WithAPIKey(ctx context.Context, key *service.APIKey) context.Context {
	return context.WithValue(ctx, apiKeyContextKey{}, key)
}

// APIKeyFromContext returns the authenticated API key, or nil.
func APIKeyFromContext(ctx context.Context) *service.APIKey {
	key, _ := ctx.Value(apiKeyContextKey{}).(*service.APIKey)
	return key
}

// principal names the caller for audit purposes.
func principal(r *http.Request) string {
	if key := APIKeyFromContext(r.Context()); key != nil {
		return "apikey:" + key.KeyID
	}
	return "anonymous"
}

// decode reads a JSON body into v.
func decode(r *http.Request, w http.ResponseWriter, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.ErrBadRequest.WithDetails("empty request body")
		}
		return domain.ErrBadRequest.WithDetails("invalid request body: " + err.Error())
	}
	return nil
}

// writeJSON writes a success response in the standard envelope.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	requestID := logger.RequestIDFromContext(r.Context())
	response := NewResponse(requestID, data)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("failed to encode response", "request_id", requestID, "error", err)
	}
}

// writeError writes an error response in the standard envelope.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, code, message, details string) {
	WriteError(w, logger.RequestIDFromContext(r.Context()), status, code, message, details)
}

// WriteError writes an error envelope. Middleware uses it for failures
// that happen before a handler runs.
func WriteError(w http.ResponseWriter, requestID string, status int, code, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Error-Code", code)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(NewErrorResponse(requestID, code, message, details))
}

// handleServiceError converts service errors to HTTP responses.
func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var de *domain.DomainError
	if errors.As(err, &de) {
		status := StatusForCode(de.Code)
		if status >= http.StatusInternalServerError {
			h.logger.Error("request failed", "request_id", logger.RequestIDFromContext(r.Context()), "code", de.Code, "error", err)
		}
		h.writeError(w, r, status, de.Code, de.Message, de.Details)
		return
	}

	h.logger.Error("internal error", "request_id", logger.RequestIDFromContext(r.Context()), "error", err)
	h.writeError(w, r, http.StatusInternalServerError, domain.ErrInternalServer.Code, domain.ErrInternalServer.Message, "")
}

// StatusForCode maps a domain error code to an HTTP status.
func StatusForCode(code string) int {
	switch code {
	case domain.ErrInvalidToken.Code, domain.ErrBadRequest.Code, domain.ErrRequesterRequired.Code:
		return http.StatusBadRequest
	case domain.ErrAPIKeyMissing.Code, domain.ErrAPIKeyInvalid.Code:
		return http.StatusUnauthorized
	case domain.ErrPermissionDenied.Code, domain.ErrIPNotAllowed.Code:
		return http.StatusForbidden
	case domain.ErrRateLimited.Code:
		return http.StatusTooManyRequests
	case domain.ErrPersistenceFailure.Code, domain.ErrStoreClosed.Code:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
