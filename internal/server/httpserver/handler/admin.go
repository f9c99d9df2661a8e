package handler

import (
	"net/http"
	"time"

	"github.com/yndnr/tokclaim-go/internal/core/domain"
	"github.com/yndnr/tokclaim-go/internal/infra/buildinfo"
)

// handleListAllowList handles GET /admin/v1/allowlist.
func (h *Handler) handleListAllowList(w http.ResponseWriter, r *http.Request) {
	h.writeTokenList(w, r, domain.SetAllowed)
}

// handleListClaims handles GET /admin/v1/claims.
func (h *Handler) handleListClaims(w http.ResponseWriter, r *http.Request) {
	h.writeTokenList(w, r, domain.SetClaimed)
}

func (h *Handler) writeTokenList(w http.ResponseWriter, r *http.Request, set domain.Set) {
	tokens := h.claims.List(set)
	if tokens == nil {
		tokens = []domain.Token{}
	}
	h.writeJSON(w, r, http.StatusOK, TokenListResponse{
		Set:    set.String(),
		Count:  len(tokens),
		Tokens: tokens,
	})
}

// handleAddToken handles POST /admin/v1/allowlist.
func (h *Handler) handleAddToken(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if err := decode(r, w, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	token, result, err := h.claims.AddToken(r.Context(), principal(r), req.Token)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, AddTokenResponse{
		Token:   token,
		Result:  result,
		Message: result.Message(),
	})
}

// handleRemoveToken handles POST /admin/v1/allowlist/remove.
func (h *Handler) handleRemoveToken(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if err := decode(r, w, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	token, result, err := h.claims.RemoveToken(r.Context(), principal(r), req.Token)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, RemoveTokenResponse{
		Token:   token,
		Result:  result,
		Message: result.Message(),
	})
}

// handleInspectToken handles GET /admin/v1/tokens/{token}.
func (h *Handler) handleInspectToken(w http.ResponseWriter, r *http.Request) {
	status, err := h.claims.Inspect(r.PathValue("token"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, status)
}

// handleStatusSummary handles GET /admin/v1/status/summary.
func (h *Handler) handleStatusSummary(w http.ResponseWriter, r *http.Request) {
	stats := h.claims.Stats()
	h.writeJSON(w, r, http.StatusOK, StatusSummary{
		Build:         buildinfo.Get(),
		Backend:       stats.Backend,
		Allowed:       stats.Allowed,
		Claimed:       stats.Claimed,
		StartedAt:     h.started.UTC(),
		UptimeSeconds: int64(time.Since(h.started).Seconds()),
	})
}
