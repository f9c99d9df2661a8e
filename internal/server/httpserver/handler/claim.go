package handler

import (
	"net/http"
	"strings"
)

// handleClaim handles POST /v1/claims.
func (h *Handler) handleClaim(w http.ResponseWriter, r *http.Request) {
	var req ClaimRequest
	if err := decode(r, w, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	requester := strings.TrimSpace(req.Requester)
	if requester == "" {
		requester = principal(r)
	}

	outcome, err := h.claims.Claim(r.Context(), requester, req.Token)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, ClaimResponse{
		Token:   outcome.Token,
		Result:  outcome.Result,
		Message: outcome.Result.Message(),
	})
}
