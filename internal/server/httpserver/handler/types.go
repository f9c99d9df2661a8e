package handler

import (
	"time"

	"github.com/yndnr/tokclaim-go/internal/core/domain"
	"github.com/yndnr/tokclaim-go/internal/infra/buildinfo"
)

// Response is the standard API response envelope.
// All JSON responses use this format (except /metrics which uses Prometheus format).
type Response struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Timestamp int64  `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
	Details   string `json:"details,omitempty"`
}

// NewResponse creates a success response.
func NewResponse(requestID string, data any) *Response {
	return &Response{
		Code:      "OK",
		Message:   "Success",
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Data:      data,
	}
}

// NewErrorResponse creates an error response.
func NewErrorResponse(requestID, code, message, details string) *Response {
	return &Response{
		Code:      code,
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Details:   details,
	}
}

// ClaimRequest is the request body for POST /v1/claims. Requester
// defaults to the calling API key.
type ClaimRequest struct {
	Token     string `json:"token"`
	Requester string `json:"requester,omitempty"`
}

// ClaimResponse is the response body for POST /v1/claims.
type ClaimResponse struct {
	Token   domain.Token       `json:"token"`
	Result  domain.ClaimResult `json:"result"`
	Message string             `json:"message"`
}

// TokenRequest is the request body for allow-list mutations.
type TokenRequest struct {
	Token string `json:"token"`
}

// AddTokenResponse is the response body for POST /admin/v1/allowlist.
type AddTokenResponse struct {
	Token   domain.Token     `json:"token"`
	Result  domain.AddResult `json:"result"`
	Message string           `json:"message"`
}

// RemoveTokenResponse is the response body for POST /admin/v1/allowlist/remove.
type RemoveTokenResponse struct {
	Token   domain.Token        `json:"token"`
	Result  domain.RemoveResult `json:"result"`
	Message string              `json:"message"`
}

// TokenListResponse is the response body for the listing endpoints.
type TokenListResponse struct {
	Set    string         `json:"set"`
	Count  int            `json:"count"`
	Tokens []domain.Token `json:"tokens"`
}

// StatusSummary is the response body for GET /admin/v1/status/summary.
type StatusSummary struct {
	Build         buildinfo.Info `json:"build"`
	Backend       string         `json:"backend"`
	Allowed       int            `json:"allowed"`
	Claimed       int            `json:"claimed"`
	StartedAt     time.Time      `json:"started_at"`
	UptimeSeconds int64          `json:"uptime_seconds"`
}
