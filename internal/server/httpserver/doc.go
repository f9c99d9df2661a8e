// Package httpserver provides the HTTP/HTTPS server for tokclaim.
//
// Routes:
//
//   - Claim endpoint: POST /v1/claims
//   - Admin endpoints: /admin/v1/allowlist, /admin/v1/claims, /admin/v1/tokens/{token}, /admin/v1/status/summary
//   - Health endpoints: /health, /ready, /metrics
//
// Middleware chain: Recover, RequestID, AccessLog, Auth.
package httpserver
