// Package handler provides HTTP request handlers for tokclaim.
//
// Files:
//
//   - claim.go: token claims
//   - admin.go: allow-list management, token inspection and status
//   - health.go: liveness and readiness checks
//
// Handlers parse the request, call the claim service and write the
// standard response envelope. Business outcomes (already claimed, not
// allowed, not found) are 200 responses carrying a result value; only
// caller errors and faults use error status codes.
package handler
