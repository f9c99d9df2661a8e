// Package service provides the application services for tokclaim.
//
// This package contains:
//
//   - ClaimService: normalizes raw tokens, applies the per-requester
//     claim limit, calls the claim store and emits one audit event per
//     operation
//   - AuthService: API key authentication (bcrypt secrets), role
//     permissions and client IP allowlists
//   - RequesterLimiter: token bucket limiter keyed by requester
//
// Services are safe for concurrent use.
package service
